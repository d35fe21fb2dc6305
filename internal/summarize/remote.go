package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	apiURL          = "https://api.openai.com/v1/chat/completions"
	maxExcerptRunes = 4000

	instruction = "Summarize this medical report in 3 to 5 short sentences of plain language. " +
		"Keep a cautious tone and recommend consulting a doctor about any value that looks abnormal. " +
		"Do not invent findings that are not in the report."
)

// Remote summarizes through the OpenAI Chat Completions API. It is an
// optional stage: construction fails without a credential, and callers fall
// back to Deterministic on any request failure.
type Remote struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string
}

var _ Summarizer = (*Remote)(nil)

// NewRemote constructs the remote stage.
func NewRemote(apiKey, model string, timeout time.Duration) (*Remote, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("summary api key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("summary model is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Remote{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: apiURL,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (r *Remote) Summarize(ctx context.Context, text string) (string, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: excerpt(text)},
		},
		Temperature: &temp,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("summary request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("summary response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("summary service error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("summary response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("summary response empty content")
	}
	return content, nil
}

// excerpt bounds what is sent upstream to the first maxExcerptRunes runes.
func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= maxExcerptRunes {
		return text
	}
	return string(runes[:maxExcerptRunes])
}
