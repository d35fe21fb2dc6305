package summarize

import (
	"context"
	"strings"
)

const (
	noReadableText  = "No readable text found."
	maxSummaryLines = 6
)

// Deterministic is the always-available fallback stage. It never errors and
// produces byte-identical output for identical input.
type Deterministic struct{}

var _ Summarizer = Deterministic{}

func (Deterministic) Summarize(_ context.Context, text string) (string, error) {
	return Fallback(text), nil
}

// Fallback renders the first few readable lines of a report as cautionary
// plain language. Lines shaped like "key: value" get a consult-a-doctor
// suffix; other lines pass through as written.
func Fallback(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(normalized) == "" {
		return noReadableText
	}

	var rendered []string
	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rendered = append(rendered, renderLine(line))
		if len(rendered) == maxSummaryLines {
			break
		}
	}
	return strings.Join(rendered, " ")
}

func renderLine(line string) string {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return line
	}
	key := strings.TrimSpace(line[:idx])
	value := strings.TrimSpace(line[idx+1:])
	return key + ": " + value + " (please consult a doctor)."
}
