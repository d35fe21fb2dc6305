package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in an image payload. Implementations receive
// PNG-encoded bytes.
type Engine interface {
	Recognize(ctx context.Context, img []byte) (string, error)
}

// Tesseract recognizes text through the native tesseract library via
// github.com/otiai10/gosseract. A fresh client is created per call because
// gosseract clients are not safe for concurrent use.
type Tesseract struct {
	// Languages passed to tesseract, e.g. "eng". Empty uses the library default.
	Languages []string
}

var _ Engine = (*Tesseract)(nil)

func (t *Tesseract) Recognize(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if len(t.Languages) > 0 {
		if err := client.SetLanguage(t.Languages...); err != nil {
			return "", fmt.Errorf("ocr set language: %w", err)
		}
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("ocr set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}
