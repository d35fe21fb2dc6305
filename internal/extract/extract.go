package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/extract/ocr"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
)

// ErrOCRUnavailable is returned for image documents when no OCR engine is
// configured.
var ErrOCRUnavailable = errors.New("ocr engine not configured")

// Engine pulls readable text out of stored medical documents. PDFs are read
// directly; images go through the optional OCR engine.
type Engine struct {
	OCR ocr.Engine
}

func New(ocrEngine ocr.Engine) *Engine {
	return &Engine{OCR: ocrEngine}
}

// TextFromStore opens a stored object and extracts its text.
func (e *Engine) TextFromStore(ctx context.Context, store object.ObjectStore, ownerID string, storedName string, kind object.Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, ownerID, storedName)
	if err != nil {
		return "", fmt.Errorf("extract text name=%s kind=%s: %w", storedName, kind, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text name=%s kind=%s: read: %w", storedName, kind, err)
	}

	text, err := e.Text(ctx, kind, raw)
	if err != nil {
		return "", fmt.Errorf("extract text name=%s kind=%s: %w", storedName, kind, err)
	}
	return text, nil
}

// Text extracts text from an in-memory payload.
func (e *Engine) Text(ctx context.Context, kind object.Kind, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch kind {
	case object.KindPDF:
		return pdfText(data)
	case object.KindImage:
		return e.imageText(ctx, data)
	default:
		return "", fmt.Errorf("unsupported document kind: %s", kind)
	}
}

// pdfText walks the document page by page so one unreadable page does not
// discard the rest. The pdf reader panics on some malformed cross-reference
// tables, hence the recover.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		plain, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if trimmed := strings.TrimSpace(plain); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}
	return strings.Join(pages, "\n"), nil
}

func (e *Engine) imageText(ctx context.Context, data []byte) (string, error) {
	if e.OCR == nil {
		return "", ErrOCRUnavailable
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if format == "png" {
		return e.OCR.Recognize(ctx, data)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode image for ocr: %w", err)
	}
	return e.OCR.Recognize(ctx, buf.Bytes())
}
