package main

// Run the extraction and summarization stages against a local file without
// starting the server:
//   go run ./cmd/summarytest -file bloodwork.pdf
//   go run ./cmd/summarytest -file scan.png -ocr -remote

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/extract"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/extract/ocr"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/config"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/summarize"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	var opts struct {
		file     string
		ocr      bool
		remote   bool
		model    string
		showText bool
	}
	flag.StringVar(&opts.file, "file", "", "path to a pdf, png, jpg or jpeg file")
	flag.BoolVar(&opts.ocr, "ocr", cfg.OCREnabled, "run OCR for image files (requires tesseract)")
	flag.BoolVar(&opts.remote, "remote", false, "use the remote summarizer (requires OPENAI_API_KEY)")
	flag.StringVar(&opts.model, "model", cfg.SummaryModel, "remote summary model")
	flag.BoolVar(&opts.showText, "text", false, "print the extracted text before the summary")
	flag.Parse()

	if strings.TrimSpace(opts.file) == "" {
		return errors.New("file path is required")
	}

	kind, _, err := object.ValidateUpload(filepath.Base(opts.file))
	if err != nil {
		return fmt.Errorf("unsupported file: %w", err)
	}
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var engine ocr.Engine
	if opts.ocr {
		engine = &ocr.Tesseract{}
	}

	ctx := context.Background()
	text, err := extract.New(engine).Text(ctx, kind, data)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	var remote summarize.Summarizer
	if opts.remote {
		remote, err = summarize.NewRemote(os.Getenv("OPENAI_API_KEY"), opts.model, time.Duration(cfg.SummaryTimeout)*time.Second)
		if err != nil {
			return fmt.Errorf("remote summarizer: %w", err)
		}
	}
	summary, err := summarize.New(remote).Summarize(ctx, text)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	if opts.showText {
		fmt.Printf("extracted text (%d chars):\n%s\n\n", len(text), text)
	}
	fmt.Println(summary)
	return nil
}
