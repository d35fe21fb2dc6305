package summarize

import (
	"context"
	"errors"
	"testing"
)

type stubStage struct {
	out string
	err error
}

func (s stubStage) Summarize(context.Context, string) (string, error) {
	return s.out, s.err
}

func TestChainFirstSuccessWins(t *testing.T) {
	chain := NewChain(stubStage{out: "remote summary"}, Deterministic{})

	got, err := chain.Summarize(context.Background(), "BP: 140/90")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "remote summary" {
		t.Fatalf("expected remote result, got %q", got)
	}
}

func TestChainFallsBackOnError(t *testing.T) {
	chain := NewChain(stubStage{err: errors.New("connection refused")}, Deterministic{})

	got, err := chain.Summarize(context.Background(), "BP: 140/90\nHR: 72")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "BP: 140/90 (please consult a doctor). HR: 72 (please consult a doctor)." {
		t.Fatalf("unexpected fallback result: %q", got)
	}
}

func TestChainFallsBackOnBlankResult(t *testing.T) {
	chain := NewChain(stubStage{out: "   "}, Deterministic{})

	got, err := chain.Summarize(context.Background(), "")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "No readable text found." {
		t.Fatalf("unexpected fallback result: %q", got)
	}
}

func TestChainAllStagesFail(t *testing.T) {
	chain := NewChain(stubStage{err: errors.New("down")}, stubStage{out: ""})

	if _, err := chain.Summarize(context.Background(), "text"); err == nil {
		t.Fatal("expected error when no stage produces a result")
	}
}

func TestNewAlwaysEndsWithFallback(t *testing.T) {
	pipeline := New(stubStage{err: errors.New("remote down")})

	got, err := pipeline.Summarize(context.Background(), "")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "No readable text found." {
		t.Fatalf("unexpected result: %q", got)
	}

	pipeline = New(nil)
	got, err = pipeline.Summarize(context.Background(), "HR: 72")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "HR: 72 (please consult a doctor)." {
		t.Fatalf("unexpected result: %q", got)
	}
}
