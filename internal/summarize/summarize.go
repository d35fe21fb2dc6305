package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/metrics"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/telemetry"
)

// Summarizer turns extracted document text into a short plain-language summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// New assembles the standard pipeline: the optional remote stage first, then
// the deterministic fallback. Pass nil when no remote service is configured.
func New(remote Summarizer) Summarizer {
	if remote == nil {
		return NewChain(Deterministic{})
	}
	return NewChain(remote, Deterministic{})
}

// Chain tries each stage in order and returns the first non-empty result.
type Chain struct {
	stages []Summarizer
}

func NewChain(stages ...Summarizer) *Chain {
	return &Chain{stages: stages}
}

func (c *Chain) Summarize(ctx context.Context, text string) (string, error) {
	for i, stage := range c.stages {
		out, err := stage.Summarize(ctx, text)
		if err != nil {
			telemetry.Info("summary.stage_failed", map[string]any{
				"stage": fmt.Sprintf("%T", stage),
				"error": err.Error(),
			})
			continue
		}
		if strings.TrimSpace(out) == "" {
			continue
		}
		if i > 0 {
			metrics.IncSummaryFallback()
		}
		return out, nil
	}
	return "", errors.New("no summarizer produced a result")
}

var _ Summarizer = (*Chain)(nil)
