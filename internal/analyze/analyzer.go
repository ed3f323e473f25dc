// Package analyze turns one document segment into a structured partial
// result via an external model, absorbing every failure along the way.
package analyze

import (
	"context"
	"log/slog"
	"time"

	"github.com/nexusedu/studygen/internal/chunker"
	"github.com/nexusedu/studygen/internal/notes"
)

// Analyzer obtains a PartialResult for a single segment. A failed model
// call never propagates: the analyzer logs it and substitutes the safe
// empty result, so one bad segment cannot abort the document.
type Analyzer struct {
	client     Client
	log        *slog.Logger
	timeout    time.Duration
	maxRetries int
}

func NewAnalyzer(client Client, log *slog.Logger, timeout time.Duration, maxRetries int) *Analyzer {
	return &Analyzer{
		client:     client,
		log:        log,
		timeout:    timeout,
		maxRetries: maxRetries,
	}
}

// Analyze builds the segment prompt, calls the model with a per-call
// timeout, and decodes the response. Transient errors are retried with
// backoff up to the configured limit; anything else falls through to the
// safe empty result.
func (a *Analyzer) Analyze(ctx context.Context, seg chunker.Segment) notes.PartialResult {
	log := a.log.With("segment", seg.Index)
	prompt := BuildSegmentPrompt(seg)

	var raw string
	var err error
	for attempt := 0; ; attempt++ {
		raw, err = a.generate(ctx, prompt)
		if err == nil {
			break
		}
		if attempt >= a.maxRetries || !IsRetryable(err) {
			log.Warn("segment analysis failed, using empty result", "attempts", attempt+1, "error", err)
			return notes.EmptyPartial()
		}
		log.Warn("retryable model error", "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			log.Warn("segment analysis canceled, using empty result", "error", ctx.Err())
			return notes.EmptyPartial()
		}
	}

	part, err := DecodePartial(raw)
	if err != nil {
		log.Warn("unparseable model response, using empty result", "error", err)
		return notes.EmptyPartial()
	}

	// Metadata is only meaningful on the first segment, even if the model
	// volunteers it elsewhere.
	if !seg.First {
		part.Title = ""
		part.Subject = ""
	}
	if part.Topics == nil {
		part.Topics = []notes.Topic{}
	}

	log.Debug("segment analyzed", "topics", len(part.Topics))
	return part
}

func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.client.Generate(ctx, prompt)
}
