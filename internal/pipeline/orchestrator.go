// Package pipeline drives a document through normalize, plan, analyze,
// merge and persist.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nexusedu/studygen/internal/chunker"
	"github.com/nexusedu/studygen/internal/notes"
)

// Status is the orchestrator's position in the document state machine.
type Status string

const (
	StatusReceived    Status = "received"
	StatusNormalizing Status = "normalizing"
	StatusPlanning    Status = "planning"
	StatusAnalyzing   Status = "analyzing"
	StatusMerging     Status = "merging"
	StatusPersisting  Status = "persisting"
	StatusCompleted   Status = "completed"
	StatusRejected    Status = "rejected"
)

// Progress is advisory instrumentation: segment totals are only meaningful
// from StatusAnalyzing onward.
type Progress struct {
	Status         Status
	TotalSegments  int
	CurrentSegment int
}

// TextExtractor turns raw document bytes into plain text.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// SegmentAnalyzer produces a partial result for one segment. It must not
// fail: segment-level errors are absorbed into the safe empty result.
type SegmentAnalyzer interface {
	Analyze(ctx context.Context, seg chunker.Segment) notes.PartialResult
}

// Recorder appends one completed document to the history log.
type Recorder interface {
	Append(ctx context.Context, filename, summary string) error
}

// RejectedError reports a document whose extracted text is below the
// viability threshold. It is the only condition that aborts the pipeline
// before analysis begins.
type RejectedError struct {
	TextLen int
	Min     int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("document text too short to analyze (%d chars, minimum %d)", e.TextLen, e.Min)
}

// Orchestrator runs the full analysis pipeline for one document at a time.
// Segments are processed strictly sequentially: at most one model call is
// in flight per document, and merge order falls out of iteration order.
type Orchestrator struct {
	extractor TextExtractor
	analyzer  SegmentAnalyzer
	recorder  Recorder
	log       *slog.Logger

	chunkSize     int
	minTextLength int
	defaults      notes.Defaults

	// OnProgress, when set, observes every state transition.
	OnProgress func(Progress)
}

func NewOrchestrator(extractor TextExtractor, analyzer SegmentAnalyzer, recorder Recorder, log *slog.Logger, chunkSize, minTextLength int, defaults notes.Defaults) *Orchestrator {
	return &Orchestrator{
		extractor:     extractor,
		analyzer:      analyzer,
		recorder:      recorder,
		log:           log,
		chunkSize:     chunkSize,
		minTextLength: minTextLength,
		defaults:      defaults,
	}
}

// Process analyzes one uploaded document and returns the merged record.
// A *RejectedError means the input was unreadable or too short; any other
// error is a document-level persistence failure. Per-segment failures never
// surface here.
func (o *Orchestrator) Process(ctx context.Context, filename string, data []byte) (notes.MasterRecord, error) {
	log := o.log.With("filename", filename)
	o.report(Progress{Status: StatusReceived})

	o.report(Progress{Status: StatusNormalizing})
	text, err := o.extractor.ExtractText(data)
	if err != nil {
		// Unreadable input degrades to empty text and fails the
		// viability check below.
		log.Warn("text extraction failed", "error", err)
		text = ""
	}

	textLen := len([]rune(text))
	if textLen < o.minTextLength {
		o.report(Progress{Status: StatusRejected})
		log.Info("document rejected", "text_len", textLen, "min", o.minTextLength)
		return notes.MasterRecord{}, &RejectedError{TextLen: textLen, Min: o.minTextLength}
	}

	o.report(Progress{Status: StatusPlanning})
	segments := chunker.Split(text, o.chunkSize)
	log.Info("planned segments", "count", len(segments), "text_len", textLen)

	parts := make([]notes.PartialResult, 0, len(segments))
	for i, seg := range segments {
		o.report(Progress{Status: StatusAnalyzing, TotalSegments: len(segments), CurrentSegment: i})
		parts = append(parts, o.analyzer.Analyze(ctx, seg))
	}

	o.report(Progress{Status: StatusMerging, TotalSegments: len(segments), CurrentSegment: len(segments)})
	record := notes.Merge(parts, o.defaults)

	o.report(Progress{Status: StatusPersisting})
	if o.recorder != nil {
		if err := o.recorder.Append(ctx, filename, record.DocumentTitle); err != nil {
			return notes.MasterRecord{}, fmt.Errorf("persist history: %w", err)
		}
	}

	o.report(Progress{Status: StatusCompleted})
	log.Info("analysis complete", "title", record.DocumentTitle, "topics", len(record.Topics))
	return record, nil
}

func (o *Orchestrator) report(p Progress) {
	if o.OnProgress != nil {
		o.OnProgress(p)
	}
}
