package analyze

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/nexusedu/studygen/internal/chunker"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeClient) Generate(ctx context.Context, prompt string) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", fmt.Errorf("no scripted response for call %d", i)
}

const validResponse = `{
	"title": "Thermodynamics",
	"subject": "Physics",
	"topics": [
		{"title": "Heat", "subtopics": [
			{"title": "Entropy", "explanation": "A measure of disorder.", "key_concepts": ["second law"]}
		]}
	]
}`

func TestAnalyze_ValidResponse(t *testing.T) {
	fc := &fakeClient{responses: []string{validResponse}}
	a := NewAnalyzer(fc, discard, time.Second, 0)

	part := a.Analyze(context.Background(), chunker.Segment{Index: 0, Text: "some text", First: true})
	if part.Title != "Thermodynamics" || part.Subject != "Physics" {
		t.Errorf("unexpected metadata: %q / %q", part.Title, part.Subject)
	}
	if len(part.Topics) != 1 || part.Topics[0].Title != "Heat" {
		t.Fatalf("unexpected topics: %#v", part.Topics)
	}
	if got := part.Topics[0].Subtopics[0].KeyConcepts[0]; got != "second law" {
		t.Errorf("unexpected key concept %q", got)
	}
}

func TestAnalyze_MetadataStrippedForLaterSegments(t *testing.T) {
	fc := &fakeClient{responses: []string{validResponse}}
	a := NewAnalyzer(fc, discard, time.Second, 0)

	part := a.Analyze(context.Background(), chunker.Segment{Index: 3, Text: "mid text", First: false})
	if part.Title != "" || part.Subject != "" {
		t.Errorf("non-first segment must not carry metadata, got %q / %q", part.Title, part.Subject)
	}
	if len(part.Topics) != 1 {
		t.Errorf("topics must still be kept, got %d", len(part.Topics))
	}
}

func TestAnalyze_PromptDifferentiation(t *testing.T) {
	fc := &fakeClient{responses: []string{validResponse, validResponse}}
	a := NewAnalyzer(fc, discard, time.Second, 0)

	a.Analyze(context.Background(), chunker.Segment{Index: 0, Text: "first", First: true})
	a.Analyze(context.Background(), chunker.Segment{Index: 1, Text: "second", First: false})

	if !strings.Contains(fc.prompts[0], `"subject"`) {
		t.Error("first segment prompt must request document metadata")
	}
	if strings.Contains(fc.prompts[1], `"subject": the academic subject`) {
		t.Error("later segment prompts must not request document metadata")
	}
	if !strings.Contains(fc.prompts[1], "second") {
		t.Error("prompt must embed the segment text")
	}
}

func TestAnalyze_ModelErrorYieldsSafeEmpty(t *testing.T) {
	fc := &fakeClient{errs: []error{fmt.Errorf("network down")}}
	a := NewAnalyzer(fc, discard, time.Second, 2)

	part := a.Analyze(context.Background(), chunker.Segment{Index: 0, Text: "x", First: true})
	if len(part.Topics) != 0 {
		t.Errorf("expected empty topics after failure, got %d", len(part.Topics))
	}
	if part.Title != "" || part.Subject != "" {
		t.Error("safe empty result must carry no metadata")
	}
	if fc.calls != 1 {
		t.Errorf("non-retryable error must not be retried, got %d calls", fc.calls)
	}
}

func TestAnalyze_RetryableErrorIsRetried(t *testing.T) {
	fc := &fakeClient{
		errs:      []error{&RetryableError{StatusCode: 429, Message: "slow down"}, nil},
		responses: []string{"", validResponse},
	}
	a := NewAnalyzer(fc, discard, time.Second, 2)

	part := a.Analyze(context.Background(), chunker.Segment{Index: 0, Text: "x", First: true})
	if fc.calls != 2 {
		t.Fatalf("expected 2 calls (1 retry), got %d", fc.calls)
	}
	if len(part.Topics) != 1 {
		t.Errorf("expected successful result after retry, got %#v", part.Topics)
	}
}

func TestAnalyze_UnparseableResponseYieldsSafeEmpty(t *testing.T) {
	fc := &fakeClient{responses: []string{"I'm sorry, I cannot help with that."}}
	a := NewAnalyzer(fc, discard, time.Second, 0)

	part := a.Analyze(context.Background(), chunker.Segment{Index: 1, Text: "x"})
	if len(part.Topics) != 0 {
		t.Errorf("expected empty topics for garbage response, got %d", len(part.Topics))
	}
}

func TestDecodePartial_CodeFencedResponse(t *testing.T) {
	raw := "```json\n" + validResponse + "\n```"
	part, err := DecodePartial(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if part.Title != "Thermodynamics" {
		t.Errorf("expected title, got %q", part.Title)
	}
}

func TestDecodePartial_NoisyWrapperText(t *testing.T) {
	raw := "Sure! Here are your study notes:\n" + validResponse + "\nLet me know if you need more."
	part, err := DecodePartial(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(part.Topics) != 1 {
		t.Errorf("expected 1 topic, got %d", len(part.Topics))
	}
}

func TestDecodePartial_NoObject(t *testing.T) {
	if _, err := DecodePartial("no braces here"); err == nil {
		t.Fatal("expected error when no JSON object present")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&RetryableError{StatusCode: 503}) {
		t.Error("RetryableError must be retryable")
	}
	if IsRetryable(fmt.Errorf("plain failure")) {
		t.Error("plain errors must not be retryable")
	}
	if IsRetryable(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)) {
		t.Error("timeouts are treated as plain failures")
	}
}
