package analyze

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/nexusedu/studygen/internal/notes"
)

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// recoverJSONObject extracts the most plausible JSON object from a noisy
// model response: code-fence markers are stripped, then the text between
// the first '{' and the last '}' is taken. Returns false when no object
// boundary exists at all.
func recoverJSONObject(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) > 1 {
		s = m[1]
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// DecodePartial parses a model response into a PartialResult, tolerating
// the near-JSON output a text generator produces.
func DecodePartial(raw string) (notes.PartialResult, error) {
	obj, ok := recoverJSONObject(raw)
	if !ok {
		return notes.PartialResult{}, fmt.Errorf("no JSON object in response (raw: %s)", truncate(raw, 120))
	}
	var p notes.PartialResult
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return notes.PartialResult{}, fmt.Errorf("parse notes json: %w (raw: %s)", err, truncate(obj, 120))
	}
	return p, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
