// Package chunker partitions extracted document text into bounded-size
// segments, the unit of work sent to the model.
package chunker

// Segment is a contiguous slice of the document text.
type Segment struct {
	Index int
	Text  string
	First bool
}

// Split cuts text into consecutive segments of at most chunkSize characters.
// The cut points are deliberately blind to sentence or paragraph boundaries:
// the model tolerates mid-sentence cuts, and a fixed walk keeps the planner
// trivially correct. Concatenating the segments in index order reproduces
// the input exactly.
//
// chunkSize <= 0 disables chunking and yields the whole text as a single
// segment. Empty text yields no segments.
func Split(text string, chunkSize int) []Segment {
	if text == "" {
		return nil
	}
	if chunkSize <= 0 {
		return []Segment{{Index: 0, Text: text, First: true}}
	}

	runes := []rune(text)
	segments := make([]Segment, 0, (len(runes)+chunkSize-1)/chunkSize)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		idx := len(segments)
		segments = append(segments, Segment{
			Index: idx,
			Text:  string(runes[start:end]),
			First: idx == 0,
		})
	}
	return segments
}
