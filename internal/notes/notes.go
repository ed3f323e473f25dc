// Package notes holds the structured study-guide model produced by document
// analysis, and the merge that folds per-segment results into one record.
package notes

// Subtopic is one unit of study material inside a topic.
type Subtopic struct {
	Title       string   `json:"title"`
	Explanation string   `json:"explanation"`
	KeyConcepts []string `json:"key_concepts"`
}

// Topic groups related subtopics under a heading.
type Topic struct {
	Title     string     `json:"title"`
	Subtopics []Subtopic `json:"subtopics"`
}

// PartialResult is the structured output of analyzing a single segment.
// Title and Subject are only populated for the first segment.
type PartialResult struct {
	Title   string  `json:"title,omitempty"`
	Subject string  `json:"subject,omitempty"`
	Topics  []Topic `json:"topics"`
}

// EmptyPartial is the safe fallback substituted when a segment's analysis
// fails. It contributes nothing to the merged record.
func EmptyPartial() PartialResult {
	return PartialResult{Topics: []Topic{}}
}

// MasterRecord is the document-level merged result.
type MasterRecord struct {
	DocumentTitle string  `json:"document_title"`
	Subject       string  `json:"subject"`
	Topics        []Topic `json:"topics"`
}
