package analyze

import (
	"strings"

	"github.com/nexusedu/studygen/internal/chunker"
)

const notesInstructions = `You are an expert educator and study-guide author.
Analyze the document text below and expand it into dense, detailed study notes.

Return a strict JSON object with this exact shape:
{
  "topics": [
    {
      "title": "topic heading",
      "subtopics": [
        {
          "title": "subtopic heading",
          "explanation": "a dense, self-contained explanation of at least 100 words",
          "key_concepts": ["term 1", "term 2"]
        }
      ]
    }
  ]
}

Rules:
- Cover every topic present in the text, in the order it appears.
- Explanations must be detailed enough to study from without the original document.
- key_concepts lists the essential terms and definitions of the subtopic.
- Use only the document text below. Do not invent material that is not grounded in it.
- Respond with ONLY the JSON object, no commentary and no code fences.`

const metadataInstructions = `- Additionally include two top-level string fields:
  "title": the document's title, and "subject": the academic subject it belongs to.`

// BuildSegmentPrompt produces the model prompt for one segment. Only the
// first segment asks for document-level metadata; later segments are
// mid-document slices where a title guess would be noise.
func BuildSegmentPrompt(seg chunker.Segment) string {
	var sb strings.Builder
	sb.WriteString(notesInstructions)
	if seg.First {
		sb.WriteString("\n")
		sb.WriteString(metadataInstructions)
	}
	sb.WriteString("\n\nDOCUMENT TEXT:\n")
	sb.WriteString(seg.Text)
	return sb.String()
}
