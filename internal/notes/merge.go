package notes

import "strings"

// Defaults supplies the placeholder metadata used when the first segment
// yields none.
type Defaults struct {
	Title   string
	Subject string
}

// Merge folds per-segment partial results into one master record.
//
// Document title and subject come exclusively from the first segment's
// result, falling back to the defaults when absent or blank. Topics are
// appended in segment order, then within-segment order. Nothing is
// deduplicated or reordered: repeated topic titles across segments stay
// as separate entries.
func Merge(parts []PartialResult, defaults Defaults) MasterRecord {
	rec := MasterRecord{
		DocumentTitle: defaults.Title,
		Subject:       defaults.Subject,
		Topics:        []Topic{},
	}

	if len(parts) > 0 {
		if t := strings.TrimSpace(parts[0].Title); t != "" {
			rec.DocumentTitle = t
		}
		if s := strings.TrimSpace(parts[0].Subject); s != "" {
			rec.Subject = s
		}
	}

	for _, p := range parts {
		rec.Topics = append(rec.Topics, p.Topics...)
	}

	return rec
}
