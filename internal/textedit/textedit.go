// Package textedit applies str_replace edits returned by an LLM's
// text-editor tool.
package textedit

import (
	"errors"
	"strings"
)

// ErrNoEdits is returned when a model answered without any replacements.
var ErrNoEdits = errors.New("model returned no edits")

// Replacement swaps the first occurrence of Old with New.
type Replacement struct {
	Old string `json:"old_str"`
	New string `json:"new_str"`
}

// Apply runs the replacements against text in order. Each one sees the
// result of the previous one; a replacement whose Old is absent is a no-op.
func Apply(text string, reps []Replacement) string {
	for _, r := range reps {
		text = strings.Replace(text, r.Old, r.New, 1)
	}
	return text
}

// Missing returns the replacements whose Old text was not found when
// applied in order.
func Missing(text string, reps []Replacement) []Replacement {
	var missing []Replacement
	for _, r := range reps {
		if !strings.Contains(text, r.Old) {
			missing = append(missing, r)
			continue
		}
		text = strings.Replace(text, r.Old, r.New, 1)
	}
	return missing
}
