package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/devbin/devbin/internal/prctx"
)

// JSONWriter outputs the context as a JSON document.
type JSONWriter struct{}

type jsonSection struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

type jsonContext struct {
	Repo     string        `json:"repo"`
	Number   int           `json:"number"`
	URL      string        `json:"url"`
	Sections []jsonSection `json:"sections"`
}

func (j *JSONWriter) Write(w io.Writer, ref prctx.PRRef, c prctx.Context) error {
	doc := jsonContext{
		Repo:     ref.RepoRef.String(),
		Number:   ref.Number,
		URL:      ref.URL(),
		Sections: make([]jsonSection, 0, len(c.Sections)),
	}
	for _, s := range c.Sections {
		doc.Sections = append(doc.Sections, jsonSection{Name: s.Name, Body: s.Body})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
