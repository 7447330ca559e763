package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devbin/devbin/internal/prctx"
)

// Writer writes a context in a specific format.
type Writer interface {
	Write(w io.Writer, ref prctx.PRRef, c prctx.Context) error
}

// Formats lists the accepted --format values.
var Formats = []string{"markdown", "json"}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "", "markdown", "md":
		return &MarkdownWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// MarkdownWriter writes the context document followed by a newline.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, _ prctx.PRRef, c prctx.Context) error {
	_, err := fmt.Fprintln(w, c.String())
	return err
}

// WriteContext writes c in format to outPath, or to stdout when outPath is
// empty.
func WriteContext(stdout io.Writer, outPath, format string, ref prctx.PRRef, c prctx.Context) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}
	return to(stdout, outPath, func(w io.Writer) error {
		return writer.Write(w, ref, c)
	})
}

// WriteText writes text, newline-terminated, to outPath or stdout.
func WriteText(stdout io.Writer, outPath, text string) error {
	return to(stdout, outPath, func(w io.Writer) error {
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		_, err := io.WriteString(w, text)
		return err
	})
}

func to(stdout io.Writer, outPath string, fn func(io.Writer) error) error {
	if outPath == "" {
		return fn(stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return f.Close()
}
