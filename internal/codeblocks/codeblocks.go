package codeblocks

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Mode selects the rendering.
type Mode int

const (
	// Markdown renders a horizontal rule, a heading with the path and a
	// fenced block per file.
	Markdown Mode = iota
	// Collapse wraps each file in a <details> element titled by its path.
	Collapse
	// XML renders <file path="..."> elements.
	XML
)

var langs = map[string]string{
	"rs":   "rs",
	"ts":   "ts",
	"tsx":  "tsx",
	"js":   "js",
	"jsx":  "jsx",
	"json": "json",
	"adoc": "adoc",
	"sh":   "sh",
	"bash": "sh",
	"go":   "go",
	"py":   "py",
	"toml": "toml",
	"yaml": "yaml",
	"yml":  "yaml",
	"sql":  "sql",
	"css":  "css",
	"html": "html",
}

// File is a loaded file.
type File struct {
	Path    string
	Content string
}

// Lang returns the fence language for path, or "" if unknown.
func Lang(path string) string {
	return langs[strings.TrimPrefix(filepath.Ext(path), ".")]
}

func isMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

// Load reads each path. Directories, symlinks and other non-regular files are
// skipped. A missing path is an error.
func Load(paths []string) ([]File, error) {
	var files []File
	for _, p := range paths {
		info, err := os.Lstat(p)
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			log.Debug().Str("path", p).Msg("skipping non-regular file")
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: p, Content: string(data)})
	}
	return files, nil
}

// Names writes one path per line.
func Names(w io.Writer, files []File) error {
	for _, f := range files {
		if _, err := fmt.Fprintln(w, f.Path); err != nil {
			return err
		}
	}
	return nil
}

// Render writes files in mode.
func Render(w io.Writer, files []File, mode Mode) error {
	var b strings.Builder
	for _, f := range files {
		content := strings.TrimSuffix(f.Content, "\n")
		switch mode {
		case XML:
			fmt.Fprintf(&b, "<file path=%q>\n%s\n</file>\n", f.Path, content)
			continue
		case Collapse:
			fmt.Fprintf(&b, "<details>\n  <summary>%s</summary>\n\n", f.Path)
		default:
			fmt.Fprintf(&b, "\n---\n\n### `%s`\n\n", f.Path)
		}

		if isMarkdown(f.Path) {
			// Markdown is rendered in place rather than fenced.
			fmt.Fprintf(&b, "%s\n\n", content)
		} else {
			fmt.Fprintf(&b, "```%s\n%s\n```\n\n", Lang(f.Path), content)
		}

		if mode == Collapse {
			b.WriteString("</details>\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String renders files in mode to a string.
func String(files []File, mode Mode) string {
	var b strings.Builder
	Render(&b, files, mode)
	return b.String()
}
