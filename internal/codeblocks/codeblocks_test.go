package codeblocks

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLang(t *testing.T) {
	tests := map[string]string{
		"src/main.rs": "rs",
		"app.tsx":     "tsx",
		"script.bash": "sh",
		"cfg.yml":     "yaml",
		"main.go":     "go",
		"Makefile":    "",
		"notes.weird": "",
		"dir.v1/file": "",
	}
	for path, want := range tests {
		assert.Equal(t, want, Lang(path), path)
	}
}

func TestLoad_SkipsNonRegular(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(file, []byte("package a\n"), 0o644))
	link := filepath.Join(dir, "link.go")
	require.NoError(t, os.Symlink(file, link))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	files, err := Load([]string{file, link, sub})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, File{Path: file, Content: "package a\n"}, files[0])
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load([]string{filepath.Join(t.TempDir(), "nope")})
	assert.True(t, os.IsNotExist(err), "err = %v", err)
}

var files = []File{
	{Path: "main.rs", Content: "fn main() {}\n"},
	{Path: "README.md", Content: "# Hi\n"},
}

func TestRender_Markdown(t *testing.T) {
	want := "\n---\n\n### `main.rs`\n\n```rs\nfn main() {}\n```\n\n" +
		"\n---\n\n### `README.md`\n\n# Hi\n\n"
	if diff := cmp.Diff(want, String(files, Markdown)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Collapse(t *testing.T) {
	want := "<details>\n  <summary>main.rs</summary>\n\n```rs\nfn main() {}\n```\n\n</details>\n" +
		"<details>\n  <summary>README.md</summary>\n\n# Hi\n\n</details>\n"
	if diff := cmp.Diff(want, String(files, Collapse)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_XML(t *testing.T) {
	want := "<file path=\"main.rs\">\nfn main() {}\n</file>\n<file path=\"README.md\">\n# Hi\n</file>\n"
	if diff := cmp.Diff(want, String(files, XML)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_UnknownLanguage(t *testing.T) {
	got := String([]File{{Path: "Makefile", Content: "all:"}}, Markdown)
	assert.Contains(t, got, "```\nall:\n```")
}

func TestNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Names(&buf, files))
	assert.Equal(t, "main.rs\nREADME.md\n", buf.String())
}
