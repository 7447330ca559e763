package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbin/devbin/internal/github"
	"github.com/devbin/devbin/internal/picker"
	"github.com/devbin/devbin/internal/picker/pickertest"
	"github.com/devbin/devbin/internal/prctx"
	"github.com/devbin/devbin/internal/readonly"
	"github.com/devbin/devbin/internal/vcs/vcstest"
)

// harness runs a tool in-process with scripted collaborators.
type harness struct {
	t      *testing.T
	runner *vcstest.Runner
	picker *pickertest.Picker
	stdin  string
	tty    bool
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GH_TOKEN", "")
	t.Setenv("DEVBIN_LOG_LEVEL", "")

	oldIn, oldOut, oldErr := stdin, stdout, stderr
	oldRunner, oldPick, oldTTY := runner, pick, stdinIsTerminal
	oldEditor, oldClip := newEditor, clipboardWrite
	t.Cleanup(func() {
		stdin, stdout, stderr = oldIn, oldOut, oldErr
		runner, pick, stdinIsTerminal = oldRunner, oldPick, oldTTY
		newEditor, clipboardWrite = oldEditor, oldClip
	})

	return &harness{t: t, runner: vcstest.New(), picker: &pickertest.Picker{}}
}

func (h *harness) run(tool string, args ...string) int {
	h.t.Helper()
	root, ok := tools[tool]
	require.True(h.t, ok, "tool %s not registered", tool)

	h.stdout.Reset()
	h.stderr.Reset()
	stdin = strings.NewReader(h.stdin)
	stdout = &h.stdout
	stderr = &h.stderr
	runner = h.runner
	pick = h.picker
	stdinIsTerminal = func() bool { return h.tty }
	return execute(context.Background(), root, args)
}

// fakeGitHub serves the REST and GraphQL endpoints the tools use for repo
// o/r. GraphQL answers null data, so optional sections drop out.
type fakeGitHub struct {
	*http.ServeMux
	mu        sync.Mutex
	cancelled []string
}

const testDiff = `diff --git a/main.go b/main.go
--- a/main.go
+++ b/main.go
@@ -1 +1 @@
-old
+new
diff --git a/go.sum b/go.sum
--- a/go.sum
+++ b/go.sum
@@ -1 +1 @@
-a v1 h1:x
+a v2 h1:y
`

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	f := &fakeGitHub{ServeMux: http.NewServeMux()}
	f.HandleFunc("GET /repos/o/r", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 1, "name": "r", "full_name": "o/r"}`)
	})
	f.HandleFunc("GET /repos/o/r/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Accept"), "diff") {
			fmt.Fprint(w, testDiff)
			return
		}
		fmt.Fprint(w, `{"number": 7, "title": "Fix the frobnicator", "state": "open",
			"body": "It was broken.", "user": {"login": "alice"},
			"head": {"ref": "fix-frob", "sha": "aaaaaaa1111111"}, "base": {"ref": "main"}}`)
	})
	f.HandleFunc("GET /repos/o/r/pulls", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"number": 7, "title": "Fix the frobnicator", "user": {"login": "alice"},
			"head": {"ref": "fix-frob"}, "updated_at": "2024-01-02T03:04:05Z"}]`)
	})
	f.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": null}`)
	})
	f.HandleFunc("POST /repos/o/r/actions/runs/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.cancelled = append(f.cancelled, r.PathValue("id"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{}`)
	})

	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	t.Setenv("GITHUB_API_URL", server.URL)
	return f
}

// fakeLLM is an OpenAI-compatible endpoint reached through the ollama
// provider.
type fakeLLM struct {
	mu       sync.Mutex
	answer   string
	requests int
	system   string
	user     string
}

func newFakeLLM(t *testing.T, answer string) *fakeLLM {
	t.Helper()
	f := &fakeLLM{answer: answer}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decoding LLM request: %v", err)
		}
		f.mu.Lock()
		f.requests++
		for _, m := range req.Messages {
			switch m.Role {
			case "system":
				f.system = m.Content
			case "user":
				f.user = m.Content
			}
		}
		f.mu.Unlock()

		resp := map[string]any{
			"choices": []any{map[string]any{"message": map[string]string{"role": "assistant", "content": f.answer}}},
			"usage":   map[string]int{"total_tokens": 10},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	t.Setenv("OLLAMA_HOST", server.URL)
	return f
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"cancelled", fmt.Errorf("picking: %w", picker.ErrCancelled), ExitCancelled},
		{"github auth", fmt.Errorf("x: %w", github.ErrUnauthorized), ExitAuthError},
		{"selector", &prctx.SelectorError{Selector: "a/b/c"}, ExitUsageError},
		{"read-only violation", &readonly.ValidationError{Msg: "no"}, ExitUsageError},
		{"usage", usagef("bad"), ExitUsageError},
		{"other", errors.New("boom"), ExitRuntimeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codeFor(tt.err))
		})
	}
}

func TestAllToolsRegistered(t *testing.T) {
	for _, name := range []string{
		"aipr", "gh-api-read", "cancel-ci", "ai-edit", "hxai",
		"codeblocks", "jjw", "jprc", "statusline",
	} {
		assert.Contains(t, tools, name)
	}
}

func TestExecute_FlagErrorIsUsageError(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ExitUsageError, h.run("statusline", "--bogus"))
	assert.Contains(t, h.stderr.String(), "unknown flag: --bogus")
}

func TestExecute_FlagsResetBetweenRuns(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "a.go", "package a\n")

	require.Equal(t, ExitSuccess, h.run("codeblocks", "--names", path))
	assert.Equal(t, path+"\n", h.stdout.String())

	require.Equal(t, ExitSuccess, h.run("codeblocks", path))
	assert.Contains(t, h.stdout.String(), "```go\npackage a\n```")
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitSuccess, h.run("jprc", "--version"))
	assert.Contains(t, h.stdout.String(), version)
}
