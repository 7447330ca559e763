package vcs_test

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbin/devbin/internal/vcs"
	"github.com/devbin/devbin/internal/vcs/vcstest"
)

func TestRoot(t *testing.T) {
	r := vcstest.New().On("jj root", "/home/me/src/console\n", nil)
	root, err := vcs.NewJJ(r, "").Root(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/home/me/src/console", root)
}

func TestRoot_NotRepo(t *testing.T) {
	r := vcstest.New().On("jj root", "", errors.New("exit status 1"))
	_, err := vcs.NewJJ(r, "").Root(context.Background())
	assert.ErrorContains(t, err, "not a jj repository")
}

func TestWorkspaces_SkipsDefault(t *testing.T) {
	r := vcstest.New().On(`jj workspace list -T name ++ "\n"`, "default\nconsole-1\n\nconsole-2\n", nil)
	names, err := vcs.NewJJ(r, "").Workspaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"console-1", "console-2"}, names)
}

func TestNearestBookmark(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    string
		wantErr bool
	}{
		{name: "first non-main", out: "feature-x*\nmain\n", want: "feature-x"},
		{name: "main only", out: "main\n", wantErr: true},
		{name: "several on one commit", out: "main other\n", want: "other"},
		{name: "none", out: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := vcstest.New().On(`jj log -r ancestors(@, 10) & bookmarks() --no-graph -T local_bookmarks ++ "\n"`, tt.out, nil)
			got, err := vcs.NewJJ(r, "").NearestBookmark(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPushAndBookmarks(t *testing.T) {
	r := vcstest.New().
		On(`jj bookmark list -r @ -T name ++ "\n"`, "a\nb\n", nil).
		On("jj bookmark create c", "", nil).
		On("jj git push -b c --allow-new", "", nil)
	jj := vcs.NewJJ(r, "/repo")
	ctx := context.Background()

	bms, err := jj.BookmarksAt(ctx, "@")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, bms)

	require.NoError(t, jj.BookmarkCreate(ctx, "c"))
	require.NoError(t, jj.Push(ctx, "c"))
	assert.Equal(t, []string{
		`jj bookmark list -r @ -T name ++ "\n"`,
		"jj bookmark create c",
		"jj git push -b c --allow-new",
	}, r.Calls())
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, vcs.Lines("  a \n\n b\n"))
	assert.Nil(t, vcs.Lines("\n\n"))
}

func TestExecRunner_CommandError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var stderr nopWriter
	r := &vcs.ExecRunner{Stderr: &stderr}
	_, err := r.Output(context.Background(), "", "sh", "-c", "echo boom >&2; exit 3")

	var cmdErr *vcs.CommandError
	require.True(t, errors.As(err, &cmdErr), "want *CommandError, got %v", err)
	assert.Equal(t, 3, cmdErr.ExitCode())
	assert.Contains(t, cmdErr.Error(), "boom")
}

func TestExecRunner_Env(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := &vcs.ExecRunner{Env: []string{"DEVBIN_TEST_VAR=hello"}, Stderr: &nopWriter{}}
	out, err := r.Output(context.Background(), "", "sh", "-c", "printf %s \"$DEVBIN_TEST_VAR\"")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestWithEnv(t *testing.T) {
	base := &vcs.ExecRunner{Env: []string{"A=1"}}
	r := vcs.WithEnv(base, "GH_HOST=github.com").(*vcs.ExecRunner)
	assert.Equal(t, []string{"A=1", "GH_HOST=github.com"}, r.Env)
	assert.Equal(t, []string{"A=1"}, base.Env, "original runner is unchanged")

	script := vcstest.New().On("gh api user", "", nil)
	err := vcs.WithEnv(script, "GH_HOST=github.com").Run(context.Background(), "", "gh", "api", "user")
	require.NoError(t, err)
	calls := script.Recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"GH_HOST=github.com"}, calls[0].Env)
	assert.True(t, calls[0].Run)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
