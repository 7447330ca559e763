package vcs

import (
	"context"
	"fmt"
	"strings"
)

const defaultWorkspace = "default"

// JJ runs jj commands in one directory.
type JJ struct {
	run Runner
	dir string
}

// NewJJ returns a JJ that runs in dir ("" for the working directory).
func NewJJ(r Runner, dir string) *JJ {
	return &JJ{run: r, dir: dir}
}

func (j *JJ) output(ctx context.Context, args ...string) (string, error) {
	return j.run.Output(ctx, j.dir, "jj", args...)
}

// Root returns the repository root.
func (j *JJ) Root(ctx context.Context) (string, error) {
	out, err := j.output(ctx, "root")
	if err != nil {
		return "", fmt.Errorf("not a jj repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Status prints `jj st` to the terminal.
func (j *JJ) Status(ctx context.Context) error {
	return j.run.Run(ctx, j.dir, "jj", "st")
}

// WorkspaceAdd creates a workspace at path and returns jj's stdout.
func (j *JJ) WorkspaceAdd(ctx context.Context, path string) (string, error) {
	out, err := j.output(ctx, "workspace", "add", path)
	if err != nil {
		return "", fmt.Errorf("adding workspace: %w", err)
	}
	return out, nil
}

// Workspaces lists workspace names other than the default one.
func (j *JJ) Workspaces(ctx context.Context) ([]string, error) {
	out, err := j.output(ctx, "workspace", "list", "-T", `name ++ "\n"`)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	var names []string
	for _, n := range Lines(out) {
		if n != defaultWorkspace {
			names = append(names, n)
		}
	}
	return names, nil
}

// WorkspaceRoot returns the directory of the named workspace.
func (j *JJ) WorkspaceRoot(ctx context.Context, name string) (string, error) {
	out, err := j.output(ctx, "workspace", "root", "--name", name)
	if err != nil {
		return "", fmt.Errorf("finding workspace %s: %w", name, err)
	}
	return strings.TrimSpace(out), nil
}

// WorkspaceForget stops tracking the named workspace. Its files stay.
func (j *JJ) WorkspaceForget(ctx context.Context, name string) error {
	if err := j.run.Run(ctx, j.dir, "jj", "workspace", "forget", name); err != nil {
		return fmt.Errorf("forgetting workspace %s: %w", name, err)
	}
	return nil
}

// BookmarksAt lists local bookmarks pointing at rev.
func (j *JJ) BookmarksAt(ctx context.Context, rev string) ([]string, error) {
	out, err := j.output(ctx, "bookmark", "list", "-r", rev, "-T", `name ++ "\n"`)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	return Lines(out), nil
}

// BookmarkCreate creates a bookmark on @.
func (j *JJ) BookmarkCreate(ctx context.Context, name string) error {
	if err := j.run.Run(ctx, j.dir, "jj", "bookmark", "create", name); err != nil {
		return fmt.Errorf("creating bookmark %s: %w", name, err)
	}
	return nil
}

// NearestBookmark returns the closest bookmark among the last ten ancestors
// of @, ignoring main.
func (j *JJ) NearestBookmark(ctx context.Context) (string, error) {
	out, err := j.output(ctx, "log", "-r", "ancestors(@, 10) & bookmarks()", "--no-graph", "-T", `local_bookmarks ++ "\n"`)
	if err != nil {
		return "", fmt.Errorf("finding bookmarks: %w", err)
	}
	for _, line := range Lines(out) {
		for _, b := range strings.Fields(line) {
			// jj marks unpushed or conflicted bookmarks with * or ??.
			b = strings.TrimRight(b, "*?")
			if b != "" && b != "main" {
				return b, nil
			}
		}
	}
	return "", fmt.Errorf("no feature bookmark found in recent ancestors")
}

// Push pushes bookmark to the git remote, creating it there if needed.
func (j *JJ) Push(ctx context.Context, bookmark string) error {
	if err := j.run.Run(ctx, j.dir, "jj", "git", "push", "-b", bookmark, "--allow-new"); err != nil {
		return fmt.Errorf("pushing %s: %w", bookmark, err)
	}
	return nil
}
