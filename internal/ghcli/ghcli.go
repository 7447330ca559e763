package ghcli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/devbin/devbin/internal/prctx"
	"github.com/devbin/devbin/internal/vcs"
)

// CLI runs gh through a vcs.Runner.
type CLI struct {
	run vcs.Runner
}

// New returns a CLI using r.
func New(r vcs.Runner) *CLI {
	return &CLI{run: r}
}

type repoView struct {
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// CurrentRepo asks gh which GitHub repo the working directory belongs to.
func (c *CLI) CurrentRepo(ctx context.Context) (prctx.RepoRef, error) {
	out, err := c.run.Output(ctx, "", "gh", "repo", "view", "--json", "name,owner")
	if err != nil {
		return prctx.RepoRef{}, fmt.Errorf("detecting current repo: %w", err)
	}
	var v repoView
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		return prctx.RepoRef{}, fmt.Errorf("parsing gh repo view output: %w", err)
	}
	if v.Owner.Login == "" || v.Name == "" {
		return prctx.RepoRef{}, fmt.Errorf("not in a GitHub repository")
	}
	return prctx.RepoRef{Owner: v.Owner.Login, Name: v.Name}, nil
}

// AuthToken returns the token gh is logged in with.
func (c *CLI) AuthToken(ctx context.Context) (string, error) {
	out, err := c.run.Output(ctx, "", "gh", "auth", "token")
	if err != nil {
		return "", fmt.Errorf("gh auth token: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// FailedLog returns the logs of the failed jobs of an Actions run.
func (c *CLI) FailedLog(ctx context.Context, repo prctx.RepoRef, runID int64) (string, error) {
	out, err := c.run.Output(ctx, "", "gh", "run", "view", "-R", repo.String(), strconv.FormatInt(runID, 10), "--log-failed")
	if err != nil {
		return "", fmt.Errorf("fetching log for run %d: %w", runID, err)
	}
	return out, nil
}

// CreatePRWeb opens the browser to create a PR from head.
func (c *CLI) CreatePRWeb(ctx context.Context, head string) error {
	return c.run.Run(ctx, "", "gh", "pr", "create", "--head", head, "--web")
}

// API runs `gh api` against github.com with args attached to the terminal.
// GH_HOST pins the host regardless of the checkout's remotes.
func (c *CLI) API(ctx context.Context, args []string) error {
	gh := vcs.WithEnv(c.run, "GH_HOST=github.com")
	return gh.Run(ctx, "", "gh", append([]string{"api"}, args...)...)
}
