package ci

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/devbin/devbin/internal/github"
	"github.com/devbin/devbin/internal/prctx"
)

// API is the subset of the GitHub client cancel-ci needs.
type API interface {
	CheckRuns(ctx context.Context, repo prctx.RepoRef, sha string) ([]github.CheckRun, error)
	WorkflowRuns(ctx context.Context, repo prctx.RepoRef, branch, headSHA, event string) ([]github.WorkflowRun, error)
	CancelRun(ctx context.Context, repo prctx.RepoRef, runID int64) error
}

// maxConcurrent bounds parallel GitHub calls.
const maxConcurrent = 8

// Dedupe returns the SHAs in first-seen order without repeats.
func Dedupe(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range lists {
		for _, s := range l {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Pending is a commit with checks that have not completed.
type Pending struct {
	SHA    string
	Checks []github.CheckRun
}

// Label describes the commit for a picker.
func (p Pending) Label() string {
	return fmt.Sprintf("%s (%d running)", ShortSHA(p.SHA), len(p.Checks))
}

// Actions and External split the checks by who runs them.
func (p Pending) Actions() []github.CheckRun  { return p.split(true) }
func (p Pending) External() []github.CheckRun { return p.split(false) }

func (p Pending) split(actions bool) []github.CheckRun {
	var out []github.CheckRun
	for _, c := range p.Checks {
		if c.IsActions() == actions {
			out = append(out, c)
		}
	}
	return out
}

// ShortSHA abbreviates a commit hash to seven characters.
func ShortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// FindPending returns, in input order, the commits among shas that still
// have non-completed check runs.
func FindPending(ctx context.Context, api API, repo prctx.RepoRef, shas []string) ([]Pending, error) {
	results := make([][]github.CheckRun, len(shas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for i, sha := range shas {
		g.Go(func() error {
			runs, err := api.CheckRuns(gctx, repo, sha)
			if err != nil {
				return fmt.Errorf("checks for %s: %w", ShortSHA(sha), err)
			}
			for _, r := range runs {
				if r.Status != "completed" {
					results[i] = append(results[i], r)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pending []Pending
	for i, checks := range results {
		if len(checks) > 0 {
			pending = append(pending, Pending{SHA: shas[i], Checks: checks})
		}
	}
	return pending, nil
}

// CancelActions cancels every pull_request workflow run for sha. Individual
// cancel failures are logged and skipped; it returns how many succeeded.
func CancelActions(ctx context.Context, api API, repo prctx.RepoRef, sha string) (int, error) {
	runs, err := api.WorkflowRuns(ctx, repo, "", sha, "pull_request")
	if err != nil {
		return 0, err
	}

	var cancelled atomic.Int32
	var g errgroup.Group
	g.SetLimit(maxConcurrent)
	for _, r := range runs {
		g.Go(func() error {
			if err := api.CancelRun(ctx, repo, r.ID); err != nil {
				log.Warn().Err(err).Int64("run", r.ID).Msg("cancel failed")
				return nil
			}
			cancelled.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(cancelled.Load()), nil
}
