package github

import (
	"context"
	"errors"
	"fmt"

	gh "github.com/google/go-github/v72/github"
	"github.com/rs/zerolog/log"

	"github.com/devbin/devbin/internal/prctx"
)

// WorkflowRun is a GitHub Actions run.
type WorkflowRun struct {
	ID         int64
	Name       string
	HeadSHA    string
	Event      string
	Status     string
	Conclusion string
}

// WorkflowRuns lists Actions runs in repo, most recent first. Empty filter
// fields are ignored.
func (c *Client) WorkflowRuns(ctx context.Context, repo prctx.RepoRef, branch, headSHA, event string) ([]WorkflowRun, error) {
	opts := &gh.ListWorkflowRunsOptions{
		Branch:      branch,
		HeadSHA:     headSHA,
		Event:       event,
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	runs, _, err := c.gh.Actions.ListRepositoryWorkflowRuns(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, apiError(err, "workflow runs of "+repo.String())
	}

	out := make([]WorkflowRun, 0, len(runs.WorkflowRuns))
	for _, r := range runs.WorkflowRuns {
		out = append(out, WorkflowRun{
			ID:         r.GetID(),
			Name:       r.GetName(),
			HeadSHA:    r.GetHeadSHA(),
			Event:      r.GetEvent(),
			Status:     r.GetStatus(),
			Conclusion: r.GetConclusion(),
		})
	}
	return out, nil
}

// CancelRun cancels one Actions run.
func (c *Client) CancelRun(ctx context.Context, repo prctx.RepoRef, runID int64) error {
	log.Debug().Int64("run", runID).Msg("cancelling workflow run")
	if _, err := c.gh.Actions.CancelWorkflowRunByID(ctx, repo.Owner, repo.Name, runID); err != nil {
		// go-github reports the 202 Accepted reply as an AcceptedError.
		var accepted *gh.AcceptedError
		if errors.As(err, &accepted) {
			return nil
		}
		return apiError(err, fmt.Sprintf("cancel of run %d", runID))
	}
	return nil
}

// CheckRun is one check on a commit.
type CheckRun struct {
	ID         int64
	Name       string
	Status     string
	DetailsURL string
	AppSlug    string
}

// IsActions reports whether the check is driven by GitHub Actions.
func (r CheckRun) IsActions() bool { return r.AppSlug == "github-actions" }

// CheckRuns lists the check runs for a commit.
func (c *Client) CheckRuns(ctx context.Context, repo prctx.RepoRef, sha string) ([]CheckRun, error) {
	opts := &gh.ListCheckRunsOptions{ListOptions: gh.ListOptions{PerPage: 100}}
	res, _, err := c.gh.Checks.ListCheckRunsForRef(ctx, repo.Owner, repo.Name, sha, opts)
	if err != nil {
		return nil, apiError(err, "check runs for "+sha)
	}

	out := make([]CheckRun, 0, len(res.CheckRuns))
	for _, r := range res.CheckRuns {
		out = append(out, CheckRun{
			ID:         r.GetID(),
			Name:       r.GetName(),
			Status:     r.GetStatus(),
			DetailsURL: r.GetDetailsURL(),
			AppSlug:    r.GetApp().GetSlug(),
		})
	}
	return out, nil
}

type timelineEvent struct {
	Event  string `json:"event"`
	Before string `json:"before"`
}

// ForcePushedBefore returns the pre-push head SHA of every force push on
// the PR, in timeline order.
func (c *Client) ForcePushedBefore(ctx context.Context, pr prctx.PRRef) ([]string, error) {
	u := fmt.Sprintf("repos/%s/%s/issues/%d/timeline?per_page=100", pr.Owner, pr.Name, pr.Number)
	req, err := c.gh.NewRequest("GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("building timeline request: %w", err)
	}

	var events []timelineEvent
	if _, err := c.gh.Do(ctx, req, &events); err != nil {
		return nil, apiError(err, "timeline of "+prLabel(pr))
	}

	var shas []string
	for _, e := range events {
		if e.Event == "head_ref_force_pushed" && e.Before != "" {
			shas = append(shas, e.Before)
		}
	}
	return shas, nil
}
