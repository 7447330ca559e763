package prctx

import (
	"context"
	"fmt"
	"time"
)

// RepoRef identifies a hosted repository.
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string { return r.Owner + "/" + r.Name }

// PRRef identifies one pull request.
type PRRef struct {
	RepoRef
	Number int
}

func (p PRRef) String() string { return fmt.Sprintf("%s#%d", p.RepoRef, p.Number) }

// URL returns the github.com web URL for the pull request.
func (p PRRef) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", p.Owner, p.Name, p.Number)
}

// LinkedIssue is an issue the PR is declared to close.
type LinkedIssue struct {
	RepoName string
	Number   int
	Title    string
	Body     string
}

// Commit is one commit on the PR branch.
type Commit struct {
	ID          string
	Authors     []string
	CommittedAt time.Time
	Headline    string
	Body        string
}

// ReviewComment is an inline comment anchored to a diff location.
type ReviewComment struct {
	Author       string
	CreatedAt    time.Time
	IsOutdated   bool
	IsMinimized  bool
	Path         string
	Line         *int
	OriginalLine *int
	CommitID     string
	DiffHunkTail []string
	Body         string
}

// ReviewThread groups inline comments on one location.
type ReviewThread struct {
	IsCollapsed bool
	Comments    []ReviewComment
}

// Review is a top-level review submission.
type Review struct {
	Author      string
	Body        string
	SubmittedAt time.Time
}

// Discussion is everything returned by the comments fetch.
type Discussion struct {
	Reviews []Review
	Threads []ReviewThread
}

// Source provides the raw PR data. Implementations must be safe for
// concurrent use; Assemble calls every method at once.
type Source interface {
	Body(ctx context.Context, pr PRRef) (string, error)
	LinkedIssues(ctx context.Context, pr PRRef) ([]LinkedIssue, error)
	Diff(ctx context.Context, pr PRRef) (string, error)
	Commits(ctx context.Context, pr PRRef) ([]Commit, error)
	Discussion(ctx context.Context, pr PRRef) (Discussion, error)
}
