package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	gh "github.com/google/go-github/v72/github"
	"github.com/rs/zerolog/log"

	"github.com/devbin/devbin/internal/prctx"
)

// Body returns a short header (title, author, state, branches) followed by
// the PR description.
func (c *Client) Body(ctx context.Context, pr prctx.PRRef) (string, error) {
	p, _, err := c.gh.PullRequests.Get(ctx, pr.Owner, pr.Name, pr.Number)
	if err != nil {
		return "", apiError(err, prLabel(pr))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n\n", p.GetTitle(), pr)
	fmt.Fprintf(&b, "Author: %s\n", p.GetUser().GetLogin())
	state := p.GetState()
	if p.GetDraft() {
		state += " (draft)"
	}
	fmt.Fprintf(&b, "State: %s\n", state)
	fmt.Fprintf(&b, "Branch: %s -> %s\n", p.GetHead().GetRef(), p.GetBase().GetRef())
	if body := strings.TrimSpace(p.GetBody()); body != "" {
		b.WriteString("\n" + body)
	}
	return b.String(), nil
}

// Diff returns the raw unified diff of the PR.
func (c *Client) Diff(ctx context.Context, pr prctx.PRRef) (string, error) {
	log.Debug().Str("pr", pr.String()).Msg("fetching diff")
	diff, _, err := c.gh.PullRequests.GetRaw(ctx, pr.Owner, pr.Name, pr.Number, gh.RawOptions{Type: gh.Diff})
	if err != nil {
		return "", apiError(err, prLabel(pr))
	}
	return diff, nil
}

const linkedIssuesQuery = `
query($owner: String!, $repo: String!, $number: Int!) {
  repository(owner: $owner, name: $repo) {
    pullRequest(number: $number) {
      closingIssuesReferences(first: 50) {
        nodes {
          repository { name }
          number
          title
          body
        }
      }
    }
  }
}`

type linkedIssuesData struct {
	Repository struct {
		PullRequest *struct {
			ClosingIssuesReferences struct {
				Nodes []struct {
					Repository struct {
						Name string `json:"name"`
					} `json:"repository"`
					Number int    `json:"number"`
					Title  string `json:"title"`
					Body   string `json:"body"`
				} `json:"nodes"`
			} `json:"closingIssuesReferences"`
		} `json:"pullRequest"`
	} `json:"repository"`
}

// LinkedIssues returns the issues the PR is declared to close.
func (c *Client) LinkedIssues(ctx context.Context, pr prctx.PRRef) ([]prctx.LinkedIssue, error) {
	var data linkedIssuesData
	if err := c.graphql(ctx, "linkedIssues", linkedIssuesQuery, prVars(pr.Owner, pr.Name, pr.Number), &data); err != nil {
		return nil, err
	}
	if data.Repository.PullRequest == nil {
		return nil, fmt.Errorf("%s %w", prLabel(pr), ErrNotFound)
	}

	nodes := data.Repository.PullRequest.ClosingIssuesReferences.Nodes
	issues := make([]prctx.LinkedIssue, 0, len(nodes))
	for _, n := range nodes {
		issues = append(issues, prctx.LinkedIssue{
			RepoName: n.Repository.Name,
			Number:   n.Number,
			Title:    n.Title,
			Body:     n.Body,
		})
	}
	return issues, nil
}

const commitsQuery = `
query($owner: String!, $repo: String!, $number: Int!) {
  repository(owner: $owner, name: $repo) {
    pullRequest(number: $number) {
      commits(first: 100) {
        nodes {
          commit {
            oid
            committedDate
            messageHeadline
            messageBody
            authors(first: 10) {
              nodes {
                name
                user { login }
              }
            }
          }
        }
      }
    }
  }
}`

type commitsData struct {
	Repository struct {
		PullRequest *struct {
			Commits struct {
				Nodes []struct {
					Commit struct {
						OID             string    `json:"oid"`
						CommittedDate   time.Time `json:"committedDate"`
						MessageHeadline string    `json:"messageHeadline"`
						MessageBody     string    `json:"messageBody"`
						Authors         struct {
							Nodes []struct {
								Name string `json:"name"`
								User *actor `json:"user"`
							} `json:"nodes"`
						} `json:"authors"`
					} `json:"commit"`
				} `json:"nodes"`
			} `json:"commits"`
		} `json:"pullRequest"`
	} `json:"repository"`
}

// Commits returns the PR's commits, oldest first.
func (c *Client) Commits(ctx context.Context, pr prctx.PRRef) ([]prctx.Commit, error) {
	var data commitsData
	if err := c.graphql(ctx, "commits", commitsQuery, prVars(pr.Owner, pr.Name, pr.Number), &data); err != nil {
		return nil, err
	}
	if data.Repository.PullRequest == nil {
		return nil, fmt.Errorf("%s %w", prLabel(pr), ErrNotFound)
	}

	nodes := data.Repository.PullRequest.Commits.Nodes
	commits := make([]prctx.Commit, 0, len(nodes))
	for _, n := range nodes {
		var authors []string
		for _, a := range n.Commit.Authors.Nodes {
			// Prefer the GitHub login; unlinked authors only have a name.
			if a.User != nil && a.User.Login != "" {
				authors = append(authors, a.User.Login)
			} else {
				authors = append(authors, a.Name)
			}
		}
		commits = append(commits, prctx.Commit{
			ID:          n.Commit.OID,
			Authors:     authors,
			CommittedAt: n.Commit.CommittedDate,
			Headline:    n.Commit.MessageHeadline,
			Body:        n.Commit.MessageBody,
		})
	}
	return commits, nil
}

const discussionQuery = `
query($owner: String!, $repo: String!, $number: Int!) {
  repository(owner: $owner, name: $repo) {
    pullRequest(number: $number) {
      reviews(first: 100) {
        nodes {
          author { login }
          body
          submittedAt
        }
      }
      reviewThreads(first: 100) {
        nodes {
          isCollapsed
          comments(first: 100) {
            nodes {
              author { login }
              createdAt
              outdated
              isMinimized
              path
              line
              originalLine
              commit { oid }
              diffHunk
              body
            }
          }
        }
      }
    }
  }
}`

type discussionData struct {
	Repository struct {
		PullRequest *struct {
			Reviews struct {
				Nodes []struct {
					Author      *actor    `json:"author"`
					Body        string    `json:"body"`
					SubmittedAt time.Time `json:"submittedAt"`
				} `json:"nodes"`
			} `json:"reviews"`
			ReviewThreads struct {
				Nodes []struct {
					IsCollapsed bool `json:"isCollapsed"`
					Comments    struct {
						Nodes []struct {
							Author       *actor    `json:"author"`
							CreatedAt    time.Time `json:"createdAt"`
							Outdated     bool      `json:"outdated"`
							IsMinimized  bool      `json:"isMinimized"`
							Path         string    `json:"path"`
							Line         *int      `json:"line"`
							OriginalLine *int      `json:"originalLine"`
							Commit       *struct {
								OID string `json:"oid"`
							} `json:"commit"`
							DiffHunk string `json:"diffHunk"`
							Body     string `json:"body"`
						} `json:"nodes"`
					} `json:"comments"`
				} `json:"nodes"`
			} `json:"reviewThreads"`
		} `json:"pullRequest"`
	} `json:"repository"`
}

// Discussion returns the PR's reviews and inline review threads.
func (c *Client) Discussion(ctx context.Context, pr prctx.PRRef) (prctx.Discussion, error) {
	var data discussionData
	if err := c.graphql(ctx, "discussion", discussionQuery, prVars(pr.Owner, pr.Name, pr.Number), &data); err != nil {
		return prctx.Discussion{}, err
	}
	p := data.Repository.PullRequest
	if p == nil {
		return prctx.Discussion{}, fmt.Errorf("%s %w", prLabel(pr), ErrNotFound)
	}

	var d prctx.Discussion
	for _, r := range p.Reviews.Nodes {
		d.Reviews = append(d.Reviews, prctx.Review{
			Author:      loginOf(r.Author),
			Body:        r.Body,
			SubmittedAt: r.SubmittedAt,
		})
	}
	for _, t := range p.ReviewThreads.Nodes {
		thread := prctx.ReviewThread{IsCollapsed: t.IsCollapsed}
		for _, cm := range t.Comments.Nodes {
			rc := prctx.ReviewComment{
				Author:       loginOf(cm.Author),
				CreatedAt:    cm.CreatedAt,
				IsOutdated:   cm.Outdated,
				IsMinimized:  cm.IsMinimized,
				Path:         cm.Path,
				Line:         cm.Line,
				OriginalLine: cm.OriginalLine,
				Body:         cm.Body,
			}
			if cm.Commit != nil {
				rc.CommitID = cm.Commit.OID
			}
			if cm.DiffHunk != "" {
				rc.DiffHunkTail = strings.Split(strings.TrimRight(cm.DiffHunk, "\n"), "\n")
			}
			thread.Comments = append(thread.Comments, rc)
		}
		d.Threads = append(d.Threads, thread)
	}
	return d, nil
}

// PullRequest is a row in the PR picker.
type PullRequest struct {
	Number    int
	Title     string
	Author    string
	HeadRef   string
	HeadSHA   string
	UpdatedAt time.Time
}

// ListPRs returns up to 100 open PRs, most recently updated first.
func (c *Client) ListPRs(ctx context.Context, repo prctx.RepoRef) ([]PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       "open",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	prs, _, err := c.gh.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, apiError(err, "pull requests of "+repo.String())
	}

	out := make([]PullRequest, 0, len(prs))
	for _, p := range prs {
		out = append(out, toPullRequest(p))
	}
	return out, nil
}

// PRForBranch returns the open PR whose head is branch in repo.
func (c *Client) PRForBranch(ctx context.Context, repo prctx.RepoRef, branch string) (PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State: "open",
		Head:  repo.Owner + ":" + branch,
	}
	prs, _, err := c.gh.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return PullRequest{}, apiError(err, "pull requests of "+repo.String())
	}
	if len(prs) == 0 {
		return PullRequest{}, fmt.Errorf("no open PR for branch %s in %s: %w", branch, repo, ErrNotFound)
	}
	return toPullRequest(prs[0]), nil
}

// PR returns summary information about one PR.
func (c *Client) PR(ctx context.Context, pr prctx.PRRef) (PullRequest, error) {
	p, _, err := c.gh.PullRequests.Get(ctx, pr.Owner, pr.Name, pr.Number)
	if err != nil {
		return PullRequest{}, apiError(err, prLabel(pr))
	}
	return toPullRequest(p), nil
}

func toPullRequest(p *gh.PullRequest) PullRequest {
	return PullRequest{
		Number:    p.GetNumber(),
		Title:     p.GetTitle(),
		Author:    p.GetUser().GetLogin(),
		HeadRef:   p.GetHead().GetRef(),
		HeadSHA:   p.GetHead().GetSHA(),
		UpdatedAt: p.GetUpdatedAt().Time,
	}
}

// CommitSHAs returns the SHAs of the PR's current commits, oldest first.
func (c *Client) CommitSHAs(ctx context.Context, pr prctx.PRRef) ([]string, error) {
	commits, _, err := c.gh.PullRequests.ListCommits(ctx, pr.Owner, pr.Name, pr.Number, &gh.ListOptions{PerPage: 100})
	if err != nil {
		return nil, apiError(err, "commits of "+prLabel(pr))
	}
	shas := make([]string, 0, len(commits))
	for _, c := range commits {
		shas = append(shas, c.GetSHA())
	}
	return shas, nil
}
