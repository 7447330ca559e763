package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	gh "github.com/google/go-github/v72/github"
	"github.com/rs/zerolog/log"

	"github.com/devbin/devbin/internal/prctx"
	"github.com/devbin/devbin/internal/vcs"
)

const defaultAPIURL = "https://api.github.com/"

// ErrUnauthorized is returned when GitHub rejects the token.
var ErrUnauthorized = errors.New("GitHub authentication failed")

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// Client provides access to the GitHub REST and GraphQL APIs.
type Client struct {
	gh *gh.Client
}

var _ prctx.Source = (*Client)(nil)

// EnvToken returns GITHUB_TOKEN or GH_TOKEN, whichever is set first.
func EnvToken() string {
	for _, k := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// NewClient creates a client authenticated with token. GITHUB_API_URL
// overrides the API root.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no token (set GITHUB_TOKEN or run `gh auth login`)", ErrUnauthorized)
	}

	c := gh.NewClient(&http.Client{Timeout: 60 * time.Second}).WithAuthToken(token)

	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	base, err := url.Parse(strings.TrimRight(apiURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid GITHUB_API_URL %q: %w", apiURL, err)
	}
	c.BaseURL = base

	return &Client{gh: c}, nil
}

// ResponseError reports a response that could not be decoded.
type ResponseError struct {
	Query string
	Err   error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("decoding %s response: %v", e.Query, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// apiError maps go-github errors onto the package's sentinels.
func apiError(err error, what string) error {
	var resp *gh.ErrorResponse
	if errors.As(err, &resp) && resp.Response != nil {
		switch resp.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrUnauthorized, resp.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%s %w", what, ErrNotFound)
		}
	}
	return fmt.Errorf("fetching %s: %w", what, err)
}

func prLabel(pr prctx.PRRef) string {
	return fmt.Sprintf("PR #%d in %s", pr.Number, pr.RepoRef)
}

// RepoExists reports whether the repository is visible to the token.
func (c *Client) RepoExists(ctx context.Context, repo prctx.RepoRef) error {
	log.Debug().Str("repo", repo.String()).Msg("checking repo")
	if _, _, err := c.gh.Repositories.Get(ctx, repo.Owner, repo.Name); err != nil {
		return apiError(err, "repo "+repo.String())
	}
	return nil
}

var (
	httpsRemoteRe = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/.\s]+)`)
	sshRemoteRe   = regexp.MustCompile(`[^@]+@[^:]+:([^/]+)/([^/.\s]+)`)
)

// DetectRepo parses owner/repo from the git remote origin URL of the
// working directory. jj colocated repos answer this too.
func DetectRepo(ctx context.Context, r vcs.Runner) (prctx.RepoRef, error) {
	out, err := r.Output(ctx, "", "git", "remote", "get-url", "origin")
	if err != nil {
		return prctx.RepoRef{}, fmt.Errorf("cannot detect repo: git remote get-url origin failed: %w", err)
	}
	return ParseRemoteURL(strings.TrimSpace(out))
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(remote string) (prctx.RepoRef, error) {
	remote = strings.TrimSuffix(remote, ".git")

	if m := httpsRemoteRe.FindStringSubmatch(remote); len(m) == 3 {
		return prctx.RepoRef{Owner: m[1], Name: m[2]}, nil
	}
	if m := sshRemoteRe.FindStringSubmatch(remote); len(m) == 3 {
		return prctx.RepoRef{Owner: m[1], Name: m[2]}, nil
	}
	return prctx.RepoRef{}, fmt.Errorf("cannot parse owner/repo from remote URL: %s", remote)
}
