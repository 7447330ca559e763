package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/devbin/devbin/internal/config"
	"github.com/devbin/devbin/internal/ghcli"
	"github.com/devbin/devbin/internal/github"
	"github.com/devbin/devbin/internal/prctx"
)

// newGitHubClient authenticates with GITHUB_TOKEN/GH_TOKEN, falling back to
// the token gh is logged in with.
func newGitHubClient(ctx context.Context) (*github.Client, error) {
	token := github.EnvToken()
	if token == "" {
		t, err := ghcli.New(runner).AuthToken(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("no token from gh")
		}
		token = t
	}
	return github.NewClient(token)
}

// resolveRepo turns a -R selector into a repo, or detects the repo of the
// working directory when the selector is empty.
func resolveRepo(ctx context.Context, cfg config.Config, selector string) (prctx.RepoRef, error) {
	if selector != "" {
		return prctx.ParseRepoSelector(selector, cfg.DefaultOwner)
	}
	repo, err := ghcli.New(runner).CurrentRepo(ctx)
	if err == nil {
		return repo, nil
	}
	log.Debug().Err(err).Msg("gh repo view failed, trying git remote")
	if repo, rerr := github.DetectRepo(ctx, runner); rerr == nil {
		return repo, nil
	}
	return prctx.RepoRef{}, err
}

// parsePRNumber validates a PR number argument.
func parsePRNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, usagef("invalid PR number %q", arg)
	}
	return n, nil
}

// resolvePR finds the PR to work on. With no argument the user picks one of
// the repo's open PRs.
func resolvePR(ctx context.Context, client *github.Client, cfg config.Config, selector string, args []string) (prctx.PRRef, error) {
	var number int
	if len(args) > 0 {
		n, err := parsePRNumber(args[0])
		if err != nil {
			return prctx.PRRef{}, err
		}
		number = n
	}

	repo, err := resolveRepo(ctx, cfg, selector)
	if err != nil {
		return prctx.PRRef{}, err
	}
	if err := client.RepoExists(ctx, repo); err != nil {
		return prctx.PRRef{}, err
	}
	if number > 0 {
		return prctx.PRRef{RepoRef: repo, Number: number}, nil
	}

	pr, err := pickPR(ctx, client, repo)
	if err != nil {
		return prctx.PRRef{}, err
	}
	fmt.Fprintf(stderr, "Reviewing PR #%d (%s)\n", pr.Number, pr.URL())
	return pr, nil
}

func pickPR(ctx context.Context, client *github.Client, repo prctx.RepoRef) (prctx.PRRef, error) {
	prs, err := client.ListPRs(ctx, repo)
	if err != nil {
		return prctx.PRRef{}, err
	}
	if len(prs) == 0 {
		return prctx.PRRef{}, fmt.Errorf("no open pull requests in %s", repo)
	}

	options := make([]string, len(prs))
	for i, p := range prs {
		options[i] = fmt.Sprintf("#%d  %s  (%s, %s)", p.Number, p.Title, p.Author, humanize.Time(p.UpdatedAt))
	}
	i, err := pick.Select("Pick a pull request", options)
	if err != nil {
		return prctx.PRRef{}, err
	}
	return prctx.PRRef{RepoRef: repo, Number: prs[i].Number}, nil
}
