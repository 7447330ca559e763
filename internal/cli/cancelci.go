package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/devbin/devbin/internal/ci"
	"github.com/devbin/devbin/internal/config"
	"github.com/devbin/devbin/internal/github"
	"github.com/devbin/devbin/internal/prctx"
	"github.com/devbin/devbin/internal/vcs"
)

var flagCancelRepo string

var cancelCICmd = &cobra.Command{
	Use:   "cancel-ci [pr]",
	Short: "Cancel CI jobs on PR commits, including force-pushed ones",
	Long: `cancel-ci finds every commit a pull request has pointed at, including
ones replaced by force pushes, and cancels the checks still running on one
of them. GitHub Actions runs are cancelled through the API; other CI
systems are opened in the browser.

Without a PR number the PR is found from the nearest jj bookmark.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		client, err := newGitHubClient(ctx)
		if err != nil {
			return err
		}

		var pr prctx.PRRef
		if len(args) > 0 {
			n, err := parsePRNumber(args[0])
			if err != nil {
				return err
			}
			repo, err := resolveRepo(ctx, cfg, flagCancelRepo)
			if err != nil {
				return err
			}
			pr = prctx.PRRef{RepoRef: repo, Number: n}
		} else {
			if pr, err = prFromBookmark(ctx, client, cfg); err != nil {
				return err
			}
		}
		return cancelCI(ctx, client, pr)
	}),
}

// prFromBookmark finds the open PR for the closest bookmark below @ and asks
// the user to confirm it.
func prFromBookmark(ctx context.Context, client *github.Client, cfg config.Config) (prctx.PRRef, error) {
	bookmark, err := vcs.NewJJ(runner, "").NearestBookmark(ctx)
	if err != nil {
		return prctx.PRRef{}, err
	}
	repo, err := resolveRepo(ctx, cfg, flagCancelRepo)
	if err != nil {
		return prctx.PRRef{}, err
	}
	info, err := client.PRForBranch(ctx, repo, bookmark)
	if err != nil {
		return prctx.PRRef{}, err
	}

	ok, err := pick.Confirm(fmt.Sprintf("Cancel CI for PR #%d: %s?", info.Number, info.Title), false)
	if err != nil {
		return prctx.PRRef{}, err
	}
	if !ok {
		return prctx.PRRef{}, errCancelled
	}
	return prctx.PRRef{RepoRef: repo, Number: info.Number}, nil
}

func cancelCI(ctx context.Context, client *github.Client, pr prctx.PRRef) error {
	p := printer()
	p.Step("Checking PR #%d in %s...", pr.Number, pr.RepoRef)

	var current, forcePushed []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = client.CommitSHAs(gctx, pr)
		return err
	})
	g.Go(func() error {
		var err error
		forcePushed, err = client.ForcePushedBefore(gctx, pr)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	shas := ci.Dedupe(current, forcePushed)
	log.Debug().Int("commits", len(shas)).Msg("checking commits for running CI")
	pending, err := ci.FindPending(ctx, client, pr.RepoRef, shas)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		p.Info("No running CI found.")
		return nil
	}

	target := pending[0]
	if len(pending) > 1 {
		options := make([]string, len(pending))
		for i, c := range pending {
			options[i] = c.Label()
		}
		i, err := pick.Select("Select commit to cancel CI for:", options)
		if err != nil {
			return err
		}
		target = pending[i]
	}

	p.Step("Cancelling CI for %s...", ci.ShortSHA(target.SHA))
	if len(target.Actions()) > 0 {
		n, err := ci.CancelActions(ctx, client, pr.RepoRef, target.SHA)
		if err != nil {
			return err
		}
		log.Debug().Int("runs", n).Msg("cancelled workflow runs")
	}

	for _, check := range target.External() {
		p.Step("Opening %s in browser...", check.Name)
		if err := vcs.OpenURL(ctx, runner, check.DetailsURL); err != nil {
			log.Warn().Err(err).Str("check", check.Name).Msg("could not open browser")
		}
	}

	p.Info("Done.")
	return nil
}

func init() {
	cancelCICmd.Flags().StringVarP(&flagCancelRepo, "repo", "R", "", "Repository as owner/repo, or repo under the default owner")
	register(cancelCICmd)
}
