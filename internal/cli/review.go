package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/devbin/devbin/internal/ci"
	"github.com/devbin/devbin/internal/config"
	"github.com/devbin/devbin/internal/ghcli"
	"github.com/devbin/devbin/internal/github"
	"github.com/devbin/devbin/internal/output"
	"github.com/devbin/devbin/internal/prctx"
	"github.com/devbin/devbin/internal/review"
)

// LLM flags shared by review and debug-ci.
var (
	flagProvider string
	flagModel    string
	flagNoCache  bool
)

var flagPrompt string

func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagModel, "model", "m", "", "Model name (default from config)")
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, gemini, ollama)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Skip the response cache")
}

func llmOverrides() review.Overrides {
	return review.Overrides{Provider: flagProvider, Model: flagModel, NoCache: flagNoCache}
}

var reviewCmd = &cobra.Command{
	Use:   "review [pr]",
	Short: "Ask an LLM to review a PR",
	Args:  cobra.MaximumNArgs(1),
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		session, err := review.NewSession(cfg, llmOverrides())
		if err != nil {
			return err
		}
		client, err := newGitHubClient(ctx)
		if err != nil {
			return err
		}
		pr, err := resolvePR(ctx, client, cfg, flagRepo, args)
		if err != nil {
			return err
		}

		p := printer()
		p.Step("Gathering context for %s...", pr)
		c, err := assemble(ctx, client, cfg, pr)
		if err != nil {
			return err
		}

		p.Step("Asking %s (%s)...", session.Provider.Name(), session.Model)
		answer, err := session.Ask(ctx, review.ReviewSystemPrompt, review.ReviewPrompt(c.String(), flagPrompt))
		if err != nil {
			return err
		}
		return output.WriteText(stdout, flagOut, answer)
	}),
}

var debugCICmd = &cobra.Command{
	Use:   "debug-ci [pr]",
	Short: "Ask an LLM why a PR's latest CI failure happened",
	Args:  cobra.MaximumNArgs(1),
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		session, err := review.NewSession(cfg, llmOverrides())
		if err != nil {
			return err
		}
		client, err := newGitHubClient(ctx)
		if err != nil {
			return err
		}
		pr, err := resolvePR(ctx, client, cfg, flagRepo, args)
		if err != nil {
			return err
		}
		info, err := client.PR(ctx, pr)
		if err != nil {
			return err
		}

		p := printer()
		p.Step("Looking for failed runs on %s...", info.HeadRef)
		var (
			c    prctx.Context
			runs []github.WorkflowRun
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			c, err = assemble(gctx, client, cfg, pr)
			return err
		})
		g.Go(func() error {
			var err error
			runs, err = client.WorkflowRuns(gctx, pr.RepoRef, info.HeadRef, "", "")
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		failed, ok := ci.LatestFailure(runs)
		if !ok {
			fmt.Fprintln(stdout, "No run failures found")
			return nil
		}

		p.Step("Fetching log of %s (run %d)...", failed.Name, failed.ID)
		raw, err := ghcli.New(runner).FailedLog(ctx, pr.RepoRef, failed.ID)
		if err != nil {
			log.Warn().Err(err).Msg("could not fetch failed log")
		}
		failedLog := ci.CleanLog(raw, ci.MaxLogLines)

		p.Step("Asking %s (%s)...", session.Provider.Name(), session.Model)
		answer, err := session.Ask(ctx, review.DebugCISystemPrompt, review.DebugCIPrompt(c.String(), failedLog))
		if err != nil {
			return err
		}
		return output.WriteText(stdout, flagOut, answer)
	}),
}

func init() {
	addPRFlags(reviewCmd)
	addLLMFlags(reviewCmd)
	reviewCmd.Flags().StringVarP(&flagPrompt, "prompt", "p", "", "Extra instructions appended to the review request")

	addPRFlags(debugCICmd)
	addLLMFlags(debugCICmd)
}
