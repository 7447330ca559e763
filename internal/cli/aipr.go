package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbin/devbin/internal/config"
	"github.com/devbin/devbin/internal/difffilter"
	"github.com/devbin/devbin/internal/github"
	"github.com/devbin/devbin/internal/output"
	"github.com/devbin/devbin/internal/prctx"
)

// Flags shared by the aipr subcommands that work on a PR.
var (
	flagRepo     string
	flagComments bool
	flagOut      string
)

var (
	flagContextFormat string
	flagContextFiles  bool
)

var aiprCmd = &cobra.Command{
	Use:   "aipr",
	Short: "Gather pull request context and review it with an LLM",
	Long: `aipr assembles everything about a GitHub pull request (description,
commits, linked issues, trimmed diff and optionally the review discussion)
into one Markdown document, and can send it to an LLM for review or for
debugging a failed CI run.`,
	SilenceUsage: true,
	RunE:         handle(requireSubcommand),
}

var contextCmd = &cobra.Command{
	Use:   "context [pr]",
	Short: "Print the assembled context of a PR",
	Args:  cobra.MaximumNArgs(1),
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		if _, err := output.GetWriter(flagContextFormat); err != nil {
			return &usageError{msg: err.Error()}
		}
		ctx := cmd.Context()
		cfg, err := config.Load(nil)
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

		if flagContextFiles {
			return printDiffFiles(ctx, client, cfg, pr)
		}

		c, err := assemble(ctx, client, cfg, pr)
		if err != nil {
			return err
		}
		return output.WriteContext(stdout, flagOut, flagContextFormat, pr, c)
	}),
}

func addPRFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagRepo, "repo", "R", "", "Repository as owner/repo, or repo under the default owner")
	cmd.Flags().BoolVar(&flagComments, "comments", false, "Include review comments and threads")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}

// assemble gathers the context of pr with the repo's diff filter.
func assemble(ctx context.Context, client *github.Client, cfg config.Config, pr prctx.PRRef) (prctx.Context, error) {
	filter, err := cfg.DiffFilter(pr.RepoRef.String())
	if err != nil {
		return prctx.Context{}, err
	}
	return prctx.Assemble(ctx, client, pr, prctx.Options{
		IncludeComments: flagComments,
		Filter:          filter,
		HunkTailLines:   prctx.DefaultHunkTailLines,
	})
}

// printDiffFiles lists the files that survive diff filtering.
func printDiffFiles(ctx context.Context, client *github.Client, cfg config.Config, pr prctx.PRRef) error {
	filter, err := cfg.DiffFilter(pr.RepoRef.String())
	if err != nil {
		return err
	}
	raw, err := client.Diff(ctx, pr)
	if err != nil {
		return err
	}
	paths := difffilter.Paths(filter.Apply(raw))
	if len(paths) == 0 {
		return nil
	}
	return output.WriteText(stdout, flagOut, strings.Join(paths, "\n"))
}

func init() {
	addPRFlags(contextCmd)
	contextCmd.Flags().StringVar(&flagContextFormat, "format", "markdown",
		fmt.Sprintf("Output format (%s)", strings.Join(output.Formats, ", ")))
	contextCmd.Flags().BoolVar(&flagContextFiles, "files", false, "Only list the files left in the filtered diff")

	aiprCmd.AddCommand(contextCmd)
	aiprCmd.AddCommand(reviewCmd)
	aiprCmd.AddCommand(debugCICmd)
	aiprCmd.AddCommand(configCmd)
	aiprCmd.AddCommand(cacheCmd)
	register(aiprCmd)
}
