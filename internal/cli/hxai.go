package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbin/devbin/internal/codeblocks"
	"github.com/devbin/devbin/internal/config"
	"github.com/devbin/devbin/internal/review"
)

var (
	flagHxFiles    []string
	flagHxModel    string
	flagHxProvider string
)

var hxaiCmd = &cobra.Command{
	Use:   "hxai [prompt...]",
	Short: "Transform an editor selection with an LLM",
	Long: `hxai reads an editor selection on stdin (for example from Helix's pipe:
command) and prints the model's replacement for it. Files given with -f are
sent along as context.`,
	SilenceUsage: true,
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		selection := strings.TrimSpace(string(b))
		if selection == "" {
			return nil
		}

		var files string
		if len(flagHxFiles) > 0 {
			loaded, err := codeblocks.Load(flagHxFiles)
			if err != nil {
				return err
			}
			files = codeblocks.String(loaded, codeblocks.XML)
		}

		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		session, err := review.NewSession(cfg, review.Overrides{
			Provider: flagHxProvider,
			Model:    flagHxModel,
			NoCache:  true,
		})
		if err != nil {
			return err
		}
		// The answer replaces the selection in the editor, so redacting
		// would write placeholders into the file.
		session.Redactor = nil

		prompt := review.SelectionPrompt(files, selection, strings.Join(args, " "))
		answer, err := session.Ask(cmd.Context(), review.CompletionSystemPrompt, prompt)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, answer)
		return nil
	}),
}

func init() {
	hxaiCmd.Flags().StringArrayVarP(&flagHxFiles, "file", "f", nil, "File to send as context (repeatable)")
	hxaiCmd.Flags().StringVarP(&flagHxModel, "model", "m", "", "Model name (default from config)")
	hxaiCmd.Flags().StringVar(&flagHxProvider, "provider", "", "LLM provider (anthropic, openai, gemini, ollama)")
	register(hxaiCmd)
}
