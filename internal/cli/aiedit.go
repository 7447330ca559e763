package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/devbin/devbin/internal/config"
	"github.com/devbin/devbin/internal/providers"
	"github.com/devbin/devbin/internal/textedit"
)

// editor is the part of the Anthropic client ai-edit needs.
type editor interface {
	EditText(ctx context.Context, text, instructions string, maxTokens int) (providers.EditResult, error)
}

var newEditor = func(model string) (editor, error) {
	return providers.NewAnthropic(model)
}

var (
	flagEditDebug bool
	flagEditModel string
)

var aiEditCmd = &cobra.Command{
	Use:   "ai-edit <instructions...>",
	Short: "Edit text from stdin according to instructions",
	Long: `ai-edit reads text on stdin, asks Claude to edit it with its text editor
tool, applies the replacements in order and prints the result.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		instructions := strings.TrimSpace(strings.Join(args, " "))
		if instructions == "" {
			return usagef("no instructions provided")
		}

		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text := strings.TrimSpace(string(b))
		if text == "" {
			return usagef("no input provided via stdin")
		}

		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		model := flagEditModel
		if model == "" && cfg.LLM.Provider == "anthropic" {
			model = cfg.LLM.Model
		}
		if model == "" {
			model = providers.DefaultModel("anthropic")
		}

		ed, err := newEditor(model)
		if err != nil {
			return err
		}
		res, err := ed.EditText(cmd.Context(), text, instructions, 0)
		if err != nil {
			if flagEditDebug && len(res.Raw) > 0 {
				printDebug(res.Raw)
			}
			return err
		}

		for _, m := range textedit.Missing(text, res.Replacements) {
			log.Warn().Str("old", m.Old).Msg("replacement text not found")
		}
		fmt.Fprintln(stdout, textedit.Apply(text, res.Replacements))

		// The result can be long, so debug output goes last.
		if flagEditDebug {
			printDebug(res.Raw)
		}
		return nil
	}),
}

func printDebug(raw json.RawMessage) {
	fmt.Fprintln(stdout, "\n============\nDEBUG OUTPUT\n============")
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		stdout.Write(raw)
		fmt.Fprintln(stdout)
		return
	}
	fmt.Fprintln(stdout, buf.String())
}

func init() {
	aiEditCmd.Flags().BoolVarP(&flagEditDebug, "debug", "d", false, "Print the raw model response after the result")
	aiEditCmd.Flags().StringVarP(&flagEditModel, "model", "m", "", "Anthropic model (default from config)")
	register(aiEditCmd)
}
