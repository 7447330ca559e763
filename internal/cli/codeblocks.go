package cli

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/devbin/devbin/internal/codeblocks"
)

var clipboardWrite = clipboard.WriteAll

var (
	flagCollapse bool
	flagNames    bool
	flagXML      bool
	flagCopy     bool
)

var codeblocksCmd = &cobra.Command{
	Use:   "codeblocks <files...>",
	Short: "Render files as Markdown code blocks",
	Long: `codeblocks prints each file as a fenced Markdown code block under a heading
with its path, ready to paste into an issue or an LLM prompt. Markdown files
are included as-is and anything that is not a regular file is skipped.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		files, err := codeblocks.Load(args)
		if err != nil {
			return err
		}

		if flagNames {
			return codeblocks.Names(stdout, files)
		}

		mode := codeblocks.Markdown
		switch {
		case flagCollapse:
			mode = codeblocks.Collapse
		case flagXML:
			mode = codeblocks.XML
		}
		out := codeblocks.String(files, mode)
		fmt.Fprint(stdout, out)

		if flagCopy {
			if err := clipboardWrite(out); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			printer().Info("Copied %d files to the clipboard.", len(files))
		}
		return nil
	}),
}

func init() {
	f := codeblocksCmd.Flags()
	f.BoolVarP(&flagCollapse, "collapse", "c", false, "Wrap each file in a collapsed <details> element")
	f.BoolVarP(&flagNames, "names", "n", false, "Only print the names of the files that would be included")
	f.BoolVar(&flagXML, "xml", false, "Render <file path=\"...\"> elements instead of Markdown")
	f.BoolVar(&flagCopy, "copy", false, "Also copy the output to the clipboard")
	codeblocksCmd.MarkFlagsMutuallyExclusive("collapse", "xml")
	register(codeblocksCmd)
}
