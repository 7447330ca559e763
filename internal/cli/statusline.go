package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbin/devbin/internal/statusline"
)

var statuslineCmd = &cobra.Command{
	Use:          "statusline",
	Short:        "Format an editor status line from JSON on stdin",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		in, err := statusline.Parse(stdin)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, statusline.Format(in))
		return nil
	}),
}

func init() {
	register(statuslineCmd)
}
