package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbin/devbin/internal/ghcli"
	"github.com/devbin/devbin/internal/vcs"
)

var jprcCmd = &cobra.Command{
	Use:   "jprc",
	Short: "Push the bookmark at @ and open a PR for it in the browser",
	Long: `jprc shows jj st, picks the bookmark on the working copy (offering to
create one when there is none), pushes it and opens GitHub's create PR page.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		jj := vcs.NewJJ(runner, "")
		if err := jj.Status(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stderr)

		bookmarks, err := jj.BookmarksAt(ctx, "@")
		if err != nil {
			return err
		}

		var bookmark string
		switch len(bookmarks) {
		case 0:
			name, err := pick.Input("No bookmarks found. Create one:")
			if err != nil {
				return err
			}
			if bookmark = strings.TrimSpace(name); bookmark == "" {
				return nil
			}
			if err := jj.BookmarkCreate(ctx, bookmark); err != nil {
				return err
			}
		case 1:
			bookmark = bookmarks[0]
		default:
			i, err := pick.Select("Pick a bookmark:", bookmarks)
			if err != nil {
				return err
			}
			bookmark = bookmarks[i]
		}

		if err := jj.Push(ctx, bookmark); err != nil {
			return err
		}
		return ghcli.New(runner).CreatePRWeb(ctx, bookmark)
	}),
}

func init() {
	register(jprcCmd)
}
