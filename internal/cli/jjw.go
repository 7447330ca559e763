package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/devbin/devbin/internal/config"
	"github.com/devbin/devbin/internal/vcs"
)

// localSettings is copied into new workspaces by symlink because it is not
// versioned.
var localSettings = filepath.Join(".claude", "settings.local.json")

var jjwCmd = &cobra.Command{
	Use:          "jjw",
	Short:        "Manage jj workspaces",
	SilenceUsage: true,
	RunE:         handle(requireSubcommand),
}

var jjwCreateCmd = &cobra.Command{
	Use:     "create",
	Aliases: []string{"c"},
	Short:   "Create a new jj workspace and print its path",
	Args:    cobra.NoArgs,
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		jj := vcs.NewJJ(runner, "")
		root, err := jj.Root(ctx)
		if err != nil {
			return err
		}

		base := cfg.Workspaces.Dir
		if err := os.MkdirAll(base, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", base, err)
		}
		path, err := nextWorkspacePath(base, filepath.Base(root))
		if err != nil {
			return err
		}

		// Only the path goes to stdout, for a shell wrapper to cd into.
		out, err := jj.WorkspaceAdd(ctx, path)
		if err != nil {
			return err
		}
		if s := strings.TrimSpace(out); s != "" {
			fmt.Fprintln(stderr, s)
		}

		if err := linkLocalSettings(root, path); err != nil {
			log.Warn().Err(err).Msg("could not link local settings")
		}
		fmt.Fprintln(stdout, path)
		return nil
	}),
}

// nextWorkspacePath returns the first {base}/{name}-{i} that does not exist,
// counting from 1.
func nextWorkspacePath(base, name string) (string, error) {
	for i := 1; ; i++ {
		p := filepath.Join(base, fmt.Sprintf("%s-%d", name, i))
		_, err := os.Lstat(p)
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func linkLocalSettings(root, workspace string) error {
	src := filepath.Join(root, localSettings)
	if _, err := os.Stat(src); err != nil {
		return nil
	}
	dst := filepath.Join(workspace, localSettings)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.Symlink(src, dst)
}

var jjwRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove a jj workspace",
	Args:  cobra.NoArgs,
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		jj := vcs.NewJJ(runner, "")
		names, err := jj.Workspaces(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(stderr, "No non-default workspaces found.")
			return nil
		}

		i, err := pick.Select("Remove workspace", names)
		if err != nil {
			return err
		}
		name := names[i]
		path, err := jj.WorkspaceRoot(ctx, name)
		if err != nil {
			return err
		}

		ok, err := pick.Confirm(fmt.Sprintf("Delete %s?", path), false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		p := printer()
		p.Dim("$ jj workspace forget %s", name)
		if err := jj.WorkspaceForget(ctx, name); err != nil {
			return err
		}
		p.Dim("$ rm -rf %s", path)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		return nil
	}),
}

var jjwLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List jj workspaces",
	Args:  cobra.NoArgs,
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		jj := vcs.NewJJ(runner, "")
		names, err := jj.Workspaces(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(stderr, "No non-default workspaces found.")
			return nil
		}
		for _, name := range names {
			path, err := jj.WorkspaceRoot(ctx, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s\t%s\n", name, path)
		}
		return nil
	}),
}

func init() {
	jjwCmd.AddCommand(jjwCreateCmd)
	jjwCmd.AddCommand(jjwRmCmd)
	jjwCmd.AddCommand(jjwLsCmd)
	register(jjwCmd)
}
