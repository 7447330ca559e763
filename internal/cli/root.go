package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/devbin/devbin/internal/github"
	"github.com/devbin/devbin/internal/logging"
	"github.com/devbin/devbin/internal/picker"
	"github.com/devbin/devbin/internal/prctx"
	"github.com/devbin/devbin/internal/providers"
	"github.com/devbin/devbin/internal/readonly"
	"github.com/devbin/devbin/internal/term"
	"github.com/devbin/devbin/internal/vcs"
)

const version = "0.3.0"

// Exit codes shared by every tool.
const (
	ExitSuccess      = 0
	ExitCancelled    = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Process-level collaborators. Tests replace them.
var (
	stdin  io.Reader     = os.Stdin
	stdout io.Writer     = os.Stdout
	stderr io.Writer     = os.Stderr
	runner vcs.Runner    = &vcs.ExecRunner{}
	pick   picker.Picker = picker.Huh{}

	stdinIsTerminal = func() bool { return term.IsTerminal(os.Stdin) }
)

var flagVerbose bool

var tools = map[string]*cobra.Command{}

// register wires the flags and hooks every tool shares and makes root
// available to Run under its name.
func register(root *cobra.Command) {
	root.Version = version
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Setup(stderr, flagVerbose)
	}
	tools[root.Name()] = root
}

// Run executes the named tool with the process arguments and returns an
// exit code.
func Run(tool string) int {
	root, ok := tools[tool]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown tool %q\n", tool)
		return ExitUsageError
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return execute(ctx, root, os.Args[1:])
}

func execute(ctx context.Context, root *cobra.Command, args []string) int {
	exitCode = ExitSuccess
	resetFlags(root)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// usageError is a bad invocation detected after flag parsing.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// errCancelled ends a command quietly when the user declines a prompt.
var errCancelled = picker.ErrCancelled

// codeFor maps an error onto an exit code.
func codeFor(err error) int {
	var (
		selErr   *prctx.SelectorError
		valErr   *readonly.ValidationError
		usageErr *usageError
	)
	switch {
	case errors.Is(err, errCancelled):
		return ExitCancelled
	case errors.Is(err, github.ErrUnauthorized), providers.IsAuthError(err):
		return ExitAuthError
	case errors.As(err, &selErr), errors.As(err, &valErr), errors.As(err, &usageErr):
		return ExitUsageError
	default:
		return ExitRuntimeError
	}
}

// fail reports err on stderr and records its exit code.
func fail(err error) {
	exitCode = codeFor(err)
	if exitCode == ExitCancelled {
		fmt.Fprintln(stderr, "Cancelled.")
		return
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
}

// handle adapts a command body to cobra, converting its error into an exit
// code.
func handle(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			fail(err)
		}
		return nil
	}
}

// requireSubcommand is the body of a root command that only groups others.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	cmd.Help()
	return usagef("subcommand required")
}

func printer() *term.Printer {
	return term.NewPrinter(stderr)
}

// resetFlags restores every flag in the tree to its default, so that a
// command tree can be executed more than once in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
