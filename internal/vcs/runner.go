package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Runner executes external commands.
type Runner interface {
	// Output runs the command in dir and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) (string, error)
	// Run runs the command in dir attached to the terminal.
	Run(ctx context.Context, dir, name string, args ...string) error
}

// CommandError is a failed subprocess.
type CommandError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode returns the process exit status, or -1 if it never ran.
func (e *CommandError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// ExecRunner runs real processes. Nil writers default to the process's own
// stdio; Env entries are added to the inherited environment.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    []string
}

func (r *ExecRunner) command(ctx context.Context, dir, name string, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	log.Debug().Str("cmd", name).Strs("args", args).Str("dir", dir).Msg("exec")
	return cmd
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := r.command(ctx, dir, name, args)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = r.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(&stderr, r.stderr())
	if err := cmd.Run(); err != nil {
		return stdout.String(), &CommandError{Name: name, Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := r.command(ctx, dir, name, args)
	cmd.Stdin = r.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.stderr()
	if err := cmd.Run(); err != nil {
		return &CommandError{Name: name, Args: args, Err: err}
	}
	return nil
}

// WithEnv returns a copy of r that adds env to every command.
func (r *ExecRunner) WithEnv(env ...string) Runner {
	c := *r
	c.Env = append(append([]string(nil), r.Env...), env...)
	return &c
}

// WithEnv adds environment entries to r's commands if r supports it.
func WithEnv(r Runner, env ...string) Runner {
	if e, ok := r.(interface{ WithEnv(...string) Runner }); ok {
		return e.WithEnv(env...)
	}
	return r
}

// Lines splits command output into trimmed, non-empty lines.
func Lines(out string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
