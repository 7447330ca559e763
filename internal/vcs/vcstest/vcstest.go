// Package vcstest provides a scripted vcs.Runner for tests.
package vcstest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/devbin/devbin/internal/vcs"
)

// Call is one recorded invocation.
type Call struct {
	Dir  string
	Name string
	Args []string
	Env  []string
	Run  bool // true for Runner.Run, false for Runner.Output
}

// String renders the call as a shell-ish command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Response is what a matched command returns.
type Response struct {
	Out string
	Err error
}

// Runner answers commands by exact command line. Unknown commands fail.
type Runner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []Call
}

// New returns an empty Runner.
func New() *Runner {
	return &Runner{responses: map[string]Response{}}
}

// On registers the response for a command line like "jj root".
func (r *Runner) On(cmdline, out string, err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[cmdline] = Response{Out: out, Err: err}
	return r
}

// Calls returns the command lines seen so far, in order.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.String()
	}
	return out
}

func (r *Runner) answer(c Call) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	resp, ok := r.responses[c.String()]
	if !ok {
		return "", fmt.Errorf("vcstest: unexpected command %q", c.String())
	}
	return resp.Out, resp.Err
}

// Recorded returns the full calls seen so far.
func (r *Runner) Recorded() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// WithEnv returns a runner that shares r's script and records env on each
// call it makes.
func (r *Runner) WithEnv(env ...string) vcs.Runner {
	return &envRunner{r: r, env: env}
}

type envRunner struct {
	r   *Runner
	env []string
}

func (e *envRunner) Output(_ context.Context, dir, name string, args ...string) (string, error) {
	return e.r.answer(Call{Dir: dir, Name: name, Args: args, Env: e.env})
}

func (e *envRunner) Run(_ context.Context, dir, name string, args ...string) error {
	_, err := e.r.answer(Call{Dir: dir, Name: name, Args: args, Env: e.env, Run: true})
	return err
}

// Output implements vcs.Runner.
func (r *Runner) Output(_ context.Context, dir, name string, args ...string) (string, error) {
	return r.answer(Call{Dir: dir, Name: name, Args: args})
}

// Run implements vcs.Runner.
func (r *Runner) Run(_ context.Context, dir, name string, args ...string) error {
	_, err := r.answer(Call{Dir: dir, Name: name, Args: args, Run: true})
	return err
}
