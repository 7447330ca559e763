// Package vcs shells out to jj and other command-line tools.
//
// All subprocesses go through a [Runner] so callers can swap in a fake in
// tests. [ExecRunner] is the real implementation; it captures stdout, echoes
// stderr to the terminal, and reports failures as [*CommandError].
package vcs
