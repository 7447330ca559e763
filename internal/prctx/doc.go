// Package prctx assembles a single Markdown document describing a pull
// request: its description, commits, linked issues, filtered diff and,
// optionally, the review discussion.
//
// The data comes from a [Source]. [Assemble] issues every fetch at once; the
// body and diff are required, the rest are optional and simply disappear from
// the output when they fail or come back empty.
//
// Resolving a repository selector or picking a PR number interactively is the
// caller's job. [ParseRepoSelector] handles the "owner/repo" or "repo" form.
package prctx
