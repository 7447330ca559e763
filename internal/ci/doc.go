// Package ci holds the CI plumbing shared by aipr debug-ci and cancel-ci:
// trimming Actions logs for an LLM, finding commits with unfinished checks,
// and cancelling their workflow runs.
package ci
