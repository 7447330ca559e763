// Package difffilter trims unified diffs before they are handed to a reader
// or a language model.
//
// A [Filter] drops every file block whose path matches one of its exclusion
// rules (lockfiles by default, plus per-repository patterns from config) and
// any single line longer than a configured threshold. Filtering is one linear
// pass over the lines and is idempotent.
package difffilter
