// Package cli implements the cobra command trees for every devbin tool.
//
// Each tool registers its root command under its binary name; cmd/<tool>
// calls [Run] with that name. Commands report failures by setting the
// package exit code rather than returning errors to cobra, so that only
// flag and argument errors are printed by cobra itself.
package cli
