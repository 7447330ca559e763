// Ai-edit edits text from stdin with Claude's text editor tool.
//
// Usage:
//
//	pbpaste | ai-edit "fix the typos" | pbcopy
package main
