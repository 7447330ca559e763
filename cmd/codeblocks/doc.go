// Codeblocks renders files as Markdown code blocks.
//
// Usage:
//
//	codeblocks [-c | --xml] [-n] [--copy] files...
package main
