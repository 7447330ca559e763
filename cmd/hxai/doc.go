// Hxai transforms an editor selection with an LLM. It is meant to be run
// from Helix with pipe:, which replaces the selection with the output.
//
// Usage:
//
//	:pipe hxai -f src/lib.rs add error handling
package main
