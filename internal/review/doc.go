// Package review sends assembled text to an LLM provider.
//
// It holds the system prompts used by the tools (PR review, CI failure
// debugging, editor code completion) and a Session that redacts secrets,
// consults the response cache and calls the configured provider.
package review
