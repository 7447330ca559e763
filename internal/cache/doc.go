// Package cache stores LLM responses on disk so that re-running a review of
// an unchanged pull request does not pay for a second completion.
//
// Entries are JSON files named by the SHA-256 of the provider, model and the
// full prompt text. Prompts have already been through secret redaction when
// they reach the cache. Entries older than the TTL are treated as misses and
// removed on read.
package cache
