// Package redact removes secrets from text before it is sent to any LLM
// provider.
//
// Detection runs the gitleaks default rule set first and then a small set of
// regex heuristics for shapes gitleaks scores as low-entropy (assignments of
// passwords and tokens, bearer headers). Every detected secret is replaced
// with [REDACTED].
package redact
