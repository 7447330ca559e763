// Package providers implements the Completer interface for each supported
// LLM provider.
//
// Supported providers: Anthropic (Claude), OpenAI (GPT), Google (Gemini), and
// Ollama / LMStudio for local models. The Anthropic client also drives the
// text-editor tool used by ai-edit.
//
// All providers share a common retry helper with exponential back-off for
// rate limits and 5xx responses. HTTP clients are plain fields so tests can
// point them at local httptest servers.
//
// Use [New] to obtain a Completer by provider name and model string.
package providers
