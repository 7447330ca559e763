// Aipr gathers the context of a GitHub pull request and optionally asks an
// LLM to review it or to explain a CI failure.
//
// Usage:
//
//	aipr context [-R repo] [--comments] [pr]   # print the context document
//	aipr review [-R repo] [-p prompt] [pr]     # review the PR with an LLM
//	aipr debug-ci [-R repo] [pr]               # explain the latest failed run
//	aipr config init|show|path
//	aipr cache show|clear
//
// Without a PR number, aipr offers a picker over the open PRs of the repo.
package main
