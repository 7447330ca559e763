// Package github talks to the GitHub REST and GraphQL APIs through
// go-github. [Client] implements [prctx.Source] and also exposes the
// workflow-run, check-run and PR-listing calls used by aipr and cancel-ci.
//
// GraphQL documents are posted through the same go-github client so auth,
// base URL and rate-limit handling are shared with the REST calls. Every
// list query asks for a fixed first page (100 items, 50 for closing
// issues); longer lists are truncated.
package github
