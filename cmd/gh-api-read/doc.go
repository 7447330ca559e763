// Gh-api-read runs gh api with only read-only flags allowed. GraphQL
// documents must be plain queries.
//
// Usage:
//
//	gh-api-read repos/oxidecomputer/omicron/pulls -q ".[].title"
//	echo "{ viewer { login } }" | gh-api-read graphql
package main
