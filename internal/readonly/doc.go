// Package readonly turns a restricted set of `gh api` options into an
// argument list that can only read. Flags that write (--method, -f, --input
// and friends) are never accepted by the command in the first place; this
// package checks what is left: the endpoint and, for GraphQL, the document.
package readonly
