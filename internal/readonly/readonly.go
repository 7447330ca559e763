package readonly

import (
	"regexp"
	"strings"
)

// ValidationError is a request that would not be read-only.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

var (
	absoluteURLRe  = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://`)
	mutationRe     = regexp.MustCompile(`(?i)\bmutation\b`)
	subscriptionRe = regexp.MustCompile(`(?i)\bsubscription\b`)
	queryStartRe   = regexp.MustCompile(`(?i)^(query\b|\{)`)
)

// Request is a read-only gh api call.
type Request struct {
	Endpoint     string
	JQ           string
	Template     string
	Cache        string
	Paginate     bool
	Slurp        bool
	GraphQLQuery string
}

// IsGraphQL reports whether endpoint names the GraphQL API.
func IsGraphQL(endpoint string) bool {
	name := strings.TrimLeft(endpoint, "/")
	name, _, _ = strings.Cut(name, "?")
	return strings.EqualFold(name, "graphql")
}

// CheckGraphQL rejects any document that is not plainly a query. Any
// mention of the words mutation or subscription fails, even inside a string.
func CheckGraphQL(doc string) error {
	s := strings.TrimLeft(doc, " \t\r\n")
	if mutationRe.MatchString(s) {
		return invalid("GraphQL mutations are not allowed")
	}
	if subscriptionRe.MatchString(s) {
		return invalid("GraphQL subscriptions are not allowed")
	}
	if !queryStartRe.MatchString(s) {
		return invalid("graphql only supports queries starting with `query` or `{`")
	}
	return nil
}

// NeedsStdin reports whether Args will want the query from stdin.
func (r Request) NeedsStdin() bool {
	return IsGraphQL(r.Endpoint) && r.GraphQLQuery == ""
}

// Args validates r and returns the arguments to pass after `gh api`.
// stdinQuery is used for graphql when no query flag was given.
func (r Request) Args(stdinQuery string) ([]string, error) {
	if absoluteURLRe.MatchString(r.Endpoint) {
		return nil, invalid("absolute URL endpoints are not allowed")
	}

	graphql := IsGraphQL(r.Endpoint)
	if !graphql && r.GraphQLQuery != "" {
		return nil, invalid("--graphql-query is only valid with the graphql endpoint")
	}

	args := []string{r.Endpoint}
	if graphql {
		args = []string{"graphql"}
	}
	if r.JQ != "" {
		args = append(args, "--jq", r.JQ)
	}
	if r.Template != "" {
		args = append(args, "--template", r.Template)
	}
	if r.Cache != "" {
		args = append(args, "--cache", r.Cache)
	}
	if r.Paginate {
		args = append(args, "--paginate")
	}
	if r.Slurp {
		args = append(args, "--slurp")
	}

	if !graphql {
		return args, nil
	}

	query := r.GraphQLQuery
	if query == "" {
		query = strings.TrimSpace(stdinQuery)
	}
	if query == "" {
		return nil, invalid("graphql requires --graphql-query or query on stdin")
	}
	if err := CheckGraphQL(query); err != nil {
		return nil, err
	}
	return append(args, "-f", "query="+query), nil
}
