package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// graphql posts query and decodes its data object into out. name labels the
// query in errors and logs.
func (c *Client) graphql(ctx context.Context, name, query string, vars map[string]any, out any) error {
	req, err := c.gh.NewRequest("POST", "graphql", graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("building %s request: %w", name, err)
	}

	log.Debug().Str("query", name).Interface("vars", vars).Msg("graphql")

	var resp graphqlResponse
	if _, err := c.gh.Do(ctx, req, &resp); err != nil {
		return apiError(err, name)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("%s: %s", name, strings.Join(msgs, "; "))
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return &ResponseError{Query: name, Err: fmt.Errorf("empty data")}
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return &ResponseError{Query: name, Err: err}
	}
	return nil
}

// prVars are the variables every pull request query takes.
func prVars(owner, repo string, number int) map[string]any {
	return map[string]any{"owner": owner, "repo": repo, "number": number}
}

type actor struct {
	Login string `json:"login"`
}

// loginOf returns the login of a possibly deleted account.
func loginOf(a *actor) string {
	if a == nil || a.Login == "" {
		return "ghost"
	}
	return a.Login
}
