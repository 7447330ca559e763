package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/devbin/devbin/internal/ghcli"
	"github.com/devbin/devbin/internal/readonly"
	"github.com/devbin/devbin/internal/vcs"
)

var apiRequest readonly.Request

var ghAPIReadCmd = &cobra.Command{
	Use:   "gh-api-read <endpoint>",
	Short: "Run gh api, refusing anything that could write",
	Long: `gh-api-read passes a GET request through to gh api. Only the flags below
are accepted. For the graphql endpoint the query comes from --graphql-query
or stdin and must be a plain query.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: handle(func(cmd *cobra.Command, args []string) error {
		req := apiRequest
		req.Endpoint = args[0]

		var query string
		if req.NeedsStdin() && !stdinIsTerminal() {
			b, err := io.ReadAll(stdin)
			if err != nil {
				return err
			}
			query = string(b)
		}

		ghArgs, err := req.Args(query)
		if err != nil {
			return err
		}

		err = ghcli.New(runner).API(cmd.Context(), ghArgs)
		var cmdErr *vcs.CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode() > 0 {
			// gh has already explained itself on stderr.
			exitCode = cmdErr.ExitCode()
			return nil
		}
		return err
	}),
}

func init() {
	f := ghAPIReadCmd.Flags()
	f.StringVarP(&apiRequest.JQ, "jq", "q", "", "Query to select values from the response using jq syntax")
	f.StringVarP(&apiRequest.Template, "template", "t", "", "Format JSON output using a Go template")
	f.StringVar(&apiRequest.Cache, "cache", "", "Cache the response, e.g. \"3600s\", \"60m\", \"1h\"")
	f.BoolVar(&apiRequest.Paginate, "paginate", false, "Make additional requests to fetch all pages of results")
	f.BoolVar(&apiRequest.Slurp, "slurp", false, "With --paginate, return an array of all pages")
	f.StringVar(&apiRequest.GraphQLQuery, "graphql-query", "", "GraphQL query (otherwise read from stdin)")
	register(ghAPIReadCmd)
}
