package prctx

import (
	"fmt"
	"strings"
)

// SelectorError reports a repo selector that is neither "owner/repo" nor "repo".
type SelectorError struct {
	Selector string
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("bad repo selector '%s': must look like 'owner/repo' or 'repo'", e.Selector)
}

// ParseRepoSelector parses "owner/repo" or "repo". The bare form uses defaultOwner.
func ParseRepoSelector(s, defaultOwner string) (RepoRef, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	switch len(parts) {
	case 1:
		if parts[0] == "" || defaultOwner == "" {
			break
		}
		return RepoRef{Owner: defaultOwner, Name: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			break
		}
		return RepoRef{Owner: parts[0], Name: parts[1]}, nil
	}
	return RepoRef{}, &SelectorError{Selector: s}
}
