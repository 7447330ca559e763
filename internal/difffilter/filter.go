package difffilter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const headerPrefix = "diff --git "

// DefaultMaxLineLength is the line length, in characters, above which a diff
// line is dropped.
const DefaultMaxLineLength = 500

// DefaultLockfiles are always excluded. They match on the final path segment
// so nested lockfiles (e.g. web/package-lock.json) are caught too.
var DefaultLockfiles = []string{
	`(^|/)package-lock\.json$`,
	`(^|/)pnpm-lock\.yaml$`,
	`(^|/)yarn\.lock$`,
	`(^|/)bun\.lockb?$`,
	`(^|/)Cargo\.lock$`,
	`(^|/)go\.sum$`,
	`(^|/)poetry\.lock$`,
	`(^|/)uv\.lock$`,
	`(^|/)Gemfile\.lock$`,
	`(^|/)composer\.lock$`,
	`(^|/)flake\.lock$`,
}

// Filter removes excluded file blocks and overlong lines from a diff.
type Filter struct {
	Exclude       []*regexp.Regexp
	MaxLineLength int // 0 disables the length check
}

// New compiles the lockfile defaults plus extra patterns into a Filter.
func New(extra []string, maxLineLength int) (*Filter, error) {
	patterns := make([]string, 0, len(DefaultLockfiles)+len(extra))
	patterns = append(patterns, DefaultLockfiles...)
	patterns = append(patterns, extra...)

	f := &Filter{MaxLineLength: maxLineLength}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Apply returns raw with excluded file blocks and overlong lines removed.
func (f *Filter) Apply(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	skipping := false

	for _, line := range lines {
		header := strings.HasPrefix(line, headerPrefix)
		if header {
			skipping = f.Excluded(HeaderPath(line))
		}
		if skipping {
			continue
		}
		// Headers survive the length check so every kept block stays attributed.
		if !header && f.overlong(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func (f *Filter) overlong(line string) bool {
	return f.MaxLineLength > 0 && utf8.RuneCountInString(line) > f.MaxLineLength
}

// Excluded reports whether path matches any exclusion rule.
func (f *Filter) Excluded(path string) bool {
	for _, re := range f.Exclude {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// HeaderPath extracts the post-image path from a "diff --git a/X b/Y" line.
// Paths containing " b/" are ambiguous in this format; the last occurrence wins.
func HeaderPath(line string) string {
	rest := strings.TrimPrefix(line, headerPrefix)
	if i := strings.LastIndex(rest, " b/"); i >= 0 {
		return rest[i+len(" b/"):]
	}
	return strings.TrimPrefix(rest, "a/")
}

// Paths lists the file paths of every block in raw, in order.
func Paths(raw string) []string {
	var paths []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(line, headerPrefix) {
			paths = append(paths, HeaderPath(line))
		}
	}
	return paths
}

// Fence wraps s in a diff code block.
func Fence(s string) string {
	return "```diff\n" + s + "\n```"
}

// Unfence strips the code block added by Fence. Input without a fence is
// returned unchanged.
func Unfence(s string) string {
	if !strings.HasPrefix(s, "```diff\n") || !strings.HasSuffix(s, "\n```") {
		return s
	}
	return strings.TrimSuffix(strings.TrimPrefix(s, "```diff\n"), "\n```")
}
