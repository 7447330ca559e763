package ci

import (
	"regexp"
	"strings"

	"github.com/devbin/devbin/internal/github"
)

// MaxLogLines is how much of a failed log is kept, counting from the end.
const MaxLogLines = 1000

// logLinePrefix matches the "job\tstep\t2024-01-02T03:04:05.1234567Z" prefix
// that gh puts on every --log-failed line.
var logLinePrefix = regexp.MustCompile(`^.+\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d+Z`)

// CleanLog strips the per-line prefixes from a failed-job log and keeps the
// last maxLines lines (all of them when maxLines <= 0).
func CleanLog(raw string, maxLines int) string {
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = logLinePrefix.ReplaceAllString(l, "")
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, "\n")
}

// LatestFailure returns the first failed run. Runs are expected most recent
// first, as the API returns them.
func LatestFailure(runs []github.WorkflowRun) (github.WorkflowRun, bool) {
	for _, r := range runs {
		if r.Conclusion == "failure" {
			return r, true
		}
	}
	return github.WorkflowRun{}, false
}
