package prctx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/devbin/devbin/internal/difffilter"
)

// Section names, in output order.
const (
	SectionBody     = "Body"
	SectionCommits  = "Commits"
	SectionIssues   = "Linked issues"
	SectionDiff     = "Diff"
	SectionComments = "Comments"
)

// DefaultHunkTailLines is how many trailing diff hunk lines are shown above
// an inline comment.
const DefaultHunkTailLines = 4

// Section is one titled block of the context document.
type Section struct {
	Name string
	Body string
}

// Context is the assembled document. Sections are already in output order
// and never empty.
type Context struct {
	Sections []Section
}

// String renders the document as Markdown.
func (c Context) String() string {
	parts := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		parts = append(parts, "# "+s.Name+"\n\n"+s.Body)
	}
	return strings.Join(parts, "\n\n")
}

// Section returns the named section, if present.
func (c Context) Section(name string) (Section, bool) {
	for _, s := range c.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Names lists the section names in order.
func (c Context) Names() []string {
	names := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		names[i] = s.Name
	}
	return names
}

func timestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// RenderIssues formats linked issues as second-level headings.
func RenderIssues(issues []LinkedIssue) string {
	blocks := make([]string, 0, len(issues))
	for _, i := range issues {
		blocks = append(blocks, fmt.Sprintf("## %s (%s#%d)\n\n%s", i.Title, i.RepoName, i.Number, i.Body))
	}
	return strings.Join(blocks, "\n\n")
}

// RenderCommits formats commits oldest first, as returned by the source.
func RenderCommits(commits []Commit) string {
	blocks := make([]string, 0, len(commits))
	for _, c := range commits {
		var b strings.Builder
		fmt.Fprintf(&b, "## %s\n", c.ID)
		fmt.Fprintf(&b, "Author: %s\n", strings.Join(c.Authors, ", "))
		fmt.Fprintf(&b, "Date: %s\n\n", timestamp(c.CommittedAt))
		b.WriteString(c.Headline)
		if body := strings.TrimSpace(c.Body); body != "" {
			b.WriteString("\n\n" + body)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// RenderDiscussion formats reviews and inline comments. Collapsed threads
// and minimized comments are left out.
func RenderDiscussion(d Discussion, tailLines int) string {
	if tailLines <= 0 {
		tailLines = DefaultHunkTailLines
	}

	var blocks []string
	for _, r := range d.Reviews {
		if strings.TrimSpace(r.Body) == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("## Review by %s (%s)\n\n%s", r.Author, timestamp(r.SubmittedAt), r.Body))
	}
	for _, t := range d.Threads {
		if t.IsCollapsed {
			continue
		}
		for _, c := range t.Comments {
			if c.IsMinimized {
				continue
			}
			blocks = append(blocks, renderComment(c, tailLines))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func renderComment(c ReviewComment, tailLines int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s)", c.Author, timestamp(c.CreatedAt))
	if c.IsOutdated {
		b.WriteString(" [outdated]")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Path: %s\n", c.Path)
	fmt.Fprintf(&b, "Line: %s\n", commentLine(c))
	fmt.Fprintf(&b, "Commit: %s\n\n", c.CommitID)

	tail := c.DiffHunkTail
	if len(tail) > tailLines {
		tail = tail[len(tail)-tailLines:]
	}
	if len(tail) > 0 {
		b.WriteString(difffilter.Fence(strings.Join(tail, "\n")) + "\n\n")
	}
	b.WriteString(c.Body)
	return b.String()
}

// commentLine prefers the current line and falls back to the line the
// comment was originally made on.
func commentLine(c ReviewComment) string {
	switch {
	case c.Line != nil:
		return strconv.Itoa(*c.Line)
	case c.OriginalLine != nil:
		return strconv.Itoa(*c.OriginalLine)
	default:
		return ""
	}
}
