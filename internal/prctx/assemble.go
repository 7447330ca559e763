package prctx

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/devbin/devbin/internal/difffilter"
)

// Options controls what Assemble fetches and how the diff is trimmed.
type Options struct {
	IncludeComments bool
	// Filter trims the diff. Nil means lockfile defaults only.
	Filter        *difffilter.Filter
	HunkTailLines int
}

// Assemble fetches everything about pr from src concurrently and joins it
// into a Context. Body and diff failures abort the whole call; the other
// sections are dropped with a warning.
func Assemble(ctx context.Context, src Source, pr PRRef, opts Options) (Context, error) {
	filter := opts.Filter
	if filter == nil {
		var err error
		if filter, err = difffilter.New(nil, difffilter.DefaultMaxLineLength); err != nil {
			return Context{}, err
		}
	}

	var (
		body, diff                         string
		commits, issues, comments          Section
		haveCommits, haveIssues, haveComms bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b, err := src.Body(gctx, pr)
		if err != nil {
			return fmt.Errorf("fetching body of %s: %w", pr, err)
		}
		body = strings.TrimSpace(b)
		return nil
	})

	g.Go(func() error {
		d, err := src.Diff(gctx, pr)
		if err != nil {
			return fmt.Errorf("fetching diff of %s: %w", pr, err)
		}
		diff = filter.Apply(d)
		return nil
	})

	g.Go(func() error {
		commits, haveCommits = optional(gctx, SectionCommits, func(ctx context.Context) (string, error) {
			cs, err := src.Commits(ctx, pr)
			return RenderCommits(cs), err
		})
		return nil
	})

	g.Go(func() error {
		issues, haveIssues = optional(gctx, SectionIssues, func(ctx context.Context) (string, error) {
			is, err := src.LinkedIssues(ctx, pr)
			return RenderIssues(is), err
		})
		return nil
	})

	if opts.IncludeComments {
		g.Go(func() error {
			comments, haveComms = optional(gctx, SectionComments, func(ctx context.Context) (string, error) {
				d, err := src.Discussion(ctx, pr)
				return RenderDiscussion(d, opts.HunkTailLines), err
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Context{}, err
	}

	var out Context
	if body != "" {
		out.Sections = append(out.Sections, Section{Name: SectionBody, Body: body})
	}
	if haveCommits {
		out.Sections = append(out.Sections, commits)
	}
	if haveIssues {
		out.Sections = append(out.Sections, issues)
	}
	if strings.TrimSpace(diff) != "" {
		out.Sections = append(out.Sections, Section{Name: SectionDiff, Body: difffilter.Fence(strings.TrimRight(diff, "\n"))})
	}
	if haveComms {
		out.Sections = append(out.Sections, comments)
	}
	return out, nil
}

// optional runs producer and labels its output. Errors are logged and the
// section is dropped; an empty result is dropped silently.
func optional(ctx context.Context, label string, producer func(context.Context) (string, error)) (Section, bool) {
	text, err := producer(ctx)
	if err != nil {
		// A cancelled group means a mandatory fetch already failed.
		if ctx.Err() == nil {
			log.Warn().Err(err).Str("section", label).Msg("skipping section")
		}
		return Section{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Section{}, false
	}
	return Section{Name: label, Body: text}, true
}
