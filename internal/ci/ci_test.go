package ci

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbin/devbin/internal/github"
	"github.com/devbin/devbin/internal/prctx"
)

var repo = prctx.RepoRef{Owner: "oxidecomputer", Name: "omicron"}

type fakeAPI struct {
	mu        sync.Mutex
	checks    map[string][]github.CheckRun
	checksErr error
	runs      []github.WorkflowRun
	failIDs   map[int64]bool
	cancelled []int64
	runQuery  []string
}

func (f *fakeAPI) CheckRuns(_ context.Context, _ prctx.RepoRef, sha string) ([]github.CheckRun, error) {
	return f.checks[sha], f.checksErr
}

func (f *fakeAPI) WorkflowRuns(_ context.Context, _ prctx.RepoRef, branch, headSHA, event string) ([]github.WorkflowRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runQuery = []string{branch, headSHA, event}
	return f.runs, nil
}

func (f *fakeAPI) CancelRun(_ context.Context, _ prctx.RepoRef, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[id] {
		return errors.New("409 conflict")
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

func TestCleanLog(t *testing.T) {
	raw := "build\tRun tests\t2024-05-06T07:08:09.1234567Z thread 'x' panicked\n" +
		"build\tRun tests\t2024-05-06T07:08:10.0000001Z test result: FAILED\n" +
		"no prefix here"
	got := CleanLog(raw, 0)
	assert.Equal(t, " thread 'x' panicked\n test result: FAILED\nno prefix here", got)
}

func TestCleanLog_KeepsTail(t *testing.T) {
	var lines []string
	for i := 0; i < 1500; i++ {
		lines = append(lines, "line")
	}
	lines[len(lines)-1] = "last"

	got := strings.Split(CleanLog(strings.Join(lines, "\n"), MaxLogLines), "\n")
	assert.Len(t, got, MaxLogLines)
	assert.Equal(t, "last", got[len(got)-1])
}

func TestLatestFailure(t *testing.T) {
	runs := []github.WorkflowRun{
		{ID: 3, Conclusion: "success"},
		{ID: 2, Conclusion: "failure"},
		{ID: 1, Conclusion: "failure"},
	}
	r, ok := LatestFailure(runs)
	require.True(t, ok)
	assert.Equal(t, int64(2), r.ID)

	_, ok = LatestFailure(runs[:1])
	assert.False(t, ok)
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"a", "b", "a"}, []string{"c", "b", ""})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestFindPending(t *testing.T) {
	api := &fakeAPI{checks: map[string][]github.CheckRun{
		"aaaaaaaaaa": {{Name: "build", Status: "completed"}},
		"bbbbbbbbbb": {{Name: "build", Status: "in_progress", AppSlug: "github-actions"}, {Name: "lint", Status: "completed"}},
		"cccccccccc": {{Name: "buildomat", Status: "queued", AppSlug: "buildomat"}},
	}}

	got, err := FindPending(context.Background(), api, repo, []string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "bbbbbbbbbb", got[0].SHA)
	assert.Equal(t, "bbbbbbb (1 running)", got[0].Label())
	assert.Len(t, got[0].Actions(), 1)
	assert.Empty(t, got[0].External())

	assert.Equal(t, "cccccccccc", got[1].SHA)
	assert.Len(t, got[1].External(), 1)
}

func TestFindPending_Error(t *testing.T) {
	api := &fakeAPI{checksErr: errors.New("rate limited")}
	_, err := FindPending(context.Background(), api, repo, []string{"abc"})
	assert.ErrorContains(t, err, "rate limited")
}

func TestCancelActions_IgnoresFailures(t *testing.T) {
	api := &fakeAPI{
		runs:    []github.WorkflowRun{{ID: 1}, {ID: 2}, {ID: 3}},
		failIDs: map[int64]bool{2: true},
	}

	n, err := CancelActions(context.Background(), api, repo, "abc")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []int64{1, 3}, api.cancelled)
	assert.Equal(t, []string{"", "abc", "pull_request"}, api.runQuery)
}

func TestShortSHA(t *testing.T) {
	assert.Equal(t, "abcdef1", ShortSHA("abcdef1234"))
	assert.Equal(t, "abc", ShortSHA("abc"))
}
