package difffilter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(path string, body ...string) string {
	lines := []string{
		fmt.Sprintf("diff --git a/%s b/%s", path, path),
		"index 1111111..2222222 100644",
		"--- a/" + path,
		"+++ b/" + path,
		"@@ -1,3 +1,4 @@",
	}
	return strings.Join(append(lines, body...), "\n")
}

func mustNew(t *testing.T, extra []string, maxLine int) *Filter {
	t.Helper()
	f, err := New(extra, maxLine)
	require.NoError(t, err)
	return f
}

func TestApply_DropsLockfileBlock(t *testing.T) {
	var lock []string
	for i := 0; i < 500; i++ {
		lock = append(lock, fmt.Sprintf(`+    "dep-%d": "1.0.%d",`, i, i))
	}
	var code []string
	for i := 0; i < 10; i++ {
		code = append(code, fmt.Sprintf("+    let x%d = %d;", i, i))
	}
	main := block("src/main.rs", code...)
	raw := block("package-lock.json", lock...) + "\n" + main

	got := mustNew(t, nil, DefaultMaxLineLength).Apply(raw)

	if diff := cmp.Diff(main, got); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_NoMatchesIsNoop(t *testing.T) {
	raw := block("a.go", "+package a") + "\n" + block("b/b.go", "+package b", " ctx")
	got := mustNew(t, nil, 0).Apply(raw)
	assert.Equal(t, raw, got)
}

func TestApply_ExcludedBlockInMiddle(t *testing.T) {
	first := block("README.md", "+hello")
	last := block("web/src/app.ts", "+export {}")
	raw := first + "\n" + block("web/yarn.lock", "+lodash@4") + "\n" + last

	got := mustNew(t, nil, 0).Apply(raw)

	assert.Equal(t, first+"\n"+last, got)
	assert.NotContains(t, got, "yarn.lock")
}

func TestApply_RepoSpecificPattern(t *testing.T) {
	raw := block("openapi/nexus.json", "+{}") + "\n" + block("nexus/src/lib.rs", "+fn main() {}")
	f := mustNew(t, []string{`^openapi/.*\.json$`}, 0)

	got := f.Apply(raw)

	assert.Equal(t, []string{"nexus/src/lib.rs"}, Paths(got))
}

func TestApply_DropsOverlongLinesEverywhere(t *testing.T) {
	long := "+" + strings.Repeat("x", 600)
	raw := block("fixtures/dump.txt", "+short", long, "+tail")

	got := mustNew(t, nil, DefaultMaxLineLength).Apply(raw)

	assert.NotContains(t, got, long)
	assert.Contains(t, got, "+short")
	assert.Contains(t, got, "+tail")
}

func TestApply_LineAtThresholdKept(t *testing.T) {
	exact := strings.Repeat("y", 20)
	got := mustNew(t, nil, 20).Apply(exact)
	assert.Equal(t, exact, got)
}

func TestApply_MultibyteLineUnderThresholdKept(t *testing.T) {
	cjk := "+" + strings.Repeat("日", 200)
	over := "+" + strings.Repeat("日", DefaultMaxLineLength)
	raw := block("locales/ja.json", cjk, over)

	got := mustNew(t, nil, DefaultMaxLineLength).Apply(raw)

	assert.Contains(t, got, cjk)
	assert.NotContains(t, got, over)
}

func TestApply_LongHeaderKept(t *testing.T) {
	deep := strings.Repeat("very/", 12) + "deep.go"
	raw := block("a.go", "+a") + "\n" + block(deep, "+b")

	got := mustNew(t, nil, 40).Apply(raw)

	assert.Equal(t, []string{"a.go", deep}, Paths(got))
	assert.Contains(t, got, "+b")
}

func TestApply_Idempotent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"single block", block("main.go", "+x")},
		{"lockfile only", block("Cargo.lock", "+[[package]]")},
		{"mixed", block("go.sum", "+h1:abc") + "\n" + block("main.go", "+"+strings.Repeat("z", 900), "+ok")},
		{"preamble", "From: someone\n" + block("x/pnpm-lock.yaml", "+a") + "\n" + block("x/y.ts", "+b")},
	}
	f := mustNew(t, []string{`generated/`}, DefaultMaxLineLength)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := f.Apply(tt.raw)
			twice := f.Apply(Unfence(Fence(once)))
			assert.Equal(t, once, twice)
		})
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New([]string{"("}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"("`)
}

func TestHeaderPath(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"diff --git a/main.go b/main.go", "main.go"},
		{"diff --git a/old/name.go b/new/name.go", "new/name.go"},
		{"diff --git a/dir b/x b/dir b/x", "x"},
		{"diff --git a/only", "only"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HeaderPath(tt.line), tt.line)
	}
}

func TestDefaultLockfiles(t *testing.T) {
	f := mustNew(t, nil, 0)
	for _, p := range []string{"package-lock.json", "app/package-lock.json", "Cargo.lock", "go.sum", "bun.lockb", "uv.lock"} {
		assert.True(t, f.Excluded(p), p)
	}
	for _, p := range []string{"src/lock.rs", "package.json", "Cargo.toml", "go.mod", "not-package-lock.json.bak"} {
		assert.False(t, f.Excluded(p), p)
	}
}

func TestFenceRoundTrip(t *testing.T) {
	s := "+a\n-b"
	assert.Equal(t, "```diff\n+a\n-b\n```", Fence(s))
	assert.Equal(t, s, Unfence(Fence(s)))
	assert.Equal(t, "plain", Unfence("plain"))
}
