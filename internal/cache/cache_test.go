package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testKey = Key{Provider: "anthropic", Model: "claude", System: "be harsh", Prompt: "# Body\n\nfix"}

func TestCache_PutGet(t *testing.T) {
	c, err := New(true, t.TempDir(), 86400)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if _, ok := c.Get(testKey); ok {
		t.Error("Expected cache miss before put")
	}
	if err := c.Put(testKey, "## Review"); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, ok := c.Get(testKey)
	if !ok {
		t.Fatal("Expected cache hit after put")
	}
	if got != "## Review" {
		t.Errorf("Got = %q, want %q", got, "## Review")
	}
}

func TestCache_KeyFieldsMatter(t *testing.T) {
	c, err := New(true, t.TempDir(), 0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := c.Put(testKey, "cached"); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	other := testKey
	other.Model = "gpt-4o"
	if _, ok := c.Get(other); ok {
		t.Error("different model should miss")
	}
	other = testKey
	other.Prompt += " "
	if _, ok := c.Get(other); ok {
		t.Error("different prompt should miss")
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 60)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Put(testKey, "data"); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if _, ok := c.Get(testKey); !ok {
		t.Error("Expected cache hit before expiration")
	}

	now = now.Add(61 * time.Second)
	if _, ok := c.Get(testKey); ok {
		t.Error("Expected cache miss after TTL expiration")
	}
	if _, err := os.Stat(filepath.Join(dir, testKey.Hash()+".json")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestCache_Disabled(t *testing.T) {
	c, err := New(false, "", 0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if c.Enabled() {
		t.Error("Cache should be disabled")
	}
	if err := c.Put(testKey, "value"); err != nil {
		t.Errorf("Put on disabled cache should not error: %v", err)
	}
	if _, ok := c.Get(testKey); ok {
		t.Error("Get on disabled cache should always miss")
	}
	if n, err := c.Clear(); err != nil || n != 0 {
		t.Errorf("Clear = %d, %v", n, err)
	}
}

func TestCache_CorruptEntryMisses(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, testKey.Hash()+".json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(testKey); ok {
		t.Error("corrupt entry should miss")
	}
}

func TestCache_ClearAndStats(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 60)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for _, p := range []string{"a", "b", "c"} {
		k := testKey
		k.Prompt = p
		if err := c.Put(k, "x"); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}
	// Unrelated files are left alone.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Minute)
	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.Entries != 3 || stats.Expired != 3 || stats.TotalBytes == 0 {
		t.Errorf("stats = %+v", stats)
	}
	if !strings.HasPrefix(stats.String(), dir+": 3 entries (3 expired), ") {
		t.Errorf("String() = %q", stats.String())
	}

	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Error("Clear removed a non-cache file")
	}
}

func TestKey_Hash(t *testing.T) {
	h := testKey.Hash()
	if len(h) != 64 {
		t.Errorf("hash length = %d, want 64", len(h))
	}
	if h != testKey.Hash() {
		t.Error("hash not deterministic")
	}
	// Field boundaries are part of the key.
	a := Key{Provider: "ab", Model: "c"}
	b := Key{Provider: "a", Model: "bc"}
	if a.Hash() == b.Hash() {
		t.Error("field boundaries should change the hash")
	}
}

func TestDefaultDir_XDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	d, err := defaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if d != filepath.Join("/tmp/xdg", "devbin") {
		t.Errorf("defaultDir = %q", d)
	}
}
