package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "devbin")
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.DefaultOwner != "oxidecomputer" {
		t.Errorf("Default owner = %q, want %q", cfg.DefaultOwner, "oxidecomputer")
	}
	if cfg.Diff.MaxLineLength != 500 {
		t.Errorf("Default max line length = %d, want 500", cfg.Diff.MaxLineLength)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("Default provider = %q, want %q", cfg.LLM.Provider, "anthropic")
	}
	if !cfg.Privacy.RedactSecrets {
		t.Error("Default redact_secrets should be true")
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "oxidecomputer", cfg.DefaultOwner)
	assert.Equal(t, 500, cfg.Diff.MaxLineLength)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 86400, cfg.Cache.TTLSeconds)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "jj-workspaces"), cfg.Workspaces.Dir)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
default_owner = "octocat"

[diff]
max_line_length = 200
exclude = ['\.snap$']

[[repos]]
name = "octocat/hello"
exclude = ['^gen/']

[llm]
model = "claude-opus-4-1"

[cache]
enabled = false
`)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "octocat", cfg.DefaultOwner)
	assert.Equal(t, 200, cfg.Diff.MaxLineLength)
	assert.Equal(t, []string{`\.snap$`}, cfg.Diff.Exclude)
	require.Len(t, cfg.Repos, 1)
	assert.Equal(t, "octocat/hello", cfg.Repos[0].Name)
	assert.Equal(t, "claude-opus-4-1", cfg.LLM.Model)
	assert.Equal(t, "anthropic", cfg.LLM.Provider, "unset keys keep defaults")
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "[llm]\nmodel = \"from-file\"\n")
	t.Setenv("DEVBIN_LLM__MODEL", "from-env")
	t.Setenv("DEVBIN_DEFAULT_OWNER", "env-owner")
	t.Setenv("DEVBIN_DIFF__MAX_LINE_LENGTH", "80")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.LLM.Model)
	assert.Equal(t, "env-owner", cfg.DefaultOwner)
	assert.Equal(t, 80, cfg.Diff.MaxLineLength)
}

func TestLoad_DotenvFromConfigDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DEVBIN_LLM__PROVIDER=openai\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DEVBIN_LLM__PROVIDER") })

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
}

func TestLoad_OverridesWin(t *testing.T) {
	isolate(t)
	t.Setenv("DEVBIN_LLM__MODEL", "from-env")

	cfg, err := Load(map[string]string{"llm.model": "from-flag", "llm.provider": ""})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.LLM.Model)
	assert.Equal(t, "anthropic", cfg.LLM.Provider, "empty override is ignored")
}

func TestLoad_BadFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "this is = = not toml")

	_, err := Load(nil)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"DEVBIN_DEFAULT_OWNER":           "default_owner",
		"DEVBIN_LLM__MAX_TOKENS":         "llm.max_tokens",
		"DEVBIN_PRIVACY__REDACT_SECRETS": "privacy.redact_secrets",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExcludeFor(t *testing.T) {
	cfg := Default()
	cfg.Diff.Exclude = []string{"global"}
	cfg.Repos = []RepoConfig{
		{Name: "oxidecomputer/console", Exclude: []string{"full"}},
		{Name: "console", Exclude: []string{"bare"}},
		{Name: "other/console", Exclude: []string{"wrong-owner"}},
	}

	assert.Equal(t, []string{"global", "full", "bare"}, cfg.ExcludeFor("oxidecomputer/console"))
	assert.Equal(t, []string{"global"}, cfg.ExcludeFor("oxidecomputer/omicron"))
}

func TestDiffFilter(t *testing.T) {
	cfg := Default()
	cfg.Repos = []RepoConfig{{Name: "console", Exclude: []string{`^app/api/__generated__/`}}}

	f, err := cfg.DiffFilter("oxidecomputer/console")
	require.NoError(t, err)
	assert.True(t, f.Excluded("app/api/__generated__/Api.ts"))
	assert.True(t, f.Excluded("package-lock.json"))
	assert.False(t, f.Excluded("app/main.ts"))
	assert.Equal(t, 500, f.MaxLineLength)
}

func TestInit(t *testing.T) {
	dir := isolate(t)

	path, err := Init()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), path)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default().LLM, cfg.LLM)

	_, err = Init()
	assert.ErrorContains(t, err, "already exists")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x"), ExpandHome("~/x"))
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, "/abs", ExpandHome("/abs"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}
