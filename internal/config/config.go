package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/devbin/devbin/internal/difffilter"
)

const (
	appName   = "devbin"
	envPrefix = "DEVBIN_"
)

// Config represents the devbin configuration.
type Config struct {
	DefaultOwner string           `koanf:"default_owner" json:"default_owner"`
	Diff         DiffConfig       `koanf:"diff" json:"diff"`
	Repos        []RepoConfig     `koanf:"repos" json:"repos,omitempty"`
	LLM          LLMConfig        `koanf:"llm" json:"llm"`
	Workspaces   WorkspacesConfig `koanf:"workspaces" json:"workspaces"`
	Cache        CacheConfig      `koanf:"cache" json:"cache"`
	Privacy      PrivacyConfig    `koanf:"privacy" json:"privacy"`
}

// DiffConfig controls diff trimming for every repo.
type DiffConfig struct {
	MaxLineLength int      `koanf:"max_line_length" json:"max_line_length"`
	Exclude       []string `koanf:"exclude" json:"exclude,omitempty"`
}

// RepoConfig adds exclusions for one repo. Name is "owner/repo" or "repo".
type RepoConfig struct {
	Name    string   `koanf:"name" json:"name"`
	Exclude []string `koanf:"exclude" json:"exclude,omitempty"`
}

// LLMConfig selects the model used by aipr, hxai and ai-edit.
type LLMConfig struct {
	Provider  string `koanf:"provider" json:"provider"`
	Model     string `koanf:"model" json:"model"`
	MaxTokens int    `koanf:"max_tokens" json:"max_tokens"`
}

// WorkspacesConfig controls where jjw puts workspaces.
type WorkspacesConfig struct {
	Dir string `koanf:"dir" json:"dir"`
}

// CacheConfig controls caching of LLM responses.
type CacheConfig struct {
	Enabled    bool   `koanf:"enabled" json:"enabled"`
	Dir        string `koanf:"dir" json:"dir,omitempty"`
	TTLSeconds int    `koanf:"ttl_seconds" json:"ttl_seconds"`
}

// PrivacyConfig controls what is scrubbed before text leaves the machine.
type PrivacyConfig struct {
	RedactSecrets bool `koanf:"redact_secrets" json:"redact_secrets"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		DefaultOwner: "oxidecomputer",
		Diff: DiffConfig{
			MaxLineLength: difffilter.DefaultMaxLineLength,
		},
		LLM: LLMConfig{
			Provider:  "anthropic",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 8192,
		},
		Workspaces: WorkspacesConfig{
			Dir: "~/jj-workspaces",
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
	}
}

func defaultMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"default_owner":          d.DefaultOwner,
		"diff.max_line_length":   d.Diff.MaxLineLength,
		"diff.exclude":           []string{},
		"llm.provider":           d.LLM.Provider,
		"llm.model":              d.LLM.Model,
		"llm.max_tokens":         d.LLM.MaxTokens,
		"workspaces.dir":         d.Workspaces.Dir,
		"cache.enabled":          d.Cache.Enabled,
		"cache.dir":              d.Cache.Dir,
		"cache.ttl_seconds":      d.Cache.TTLSeconds,
		"privacy.redact_secrets": d.Privacy.RedactSecrets,
	}
}

// ConfigDir returns the platform-appropriate config directory for devbin.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "AppData", "Roaming", appName), nil
	default:
		return filepath.Join(home, ".config", appName), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// Override keys use the dotted koanf form ("llm.model"); empty values are ignored.
func Load(overrides map[string]string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := loadDotenv(); err != nil {
		return Config{}, err
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	if flags := overrideMap(overrides); len(flags) > 0 {
		if err := k.Load(confmap.Provider(flags, "."), nil); err != nil {
			return Config{}, fmt.Errorf("applying flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Workspaces.Dir = ExpandHome(cfg.Workspaces.Dir)
	cfg.Cache.Dir = ExpandHome(cfg.Cache.Dir)
	return cfg, nil
}

// envKey maps DEVBIN_LLM__MAX_TOKENS to llm.max_tokens.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// loadDotenv reads .env from the config dir, then the working directory.
// Variables already in the environment win.
func loadDotenv() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	for _, p := range []string{filepath.Join(dir, ".env"), ".env"} {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", p, err)
		}
	}
	return nil
}

func overrideMap(overrides map[string]string) map[string]interface{} {
	m := make(map[string]interface{}, len(overrides))
	for k, v := range overrides {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// ExcludeFor returns the extra exclusion patterns for repo ("owner/repo"):
// the global list followed by any repo-specific list.
func (c Config) ExcludeFor(repo string) []string {
	out := append([]string(nil), c.Diff.Exclude...)
	_, name, _ := strings.Cut(repo, "/")
	for _, r := range c.Repos {
		if r.Name == repo || (!strings.Contains(r.Name, "/") && r.Name == name) {
			out = append(out, r.Exclude...)
		}
	}
	return out
}

// DiffFilter builds the diff filter for repo.
func (c Config) DiffFilter(repo string) (*difffilter.Filter, error) {
	return difffilter.New(c.ExcludeFor(repo), c.Diff.MaxLineLength)
}

// Init writes a commented starter config file. It refuses to overwrite.
func Init() (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}

const sampleConfig = `# devbin configuration

# Owner used when a repo selector has no "owner/" part.
default_owner = "oxidecomputer"

[diff]
# Lines longer than this are dropped from PR diffs. 0 disables.
max_line_length = 500
# Extra path regexps to drop from every diff. Lockfiles are always dropped.
exclude = []

# Per-repo exclusions.
# [[repos]]
# name = "oxidecomputer/console"
# exclude = ['^app/api/__generated__/']

[llm]
provider = "anthropic"
model = "claude-sonnet-4-20250514"
max_tokens = 8192

[workspaces]
dir = "~/jj-workspaces"

[cache]
enabled = true
ttl_seconds = 86400

[privacy]
redact_secrets = true
`
