package redact

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zricethezav/gitleaks/v8/detect"
)

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for common secret types.
var secretPatterns = []*regexp.Regexp{
	// Generic API keys (long hex/base64 strings after common key patterns)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// Generic secrets/tokens/passwords in assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`),
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
}

// Redactor replaces secrets in text. The zero value only applies the regex
// heuristics; New also loads the gitleaks rules.
type Redactor struct {
	detector *detect.Detector
}

var (
	defaultOnce     sync.Once
	defaultRedactor *Redactor
)

// New returns a Redactor backed by the gitleaks default configuration. If the
// configuration cannot be loaded it falls back to the heuristics alone.
func New() *Redactor {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		log.Warn().Err(err).Msg("loading gitleaks rules; using built-in patterns only")
		return &Redactor{}
	}
	return &Redactor{detector: d}
}

// Default returns a shared Redactor, built on first use.
func Default() *Redactor {
	defaultOnce.Do(func() { defaultRedactor = New() })
	return defaultRedactor
}

// Secrets replaces every detected secret in text with [REDACTED].
func (r *Redactor) Secrets(text string) string {
	result := text
	if r != nil && r.detector != nil {
		var found []string
		for _, f := range r.detector.DetectString(text) {
			if f.Secret != "" {
				found = append(found, f.Secret)
			}
		}
		// Longest first so a secret containing another is replaced whole.
		sort.Slice(found, func(i, j int) bool { return len(found[i]) > len(found[j]) })
		for _, s := range found {
			result = strings.ReplaceAll(result, s, placeholder)
		}
		if len(found) > 0 {
			log.Debug().Int("findings", len(found)).Msg("redacted secrets")
		}
	}
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllString(result, placeholder)
	}
	return result
}

// Secrets redacts text with the shared Redactor.
func Secrets(text string) string {
	return Default().Secrets(text)
}
