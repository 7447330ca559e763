package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/devbin/devbin/internal/cache"
	"github.com/devbin/devbin/internal/config"
	"github.com/devbin/devbin/internal/providers"
	"github.com/devbin/devbin/internal/redact"
)

// Session sends prompts to one provider/model.
type Session struct {
	Provider providers.Completer
	Model    string
	// Cache may be nil.
	Cache *cache.Cache
	// Redactor may be nil, in which case prompts are sent as-is.
	Redactor  *redact.Redactor
	MaxTokens int
}

// Overrides are per-invocation choices that beat the config file.
type Overrides struct {
	Provider string
	Model    string
	NoCache  bool
}

// NewSession builds a Session from configuration.
func NewSession(cfg config.Config, o Overrides) (*Session, error) {
	name := cfg.LLM.Provider
	if o.Provider != "" {
		name = o.Provider
	}
	model := cfg.LLM.Model
	if o.Model != "" {
		model = o.Model
	} else if o.Provider != "" && o.Provider != cfg.LLM.Provider {
		// The configured model belongs to the configured provider.
		model = ""
	}
	if model == "" {
		model = providers.DefaultModel(name)
	}

	p, err := providers.New(name, model)
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	s := &Session{Provider: p, Model: model, MaxTokens: cfg.LLM.MaxTokens}
	if cfg.Cache.Enabled && !o.NoCache {
		c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			return nil, err
		}
		s.Cache = c
	}
	if cfg.Privacy.RedactSecrets {
		s.Redactor = redact.Default()
	}
	return s, nil
}

// Ask redacts prompt, returns a cached answer if there is one, and otherwise
// asks the provider and caches its answer.
func (s *Session) Ask(ctx context.Context, system, prompt string) (string, error) {
	if s.Redactor != nil {
		prompt = s.Redactor.Secrets(prompt)
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("nothing to send: prompt is empty")
	}

	key := cache.Key{
		Provider: s.Provider.Name(),
		Model:    s.Model,
		System:   system,
		Prompt:   prompt,
	}
	if s.Cache != nil {
		if resp, ok := s.Cache.Get(key); ok {
			return resp, nil
		}
	}

	start := time.Now()
	resp, err := s.Provider.Complete(ctx, providers.Request{
		SystemPrompt: system,
		UserPrompt:   prompt,
		MaxTokens:    s.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", s.Provider.Name(), err)
	}
	log.Debug().
		Str("provider", s.Provider.Name()).
		Str("model", s.Model).
		Int("tokens", resp.TokensUsed).
		Dur("elapsed", time.Since(start)).
		Msg("completion finished")

	if s.Cache != nil {
		if err := s.Cache.Put(key, resp.Content); err != nil {
			log.Warn().Err(err).Msg("caching response")
		}
	}
	return resp.Content, nil
}
