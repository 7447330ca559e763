// Package statusline formats the status line shown by the coding agent's
// terminal UI from the session JSON it pipes in.
package statusline

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
)

// Input is the subset of the session JSON that the status line uses.
type Input struct {
	Model struct {
		DisplayName string `json:"display_name"`
	} `json:"model"`
	ContextWindow struct {
		Size         int    `json:"context_window_size"`
		CurrentUsage *Usage `json:"current_usage"`
	} `json:"context_window"`
	Cost struct {
		TotalCostUSD *float64 `json:"total_cost_usd"`
	} `json:"cost"`
}

// Usage is the token usage of the latest request.
type Usage struct {
	InputTokens              int `json:"input_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
}

// Tokens is the number of tokens occupying the context window.
func (in Input) Tokens() int {
	u := in.ContextWindow.CurrentUsage
	if u == nil {
		return 0
	}
	return u.InputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
}

// Percent is the floor of the share of the context window in use. A missing
// window size yields 0.
func (in Input) Percent() int {
	if in.ContextWindow.Size <= 0 {
		return 0
	}
	return in.Tokens() * 100 / in.ContextWindow.Size
}

// Parse decodes the session JSON.
func Parse(r io.Reader) (Input, error) {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return in, fmt.Errorf("decoding status line input: %w", err)
	}
	return in, nil
}

// Format renders "{model} | {tokens}k ({pct}%) | ${cost}", for example
// "Opus | 45.3k (22%) | $1.27".
func Format(in Input) string {
	k := math.Round(float64(in.Tokens())/100) / 10
	cost := 0.0
	if in.Cost.TotalCostUSD != nil {
		cost = *in.Cost.TotalCostUSD
	}
	return fmt.Sprintf("%s | %sk (%d%%) | $%s",
		in.Model.DisplayName,
		humanize.Commaf(k),
		in.Percent(),
		humanize.FormatFloat("#,###.##", cost),
	)
}
