package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/devbin/devbin/internal/textedit"
)

const (
	anthropicAPIURL     = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion = "2023-06-01"

	editToolType = "text_editor_20250429"
	editToolName = "str_replace_based_edit_tool"
)

const editSystemPrompt = "You are a text editor assistant. You will receive some text and some instructions about how to modify it. " +
	"Use the str_replace command in the str_replace_based_edit_tool tool to make the requested changes. " +
	"Return multiple replace calls if making multiple small edits lets you avoid making a large edit. Do not use the view command."

// Anthropic implements Completer for Anthropic's Messages API.
type Anthropic struct {
	apiKey string
	model  string
	client *http.Client
}

// NewAnthropic creates a new Anthropic provider.
func NewAnthropic(model string) (*Anthropic, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, &authError{message: "ANTHROPIC_API_KEY environment variable is not set"}
	}
	return &Anthropic{
		apiKey: key,
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) send(ctx context.Context, body anthropicRequest) (anthropicResponse, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return anthropicResponse{}, nil, fmt.Errorf("marshaling request: %w", err)
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicAPIVersion,
	}

	var (
		result anthropicResponse
		raw    []byte
	)
	err = retryWithBackoff(ctx, 3, func() error {
		respBody, err := post(ctx, a.client, anthropicAPIURL, headers, payload)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
		raw = respBody
		return nil
	})
	return result, raw, err
}

func (a *Anthropic) Complete(ctx context.Context, req Request) (Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	body := anthropicRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		System:    req.SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.UserPrompt},
		},
	}
	if req.Temperature > 0 {
		body.Temperature = &req.Temperature
	}

	result, _, err := a.send(ctx, body)
	if err != nil {
		return Response{}, err
	}

	var content string
	for _, block := range result.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		return Response{}, fmt.Errorf("empty text content in API response")
	}

	return Response{
		Content:    content,
		TokensUsed: result.Usage.InputTokens + result.Usage.OutputTokens,
	}, nil
}

// EditResult is the outcome of an EditText call.
type EditResult struct {
	Replacements []textedit.Replacement
	// Raw is the undecoded API response, for --debug output.
	Raw json.RawMessage
}

// EditText asks the model to edit text via the text-editor tool, which it is
// forced to call. Only str_replace commands are accepted.
func (a *Anthropic) EditText(ctx context.Context, text, instructions string, maxTokens int) (EditResult, error) {
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	body := anthropicRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		System:    editSystemPrompt,
		Messages: []anthropicMessage{{
			Role:    "user",
			Content: fmt.Sprintf("<text>\n%s\n</text>\n<instructions>\n%s\n</instructions>", text, instructions),
		}},
		Tools:      []anthropicTool{{Type: editToolType, Name: editToolName}},
		ToolChoice: &anthropicToolChoice{Type: "tool", Name: editToolName},
	}

	result, raw, err := a.send(ctx, body)
	if err != nil {
		return EditResult{}, err
	}

	out := EditResult{Raw: raw}
	for _, block := range result.Content {
		if block.Type != "tool_use" {
			continue
		}
		var in editToolInput
		if err := json.Unmarshal(block.Input, &in); err != nil {
			return out, fmt.Errorf("parsing tool input: %w", err)
		}
		if in.Command != "str_replace" {
			return out, fmt.Errorf("unexpected text editor command %q", in.Command)
		}
		out.Replacements = append(out.Replacements, textedit.Replacement{Old: in.OldStr, New: in.NewStr})
	}
	if len(out.Replacements) == 0 {
		return out, textedit.ErrNoEdits
	}
	return out, nil
}

type anthropicRequest struct {
	Model       string               `json:"model"`
	MaxTokens   int                  `json:"max_tokens"`
	System      string               `json:"system,omitempty"`
	Messages    []anthropicMessage   `json:"messages"`
	Temperature *float64             `json:"temperature,omitempty"`
	Tools       []anthropicTool      `json:"tools,omitempty"`
	ToolChoice  *anthropicToolChoice `json:"tool_choice,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicTool struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type anthropicToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type anthropicResponse struct {
	Content []anthropicBlock `json:"content"`
	Usage   anthropicUsage   `json:"usage"`
}

type anthropicBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type editToolInput struct {
	Command string `json:"command"`
	OldStr  string `json:"old_str"`
	NewStr  string `json:"new_str"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
