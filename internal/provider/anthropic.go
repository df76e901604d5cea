package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client using the Anthropic native API.
type AnthropicClient struct {
	client anthropic.Client
	apiKey string
	model  string
}

func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &AnthropicClient{
		client: anthropic.NewClient(
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		),
		apiKey: apiKey,
		model:  model,
	}
}

func (c *AnthropicClient) Name() string         { return "anthropic" }
func (c *AnthropicClient) DefaultModel() string { return c.model }

func (c *AnthropicClient) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", &AuthError{Reason: "API key not configured (set ANTHROPIC_API_KEY or pass --api-key)"}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", normalizeAnthropicError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", &ParseError{Reason: "response has no text content", Raw: msg.RawJSON()}
	}
	return text, nil
}

func normalizeAnthropicError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return statusToError(apierr.StatusCode, apierr.RawJSON())
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &TransportError{Err: err}
}
