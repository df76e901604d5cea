package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultBaseURL is the DeepSeek OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.deepseek.com"

// OpenAIClient implements Client for all OpenAI-compatible APIs,
// including DeepSeek (the default), OpenAI, Kimi, Qwen, etc.
type OpenAIClient struct {
	client  openai.Client
	apiKey  string
	model   string
	name    string
	baseURL string
}

// NewOpenAIClient builds an OpenAI-compatible client. An empty apiKey is
// tolerated here; Complete reports it as an AuthError so the workflow
// surfaces a clean failure instead of crashing at startup.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = "deepseek-chat"
	}

	name := "openai"
	switch {
	case strings.Contains(baseURL, "deepseek"):
		name = "deepseek"
	case strings.Contains(baseURL, "moonshot"):
		name = "kimi"
	case strings.Contains(baseURL, "dashscope"):
		name = "qwen"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		// Retries are handled by Retryer so the backoff policy lives in one place.
		option.WithMaxRetries(0),
	}

	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		apiKey:  apiKey,
		model:   model,
		name:    name,
		baseURL: baseURL,
	}
}

func (c *OpenAIClient) Name() string         { return c.name }
func (c *OpenAIClient) DefaultModel() string { return c.model }

func (c *OpenAIClient) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", &AuthError{Reason: "API key not configured (set DEEPSEEK_API_KEY or pass --api-key)"}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	var msgs []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		msgs = append(msgs, openai.SystemMessage(req.SystemPrompt))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: msgs,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", normalizeOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ParseError{Reason: "response has no choices", Raw: resp.RawJSON()}
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &ParseError{Reason: "response content is empty", Raw: resp.RawJSON()}
	}
	return text, nil
}

// normalizeOpenAIError 将 openai-go 的错误归一化为统一分类。
// SDK 对非 2xx 响应返回 *openai.Error（带状态码），
// 其余（连接失败、超时、context 取消）原样归为传输层。
func normalizeOpenAIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return statusToError(apierr.StatusCode, apierr.RawJSON())
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &TransportError{Err: err}
}
