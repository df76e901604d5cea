// Package provider 定义了 chat-completion 客户端的统一接口和共享类型。
// 每个 adapter（openai.go, anthropic.go）负责把各家 API 的请求/响应
// 归一化为「一段 system prompt + 一段 user prompt 进，纯文本出」的形式，
// 并将各家的错误码映射到统一的错误分类（errors.go）。
package provider

import "context"

// CompletionRequest 是发送给 client 的统一请求格式。
// 每个工作流阶段固定自己的采样参数，因此 Temperature 随请求携带。
type CompletionRequest struct {
	SystemPrompt string
	Prompt       string
	Model        string  // 空则使用 client 默认模型
	Temperature  float64 // 0 表示使用服务端默认值
	MaxTokens    int     // 0 表示使用服务端默认值
}

// Client 是所有 chat-completion client 的统一接口。
// 实现者负责：
// 1. 将统一 CompletionRequest 转换为该 API 的请求格式
// 2. 从响应中取出第一条候选的纯文本内容
// 3. 将该 API 特有的错误归一化为 AuthError / TransportError / APIError / ParseError
type Client interface {
	// Complete issues a single blocking chat-completion call and returns
	// the generated text. The call honors ctx cancellation.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)

	// Name returns the client identifier, e.g. "deepseek", "anthropic".
	Name() string

	// DefaultModel returns the model used when a request leaves Model empty.
	DefaultModel() string
}
