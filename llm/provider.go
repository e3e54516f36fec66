package llm

import (
	"context"
	"fmt"
	"time"
)

// 统一的模型服务错误码，用于对齐 HTTP 状态与日志语义。
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "LLM_INVALID_REQUEST"   // 参数/格式错误
	ErrUnauthorized     ErrorCode = "LLM_UNAUTHORIZED"      // 未授权或密钥失效
	ErrForbidden        ErrorCode = "LLM_FORBIDDEN"         // 权限或内容策略拒绝
	ErrRateLimited      ErrorCode = "LLM_RATE_LIMITED"      // 上游限流
	ErrQuotaExceeded    ErrorCode = "LLM_QUOTA_EXCEEDED"    // 额度/配额用尽
	ErrModelOverloaded  ErrorCode = "LLM_MODEL_OVERLOADED"  // 模型过载
	ErrUpstreamError    ErrorCode = "LLM_UPSTREAM_ERROR"    // 上游 5xx/网络错误
	ErrEmptyCompletion  ErrorCode = "LLM_EMPTY_COMPLETION"  // 响应中没有 choices
	ErrMalformedPayload ErrorCode = "LLM_MALFORMED_PAYLOAD" // 成功状态但响应体无法解析
)

// ModelServiceError is returned when the completion endpoint does not answer
// with a usable success response. StatusCode is 0 for transport failures.
// The core never retries; Retryable is informational for outer layers.
type ModelServiceError struct {
	Code       ErrorCode `json:"code"`
	StatusCode int       `json:"status_code"`
	Body       string    `json:"body"`
	Message    string    `json:"message"`
	Provider   string    `json:"provider,omitempty"`
	Retryable  bool      `json:"retryable"`
	Cause      error     `json:"-"`
}

func (e *ModelServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("model service %s failed: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("model service %s failed: %d - %s", e.Provider, e.StatusCode, e.Message)
}

func (e *ModelServiceError) Unwrap() error { return e.Cause }

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	TraceID     string            `json:"trace_id"`
	Model       string            `json:"model"`
	Messages    []Message         `json:"messages"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Temperature float32           `json:"temperature"`
	Timeout     time.Duration     `json:"timeout,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

type ChatChoice struct {
	Index        int     `json:"index"`
	FinishReason string  `json:"finish_reason,omitempty"`
	Message      Message `json:"message"`
}

type ChatResponse struct {
	ID        string       `json:"id,omitempty"`
	Provider  string       `json:"provider,omitempty"`
	Model     string       `json:"model"`
	Choices   []ChatChoice `json:"choices"`
	Usage     ChatUsage    `json:"usage,omitempty"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
}

// HealthStatus 表示 Provider 健康检查结果。
type HealthStatus struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
}

// Provider 定义了统一的 LLM 适配接口。
type Provider interface {
	// Completion 发起同步聊天请求，返回完整响应
	Completion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// HealthCheck 执行轻量级健康检查，返回延迟与可用性信息。
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// Name 返回 Provider 的唯一标识
	Name() string
}
