package llm

import (
	"context"
	"errors"
	"time"

	"github.com/BaSui01/formflow/llm/tokenizer"
	"github.com/BaSui01/formflow/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultMaxTokens is used when the caller passes a non-positive budget.
const DefaultMaxTokens = 800

// promptSnippetLen bounds the debug-level prompt preview.
const promptSnippetLen = 500

// Completer sends one prompt and returns the model's raw text.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error)
}

// RequestRecorder receives one record per model call.
type RequestRecorder interface {
	RecordLLMRequest(provider, model, status string, duration time.Duration, promptTokens, completionTokens int)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the trace logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r RequestRecorder) ClientOption {
	return func(c *Client) { c.recorder = r }
}

// WithTokenCounter enables prompt token estimates in trace records.
func WithTokenCounter(t tokenizer.Tokenizer) ClientOption {
	return func(c *Client) { c.tokens = t }
}

// WithMaxTokens overrides the per-call budget for every request.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

// WithTracer overrides the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) ClientOption {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// Client adapts a Provider to the single-prompt Completer contract.
// It is safe for concurrent use when the provider is.
type Client struct {
	provider  Provider
	model     string
	logger    *zap.Logger
	recorder  RequestRecorder
	tokens    tokenizer.Tokenizer
	tracer    trace.Tracer
	maxTokens int
}

// NewClient wraps provider; model may be empty to use the provider default.
func NewClient(provider Provider, model string, opts ...ClientOption) *Client {
	c := &Client{
		provider: provider,
		model:    model,
		logger:   zap.NewNop(),
		tracer:   otel.Tracer("formflow/llm"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "llm_client"))
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Complete sends prompt as a single user message. A non-success answer from
// the endpoint surfaces as *ModelServiceError; nothing is retried here.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	if c.maxTokens > 0 {
		maxTokens = c.maxTokens
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	traceID, _ := types.TraceID(ctx)
	fields := []zap.Field{
		zap.String("section", "model_call"),
		zap.String("provider", c.provider.Name()),
		zap.String("model", c.model),
		zap.Float32("temperature", temperature),
		zap.Int("max_tokens", maxTokens),
		zap.Int("prompt_length", len(prompt)),
		zap.String("trace_id", traceID),
	}
	if c.tokens != nil {
		if n, err := c.tokens.CountTokens(prompt); err == nil {
			fields = append(fields, zap.Int("prompt_tokens", n))
		}
	}
	c.logger.Info("calling model", fields...)
	if ce := c.logger.Check(zap.DebugLevel, "prompt preview"); ce != nil {
		ce.Write(zap.String("snippet", snippet(prompt, promptSnippetLen)))
	}

	ctx, span := c.tracer.Start(ctx, "llm.complete", trace.WithAttributes(
		attribute.String("llm.provider", c.provider.Name()),
		attribute.String("llm.model", c.model),
		attribute.Float64("llm.temperature", float64(temperature)),
		attribute.Int("llm.max_tokens", maxTokens),
	))
	defer span.End()

	start := time.Now()
	resp, err := c.provider.Completion(ctx, &ChatRequest{
		TraceID:     traceID,
		Model:       c.model,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err == nil && len(resp.Choices) == 0 {
		err = &ModelServiceError{
			Code:     ErrEmptyCompletion,
			Message:  "response contained no choices",
			Provider: c.provider.Name(),
		}
	}
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.record("error", duration, ChatUsage{})
		var mse *ModelServiceError
		if errors.As(err, &mse) {
			c.logger.Warn("model call failed",
				zap.String("trace_id", traceID),
				zap.Int("status_code", mse.StatusCode),
				zap.String("code", string(mse.Code)),
				zap.Duration("duration", duration))
		} else {
			c.logger.Warn("model call failed", zap.String("trace_id", traceID), zap.Error(err))
		}
		return "", err
	}

	c.record("success", duration, resp.Usage)
	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", resp.Usage.PromptTokens),
		attribute.Int("llm.completion_tokens", resp.Usage.CompletionTokens),
	)
	text := resp.Choices[0].Message.Content
	c.logger.Debug("model answered",
		zap.String("trace_id", traceID),
		zap.Int("response_length", len(text)),
		zap.Duration("duration", duration))
	return text, nil
}

func (c *Client) record(status string, d time.Duration, usage ChatUsage) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordLLMRequest(c.provider.Name(), c.model, status, d, usage.PromptTokens, usage.CompletionTokens)
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// keep the cut on a rune boundary
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
