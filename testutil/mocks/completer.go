// MockCompleter 是 llm.Completer 的测试模拟实现。
//
// 支持固定响应、按顺序返回的响应队列与错误注入场景。
package mocks

import (
	"context"
	"sync"
)

// MockCompleterCall 记录单次调用
type MockCompleterCall struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// MockCompleter 是 llm.Completer 的模拟实现
type MockCompleter struct {
	mu sync.Mutex

	response  string
	responses []string
	err       error
	fn        func(ctx context.Context, prompt string) (string, error)

	calls []MockCompleterCall
}

// NewMockCompleter 创建新的 MockCompleter，默认返回空对象 "{}"
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{response: "{}"}
}

// WithResponse 设置固定响应内容
func (m *MockCompleter) WithResponse(response string) *MockCompleter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
	return m
}

// WithResponses 设置按顺序消费的响应，耗尽后回退到固定响应
func (m *MockCompleter) WithResponses(responses ...string) *MockCompleter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
	return m
}

// WithError 设置返回错误
func (m *MockCompleter) WithError(err error) *MockCompleter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithFunc 设置自定义响应函数，优先级最高
func (m *MockCompleter) WithFunc(fn func(ctx context.Context, prompt string) (string, error)) *MockCompleter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
	return m
}

// Complete 实现 llm.Completer
func (m *MockCompleter) Complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCompleterCall{Prompt: prompt, Temperature: temperature, MaxTokens: maxTokens})
	fn := m.fn
	err := m.err
	resp := m.response
	if len(m.responses) > 0 {
		resp = m.responses[0]
		m.responses = m.responses[1:]
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err != nil {
		return "", err
	}
	return resp, nil
}

// Calls 返回调用记录副本
func (m *MockCompleter) Calls() []MockCompleterCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCompleterCall(nil), m.calls...)
}

// CallCount 返回调用次数
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall 返回最近一次调用，没有调用时 ok 为 false
func (m *MockCompleter) LastCall() (MockCompleterCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return MockCompleterCall{}, false
	}
	return m.calls[len(m.calls)-1], true
}

// Reset 清空调用记录
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
