package factory

import (
	"fmt"
	"sort"
	"time"

	"github.com/BaSui01/formflow/llm"
	"github.com/BaSui01/formflow/llm/providers"
	"github.com/BaSui01/formflow/llm/providers/openai"
	"github.com/BaSui01/formflow/llm/providers/openaicompat"
	"go.uber.org/zap"
)

// ProviderConfig is the generic configuration accepted by the factory function.
type ProviderConfig struct {
	APIKey       string        `json:"api_key" yaml:"api_key"`
	BaseURL      string        `json:"base_url" yaml:"base_url"`
	Model        string        `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Organization string        `json:"organization,omitempty" yaml:"organization,omitempty"`
	EndpointPath string        `json:"endpoint_path,omitempty" yaml:"endpoint_path,omitempty"`
}

type preset struct {
	baseURL      string
	endpointPath string
	model        string
}

// presets 内置的 OpenAI 兼容服务商.
var presets = map[string]preset{
	"deepseek": {baseURL: "https://api.deepseek.com", endpointPath: "/chat/completions", model: "deepseek-chat"},
	"qwen":     {baseURL: "https://dashscope.aliyuncs.com", endpointPath: "/compatible-mode/v1/chat/completions", model: "qwen-plus"},
	"grok":     {baseURL: "https://api.x.ai", model: "grok-3-mini"},
	"mistral":  {baseURL: "https://api.mistral.ai", model: "mistral-small-latest"},
	"kimi":     {baseURL: "https://api.moonshot.cn", model: "moonshot-v1-8k"},
}

// NewProviderFromConfig creates a Provider instance based on the provider name.
//
// Supported names: openai, deepseek, qwen, grok, mistral, kimi. Any other
// name is treated as a generic OpenAI-compatible endpoint and requires base_url.
func NewProviderFromConfig(name string, cfg ProviderConfig, logger *zap.Logger) (llm.Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if name == "" || name == "openai" {
		return openai.NewOpenAIProvider(providers.OpenAIConfig{
			BaseProviderConfig: providers.BaseProviderConfig{
				APIKey:  cfg.APIKey,
				BaseURL: cfg.BaseURL,
				Model:   cfg.Model,
				Timeout: cfg.Timeout,
			},
			Organization: cfg.Organization,
		}, logger), nil
	}

	oc := openaicompat.Config{
		ProviderName: name,
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		DefaultModel: cfg.Model,
		Timeout:      cfg.Timeout,
		EndpointPath: cfg.EndpointPath,
	}

	if p, ok := presets[name]; ok {
		if oc.BaseURL == "" {
			oc.BaseURL = p.baseURL
		}
		if oc.EndpointPath == "" {
			oc.EndpointPath = p.endpointPath
		}
		oc.FallbackModel = p.model
		return openaicompat.New(oc, logger), nil
	}

	// 通用 OpenAI 兼容提供商：任意名称 + base_url 即可接入（Ollama、vLLM、OpenRouter 等）
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("unknown provider %q: built-in provider not found, and base_url is required for generic OpenAI-compatible provider", name)
	}
	logger.Info("creating generic OpenAI-compatible provider",
		zap.String("provider", name),
		zap.String("base_url", cfg.BaseURL))
	return openaicompat.New(oc, logger), nil
}

// SupportedProviders returns the list of built-in provider names.
func SupportedProviders() []string {
	names := []string{"openai"}
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}
