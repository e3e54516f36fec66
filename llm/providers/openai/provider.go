package openai

import (
	"net/http"

	"github.com/BaSui01/formflow/llm/providers"
	"github.com/BaSui01/formflow/llm/providers/openaicompat"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public OpenAI API root.
	DefaultBaseURL = "https://api.openai.com"
	// DefaultModel matches the service's historical default.
	DefaultModel = "gpt-3.5-turbo"
)

// OpenAIProvider 实现 OpenAI LLM 提供者.
type OpenAIProvider struct {
	*openaicompat.Provider
	openaiCfg providers.OpenAIConfig
}

// NewOpenAIProvider 创建新的 OpenAI 提供者实例.
func NewOpenAIProvider(cfg providers.OpenAIConfig, logger *zap.Logger) *OpenAIProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	p := &OpenAIProvider{
		Provider: openaicompat.New(openaicompat.Config{
			ProviderName:  "openai",
			APIKey:        cfg.APIKey,
			BaseURL:       baseURL,
			DefaultModel:  cfg.Model,
			FallbackModel: DefaultModel,
			Timeout:       cfg.Timeout,
		}, logger),
		openaiCfg: cfg,
	}

	p.SetBuildHeaders(func(req *http.Request, apiKey string) {
		providers.BearerTokenHeaders(req, apiKey)
		if cfg.Organization != "" {
			req.Header.Set("OpenAI-Organization", cfg.Organization)
		}
	})

	return p
}
