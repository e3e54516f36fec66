package factory

import (
	"testing"

	"github.com/BaSui01/formflow/llm/providers/openai"
	"github.com/BaSui01/formflow/llm/providers/openaicompat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProviderFromConfig_Presets(t *testing.T) {
	tests := []struct {
		providerName string
		wantBaseURL  string
		wantEndpoint string
	}{
		{"deepseek", "https://api.deepseek.com", "/chat/completions"},
		{"qwen", "https://dashscope.aliyuncs.com", "/compatible-mode/v1/chat/completions"},
		{"grok", "https://api.x.ai", "/v1/chat/completions"},
		{"mistral", "https://api.mistral.ai", "/v1/chat/completions"},
		{"kimi", "https://api.moonshot.cn", "/v1/chat/completions"},
	}
	for _, tt := range tests {
		t.Run(tt.providerName, func(t *testing.T) {
			p, err := NewProviderFromConfig(tt.providerName, ProviderConfig{APIKey: "sk-test"}, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tt.providerName, p.Name())

			compat, ok := p.(*openaicompat.Provider)
			require.True(t, ok)
			assert.Equal(t, tt.wantBaseURL, compat.Cfg.BaseURL)
			assert.Equal(t, tt.wantEndpoint, compat.Cfg.EndpointPath)
			assert.NotEmpty(t, compat.Cfg.FallbackModel)
		})
	}
}

func TestNewProviderFromConfig_OpenAI(t *testing.T) {
	for _, name := range []string{"openai", ""} {
		p, err := NewProviderFromConfig(name, ProviderConfig{APIKey: "sk-test", Model: "gpt-4o-mini"}, nil)
		require.NoError(t, err)
		oa, ok := p.(*openai.OpenAIProvider)
		require.True(t, ok)
		assert.Equal(t, "openai", oa.Name())
		assert.Equal(t, "gpt-4o-mini", oa.Cfg.DefaultModel)
		assert.Equal(t, openai.DefaultBaseURL, oa.Cfg.BaseURL)
	}
}

func TestNewProviderFromConfig_PresetBaseURLOverride(t *testing.T) {
	p, err := NewProviderFromConfig("deepseek", ProviderConfig{BaseURL: "http://proxy.local"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://proxy.local", p.(*openaicompat.Provider).Cfg.BaseURL)
}

func TestNewProviderFromConfig_Generic(t *testing.T) {
	p, err := NewProviderFromConfig("ollama", ProviderConfig{BaseURL: "http://localhost:11434", Model: "llama3"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	_, err = NewProviderFromConfig("ollama", ProviderConfig{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url is required")
}

func TestSupportedProviders(t *testing.T) {
	assert.Equal(t, []string{"openai", "deepseek", "grok", "kimi", "mistral", "qwen"}, SupportedProviders())
}
