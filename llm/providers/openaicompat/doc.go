// Package openaicompat provides the shared implementation of an
// OpenAI-compatible chat completions provider.
//
// OpenAI, DeepSeek, Qwen, Grok, Mistral and Kimi all accept the same request
// shape. Vendor presets differ only in:
//
//   - Provider name and default model
//   - Base URL and endpoint path
//   - Custom headers (if any)
//
// Usage:
//
//	p := openaicompat.New(openaicompat.Config{
//	    ProviderName:  "deepseek",
//	    APIKey:        cfg.APIKey,
//	    BaseURL:       "https://api.deepseek.com",
//	    EndpointPath:  "/chat/completions",
//	    FallbackModel: "deepseek-chat",
//	}, logger)
package openaicompat
