// Package factory 提供 LLM Provider 的集中式工厂，
// 通过名称映射创建 Provider 实例。内置服务商均为 OpenAI 兼容端点，仅在 BaseURL、端点路径与默认模型上不同。
package factory
