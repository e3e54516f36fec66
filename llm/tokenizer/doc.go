// Package tokenizer 提供统一的 Token 计数接口，
// 支持 tiktoken 精确计数与 CJK 估算器，用于模型调用追踪记录中的 prompt 规模估算。
package tokenizer
