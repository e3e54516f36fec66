// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
包 llm 提供表单服务访问大语言模型的最小接入层。

# 概述

上层 Agent 只依赖 [Completer]：给定 prompt、温度与最大 token 数，
返回模型输出的原始文本。[Client] 把该契约适配到任意 [Provider]，
并负责追踪日志、OpenTelemetry Span 与请求指标。

# 核心接口

  - [Completer]：单条 prompt 补全接口，Agent 的唯一模型依赖
  - [Provider]：OpenAI 兼容的聊天补全适配接口，提供 Completion / HealthCheck / Name
  - [RequestRecorder]：模型调用指标接收方

# 核心类型

  - [ChatRequest] / [ChatResponse]：聊天请求与响应
  - [HealthStatus]：健康检查状态
  - [ModelServiceError]：补全端点返回非 2xx、传输失败或空响应时的错误

# 错误语义

任何非成功响应都以 [ModelServiceError] 返回，携带状态码与原始响应体。
本包不做重试，是否重试由调用方决定。

# 相关子包

- llm/providers：OpenAI 兼容协议的公共类型与错误映射。
- llm/providers/openaicompat：通用 OpenAI 兼容 Provider。
- llm/providers/openai：OpenAI 官方端点预设。
- llm/factory：按名称创建 Provider。
- llm/tokenizer：prompt token 估算。
*/
package llm
