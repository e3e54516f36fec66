// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
# 概述

包 providers 提供 OpenAI 兼容聊天补全协议的公共类型与辅助函数，
是 openaicompat、openai 等具体 Provider 的共享基础层。

# 核心类型

  - BaseProviderConfig：所有 Provider 共享的基础配置（APIKey、BaseURL、Model、Timeout）
  - OpenAICompat* 系列：请求/响应/错误响应结构体

# 核心函数

  - MapHTTPError：将非 2xx 状态码映射为 *llm.ModelServiceError，保留原始响应体
  - TransportError：网络层失败的统一包装
  - ConvertMessagesToOpenAI / ToLLMChatResponse：格式转换
  - ChooseModel：按优先级选择模型（请求 > 默认 > 兜底）
*/
package providers
