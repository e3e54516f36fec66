// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
# 概述

包 openai 提供 OpenAI 官方端点的 Provider 预设，在 openaicompat
基础上补充默认 BaseURL、默认模型与 Organization header。

# 核心结构体

  - OpenAIProvider：嵌入 openaicompat.Provider，仅覆写请求头构建
*/
package openai
