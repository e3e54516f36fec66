// Copyright (c) FormFlow Authors.
// Licensed under the MIT License.

/*
Package types 提供 FormFlow 的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 agent、workflow、llm、
api 等上层模块提供统一的数据契约，以避免循环依赖。

# 核心类型

  - FormSchema / FieldSpec / FieldType：表单结构定义（标题 + 有序字段列表）
  - Submission：一次用户提交（字段名 → 松散类型值）
  - ValidationResult：校验结果（valid 由 errors 是否为空派生）
  - RecoverySuggestions / Suggestion：按字段的纠错建议
  - LearningInsights / FieldStat：历史提交的聚合洞察
  - Error / ErrorCode：结构化 API 错误，含 HTTP 状态码与 Retryable 标记

# Context 传播

WithTraceID / WithRequestID / WithMode 在请求链路中传递追踪信息。
*/
package types
