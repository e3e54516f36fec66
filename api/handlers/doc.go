// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
Package handlers 实现 FormFlow 的 HTTP 处理器。

# 核心类型

  - FormHandler：表单生成、读取、校验、修正建议与提交洞察。
    每个请求构造一个 workflow.State 交给 Dispatcher，结果经
    store.Repository 持久化。
  - HealthHandler：存活、就绪（注册的 PingCheck）与版本信息。
  - Response / ErrorInfo：统一响应信封。

# 错误映射

ToAPIError 把 llm.ModelServiceError、structured.ExtractionError、
workflow.UnknownModeError、workflow.ErrMissingSchema 与
store.ErrNotFound 映射为 types.Error 错误码，再由
mapErrorCodeToHTTPStatus 决定 HTTP 状态码。
*/
package handlers
