// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
包 metrics 提供基于 Prometheus 的指标采集，覆盖 HTTP、模型调用、
模式分派、校验结果、缓存与数据库。

# 核心类型

  - Collector：指标收集器，指标注册在自有 Registry 上，通过 Handler
    暴露给 /metrics。Collector 同时实现 llm.RequestRecorder 与
    workflow.ExecutionRecorder。

# 主要指标

  - http_requests_total / http_request_duration_seconds，按 method/path/status 分组
  - llm_requests_total / llm_tokens_used_total，按 provider/model 分组
  - agent_executions_total，按 mode/status 分组
  - validations_total，按 valid/invalid 分组
  - cache_hits_total / cache_misses_total
  - db_connections_open / db_connections_idle / db_query_duration_seconds
*/
package metrics
