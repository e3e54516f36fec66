// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
Package main 提供 FormFlow 服务端程序入口。

# 概述

cmd/formflow 组装配置、日志、数据库、可选的 Redis 缓存、模型客户端与
工作流路由器，并通过 HTTP 暴露表单生成、校验、恢复与分析接口。

# 子命令

  - serve    启动 API 与 metrics 两个 HTTP 服务，SIGINT/SIGTERM 时优雅关闭
  - migrate  运行内嵌的数据库迁移（up、down、status、version、goto、force、reset）
  - version  输出构建注入的版本信息
  - health   探测运行中服务的 /health

# 中间件链

Recovery → RequestID → OTelTracing → SecurityHeaders → CORS →
RequestLogger → Metrics → RateLimiter（按 IP）→ Timeout。
*/
package main
