// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
Package workflow 提供表单服务的模式路由器。

# 概述

一次请求携带一个 [State]，[Router] 只检查一次 State.Mode，
将其分派给唯一的 Agent，并以 [Patch] 返回该 Agent 的输出。
四种模式互斥，不存在链式或循环执行。

# 分派表

  - schema：SchemaAgent，输出 Patch.Schema
  - validate：ValidationAgent，需要 State.Schema，输出 Patch.ValidationResult
  - recovery：RecoveryAgent，需要 State.Schema，错误取自 State.ValidationResult，输出 Patch.Recovery
  - learning：LearningAgent，需要 State.Schema，输出 Patch.Insights

# 错误

  - [UnknownModeError]：模式不在分派表中，不调用任何 Agent
  - [ErrMissingSchema]：需要 schema 的模式缺少 schema
  - Agent 返回的模型服务错误原样透传
*/
package workflow
