// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
Package testutil 提供 FormFlow 测试的共享工具和辅助函数。

# 核心能力

  - 上下文辅助: TestContext / CancelledContext，自动注册 Cleanup 防止泄漏
  - 断言工具: AssertJSONEqual
  - 数据工具: MustJSON / MustParseJSON

# 子包

  - testutil/mocks: MockCompleter（llm.Completer），支持 Builder 模式、响应队列与错误注入
  - testutil/fixtures: 样例表单 schema、提交数据与模型响应

# 使用示例

	ctx := testutil.TestContext(t)
	completer := mocks.NewMockCompleter().WithResponse(fixtures.SchemaResponse)
	schema, err := agent.NewSchemaAgent(completer, nil).Generate(ctx, "signup form")
*/
package testutil
