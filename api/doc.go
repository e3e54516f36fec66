// Package api 定义 FormFlow HTTP API 的请求与响应类型。
//
// # API 概览
//
//	POST /api/v1/forms                 生成并保存表单（别名 /create_form）
//	GET  /api/v1/forms/{id}            读取表单
//	POST /api/v1/forms/{id}/validate   校验提交（别名 /validate_submission）
//	POST /api/v1/forms/{id}/recover    修正建议（别名 /recover）
//	GET  /api/v1/forms/{id}/analytics  提交历史洞察（别名 /analytics/{id}）
//
// 所有响应使用 handlers.Response 信封：
//
//	{"success": true, "data": {...}, "timestamp": "..."}
//	{"success": false, "error": {"code": "NOT_FOUND", "message": "Form not found"}}
//
// 健康检查位于 /health、/healthz、/ready 与 /version，Prometheus
// 指标在独立端口的 /metrics 上暴露。
package api
