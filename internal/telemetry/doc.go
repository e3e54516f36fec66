// Package telemetry 封装 OpenTelemetry SDK 初始化，为 HTTP 请求、
// 模式分派与模型调用的 span 提供全局 TracerProvider 与 MeterProvider。
// 遥测关闭时使用 noop 实现。
package telemetry
