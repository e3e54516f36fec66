// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
Package server 管理 HTTP 服务器生命周期。

Manager 封装 net/http.Server：Start 非阻塞启动，Run 阻塞到
ctx 取消后优雅关闭，适合放进 errgroup 与 API 服务、metrics
服务并行运行。FromServerConfig 把 config.ServerConfig 中的
超时映射为服务器配置。
*/
package server
