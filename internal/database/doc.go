// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
包 database 负责打开表单存储所用的数据库，并管理 GORM 连接池。

# 核心类型

  - PoolManager：连接池管理器，提供 Ping（就绪探针）、Stats、
    WithTransaction 与 Close，后台定时探活并通过 StatsRecorder 上报连接数。
  - PoolConfig：连接池配置。

# 驱动

Open 与 Dialector 支持 sqlite（github.com/glebarez/sqlite，纯 Go）、
postgres 与 mysql。
*/
package database
