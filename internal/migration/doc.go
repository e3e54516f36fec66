// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
包 migration 管理 forms 与 submissions 两张表的版本化 Schema，
基于 golang-migrate，SQL 文件按方言（sqlite、postgres、mysql）内嵌。

  - DefaultMigrator：在已打开的 *sql.DB 上执行 Up/Down/Reset/Steps/Goto/Force
  - NewMigratorFromConfig：按 config.DatabaseConfig 打开专用连接
  - CLI：`formflow migrate` 子命令的解析与输出
*/
package migration
