// Copyright (c) FormFlow Authors. Licensed under the MIT License.

// Package config 提供 FormFlow 的配置加载。
//
// 配置来源依次为默认值、YAML 文件、.env 文件与环境变量。
// 除 FORMFLOW_ 前缀变量外，也识别 OPENAI_API_KEY、OPENAI_MODEL、
// FORMS_DB 与 DATABASE_URL。
package config
