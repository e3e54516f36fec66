package agent

import "errors"

var (
	// ErrCompleterNotSet 模型客户端未设置
	ErrCompleterNotSet = errors.New("llm completer not set")

	// ErrSchemaNotSet 调用需要 schema 但为 nil
	ErrSchemaNotSet = errors.New("form schema not set")
)
