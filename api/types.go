package api

import (
	"time"

	"github.com/BaSui01/formflow/types"
)

// =============================================================================
// 表单请求与响应
// =============================================================================

// CreateFormRequest 根据自然语言描述生成表单。
// @Description 表单生成请求
type CreateFormRequest struct {
	// 表单的自然语言描述
	Description string `json:"description" example:"A signup form with name, email and age"`
}

// CreateFormResponse 返回持久化后的表单 ID 与 schema。
type CreateFormResponse struct {
	FormID uint              `json:"form_id" example:"1"`
	Schema *types.FormSchema `json:"schema"`
}

// FormResponse 是已存储的表单记录。
type FormResponse struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	Schema    *types.FormSchema `json:"schema"`
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
}

// ValidateRequest 校验一份提交。form_id 仅在不带路径参数的路由上使用。
type ValidateRequest struct {
	FormID     uint             `json:"form_id,omitempty"`
	Submission types.Submission `json:"submission"`
}

// ValidateResponse 是校验结果与提交记录 ID。
type ValidateResponse struct {
	SubmissionID uint              `json:"submission_id"`
	Valid        bool              `json:"valid"`
	Errors       map[string]string `json:"errors"`
}

// RecoverRequest 请求修正建议。errors 缺省为空映射。
type RecoverRequest struct {
	FormID     uint              `json:"form_id,omitempty"`
	Submission types.Submission  `json:"submission"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// RecoverResponse 是按字段的修正建议。
type RecoverResponse struct {
	Suggestions  map[string]types.Suggestion `json:"suggestions"`
	SubmissionID uint                        `json:"submission_id"`
}

// AnalyticsResponse 是提交历史上的统计与建议。
type AnalyticsResponse struct {
	Insights         types.Insights `json:"insights"`
	TotalSubmissions int            `json:"total_submissions"`
}
