// Package fixtures 提供表单测试的样例 schema、提交数据与模型响应。
package fixtures

import "github.com/BaSui01/formflow/types"

// SignupSchema 返回不含日期字段的注册表单（不会触发模型校验）
func SignupSchema() *types.FormSchema {
	return &types.FormSchema{
		Title: "Signup",
		Fields: []types.FieldSpec{
			{Name: "full_name", Label: "Full name", Type: types.FieldText, Required: true},
			{Name: "email", Label: "Email", Type: types.FieldEmail, Required: true},
			{Name: "age", Label: "Age", Type: types.FieldNumber, Constraints: map[string]any{"min": float64(18), "max": float64(120)}},
			{Name: "newsletter", Label: "Newsletter", Type: types.FieldCheckbox},
		},
	}
}

// BookingSchema 返回包含日期字段的预约表单（会触发模型校验）
func BookingSchema() *types.FormSchema {
	return &types.FormSchema{
		Title: "Booking",
		Fields: []types.FieldSpec{
			{Name: "guest", Label: "Guest", Type: types.FieldText, Required: true},
			{Name: "check_in", Label: "Check-in", Type: types.FieldDate, Required: true},
			{Name: "guests", Label: "Guests", Type: types.FieldNumber, Constraints: map[string]any{"min": float64(1), "max": float64(8)}},
		},
	}
}

// ValidSignup 返回一份能通过 SignupSchema 全部规则的提交
func ValidSignup() types.Submission {
	return types.Submission{
		"full_name":  "Ada Lovelace",
		"email":      "ada@example.com",
		"age":        float64(36),
		"newsletter": true,
	}
}

// 模型响应样例
const (
	SchemaResponse = `Here is your form:
{"title": "Signup", "fields": [
  {"name": "full_name", "label": "Full name", "type": "text", "required": true},
  {"name": "email", "label": "Email", "type": "email", "required": true},
  {"name": "age", "label": "Age", "type": "number", "required": false, "constraints": {"min": 18, "max": 120}}
]}`

	DateErrorsResponse = "```json\n{\"valid\": false, \"errors\": {\"check_in\": \"Date must be in the future.\"}}\n```"

	RecoveryResponse = `{"suggestions": {"email": {"suggested_value": "ada@example.com", "message": "Looks like a typo in the domain."}}}`

	LearningResponse = `{"insights": {"field_stats": {"age": {"missing_rate": 0.9, "error_rate": 0.9}}, "suggestions": ["Make age optional."]}}`
)
