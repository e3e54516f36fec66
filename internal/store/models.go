package store

import (
	"time"

	"github.com/BaSui01/formflow/types"
)

// Form 是持久化的表单定义，Schema 以 JSON 存储
type Form struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Title     string            `gorm:"size:255;not null" json:"title"`
	Schema    *types.FormSchema `gorm:"type:text;serializer:json;not null" json:"schema"`
	Version   int               `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time         `json:"created_at"`
}

// TableName 表名
func (Form) TableName() string { return "forms" }

// Submission 是一次提交及其校验结果
type Submission struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	FormID    uint              `gorm:"not null;index:idx_submissions_form_id" json:"form_id"`
	Data      types.Submission  `gorm:"type:text;serializer:json;not null" json:"data"`
	Valid     bool              `gorm:"not null;default:false" json:"valid"`
	Errors    map[string]string `gorm:"type:text;serializer:json" json:"errors"`
	CreatedAt time.Time         `json:"created_at"`
}

// TableName 表名
func (Submission) TableName() string { return "submissions" }
