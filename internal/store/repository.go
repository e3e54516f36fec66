package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BaSui01/formflow/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("store: record not found")

// untitled 是 schema 没有标题时的表单标题
const untitled = "Untitled"

// QueryRecorder 接收查询耗时，通常由 metrics.Collector 实现
type QueryRecorder interface {
	RecordDBQuery(database, operation string, duration time.Duration)
}

// Repository 表单与提交的存取接口
type Repository interface {
	CreateForm(ctx context.Context, schema *types.FormSchema) (*Form, error)
	GetForm(ctx context.Context, id uint) (*Form, error)
	CreateSubmission(ctx context.Context, sub *Submission) (*Submission, error)
	ListSubmissions(ctx context.Context, formID uint) ([]Submission, error)
	History(ctx context.Context, formID uint) ([]types.Submission, error)
}

// GormRepository 基于 GORM 的 Repository 实现
type GormRepository struct {
	db       *gorm.DB
	logger   *zap.Logger
	recorder QueryRecorder
}

// Option 配置 GormRepository
type Option func(*GormRepository)

// WithQueryRecorder 设置查询耗时上报
func WithQueryRecorder(r QueryRecorder) Option {
	return func(g *GormRepository) { g.recorder = r }
}

// NewGormRepository 创建仓储
func NewGormRepository(db *gorm.DB, logger *zap.Logger, opts ...Option) *GormRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &GormRepository{
		db:     db,
		logger: logger.With(zap.String("component", "store")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// observe 记录一次查询耗时
func (r *GormRepository) observe(op string, start time.Time) {
	if r.recorder != nil {
		r.recorder.RecordDBQuery(r.db.Dialector.Name(), op, time.Since(start))
	}
}

// CreateForm 保存 schema，标题取自 schema，缺省为 "Untitled"，版本固定为 1
func (r *GormRepository) CreateForm(ctx context.Context, schema *types.FormSchema) (*Form, error) {
	if schema == nil {
		return nil, fmt.Errorf("create form: schema is nil")
	}
	defer r.observe("create_form", time.Now())

	title := strings.TrimSpace(schema.Title)
	if title == "" {
		title = untitled
	}
	form := &Form{Title: title, Schema: schema.Clone(), Version: 1}
	if err := r.db.WithContext(ctx).Create(form).Error; err != nil {
		return nil, fmt.Errorf("create form: %w", err)
	}

	r.logger.Info("form stored", zap.Uint("form_id", form.ID), zap.Int("fields", len(schema.Fields)))
	return form, nil
}

// GetForm 按 id 读取表单
func (r *GormRepository) GetForm(ctx context.Context, id uint) (*Form, error) {
	defer r.observe("get_form", time.Now())

	var form Form
	err := r.db.WithContext(ctx).First(&form, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get form %d: %w", id, err)
	}
	return &form, nil
}

// CreateSubmission 保存提交；nil 的 Data 与 Errors 以空对象存储
func (r *GormRepository) CreateSubmission(ctx context.Context, sub *Submission) (*Submission, error) {
	if sub == nil {
		return nil, fmt.Errorf("create submission: submission is nil")
	}
	defer r.observe("create_submission", time.Now())

	if sub.Data == nil {
		sub.Data = types.Submission{}
	}
	if sub.Errors == nil {
		sub.Errors = map[string]string{}
	}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	r.logger.Debug("submission stored",
		zap.Uint("submission_id", sub.ID),
		zap.Uint("form_id", sub.FormID),
		zap.Bool("valid", sub.Valid))
	return sub, nil
}

// ListSubmissions 按提交顺序列出表单的全部提交
func (r *GormRepository) ListSubmissions(ctx context.Context, formID uint) ([]Submission, error) {
	defer r.observe("list_submissions", time.Now())

	var subs []Submission
	err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("id ASC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list submissions for form %d: %w", formID, err)
	}
	return subs, nil
}

// History 返回表单全部提交的原始数据，供学习模式使用
func (r *GormRepository) History(ctx context.Context, formID uint) ([]types.Submission, error) {
	subs, err := r.ListSubmissions(ctx, formID)
	if err != nil {
		return nil, err
	}
	history := make([]types.Submission, 0, len(subs))
	for _, s := range subs {
		history = append(history, s.Data)
	}
	return history, nil
}
