package store

import (
	"context"
	"strconv"
	"time"

	"github.com/BaSui01/formflow/internal/cache"
	"github.com/BaSui01/formflow/types"
	"go.uber.org/zap"
)

const formCacheType = "form"

// CacheRecorder 接收缓存命中统计
type CacheRecorder interface {
	RecordCacheHit(cacheType string)
	RecordCacheMiss(cacheType string)
}

// CachedRepository 为 GetForm 增加 Redis 读穿缓存。表单创建后不可变，
// 因此不需要失效逻辑；缓存故障时降级为直接读库
type CachedRepository struct {
	Repository
	cache    *cache.Manager
	ttl      time.Duration
	recorder CacheRecorder
	logger   *zap.Logger
}

// NewCachedRepository 包装 repo
func NewCachedRepository(repo Repository, c *cache.Manager, ttl time.Duration, recorder CacheRecorder, logger *zap.Logger) *CachedRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRepository{
		Repository: repo,
		cache:      c,
		ttl:        ttl,
		recorder:   recorder,
		logger:     logger.With(zap.String("component", "form_cache")),
	}
}

func formKey(id uint) string {
	return "formflow:form:" + strconv.FormatUint(uint64(id), 10)
}

// CreateForm 写库后预热缓存
func (c *CachedRepository) CreateForm(ctx context.Context, schema *types.FormSchema) (*Form, error) {
	form, err := c.Repository.CreateForm(ctx, schema)
	if err != nil {
		return nil, err
	}
	c.put(ctx, form)
	return form, nil
}

// GetForm 先读缓存，未命中时读库并回填
func (c *CachedRepository) GetForm(ctx context.Context, id uint) (*Form, error) {
	var form Form
	err := c.cache.GetJSON(ctx, formKey(id), &form)
	switch {
	case err == nil:
		c.hit()
		return &form, nil
	case cache.IsCacheMiss(err):
		c.miss()
	default:
		c.miss()
		c.logger.Warn("form cache read failed", zap.Uint("form_id", id), zap.Error(err))
	}

	f, err := c.Repository.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(ctx, f)
	return f, nil
}

func (c *CachedRepository) put(ctx context.Context, form *Form) {
	if err := c.cache.SetJSON(ctx, formKey(form.ID), form, c.ttl); err != nil {
		c.logger.Warn("form cache write failed", zap.Uint("form_id", form.ID), zap.Error(err))
	}
}

func (c *CachedRepository) hit() {
	if c.recorder != nil {
		c.recorder.RecordCacheHit(formCacheType)
	}
}

func (c *CachedRepository) miss() {
	if c.recorder != nil {
		c.recorder.RecordCacheMiss(formCacheType)
	}
}
