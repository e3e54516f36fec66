package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/BaSui01/formflow/api"
	"github.com/BaSui01/formflow/internal/store"
	"github.com/BaSui01/formflow/types"
	"github.com/BaSui01/formflow/workflow"
	"go.uber.org/zap"
)

// Dispatcher 运行一次工作流分派
type Dispatcher interface {
	Dispatch(ctx context.Context, s *workflow.State) (*workflow.Patch, error)
}

// ValidationRecorder 接收每次校验的结果
type ValidationRecorder interface {
	RecordValidation(formID string, valid bool, fieldErrors int)
}

// FormHandler 表单 API 处理器
type FormHandler struct {
	dispatcher Dispatcher
	repo       store.Repository
	recorder   ValidationRecorder
	logger     *zap.Logger
}

// FormHandlerOption 配置 FormHandler
type FormHandlerOption func(*FormHandler)

// WithValidationRecorder 设置校验指标
func WithValidationRecorder(r ValidationRecorder) FormHandlerOption {
	return func(h *FormHandler) { h.recorder = r }
}

// NewFormHandler 创建表单处理器
func NewFormHandler(d Dispatcher, repo store.Repository, logger *zap.Logger, opts ...FormHandlerOption) *FormHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &FormHandler{
		dispatcher: d,
		repo:       repo,
		logger:     logger.With(zap.String("component", "form_handler")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register 注册 v1 路由与兼容别名
func (h *FormHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/forms", h.HandleCreateForm)
	mux.HandleFunc("GET /api/v1/forms/{id}", h.HandleGetForm)
	mux.HandleFunc("POST /api/v1/forms/{id}/validate", h.HandleValidate)
	mux.HandleFunc("POST /api/v1/forms/{id}/recover", h.HandleRecover)
	mux.HandleFunc("GET /api/v1/forms/{id}/analytics", h.HandleAnalytics)

	mux.HandleFunc("POST /create_form", h.HandleCreateForm)
	mux.HandleFunc("POST /validate_submission", h.HandleValidate)
	mux.HandleFunc("POST /recover", h.HandleRecover)
	mux.HandleFunc("GET /analytics/{id}", h.HandleAnalytics)
}

// HandleCreateForm 生成 schema 并保存为新表单
// @Summary 生成表单
// @Tags form
// @Accept json
// @Produce json
// @Param request body api.CreateFormRequest true "表单描述"
// @Success 201 {object} Response{data=api.CreateFormResponse}
// @Failure 502 {object} Response "模型失败或生成为空"
// @Router /api/v1/forms [post]
func (h *FormHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	var req api.CreateFormRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "description is required", h.logger)
		return
	}

	patch, err := h.dispatcher.Dispatch(r.Context(), &workflow.State{
		Mode:        workflow.ModeSchema,
		Description: description,
	})
	if err != nil {
		WriteError(w, ToAPIError(err), h.logger)
		return
	}
	if patch.Schema.Empty() {
		WriteErrorMessage(w, http.StatusBadGateway, types.ErrSchemaGenerationFailed, "Schema generation failed", h.logger)
		return
	}

	form, err := h.repo.CreateForm(r.Context(), patch.Schema)
	if err != nil {
		WriteError(w, ToAPIError(err), h.logger)
		return
	}
	h.logger.Info("form created",
		zap.Uint("form_id", form.ID),
		zap.Int("fields", len(form.Schema.Fields)),
	)
	WriteCreated(w, api.CreateFormResponse{FormID: form.ID, Schema: form.Schema})
}

// HandleGetForm 读取已保存的表单
// @Summary 读取表单
// @Tags form
// @Produce json
// @Param id path int true "表单 ID"
// @Success 200 {object} Response{data=api.FormResponse}
// @Failure 404 {object} Response
// @Router /api/v1/forms/{id} [get]
func (h *FormHandler) HandleGetForm(w http.ResponseWriter, r *http.Request) {
	id, apiErr := resolveFormID(r, 0)
	if apiErr != nil {
		WriteError(w, apiErr, h.logger)
		return
	}
	form, err := h.repo.GetForm(r.Context(), id)
	if err != nil {
		WriteError(w, ToAPIError(err), h.logger)
		return
	}
	WriteSuccess(w, api.FormResponse{
		ID:        form.ID,
		Title:     form.Title,
		Schema:    form.Schema,
		Version:   form.Version,
		CreatedAt: form.CreatedAt,
	})
}

// HandleValidate 校验并保存一份提交
// @Summary 校验提交
// @Tags form
// @Accept json
// @Produce json
// @Param id path int true "表单 ID"
// @Param request body api.ValidateRequest true "提交数据"
// @Success 200 {object} Response{data=api.ValidateResponse}
// @Failure 404 {object} Response
// @Router /api/v1/forms/{id}/validate [post]
func (h *FormHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req api.ValidateRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	form, ok := h.loadForm(w, r, req.FormID)
	if !ok {
		return
	}
	if req.Submission == nil {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "submission is required", h.logger)
		return
	}

	patch, err := h.dispatcher.Dispatch(r.Context(), &workflow.State{
		Mode:       workflow.ModeValidate,
		Schema:     form.Schema,
		Submission: req.Submission,
	})
	if err != nil {
		WriteError(w, ToAPIError(err), h.logger)
		return
	}
	result := patch.ValidationResult
	if result == nil {
		result = types.NewValidationResult(nil)
	}

	sub, err := h.repo.CreateSubmission(r.Context(), &store.Submission{
		FormID: form.ID,
		Data:   req.Submission,
		Valid:  result.Valid,
		Errors: result.Errors,
	})
	if err != nil {
		WriteError(w, ToAPIError(err), h.logger)
		return
	}
	if h.recorder != nil {
		h.recorder.RecordValidation(strconv.FormatUint(uint64(form.ID), 10), result.Valid, len(result.Errors))
	}

	WriteSuccess(w, api.ValidateResponse{
		SubmissionID: sub.ID,
		Valid:        result.Valid,
		Errors:       result.Errors,
	})
}

// HandleRecover 生成修正建议，并把提交记为无效
// @Summary 修正建议
// @Tags form
// @Accept json
// @Produce json
// @Param id path int true "表单 ID"
// @Param request body api.RecoverRequest true "提交与已知错误"
// @Success 200 {object} Response{data=api.RecoverResponse}
// @Failure 404 {object} Response
// @Router /api/v1/forms/{id}/recover [post]
func (h *FormHandler) HandleRecover(w http.ResponseWriter, r *http.Request) {
	var req api.RecoverRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	form, ok := h.loadForm(w, r, req.FormID)
	if !ok {
		return
	}
	if req.Submission == nil {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "submission is required", h.logger)
		return
	}
	errs := req.Errors
	if errs == nil {
		errs = map[string]string{}
	}

	patch, err := h.dispatcher.Dispatch(r.Context(), &workflow.State{
		Mode:             workflow.ModeRecovery,
		Schema:           form.Schema,
		Submission:       req.Submission,
		ValidationResult: &types.ValidationResult{Valid: false, Errors: errs},
	})
	if err != nil {
		WriteError(w, ToAPIError(err), h.logger)
		return
	}
	suggestions := map[string]types.Suggestion{}
	if patch.Recovery != nil && patch.Recovery.Suggestions != nil {
		suggestions = patch.Recovery.Suggestions
	}

	sub, err := h.repo.CreateSubmission(r.Context(), &store.Submission{
		FormID: form.ID,
		Data:   req.Submission,
		Valid:  false,
		Errors: errs,
	})
	if err != nil {
		WriteError(w, ToAPIError(err), h.logger)
		return
	}

	WriteSuccess(w, api.RecoverResponse{Suggestions: suggestions, SubmissionID: sub.ID})
}

// HandleAnalytics 汇总表单的提交历史
// @Summary 提交洞察
// @Tags form
// @Produce json
// @Param id path int true "表单 ID"
// @Success 200 {object} Response{data=api.AnalyticsResponse}
// @Failure 404 {object} Response
// @Router /api/v1/forms/{id}/analytics [get]
func (h *FormHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	form, ok := h.loadForm(w, r, 0)
	if !ok {
		return
	}
	history, err := h.repo.History(r.Context(), form.ID)
	if err != nil {
		WriteError(w, ToAPIError(err), h.logger)
		return
	}

	patch, err := h.dispatcher.Dispatch(r.Context(), &workflow.State{
		Mode:    workflow.ModeLearning,
		Schema:  form.Schema,
		History: history,
	})
	if err != nil {
		WriteError(w, ToAPIError(err), h.logger)
		return
	}
	var insights types.Insights
	if patch.Insights != nil {
		insights = patch.Insights.Insights
	}

	WriteSuccess(w, api.AnalyticsResponse{Insights: insights, TotalSubmissions: len(history)})
}

// loadForm 解析表单 ID 并读取表单，失败时已写出响应
func (h *FormHandler) loadForm(w http.ResponseWriter, r *http.Request, bodyID uint) (*store.Form, bool) {
	id, apiErr := resolveFormID(r, bodyID)
	if apiErr != nil {
		WriteError(w, apiErr, h.logger)
		return nil, false
	}
	form, err := h.repo.GetForm(r.Context(), id)
	if err != nil {
		WriteError(w, ToAPIError(err), h.logger)
		return nil, false
	}
	return form, true
}

// resolveFormID 路径参数优先；与请求体中的 form_id 冲突时报错
func resolveFormID(r *http.Request, bodyID uint) (uint, *types.Error) {
	raw := r.PathValue("id")
	if raw == "" {
		if bodyID == 0 {
			return 0, types.NewError(types.ErrInvalidRequest, "form_id is required")
		}
		return bodyID, nil
	}
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, types.NewError(types.ErrInvalidRequest, "invalid form id").WithCause(err)
	}
	if bodyID != 0 && uint(id) != bodyID {
		return 0, types.NewError(types.ErrInvalidRequest, "form_id in body does not match path")
	}
	return uint(id), nil
}
