package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BaSui01/formflow/agent/structured"
	"github.com/BaSui01/formflow/internal/store"
	"github.com/BaSui01/formflow/llm"
	"github.com/BaSui01/formflow/types"
	"github.com/BaSui01/formflow/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// 🧪 Common 函数测试
// =============================================================================

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusAccepted, map[string]string{"message": "hello"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.JSONEq(t, `{"message":"hello"}`, w.Body.String())
}

func TestWriteSuccessAndCreated(t *testing.T) {
	for _, tc := range []struct {
		name   string
		write  func(http.ResponseWriter, any)
		status int
	}{
		{"success", WriteSuccess, http.StatusOK},
		{"created", WriteCreated, http.StatusCreated},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tc.write(w, map[string]string{"key": "value"})

			assert.Equal(t, tc.status, w.Code)
			var resp Response
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.True(t, resp.Success)
			assert.NotNil(t, resp.Data)
			assert.Nil(t, resp.Error)
			assert.False(t, resp.Timestamp.IsZero())
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		err            *types.Error
		expectedStatus int
	}{
		{"invalid request", types.NewError(types.ErrInvalidRequest, "description is required"), http.StatusBadRequest},
		{"not found", types.NewError(types.ErrNotFound, "Form not found"), http.StatusNotFound},
		{"model service", types.NewError(types.ErrModelService, "upstream failed"), http.StatusBadGateway},
		{"explicit status", types.NewError(types.ErrInternalError, "boom").WithHTTPStatus(http.StatusTeapot), http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err, zap.NewNop())

			assert.Equal(t, tt.expectedStatus, w.Code)
			var resp Response
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Nil(t, resp.Data)
			require.NotNil(t, resp.Error)
			assert.Equal(t, string(tt.err.Code), resp.Error.Code)
			assert.Equal(t, tt.err.Message, resp.Error.Message)
		})
	}
}

func TestMapErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code       types.ErrorCode
		wantStatus int
	}{
		{types.ErrInvalidRequest, http.StatusBadRequest},
		{types.ErrUnknownMode, http.StatusBadRequest},
		{types.ErrNotFound, http.StatusNotFound},
		{types.ErrMissingSchema, http.StatusUnprocessableEntity},
		{types.ErrRateLimited, http.StatusTooManyRequests},
		{types.ErrModelService, http.StatusBadGateway},
		{types.ErrExtraction, http.StatusBadGateway},
		{types.ErrSchemaGenerationFailed, http.StatusBadGateway},
		{types.ErrTimeout, http.StatusGatewayTimeout},
		{types.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{types.ErrInternalError, http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, mapErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code types.ErrorCode
	}{
		{"model service", &llm.ModelServiceError{StatusCode: 500, Provider: "openai"}, types.ErrModelService},
		{"wrapped model service", fmt.Errorf("agent: %w", &llm.ModelServiceError{Provider: "openai"}), types.ErrModelService},
		{"extraction", &structured.ExtractionError{Raw: "nope"}, types.ErrExtraction},
		{"unknown mode", &workflow.UnknownModeError{Mode: "bogus"}, types.ErrUnknownMode},
		{"missing schema", workflow.ErrMissingSchema, types.ErrMissingSchema},
		{"not found", fmt.Errorf("get form 7: %w", store.ErrNotFound), types.ErrNotFound},
		{"deadline", context.DeadlineExceeded, types.ErrTimeout},
		{"already typed", types.NewError(types.ErrInvalidRequest, "bad"), types.ErrInvalidRequest},
		{"other", errors.New("disk on fire"), types.ErrInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := ToAPIError(tt.err)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}

	apiErr := ToAPIError(&workflow.UnknownModeError{Mode: "bogus"})
	assert.Contains(t, apiErr.Message, "bogus")
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid JSON", `{"name":"test","value":123}`, false},
		{"invalid JSON", `{"name":"test",}`, true},
		{"unknown field", `{"name":"test","unknown":"field"}`, true},
		{"oversized", `{"name":"` + strings.Repeat("x", 2<<20) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body))

			var result payload
			err := DecodeJSONBody(w, r, &result, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, w.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, payload{Name: "test", Value: 123}, result)
		})
	}
}

func TestDecodeJSONBody_Empty(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/test", nil)

	var dst map[string]any
	err := DecodeJSONBody(w, r, &dst, zap.NewNop())
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidRequest))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	rw := NewResponseWriter(w)

	assert.Equal(t, http.StatusOK, rw.StatusCode)
	assert.False(t, rw.Written)

	rw.WriteHeader(http.StatusCreated)
	assert.Equal(t, http.StatusCreated, rw.StatusCode)
	assert.True(t, rw.Written)

	// 第二次写入被忽略
	rw.WriteHeader(http.StatusBadRequest)
	assert.Equal(t, http.StatusCreated, rw.StatusCode)

	n, err := rw.Write([]byte("test"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, int64(4), rw.BytesWritten)
	assert.Same(t, w, rw.Unwrap())
}
