package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BaSui01/formflow/agent"
	"github.com/BaSui01/formflow/llm"
	"github.com/BaSui01/formflow/testutil"
	"github.com/BaSui01/formflow/testutil/fixtures"
	"github.com/BaSui01/formflow/testutil/mocks"
	"github.com/BaSui01/formflow/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	mode, status string
}

type stubRecorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *stubRecorder) RecordAgentExecution(mode, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recorded{mode, status})
}

func newRouter(completer *mocks.MockCompleter, opts ...RouterOption) *Router {
	return NewRouter(Agents{
		Schema:     agent.NewSchemaAgent(completer, nil),
		Validation: agent.NewValidationAgent(completer, nil),
		Recovery:   agent.NewRecoveryAgent(completer, nil),
		Learning:   agent.NewLearningAgent(completer, nil),
	}, opts...)
}

func TestRouter_Dispatch_Schema(t *testing.T) {
	rec := &stubRecorder{}
	r := newRouter(mocks.NewMockCompleter().WithResponse(fixtures.SchemaResponse), WithRecorder(rec))

	patch, err := r.Dispatch(testutil.TestContext(t), &State{Mode: ModeSchema, Description: "signup"})
	require.NoError(t, err)
	require.NotNil(t, patch.Schema)
	assert.Len(t, patch.Schema.Fields, 3)
	assert.Nil(t, patch.ValidationResult)
	assert.Nil(t, patch.Recovery)
	assert.Nil(t, patch.Insights)
	assert.Equal(t, []recorded{{"schema", "success"}}, rec.calls)
}

func TestRouter_Dispatch_SchemaExtractionFailure(t *testing.T) {
	r := newRouter(mocks.NewMockCompleter().WithResponse("not json at all"))

	patch, err := r.Dispatch(testutil.TestContext(t), &State{Mode: ModeSchema, Description: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"","fields":[]}`, testutil.MustJSON(patch.Schema))
}

func TestRouter_Dispatch_Validate(t *testing.T) {
	completer := mocks.NewMockCompleter()
	r := newRouter(completer)

	patch, err := r.Dispatch(testutil.TestContext(t), &State{
		Mode:       ModeValidate,
		Schema:     fixtures.SignupSchema(),
		Submission: types.Submission{"email": "bad"},
	})
	require.NoError(t, err)
	require.NotNil(t, patch.ValidationResult)
	assert.False(t, patch.ValidationResult.Valid)
	assert.Equal(t, map[string]string{
		"full_name": agent.MsgRequired,
		"email":     agent.MsgInvalidEmail,
	}, patch.ValidationResult.Errors)
	assert.Equal(t, 0, completer.CallCount())
}

func TestRouter_Dispatch_RecoveryUsesStateErrors(t *testing.T) {
	completer := mocks.NewMockCompleter().WithResponse(fixtures.RecoveryResponse)
	r := newRouter(completer)

	patch, err := r.Dispatch(testutil.TestContext(t), &State{
		Mode:             ModeRecovery,
		Schema:           fixtures.SignupSchema(),
		Submission:       types.Submission{"email": "ada@examplecom"},
		ValidationResult: types.NewValidationResult(map[string]string{"email": agent.MsgInvalidEmail}),
	})
	require.NoError(t, err)
	require.Contains(t, patch.Recovery.Suggestions, "email")

	call, _ := completer.LastCall()
	assert.Contains(t, call.Prompt, "Errors:\n{\n  \"email\": \"Invalid email format.\"\n}")
}

func TestRouter_Dispatch_RecoveryWithoutValidationResult(t *testing.T) {
	completer := mocks.NewMockCompleter().WithResponse(fixtures.RecoveryResponse)
	_, err := newRouter(completer).Dispatch(testutil.TestContext(t), &State{
		Mode:   ModeRecovery,
		Schema: fixtures.SignupSchema(),
	})
	require.NoError(t, err)
	call, _ := completer.LastCall()
	assert.Contains(t, call.Prompt, "Errors:\n{}")
}

func TestRouter_Dispatch_Learning(t *testing.T) {
	r := newRouter(mocks.NewMockCompleter().WithResponse(fixtures.LearningResponse))
	patch, err := r.Dispatch(testutil.TestContext(t), &State{
		Mode:    ModeLearning,
		Schema:  fixtures.SignupSchema(),
		History: []types.Submission{fixtures.ValidSignup()},
	})
	require.NoError(t, err)
	require.NotNil(t, patch.Insights)
	assert.Equal(t, []string{"Make age optional."}, patch.Insights.Insights.Suggestions)
}

func TestRouter_Dispatch_UnknownMode(t *testing.T) {
	completer := mocks.NewMockCompleter()
	rec := &stubRecorder{}
	r := newRouter(completer, WithRecorder(rec))

	patch, err := r.Dispatch(testutil.TestContext(t), &State{Mode: "bogus"})
	assert.Nil(t, patch)
	var ume *UnknownModeError
	require.True(t, errors.As(err, &ume))
	assert.Equal(t, Mode("bogus"), ume.Mode)
	assert.Contains(t, err.Error(), "bogus")
	assert.Equal(t, 0, completer.CallCount())
	assert.Empty(t, rec.calls)
}

func TestRouter_Dispatch_NilState(t *testing.T) {
	_, err := newRouter(mocks.NewMockCompleter()).Dispatch(testutil.TestContext(t), nil)
	var ume *UnknownModeError
	assert.True(t, errors.As(err, &ume))
}

func TestRouter_Dispatch_MissingSchema(t *testing.T) {
	for _, mode := range []Mode{ModeValidate, ModeRecovery, ModeLearning} {
		t.Run(string(mode), func(t *testing.T) {
			completer := mocks.NewMockCompleter()
			rec := &stubRecorder{}
			_, err := newRouter(completer, WithRecorder(rec)).Dispatch(testutil.TestContext(t), &State{Mode: mode})
			assert.ErrorIs(t, err, ErrMissingSchema)
			assert.Equal(t, 0, completer.CallCount())
			assert.Equal(t, []recorded{{string(mode), "error"}}, rec.calls)
		})
	}
}

func TestRouter_Dispatch_ModelErrorPropagates(t *testing.T) {
	completer := mocks.NewMockCompleter().WithError(&llm.ModelServiceError{StatusCode: 502})
	_, err := newRouter(completer).Dispatch(testutil.TestContext(t), &State{Mode: ModeSchema})
	var mse *llm.ModelServiceError
	require.True(t, errors.As(err, &mse))
	assert.Equal(t, 502, mse.StatusCode)
}

func TestRouter_Dispatch_ModeInContext(t *testing.T) {
	var seen string
	completer := mocks.NewMockCompleter().WithFunc(func(ctx context.Context, _ string) (string, error) {
		seen, _ = types.Mode(ctx)
		return `{"fields": []}`, nil
	})
	_, err := newRouter(completer).Dispatch(testutil.TestContext(t), &State{Mode: ModeSchema})
	require.NoError(t, err)
	assert.Equal(t, "schema", seen)
}

func TestRouter_Run_MergesPatch(t *testing.T) {
	r := newRouter(mocks.NewMockCompleter())
	in := &State{Mode: ModeValidate, Schema: fixtures.SignupSchema(), Submission: fixtures.ValidSignup()}

	out, err := r.Run(testutil.TestContext(t), in)
	require.NoError(t, err)
	require.NotNil(t, out.ValidationResult)
	assert.True(t, out.ValidationResult.Valid)
	assert.Same(t, in.Schema, out.Schema)
	assert.Nil(t, in.ValidationResult, "input state is not modified")
}

func TestPatch_Apply(t *testing.T) {
	base := &State{Mode: ModeRecovery, Description: "d"}
	rec := &types.RecoverySuggestions{Suggestions: map[string]types.Suggestion{}}

	out := (&Patch{Recovery: rec}).Apply(base)
	assert.Same(t, rec, out.Recovery)
	assert.Equal(t, "d", out.Description)
	assert.Nil(t, base.Recovery)

	var nilPatch *Patch
	assert.Equal(t, *base, *nilPatch.Apply(base))
	assert.NotNil(t, (&Patch{}).Apply(nil))
}

func TestModes(t *testing.T) {
	assert.Equal(t, []Mode{"schema", "validate", "recovery", "learning"}, Modes())
}
