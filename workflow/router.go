package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/BaSui01/formflow/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SchemaGenerator produces a schema from a description.
type SchemaGenerator interface {
	Generate(ctx context.Context, description string) (*types.FormSchema, error)
}

// SubmissionValidator validates a submission against a schema.
type SubmissionValidator interface {
	Validate(ctx context.Context, schema *types.FormSchema, submission types.Submission) (*types.ValidationResult, error)
}

// Recoverer suggests corrections for validation errors.
type Recoverer interface {
	Recover(ctx context.Context, schema *types.FormSchema, submission types.Submission, errs map[string]string) (*types.RecoverySuggestions, error)
}

// Learner summarises a submission history.
type Learner interface {
	Learn(ctx context.Context, schema *types.FormSchema, history []types.Submission) (*types.LearningInsights, error)
}

// Agents groups the collaborators a Router dispatches to.
type Agents struct {
	Schema     SchemaGenerator
	Validation SubmissionValidator
	Recovery   Recoverer
	Learning   Learner
}

// ExecutionRecorder receives one record per dispatch.
type ExecutionRecorder interface {
	RecordAgentExecution(mode, status string, duration time.Duration)
}

// handlerFunc runs one mode against a state.
type handlerFunc func(ctx context.Context, s *State) (*Patch, error)

// Router dispatches a State to exactly one agent based on its Mode.
// The dispatch table is fixed at construction, so a Router is safe for
// concurrent use.
type Router struct {
	handlers map[Mode]handlerFunc
	logger   *zap.Logger
	recorder ExecutionRecorder
	tracer   trace.Tracer
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(rec ExecutionRecorder) RouterOption {
	return func(r *Router) { r.recorder = rec }
}

// WithTracer overrides the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) RouterOption {
	return func(r *Router) {
		if t != nil {
			r.tracer = t
		}
	}
}

// NewRouter builds the dispatch table from agents.
func NewRouter(agents Agents, opts ...RouterOption) *Router {
	r := &Router{
		logger: zap.NewNop(),
		tracer: otel.Tracer("formflow/workflow"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("component", "workflow_router"))

	r.handlers = map[Mode]handlerFunc{
		ModeSchema: func(ctx context.Context, s *State) (*Patch, error) {
			schema, err := agents.Schema.Generate(ctx, s.Description)
			if err != nil {
				return nil, err
			}
			return &Patch{Schema: schema}, nil
		},
		ModeValidate: func(ctx context.Context, s *State) (*Patch, error) {
			if s.Schema == nil {
				return nil, ErrMissingSchema
			}
			res, err := agents.Validation.Validate(ctx, s.Schema, s.Submission)
			if err != nil {
				return nil, err
			}
			return &Patch{ValidationResult: res}, nil
		},
		ModeRecovery: func(ctx context.Context, s *State) (*Patch, error) {
			if s.Schema == nil {
				return nil, ErrMissingSchema
			}
			errs := map[string]string{}
			if s.ValidationResult != nil && s.ValidationResult.Errors != nil {
				errs = s.ValidationResult.Errors
			}
			rec, err := agents.Recovery.Recover(ctx, s.Schema, s.Submission, errs)
			if err != nil {
				return nil, err
			}
			return &Patch{Recovery: rec}, nil
		},
		ModeLearning: func(ctx context.Context, s *State) (*Patch, error) {
			if s.Schema == nil {
				return nil, ErrMissingSchema
			}
			ins, err := agents.Learning.Learn(ctx, s.Schema, s.History)
			if err != nil {
				return nil, err
			}
			return &Patch{Insights: ins}, nil
		},
	}
	return r
}

// Dispatch inspects s.Mode once and runs the matching agent. s is not
// modified; use Patch.Apply or Run to obtain the updated state.
func (r *Router) Dispatch(ctx context.Context, s *State) (*Patch, error) {
	if s == nil {
		s = &State{}
	}
	handler, ok := r.handlers[s.Mode]
	if !ok {
		r.logger.Warn("unknown mode", zap.String("mode", string(s.Mode)))
		return nil, &UnknownModeError{Mode: s.Mode}
	}

	ctx = types.WithMode(ctx, string(s.Mode))
	ctx, span := r.tracer.Start(ctx, "workflow.dispatch", trace.WithAttributes(
		attribute.String("workflow.mode", string(s.Mode)),
	))
	defer span.End()

	traceID, _ := types.TraceID(ctx)
	r.logger.Debug("dispatching", zap.String("mode", string(s.Mode)), zap.String("trace_id", traceID))

	start := time.Now()
	patch, err := handler(ctx, s)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		level := zap.WarnLevel
		if errors.Is(err, ErrMissingSchema) {
			level = zap.InfoLevel
		}
		if ce := r.logger.Check(level, "dispatch failed"); ce != nil {
			ce.Write(
				zap.String("mode", string(s.Mode)),
				zap.String("trace_id", traceID),
				zap.Duration("duration", duration),
				zap.Error(err))
		}
	}
	if r.recorder != nil {
		r.recorder.RecordAgentExecution(string(s.Mode), status, duration)
	}
	return patch, err
}

// Run dispatches s and returns the merged state.
func (r *Router) Run(ctx context.Context, s *State) (*State, error) {
	patch, err := r.Dispatch(ctx, s)
	if err != nil {
		return nil, err
	}
	return patch.Apply(s), nil
}
