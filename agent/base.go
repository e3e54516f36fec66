package agent

import (
	"context"
	"time"

	"github.com/BaSui01/formflow/llm"
	"github.com/BaSui01/formflow/types"
	"go.uber.org/zap"
)

const (
	// deterministicTemperature is used by every mode except recovery.
	deterministicTemperature float32 = 0
	// recoveryTemperature allows some variety in suggested values.
	recoveryTemperature float32 = 0.2
)

// base carries what every agent shares: the model client and a tagged logger.
type base struct {
	name      string
	completer llm.Completer
	logger    *zap.Logger
	maxTokens int
}

func newBase(name string, completer llm.Completer, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{
		name:      name,
		completer: completer,
		logger:    logger.With(zap.String("component", "agent"), zap.String("agent", name)),
		maxTokens: llm.DefaultMaxTokens,
	}
}

// complete renders tmpl and calls the model once.
func (b *base) complete(ctx context.Context, tmpl Template, slots map[string]string, temperature float32) (string, error) {
	if b.completer == nil {
		return "", ErrCompleterNotSet
	}
	prompt, err := tmpl.Render(slots)
	if err != nil {
		return "", err
	}
	return b.completer.Complete(ctx, prompt, temperature, b.maxTokens)
}

func (b *base) invoked(ctx context.Context, fields ...zap.Field) time.Time {
	traceID, _ := types.TraceID(ctx)
	b.logger.Info("agent invoked", append([]zap.Field{
		zap.String("section", b.name+"_invoked"),
		zap.String("trace_id", traceID),
	}, fields...)...)
	return time.Now()
}

func (b *base) output(ctx context.Context, start time.Time, out any) {
	traceID, _ := types.TraceID(ctx)
	b.logger.Info("agent output",
		zap.String("section", b.name+"_output"),
		zap.String("trace_id", traceID),
		zap.Duration("duration", time.Since(start)),
		zap.Any("output", out))
}
