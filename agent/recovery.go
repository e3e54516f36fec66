package agent

import (
	"context"
	"errors"

	"github.com/BaSui01/formflow/agent/structured"
	"github.com/BaSui01/formflow/llm"
	"github.com/BaSui01/formflow/types"
	"go.uber.org/zap"
)

// RecoveryAgent proposes corrections for a failed submission.
type RecoveryAgent struct {
	base
}

// NewRecoveryAgent creates a RecoveryAgent.
func NewRecoveryAgent(completer llm.Completer, logger *zap.Logger) *RecoveryAgent {
	return &RecoveryAgent{base: newBase("recovery_agent", completer, logger)}
}

// Recover asks the model for per-field suggestions. Unparseable output yields
// an empty suggestion map; model-service errors are returned as is.
func (a *RecoveryAgent) Recover(ctx context.Context, schema *types.FormSchema, submission types.Submission, errs map[string]string) (*types.RecoverySuggestions, error) {
	if schema == nil {
		return nil, ErrSchemaNotSet
	}
	if errs == nil {
		errs = map[string]string{}
	}
	start := a.invoked(ctx, zap.Int("errors", len(errs)))

	out, err := a.complete(ctx, RecoveryPrompt, map[string]string{
		"schema":     promptJSON(schema),
		"submission": promptJSON(submission),
		"errors":     promptJSON(errs),
	}, recoveryTemperature)
	if err != nil {
		return nil, err
	}

	result := &types.RecoverySuggestions{Suggestions: map[string]types.Suggestion{}}
	obj, err := structured.ExtractJSON(out)
	if err != nil {
		var ee *structured.ExtractionError
		if !errors.As(err, &ee) {
			return nil, err
		}
		a.logger.Warn("recovery output not parseable, returning no suggestions", zap.Error(err))
		a.output(ctx, start, result)
		return result, nil
	}

	raw, _ := obj["suggestions"].(map[string]any)
	for field, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			a.logger.Warn("skipping malformed suggestion", zap.String("field", field))
			continue
		}
		result.Suggestions[field] = types.Suggestion{
			SuggestedValue: m["suggested_value"],
			Message:        stringOf(m["message"]),
		}
	}

	a.output(ctx, start, result)
	return result, nil
}
