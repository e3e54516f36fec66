package agent

import (
	"context"
	"errors"

	"github.com/BaSui01/formflow/agent/structured"
	"github.com/BaSui01/formflow/llm"
	"github.com/BaSui01/formflow/types"
	"go.uber.org/zap"
)

// LearningAgent summarises a submission history into insights.
type LearningAgent struct {
	base
}

// NewLearningAgent creates a LearningAgent.
func NewLearningAgent(completer llm.Completer, logger *zap.Logger) *LearningAgent {
	return &LearningAgent{base: newBase("learning_agent", completer, logger)}
}

// Learn computes per-field missing and error rates locally and asks the model
// for qualitative suggestions. Unparseable model output yields empty
// insights; model-service errors are returned as is.
func (a *LearningAgent) Learn(ctx context.Context, schema *types.FormSchema, history []types.Submission) (*types.LearningInsights, error) {
	if schema == nil {
		return nil, ErrSchemaNotSet
	}
	start := a.invoked(ctx, zap.Int("submissions_count", len(history)))

	submissions := history
	if submissions == nil {
		submissions = []types.Submission{}
	}
	out, err := a.complete(ctx, LearningPrompt, map[string]string{
		"schema":      promptJSON(schema),
		"submissions": promptJSON(submissions),
	}, deterministicTemperature)
	if err != nil {
		return nil, err
	}

	obj, err := structured.ExtractJSON(out)
	if err != nil {
		var ee *structured.ExtractionError
		if !errors.As(err, &ee) {
			return nil, err
		}
		a.logger.Warn("learning output not parseable, returning empty insights", zap.Error(err))
		result := &types.LearningInsights{}
		a.output(ctx, start, result)
		return result, nil
	}

	result := &types.LearningInsights{Insights: types.Insights{
		FieldStats:  FieldStats(schema, history),
		Suggestions: modelSuggestions(obj),
	}}
	a.output(ctx, start, result)
	return result, nil
}

func modelSuggestions(obj map[string]any) []string {
	insights, _ := obj["insights"].(map[string]any)
	raw, _ := insights["suggestions"].([]any)
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == nil {
			continue
		}
		out = append(out, stringOf(s))
	}
	return out
}

// FieldStats computes, for every schema field, the share of submissions in
// which the field is empty and the share in which the deterministic checks
// report an error for it. An empty history gives zero rates.
func FieldStats(schema *types.FormSchema, history []types.Submission) map[string]types.FieldStat {
	names := make([]string, 0, len(schema.Fields))
	seen := make(map[string]bool, len(schema.Fields))
	for _, f := range schema.Fields {
		if !seen[f.Name] {
			seen[f.Name] = true
			names = append(names, f.Name)
		}
	}

	missing := make(map[string]int, len(names))
	invalid := make(map[string]int, len(names))
	for _, sub := range history {
		errs := ValidateDeterministic(schema, sub)
		for _, name := range names {
			if types.IsEmptyValue(sub[name]) {
				missing[name]++
			}
			if _, bad := errs[name]; bad {
				invalid[name]++
			}
		}
	}

	stats := make(map[string]types.FieldStat, len(names))
	n := float64(len(history))
	for _, name := range names {
		st := types.FieldStat{}
		if n > 0 {
			st.MissingRate = float64(missing[name]) / n
			st.ErrorRate = float64(invalid[name]) / n
		}
		stats[name] = st
	}
	return stats
}
