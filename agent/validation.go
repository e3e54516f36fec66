package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/BaSui01/formflow/agent/structured"
	"github.com/BaSui01/formflow/llm"
	"github.com/BaSui01/formflow/types"
	"go.uber.org/zap"
)

// Deterministic validation messages.
const (
	MsgRequired      = "This field is required."
	MsgInvalidEmail  = "Invalid email format."
	MsgNotANumber    = "Must be a number."
	msgMinFormat     = "Must be >= %v"
	msgMaxFormat     = "Must be <= %v"
	dateTypeFragment = "date"
)

// ValidationAgent checks a submission against a schema. Rule-based checks
// always run; the model is consulted only for date-like fields.
type ValidationAgent struct {
	base
}

// NewValidationAgent creates a ValidationAgent.
func NewValidationAgent(completer llm.Completer, logger *zap.Logger) *ValidationAgent {
	return &ValidationAgent{base: newBase("validation_agent", completer, logger)}
}

// Validate merges the deterministic pass with the optional model pass. Model
// errors replace deterministic ones for the same field. A failing model pass
// is logged and contributes nothing, so Validate itself only fails on a nil
// schema.
func (a *ValidationAgent) Validate(ctx context.Context, schema *types.FormSchema, submission types.Submission) (*types.ValidationResult, error) {
	if schema == nil {
		return nil, ErrSchemaNotSet
	}
	start := a.invoked(ctx, zap.Int("fields", len(schema.Fields)), zap.Int("values", len(submission)))

	errs := ValidateDeterministic(schema, submission)

	if NeedsModelValidation(schema) {
		a.logger.Debug("date fields detected, invoking model validation")
		for field, msg := range a.modelErrors(ctx, schema, submission) {
			errs[field] = msg
		}
	}

	result := types.NewValidationResult(errs)
	a.output(ctx, start, result)
	return result, nil
}

func (a *ValidationAgent) modelErrors(ctx context.Context, schema *types.FormSchema, submission types.Submission) map[string]string {
	out, err := a.complete(ctx, ValidationPrompt, map[string]string{
		"schema":     promptJSON(schema),
		"submission": promptJSON(submission),
	}, deterministicTemperature)
	if err != nil {
		a.logger.Warn("model validation failed", zap.Error(err))
		return nil
	}

	obj, err := structured.ExtractJSON(out)
	if err != nil {
		a.logger.Warn("model validation output not parseable", zap.Error(err))
		return nil
	}

	raw, ok := obj["errors"].(map[string]any)
	if !ok {
		if obj["errors"] != nil {
			a.logger.Warn("model validation errors has unexpected shape",
				zap.String("type", fmt.Sprintf("%T", obj["errors"])))
		}
		return nil
	}

	errs := make(map[string]string, len(raw))
	for field, msg := range raw {
		if msg == nil {
			continue
		}
		errs[field] = stringOf(msg)
	}
	return errs
}

// NeedsModelValidation reports whether any field type mentions "date".
func NeedsModelValidation(schema *types.FormSchema) bool {
	if schema == nil {
		return false
	}
	for _, f := range schema.Fields {
		if strings.Contains(string(f.Type), dateTypeFragment) {
			return true
		}
	}
	return false
}

// ValidateDeterministic applies the rule-based checks in schema order and
// returns a field-to-message map (never nil). It has no side effects.
func ValidateDeterministic(schema *types.FormSchema, submission types.Submission) map[string]string {
	errs := make(map[string]string)
	if schema == nil {
		return errs
	}
	for _, f := range schema.Fields {
		val := submission[f.Name]
		empty := types.IsEmptyValue(val)

		if f.Required && empty {
			errs[f.Name] = MsgRequired
			continue
		}
		if empty {
			continue
		}

		switch f.Type {
		case types.FieldEmail:
			s := fmt.Sprint(val)
			if !strings.Contains(s, "@") || !strings.Contains(s, ".") {
				errs[f.Name] = MsgInvalidEmail
			}
		case types.FieldNumber:
			if msg, bad := checkNumber(f, val); bad {
				errs[f.Name] = msg
			}
		}
	}
	return errs
}

// checkNumber coerces val and applies min then max; a max violation
// overwrites a min violation.
func checkNumber(f types.FieldSpec, val any) (string, bool) {
	num, ok := ToNumber(val)
	if !ok {
		return MsgNotANumber, true
	}

	msg, bad := "", false
	if raw, ok := f.Constraint("min"); ok {
		if bound, ok := ToNumber(raw); ok && num < bound {
			msg, bad = fmt.Sprintf(msgMinFormat, raw), true
		}
	}
	if raw, ok := f.Constraint("max"); ok {
		if bound, ok := ToNumber(raw); ok && num > bound {
			msg, bad = fmt.Sprintf(msgMaxFormat, raw), true
		}
	}
	return msg, bad
}

// ToNumber coerces JSON numbers, Go numeric types and numeric strings
// (surrounding whitespace allowed). Booleans are not numbers.
func ToNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}
