package agent

import (
	"fmt"
	"testing"

	"github.com/BaSui01/formflow/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// A number inside [min, max] never produces an error; outside it produces
// exactly the message for the violated bound.
func TestProperty_NumberBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("number bounds", prop.ForAll(
		func(lo, span, v int) bool {
			hi := lo + span
			schema := numberField(map[string]any{"min": float64(lo), "max": float64(hi)})
			errs := ValidateDeterministic(schema, types.Submission{"n": float64(v)})

			switch {
			case v < lo:
				return errs["n"] == fmt.Sprintf("Must be >= %v", float64(lo)) && len(errs) == 1
			case v > hi:
				return errs["n"] == fmt.Sprintf("Must be <= %v", float64(hi)) && len(errs) == 1
			default:
				return len(errs) == 0
			}
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(0, 500),
		gen.IntRange(-2000, 2000),
	))

	properties.TestingRun(t)
}

// Deterministic validation is a pure function of its inputs, and Valid
// always equals "no errors".
func TestProperty_DeterministicPassIsPure(t *testing.T) {
	types6 := []types.FieldType{
		types.FieldText, types.FieldEmail, types.FieldNumber,
		types.FieldCheckbox, types.FieldSelect, types.FieldPhone,
	}
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(rt, "fields")
		schema := &types.FormSchema{}
		sub := types.Submission{}
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("f%d", i)
			schema.Fields = append(schema.Fields, types.FieldSpec{
				Name:     name,
				Type:     rapid.SampledFrom(types6).Draw(rt, "type"),
				Required: rapid.Bool().Draw(rt, "required"),
			})
			switch rapid.IntRange(0, 3).Draw(rt, "kind") {
			case 0:
				sub[name] = rapid.StringMatching(`[a-z@.0-9 ]{0,10}`).Draw(rt, "str")
			case 1:
				sub[name] = rapid.Float64Range(-100, 100).Draw(rt, "num")
			case 2:
				sub[name] = rapid.Bool().Draw(rt, "bool")
			}
		}

		first := ValidateDeterministic(schema, sub)
		second := ValidateDeterministic(schema, sub)
		assert.Equal(rt, first, second)

		res := types.NewValidationResult(first)
		assert.Equal(rt, len(res.Errors) == 0, res.Valid)

		for _, f := range schema.Fields {
			if f.Required && types.IsEmptyValue(sub[f.Name]) {
				assert.Equal(rt, MsgRequired, first[f.Name])
			}
		}
	})
}
