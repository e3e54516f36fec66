package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BaSui01/formflow/agent/structured"
	"github.com/BaSui01/formflow/llm"
	"github.com/BaSui01/formflow/types"
	"go.uber.org/zap"
)

// SchemaAgent turns a natural-language description into a FormSchema.
type SchemaAgent struct {
	base
}

// NewSchemaAgent creates a SchemaAgent.
func NewSchemaAgent(completer llm.Completer, logger *zap.Logger) *SchemaAgent {
	return &SchemaAgent{base: newBase("schema_agent", completer, logger)}
}

// Generate asks the model for a schema. Unparseable output yields a schema
// with an empty field list; model-service errors are returned as is.
// Field types are not checked against the known set.
func (a *SchemaAgent) Generate(ctx context.Context, description string) (*types.FormSchema, error) {
	start := a.invoked(ctx, zap.Int("description_length", len(description)))

	out, err := a.complete(ctx, SchemaPrompt, map[string]string{"user_text": description}, deterministicTemperature)
	if err != nil {
		return nil, err
	}

	obj, err := structured.ExtractJSON(out)
	if err != nil {
		var ee *structured.ExtractionError
		if !errors.As(err, &ee) {
			return nil, err
		}
		a.logger.Warn("schema output not parseable, using empty schema", zap.Error(err))
		schema := &types.FormSchema{Fields: []types.FieldSpec{}}
		a.output(ctx, start, schema)
		return schema, nil
	}

	schema := a.schemaFromObject(obj)
	a.output(ctx, start, schema)
	return schema, nil
}

// schemaFromObject converts loosely typed model output. Fields without a
// name are dropped, and for a repeated name the first definition is kept.
func (a *SchemaAgent) schemaFromObject(obj map[string]any) *types.FormSchema {
	schema := &types.FormSchema{
		Title:       stringOf(obj["title"]),
		Description: stringOf(obj["description"]),
		Fields:      []types.FieldSpec{},
	}

	rawFields, _ := obj["fields"].([]any)
	seen := make(map[string]bool, len(rawFields))
	for i, raw := range rawFields {
		m, ok := raw.(map[string]any)
		if !ok {
			a.logger.Warn("skipping malformed field", zap.Int("index", i))
			continue
		}
		field := fieldFromObject(m)
		if field.Name == "" {
			a.logger.Warn("skipping field without name", zap.Int("index", i))
			continue
		}
		if seen[field.Name] {
			a.logger.Warn("dropping duplicate field", zap.String("field", field.Name), zap.Int("index", i))
			continue
		}
		seen[field.Name] = true
		schema.Fields = append(schema.Fields, field)
	}
	return schema
}

func fieldFromObject(m map[string]any) types.FieldSpec {
	f := types.FieldSpec{
		Name:     stringOf(m["name"]),
		Label:    stringOf(m["label"]),
		Type:     types.FieldType(stringOf(m["type"])),
		Required: truthy(m["required"]),
	}
	if c, ok := m["constraints"].(map[string]any); ok && len(c) > 0 {
		f.Constraints = c
	}
	if opts, ok := m["options"].([]any); ok {
		f.Options = make([]string, 0, len(opts))
		for _, o := range opts {
			f.Options = append(f.Options, stringOf(o))
		}
	}
	return f
}

// stringOf renders scalar JSON values as text; nil becomes "".
func stringOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// truthy accepts JSON booleans and the common textual spellings.
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "1":
			return true
		}
	case float64:
		return x != 0
	}
	return false
}
