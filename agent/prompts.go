package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Template is a static prompt with named {slot} placeholders.
type Template struct {
	Name  string
	Slots []string
	Text  string
}

// Render substitutes every slot. A missing slot value is an error so a
// half-filled prompt never reaches the model.
func (t Template) Render(values map[string]string) (string, error) {
	pairs := make([]string, 0, len(t.Slots)*2)
	for _, slot := range t.Slots {
		v, ok := values[slot]
		if !ok {
			return "", fmt.Errorf("prompt %s: missing slot %q", t.Name, slot)
		}
		pairs = append(pairs, "{"+slot+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(t.Text), nil
}

var (
	SchemaPrompt = Template{
		Name:  "schema",
		Slots: []string{"user_text"},
		Text: `
You are a Schema Agent. Convert the user's natural-language description of a form into a strict JSON schema.
Return only JSON with keys: title, description (optional), fields (list).
Each field: name (snake_case), label, type (text|email|number|date|checkbox|select|phone), required (bool), constraints (optional), options (optional).
User description:
---
{user_text}
---
`,
	}

	ValidationPrompt = Template{
		Name:  "validation",
		Slots: []string{"schema", "submission"},
		Text: `
You are a Validation Agent. Given the form schema and a submission, output JSON:
{"valid": true|false, "errors": {"field_name": "message", ...}}
Schema:
{schema}
Submission:
{submission}
`,
	}

	RecoveryPrompt = Template{
		Name:  "recovery",
		Slots: []string{"schema", "submission", "errors"},
		Text: `
You are an Error Recovery Agent. Given schema, submission, and errors, return JSON:
{"suggestions": {"field": {"suggested_value": <value|null>, "message": "..."} } }
Schema:
{schema}
Submission:
{submission}
Errors:
{errors}
`,
	}

	LearningPrompt = Template{
		Name:  "learning",
		Slots: []string{"schema", "submissions"},
		Text: `
You are a Learning Agent. Given submission history and schema, return suggestions about fields to make optional, fields causing most errors, and possible UI hints as JSON:
{"insights": {"field_stats": {"field_name": {"missing_rate":0.0, "error_rate":0.0}}, "suggestions": ["..."]}}
History:
{submissions}
Schema:
{schema}
`,
	}
)

// Templates lists every prompt by name.
func Templates() map[string]Template {
	return map[string]Template{
		SchemaPrompt.Name:     SchemaPrompt,
		ValidationPrompt.Name: ValidationPrompt,
		RecoveryPrompt.Name:   RecoveryPrompt,
		LearningPrompt.Name:   LearningPrompt,
	}
}

// promptJSON renders v as two-space indented JSON for a prompt slot.
func promptJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
