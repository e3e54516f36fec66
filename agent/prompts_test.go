package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Render(t *testing.T) {
	out, err := RecoveryPrompt.Render(map[string]string{
		"schema":     `{"title":"S"}`,
		"submission": `{"email":"x"}`,
		"errors":     `{"email":"Invalid email format."}`,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Schema:\n{\"title\":\"S\"}\n")
	assert.Contains(t, out, "Errors:\n{\"email\":\"Invalid email format.\"}\n")
	assert.Contains(t, out, `{"suggestions": {"field": {"suggested_value": <value|null>, "message": "..."} } }`)
	assert.NotContains(t, out, "{schema}")
}

func TestTemplate_RenderMissingSlot(t *testing.T) {
	_, err := ValidationPrompt.Render(map[string]string{"schema": "{}"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing slot "submission"`)
}

func TestTemplate_RenderDoesNotRescanValues(t *testing.T) {
	out, err := SchemaPrompt.Render(map[string]string{"user_text": "a form with {user_text} literally"})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "{user_text}"))
}

func TestTemplates_SlotsAppearInText(t *testing.T) {
	for name, tmpl := range Templates() {
		assert.Equal(t, name, tmpl.Name)
		for _, slot := range tmpl.Slots {
			assert.Contains(t, tmpl.Text, "{"+slot+"}", "template %s", name)
		}
	}
}

func TestPromptJSON_Indented(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", promptJSON(map[string]int{"a": 1}))
}
