package structured

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{
			name: "strict object",
			raw:  `{"title":"Signup","fields":[]}`,
			want: map[string]any{"title": "Signup", "fields": []any{}},
		},
		{
			name: "surrounding whitespace",
			raw:  "\n\t {\"a\":1}  \n",
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "prose wrapped",
			raw:  `Sure! Here is the schema: {"title":"X","fields":[]} Hope this helps.`,
			want: map[string]any{"title": "X", "fields": []any{}},
		},
		{
			name: "markdown fence",
			raw:  "```json\n{\"errors\": {\"dob\": \"Invalid date\"}}\n```",
			want: map[string]any{"errors": map[string]any{"dob": "Invalid date"}},
		},
		{
			name: "nested braces",
			raw:  `result: {"a":{"b":{"c":[1,{"d":2}]}}} done`,
			want: map[string]any{"a": map[string]any{"b": map[string]any{"c": []any{float64(1), map[string]any{"d": float64(2)}}}}},
		},
		{
			name: "braces inside strings",
			raw:  `note {"message":"use } and { freely \" ok"} end`,
			want: map[string]any{"message": `use } and { freely " ok`},
		},
		{
			name: "two objects takes the first balanced one",
			raw:  `{"a":1} and then {"b":2}`,
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "invalid first span is not skipped",
			raw:  `x {not json} {"k":"v"}`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if tt.want == nil {
				var ee *ExtractionError
				require.True(t, errors.As(err, &ee))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSON_Failures(t *testing.T) {
	for _, raw := range []string{
		"not json at all",
		"",
		"   ",
		`[1, 2, 3]`,
		`"just a string"`,
		`42`,
		`{"unterminated": `,
		`} backwards {`,
	} {
		t.Run(raw, func(t *testing.T) {
			got, err := ExtractJSON(raw)
			assert.Nil(t, got)
			var ee *ExtractionError
			require.True(t, errors.As(err, &ee), "want *ExtractionError, got %T", err)
			assert.Equal(t, raw, ee.Raw)
			assert.Contains(t, ee.Error(), "extraction failed")
		})
	}
}

func TestExtractJSON_ArrayContainingObject(t *testing.T) {
	got, err := ExtractJSON(`[{"a":1}]`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, got)
}

func TestExtractInto(t *testing.T) {
	var out struct {
		Suggestions map[string]struct {
			SuggestedValue any    `json:"suggested_value"`
			Message        string `json:"message"`
		} `json:"suggestions"`
	}
	err := ExtractInto(`Here: {"suggestions":{"email":{"suggested_value":"a@b.co","message":"typo"}}}`, &out)
	require.NoError(t, err)
	require.Contains(t, out.Suggestions, "email")
	assert.Equal(t, "a@b.co", out.Suggestions["email"].SuggestedValue)
	assert.Equal(t, "typo", out.Suggestions["email"].Message)
}

func TestExtractInto_ShapeMismatch(t *testing.T) {
	var out struct {
		Fields []string `json:"fields"`
	}
	err := ExtractInto(`{"fields": "not a list"}`, &out)
	var ee *ExtractionError
	require.True(t, errors.As(err, &ee))
	var typeErr *json.UnmarshalTypeError
	assert.True(t, errors.As(err, &typeErr))
}

func TestMatchingBrace(t *testing.T) {
	assert.Equal(t, 6, matchingBrace(`{"a":1}`, 0))
	assert.Equal(t, -1, matchingBrace(`{"a":{`, 0))
	assert.Equal(t, 9, matchingBrace(`{"\\":"}"}`, 0))
}
