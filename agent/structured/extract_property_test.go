package structured

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Any JSON object surrounded by brace-free prose is recovered unchanged,
// including string values that themselves contain braces and quotes.
func TestProperty_ExtractJSON_RecoversProseWrappedObject(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		obj := rapid.MapOf(
			rapid.StringMatching(`[a-z_]{1,8}`),
			rapid.StringMatching(`[ -~]{0,12}`),
		).Draw(rt, "object")
		prefix := rapid.StringMatching(`[A-Za-z .,:!?\n]{0,40}`).Draw(rt, "prefix")
		suffix := rapid.StringMatching(`[A-Za-z .,:!?\n]{0,40}`).Draw(rt, "suffix")

		payload, err := json.Marshal(obj)
		require.NoError(rt, err)

		got, err := ExtractJSON(prefix + string(payload) + suffix)
		require.NoError(rt, err)

		want := make(map[string]any, len(obj))
		for k, v := range obj {
			want[k] = v
		}
		assert.Equal(rt, want, got)
	})
}

// Text without any '{' never yields an object.
func TestProperty_ExtractJSON_BraceFreeTextFails(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("brace-free text is an extraction error", prop.ForAll(
		func(text string) bool {
			_, err := ExtractJSON(text)
			var ee *ExtractionError
			return errors.As(err, &ee) && ee.Raw == text
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
