package structured

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// errNoObject is the cause reported when no tier produced a JSON object.
var errNoObject = errors.New("no JSON object found")

// ExtractionError reports that no JSON object could be recovered from model output.
type ExtractionError struct {
	Raw   string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("structured output extraction failed: %v", e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// ExtractJSON recovers a JSON object from free-form model output. Tiers are
// tried in order and the first one yielding an object wins:
//
//  1. the whole trimmed text;
//  2. the balanced span starting at the first '{', honouring JSON strings;
//  3. the greedy span from the first '{' to the last '}'.
//
// A top-level value that is not an object never satisfies a tier.
func ExtractJSON(raw string) (map[string]any, error) {
	span, err := extractObject(raw)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(span, &obj); err != nil {
		return nil, &ExtractionError{Raw: raw, Cause: err}
	}
	return obj, nil
}

// ExtractInto recovers a JSON object like ExtractJSON and decodes it into v.
// A shape mismatch between the object and v is an *ExtractionError as well.
func ExtractInto(raw string, v any) error {
	span, err := extractObject(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(span, v); err != nil {
		return &ExtractionError{Raw: raw, Cause: err}
	}
	return nil
}

func extractObject(raw string) ([]byte, error) {
	text := strings.TrimSpace(raw)
	if isObject(text) {
		return []byte(text), nil
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, &ExtractionError{Raw: raw, Cause: errNoObject}
	}

	if end := matchingBrace(text, start); end > start {
		if span := text[start : end+1]; isObject(span) {
			return []byte(span), nil
		}
	}

	if end := strings.LastIndexByte(text, '}'); end > start {
		if span := text[start : end+1]; isObject(span) {
			return []byte(span), nil
		}
	}

	return nil, &ExtractionError{Raw: raw, Cause: errNoObject}
}

// isObject reports whether s is exactly one valid JSON object.
func isObject(s string) bool {
	return strings.HasPrefix(s, "{") && json.Valid([]byte(s))
}

// matchingBrace returns the index of the '}' closing the '{' at start, or -1.
// Braces inside JSON strings are ignored.
func matchingBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
