package types

// FieldType names the input kind of a form field. Values outside the known set
// are carried through unchanged and simply match no type-specific rule.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldCheckbox FieldType = "checkbox"
	FieldSelect   FieldType = "select"
	FieldPhone    FieldType = "phone"
)

// Known reports whether t is one of the documented field types.
func (t FieldType) Known() bool {
	switch t {
	case FieldText, FieldEmail, FieldNumber, FieldDate, FieldCheckbox, FieldSelect, FieldPhone:
		return true
	}
	return false
}

// FieldSpec describes a single form field.
type FieldSpec struct {
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Type        FieldType      `json:"type"`
	Required    bool           `json:"required"`
	Constraints map[string]any `json:"constraints,omitempty"`
	Options     []string       `json:"options,omitempty"`
}

// Constraint returns the named constraint value, if present.
func (f FieldSpec) Constraint(name string) (any, bool) {
	if f.Constraints == nil {
		return nil, false
	}
	v, ok := f.Constraints[name]
	return v, ok && v != nil
}

// FormSchema is the structural definition of a form: a title and an ordered
// field list. A generated schema is never mutated in place.
type FormSchema struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Fields      []FieldSpec `json:"fields"`
}

// Empty reports whether the schema carries no fields, which is how a failed
// generation is signalled.
func (s *FormSchema) Empty() bool {
	return s == nil || len(s.Fields) == 0
}

// Field looks a field up by name. The first definition wins.
func (s *FormSchema) Field(name string) (FieldSpec, bool) {
	if s == nil {
		return FieldSpec{}, false
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Clone returns a deep copy of the schema.
func (s *FormSchema) Clone() *FormSchema {
	if s == nil {
		return nil
	}
	out := &FormSchema{
		Title:       s.Title,
		Description: s.Description,
		Fields:      make([]FieldSpec, len(s.Fields)),
	}
	for i, f := range s.Fields {
		cp := f
		if f.Constraints != nil {
			cp.Constraints = make(map[string]any, len(f.Constraints))
			for k, v := range f.Constraints {
				cp.Constraints[k] = v
			}
		}
		if f.Options != nil {
			cp.Options = append([]string(nil), f.Options...)
		}
		out.Fields[i] = cp
	}
	return out
}

// Submission is one user-filled instance of data for a schema. Values are
// loosely typed: string, float64, bool, nil or []any after JSON decoding.
type Submission map[string]any

// IsEmptyValue reports whether v counts as "not provided": nil, the empty
// string, or an empty list.
func IsEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	}
	return false
}

// ValidationResult is the merged outcome of the deterministic and
// model-assisted validation passes.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// NewValidationResult derives Valid from the error mapping.
func NewValidationResult(errs map[string]string) *ValidationResult {
	if errs == nil {
		errs = map[string]string{}
	}
	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Suggestion is a corrective hint for one field.
type Suggestion struct {
	SuggestedValue any    `json:"suggested_value"`
	Message        string `json:"message"`
}

// RecoverySuggestions maps field names to corrective hints.
type RecoverySuggestions struct {
	Suggestions map[string]Suggestion `json:"suggestions"`
}

// FieldStat aggregates how often a field is missing or invalid across a
// submission history. Both rates are in [0,1].
type FieldStat struct {
	MissingRate float64 `json:"missing_rate"`
	ErrorRate   float64 `json:"error_rate"`
}

// Insights is the body of a learning result.
type Insights struct {
	FieldStats  map[string]FieldStat `json:"field_stats,omitempty"`
	Suggestions []string             `json:"suggestions,omitempty"`
}

// LearningInsights wraps aggregate insights over a submission history.
type LearningInsights struct {
	Insights Insights `json:"insights"`
}
