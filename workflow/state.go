package workflow

import "github.com/BaSui01/formflow/types"

// Mode selects which agent a dispatch runs.
type Mode string

const (
	ModeSchema   Mode = "schema"
	ModeValidate Mode = "validate"
	ModeRecovery Mode = "recovery"
	ModeLearning Mode = "learning"
)

// Modes lists every supported mode in dispatch-table order.
func Modes() []Mode {
	return []Mode{ModeSchema, ModeValidate, ModeRecovery, ModeLearning}
}

// State is the per-request record threaded through a dispatch. It is owned by
// the caller and never shared between requests.
type State struct {
	Mode             Mode                       `json:"mode"`
	Description      string                     `json:"description,omitempty"`
	Schema           *types.FormSchema          `json:"schema,omitempty"`
	Submission       types.Submission           `json:"submission,omitempty"`
	ValidationResult *types.ValidationResult    `json:"validation_result,omitempty"`
	Recovery         *types.RecoverySuggestions `json:"recovery,omitempty"`
	Insights         *types.LearningInsights    `json:"insights,omitempty"`
	History          []types.Submission         `json:"history,omitempty"`
}

// Patch carries the single output a dispatch produced. Exactly one field is
// set for a successful dispatch.
type Patch struct {
	Schema           *types.FormSchema          `json:"schema,omitempty"`
	ValidationResult *types.ValidationResult    `json:"validation_result,omitempty"`
	Recovery         *types.RecoverySuggestions `json:"recovery,omitempty"`
	Insights         *types.LearningInsights    `json:"insights,omitempty"`
}

// Apply returns a shallow copy of s with the patch's non-nil outputs merged
// in. s itself is not modified.
func (p *Patch) Apply(s *State) *State {
	var out State
	if s != nil {
		out = *s
	}
	if p == nil {
		return &out
	}
	if p.Schema != nil {
		out.Schema = p.Schema
	}
	if p.ValidationResult != nil {
		out.ValidationResult = p.ValidationResult
	}
	if p.Recovery != nil {
		out.Recovery = p.Recovery
	}
	if p.Insights != nil {
		out.Insights = p.Insights
	}
	return &out
}
