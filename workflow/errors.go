package workflow

import (
	"errors"
	"fmt"
)

// ErrMissingSchema is returned when validate, recovery or learning is
// dispatched without a schema in the state.
var ErrMissingSchema = errors.New("workflow: schema is required for this mode")

// UnknownModeError reports a mode outside the dispatch table.
type UnknownModeError struct {
	Mode Mode
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("workflow: unknown mode %q", string(e.Mode))
}
