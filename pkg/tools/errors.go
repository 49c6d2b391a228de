package tools

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTool is returned when registering an id twice.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrUnknownTool is returned when looking up an unregistered id.
	ErrUnknownTool = errors.New("unknown tool")
)

// ValidationError reports a bad or missing tool input, naming the field.
type ValidationError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tool %s: input %q: %s", e.Tool, e.Field, e.Reason)
}
