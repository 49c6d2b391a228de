package tools

import (
	"context"
	"fmt"
)

// input value types understood by descriptor validation
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeFloat   = "float"
)

// tool categories, mirrored in the planner's menu
const (
	CategoryLogs    = "logs"
	CategoryMetrics = "metrics"
	CategoryAlerts  = "alerts"
	CategoryHealth  = "health"
	CategoryCode    = "code"
)

type InputSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
}

// Descriptor describes a tool to the planner and to input validation.
// Immutable once the tool is registered.
type Descriptor struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Inputs      []InputSpec `json:"inputs"`
}

// Result is the outcome of one tool execution. Success=false implies Data is
// nil, success=true implies Error is empty; use Ok/Fail to keep that holding.
type Result struct {
	Success  bool           `json:"success"`
	Data     any            `json:"data,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func Ok(data any) Result {
	return Result{Success: true, Data: data}
}

func OkMeta(data any, meta map[string]any) Result {
	return Result{Success: true, Data: data, Metadata: meta}
}

func Fail(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Tool is one diagnostic capability against an external system. Execute must
// catch faults from its underlying call and report them via a failed Result;
// the gateway guards against anything that still escapes.
type Tool interface {
	Describe() Descriptor
	Validate(inputs map[string]any) error
	Execute(ctx context.Context, inputs map[string]any) Result
}

// ValidateInputs checks the inputs against the descriptor schema: every
// required input present, every provided input type-compatible. Concrete
// tools delegate their Validate to this.
func ValidateInputs(d Descriptor, inputs map[string]any) error {
	for _, spec := range d.Inputs {
		v, ok := inputs[spec.Name]
		if !ok {
			if spec.Required {
				return &ValidationError{Tool: d.ID, Field: spec.Name, Reason: "required input missing"}
			}
			continue
		}
		if v == nil {
			continue
		}
		if !typeCompatible(spec.Type, v) {
			return &ValidationError{Tool: d.ID, Field: spec.Name, Reason: fmt.Sprintf("expected %s, got %T", spec.Type, v)}
		}
	}
	return nil
}

func typeCompatible(want string, v any) bool {
	switch want {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeInteger:
		// planner inputs arrive through json, so numbers are float64
		switch n := v.(type) {
		case int, int32, int64:
			return true
		case float64:
			return n == float64(int64(n))
		default:
			return false
		}
	case TypeFloat:
		switch v.(type) {
		case float32, float64, int, int64:
			return true
		default:
			return false
		}
	default:
		return true
	}
}
