package tools

// accessors for validated planner inputs, applying tool defaults

func StringInput(inputs map[string]any, name, def string) string {
	if v, ok := inputs[name].(string); ok && v != "" {
		return v
	}
	return def
}

func IntInput(inputs map[string]any, name string, def int) int {
	switch n := inputs[name].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

func BoolInput(inputs map[string]any, name string, def bool) bool {
	if v, ok := inputs[name].(bool); ok {
		return v
	}
	return def
}
