package tools

// Parameter accessors tolerant of the types JSON decoding produces.

func stringParam(params map[string]any, key string) string {
	value, _ := params[key].(string)
	return value
}

func intParam(params map[string]any, key string, fallback int) int {
	switch value := params[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	default:
		return fallback
	}
}

func boolParam(params map[string]any, key string) bool {
	value, _ := params[key].(bool)
	return value
}
