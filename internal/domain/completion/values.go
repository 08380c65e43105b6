package completion

import (
	"fmt"
	"strings"
)

// String reads the first non blank string stored under any of keys.
func String(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := asString(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

// Strings reads the first non empty list under any of keys. A single string
// is accepted as a one item list.
func Strings(obj map[string]any, keys ...string) []string {
	for _, key := range keys {
		if items := asStrings(obj[key]); len(items) > 0 {
			return items
		}
	}
	return nil
}

// Objects reads the first non empty list under any of keys as raw values.
func Objects(obj map[string]any, keys ...string) []any {
	for _, key := range keys {
		if items, ok := obj[key].([]any); ok && len(items) > 0 {
			return items
		}
	}
	return nil
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	case []any:
		// models sometimes return prose as a list of paragraphs
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, "\n\n")
	default:
		return ""
	}
}

func asStrings(v any) []string {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{strings.TrimSpace(val)}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
