package completion

import (
	"encoding/json"
	"strings"
)

// Coerce turns an outcome into a JSON object. Anything other than a
// successful outcome carrying a decodable object yields ok=false.
func Coerce(out Outcome) (map[string]any, bool) {
	if out.Kind != KindSuccess {
		return nil, false
	}
	return ExtractObject(out.Text)
}

// ExtractObject parses raw as a JSON object, tolerating markdown fences and
// prose around it. A {"result": {...}} envelope is unwrapped.
func ExtractObject(raw string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}
	candidates := []string{trimmed}
	if fenced, ok := stripFence(trimmed); ok {
		candidates = append(candidates, fenced)
	}
	for _, candidate := range candidates {
		if obj, ok := decodeObject(candidate); ok {
			return unwrapEnvelope(obj), true
		}
	}
	if obj, ok := firstDecodableObject(trimmed); ok {
		return unwrapEnvelope(obj), true
	}
	if start, end := strings.Index(trimmed, "{"), strings.LastIndex(trimmed, "}"); start >= 0 && end > start {
		if obj, ok := decodeObject(trimmed[start : end+1]); ok {
			return unwrapEnvelope(obj), true
		}
	}
	return nil, false
}

// firstDecodableObject walks the top-level {...} spans of text in order and
// returns the first one that decodes.
func firstDecodableObject(text string) (map[string]any, bool) {
	offset := 0
	for offset < len(text) {
		start := strings.IndexByte(text[offset:], '{')
		if start < 0 {
			return nil, false
		}
		start += offset
		end, ok := balancedEnd(text, start)
		if !ok {
			offset = start + 1
			continue
		}
		if obj, ok := decodeObject(text[start:end]); ok {
			return obj, true
		}
		offset = end
	}
	return nil, false
}

func decodeObject(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// stripFence returns the body of the first ``` block.
func stripFence(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	body := text[start+3:]
	// drop the info string, e.g. ```json
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		if info := strings.TrimSpace(body[:nl]); !strings.HasPrefix(info, "{") {
			body = body[nl+1:]
		}
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	body = strings.TrimSpace(body)
	return body, body != ""
}

// balancedEnd returns the index just past the } closing the { at start,
// honoring JSON strings.
func balancedEnd(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

func unwrapEnvelope(obj map[string]any) map[string]any {
	inner, ok := obj["result"].(map[string]any)
	if !ok {
		return obj
	}
	if len(obj) == 1 {
		return inner
	}
	// keep the outer object when it already carries content fields
	for _, key := range []string{"summary", "analysis", "overview", "guidance"} {
		if _, present := obj[key]; present {
			return obj
		}
	}
	return inner
}
