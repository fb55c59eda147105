package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// Field names that carry the actual text payload in structured model replies,
// checked in order.
var textFieldNames = []string{"text", "content", "result", "answer", "output"}

var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\n?(.*?)```")

const maxUnwrapDepth = 4

// NormalizeModelOutput converts a model reply of any shape into a single clean
// string. The input may be a plain string, a map with a text-bearing field, a
// list of such maps (text fields concatenated in order, space-joined), or a
// string that is itself a serialized JSON object with a text field.
//
// The function is total: it never returns an error and never panics. On any
// shape it cannot recognize it falls back to stringifying the input, so the
// pipeline degrades rather than crashes.
func NormalizeModelOutput(raw any) string {
	return normalize(raw, 0)
}

func normalize(raw any, depth int) string {
	if depth > maxUnwrapDepth {
		return stripFences(fmt.Sprintf("%v", raw))
	}

	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return normalizeString(v, depth)
	case map[string]any:
		if text, ok := textField(v); ok {
			return normalize(text, depth+1)
		}
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := normalize(item, depth+1); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}

	// Unknown shape: degrade to the stringified input.
	return stripFences(strings.TrimSpace(fmt.Sprintf("%v", raw)))
}

// normalizeString handles a plain string which may itself be a serialized
// object carrying a text field.
func normalizeString(s string, depth int) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]any
		if err := ParseModelJSON(trimmed, &obj); err == nil {
			if text, ok := textField(obj); ok {
				return normalize(text, depth+1)
			}
		}
	}
	return stripFences(trimmed)
}

// textField returns the first recognized text-bearing field of a structured
// reply block.
func textField(obj map[string]any) (any, bool) {
	for _, name := range textFieldNames {
		if v, ok := obj[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stripFences removes markdown code fence markers, keeping the fenced body.
func stripFences(s string) string {
	if !strings.Contains(s, "```") {
		return strings.TrimSpace(s)
	}
	out := fenceRe.ReplaceAllString(s, "$1")
	// Unpaired fence markers are dropped outright.
	out = strings.ReplaceAll(out, "```", "")
	return strings.TrimSpace(out)
}
