package reasoning

import (
	"encoding/json"
	"regexp"
	"strings"
)

// codeFence matches markdown code-fence markers, with or without a language
// tag, so fenced JSON bodies survive extraction.
var codeFence = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$|```")

// ExtractJSON is the deliberately lossy fallback parser used when the
// service answered in prose instead of a structured call. It strips fence
// markers, locates the first balanced {...} span, and parses it. The second
// return is false when no parseable span exists.
//
// Brace balancing ignores braces inside JSON string literals, including
// escaped quotes, so adversarial evidence text does not truncate the span.
func ExtractJSON(text string) (map[string]any, bool) {
	cleaned := codeFence.ReplaceAllString(text, "")

	span, ok := firstBalancedObject(cleaned)
	if !ok {
		return nil, false
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return nil, false
	}
	return payload, true
}

func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
