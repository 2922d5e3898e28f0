package motd

import "strings"

// StripLegacy removes every §-code two-character sequence from s, leaving
// plain text. A trailing lone § with no following code byte is left as-is
// since it isn't a complete code.
func StripLegacy(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '§' && i+1 < len(runes) {
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// StripJSON produces the plain-text form of a modern chat-component tree
// (already decoded into Go values by encoding/json or gabs): the
// depth-first concatenation of every "text" field, including those nested
// in "extra" arrays. A bare string component is returned as-is with its
// own §-codes stripped, matching how vanilla clients treat legacy-encoded
// description strings.
func StripJSON(v interface{}) string {
	switch val := v.(type) {
	case string:
		return StripLegacy(val)
	case map[string]interface{}:
		var b strings.Builder
		if text, ok := val["text"].(string); ok {
			b.WriteString(StripLegacy(text))
		}
		if extra, ok := val["extra"].([]interface{}); ok {
			for _, item := range extra {
				b.WriteString(StripJSON(item))
			}
		}
		return b.String()
	case []interface{}:
		var b strings.Builder
		for _, item := range val {
			b.WriteString(StripJSON(item))
		}
		return b.String()
	default:
		return ""
	}
}
