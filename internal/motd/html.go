package motd

import (
	"fmt"
	"strings"
)

var styleTags = map[byte][2]string{
	'l': {"<b>", "</b>"},
	'm': {"<s>", "</s>"},
	'n': {"<u>", "</u>"},
	'o': {"<i>", "</i>"},
}

// HTMLLegacy renders a §-code string to HTML using a push-down stack: each
// color or style code opens a tag and pushes its close tag; §r pops and
// closes everything currently open. The obfuscated code §k and any
// unrecognized code are dropped without opening or closing anything. The
// stack is drained at end of input so no
// tag is left unclosed. Newlines become <br>.
func HTMLLegacy(s string) string {
	var b strings.Builder
	var stack []string

	closeAll := func() {
		for i := len(stack) - 1; i >= 0; i-- {
			b.WriteString(stack[i])
		}
		stack = stack[:0]
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\n':
			b.WriteString("<br>")
		case r == '§' && i+1 < len(runes):
			i++
			code := byte(runes[i])
			switch {
			case code == 'r':
				closeAll()
			case code == 'k':
				// obfuscated: no stable HTML rendering, code is a no-op here
			case styleTags[code] != [2]string{}:
				tags := styleTags[code]
				b.WriteString(tags[0])
				stack = append(stack, tags[1])
			default:
				if hex, ok := colorHex[code]; ok {
					open := fmt.Sprintf(`<span style="color:%s">`, hex)
					b.WriteString(open)
					stack = append(stack, "</span>")
				}
			}
		default:
			b.WriteRune(r)
		}
	}
	closeAll()
	return b.String()
}

// HTMLJSON renders a modern chat-component tree to HTML. Each node's color
// produces a colored span; each true style flag wraps its children; extra
// nodes inherit by nesting inside the parent's wrapping tags. Supports a
// bare string (legacy-encoded) by delegating to HTMLLegacy.
func HTMLJSON(v interface{}) string {
	switch val := v.(type) {
	case string:
		return HTMLLegacy(val)
	case map[string]interface{}:
		return htmlComponent(val)
	case []interface{}:
		var b strings.Builder
		for _, item := range val {
			b.WriteString(HTMLJSON(item))
		}
		return b.String()
	default:
		return ""
	}
}

func htmlComponent(node map[string]interface{}) string {
	var b strings.Builder
	if text, ok := node["text"].(string); ok {
		b.WriteString(strings.ReplaceAll(text, "\n", "<br>"))
	}
	if extra, ok := node["extra"].([]interface{}); ok {
		for _, item := range extra {
			b.WriteString(HTMLJSON(item))
		}
	}
	inner := b.String()

	if boldFlag(node) {
		inner = "<b>" + inner + "</b>"
	}
	if italicFlag(node) {
		inner = "<i>" + inner + "</i>"
	}
	if underlineFlag(node) {
		inner = "<u>" + inner + "</u>"
	}
	if strikeFlag(node) {
		inner = "<s>" + inner + "</s>"
	}
	if color, ok := node["color"].(string); ok && color != "" {
		inner = fmt.Sprintf(`<span style="color:%s">%s</span>`, resolveColor(color), inner)
	}
	return inner
}

func boldFlag(node map[string]interface{}) bool     { return flagTrue(node, "bold") }
func italicFlag(node map[string]interface{}) bool    { return flagTrue(node, "italic") }
func underlineFlag(node map[string]interface{}) bool { return flagTrue(node, "underline") || flagTrue(node, "underlined") }
func strikeFlag(node map[string]interface{}) bool    { return flagTrue(node, "strikethrough") }

func flagTrue(node map[string]interface{}, key string) bool {
	v, ok := node[key].(bool)
	return ok && v
}
