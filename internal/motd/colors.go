// Package motd decodes a server's advertised message of the day, in both
// its legacy §-code form and the modern JSON chat-component form, into
// plain text (for logs and the plain-text formatter output modes) and
// HTML (for the structured/templating output mode). Grounded on
// officialpriyam-Propel-Wings/modules/alwaysmotd/color_codes.go, which
// performs the inverse transform (plain text with §-codes into JSON chat
// components); this package walks both directions the other way the
// source needs them: §-text and JSON components into plain text and HTML.
package motd

// colorHex maps every legacy single-character color/style code to its
// rendered color, leaving the four style codes (l,m,n,o) and reset (r) out
// since those are handled structurally, not as colors.
var colorHex = map[byte]string{
	'0': "#000000", // black
	'1': "#0000AA", // dark_blue
	'2': "#00AA00", // dark_green
	'3': "#00AAAA", // dark_aqua
	'4': "#AA0000", // dark_red
	'5': "#AA00AA", // dark_purple
	'6': "#FFAA00", // gold
	'7': "#AAAAAA", // gray
	'8': "#555555", // dark_gray
	'9': "#0000FF", // blue
	'a': "#00AA00", // green
	'b': "#00AAAA", // aqua
	'c': "#AA0000", // red
	'd': "#FFAAFF", // light_purple
	'e': "#FFFF00", // yellow
	'f': "#FFFFFF", // white

	// Bedrock extensions.
	'g': "#DDD605", // minecoin_gold
	'h': "#E3D4D1", // quartz
	'i': "#CECACA", // iron
	'j': "#443A3B", // netherite
	'p': "#DEB12D", // gold_material
	'q': "#47A036", // emerald
	's': "#2CBAA8", // diamond
	't': "#21497B", // lapis
	'u': "#9A5CC6", // amethyst
}

// namedColorHex maps a JSON chat component's named color to its rendered
// hex value, the same sixteen-plus-Bedrock palette as colorHex keyed by
// name instead of legacy code.
var namedColorHex = map[string]string{
	"black":         "#000000",
	"dark_blue":     "#0000AA",
	"dark_green":    "#00AA00",
	"dark_aqua":     "#00AAAA",
	"dark_red":      "#AA0000",
	"dark_purple":   "#AA00AA",
	"gold":          "#FFAA00",
	"gray":          "#AAAAAA",
	"dark_gray":     "#555555",
	"blue":          "#0000FF",
	"green":         "#00AA00",
	"aqua":          "#00AAAA",
	"red":           "#AA0000",
	"light_purple":  "#FFAAFF",
	"yellow":        "#FFFF00",
	"white":         "#FFFFFF",
	"minecoin_gold": "#DDD605",
	"quartz":        "#E3D4D1",
	"iron":          "#CECACA",
	"netherite":     "#443A3B",
	"gold_material": "#DEB12D",
	"emerald":       "#47A036",
	"diamond":       "#2CBAA8",
	"lapis":         "#21497B",
	"amethyst":      "#9A5CC6",
}

// resolveColor turns a named color or "#RRGGBB"/"#RGB" shorthand into a
// normalized "#RRGGBB" hex string. An unrecognized name passes through
// unchanged so unknown future palette entries degrade gracefully.
func resolveColor(c string) string {
	if len(c) > 0 && c[0] == '#' {
		if len(c) == 4 {
			return "#" + string(c[1]) + string(c[1]) + string(c[2]) + string(c[2]) + string(c[3]) + string(c[3])
		}
		return c
	}
	if hex, ok := namedColorHex[c]; ok {
		return hex
	}
	return c
}
