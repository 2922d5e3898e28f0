// Package format renders a status.StatusRecord into one of the three
// output modes §4.6 names: a structured, HTML-pre-rendered record for a
// templating collaborator (mode 0), a plain-text block with an attached
// favicon (mode 1), or a bare plain-text block (mode 2). Grounded on the
// teacher's internal/cli/results.go (formatDirectResult), generalized from
// its single hard-coded text layout into the three modes and onto the
// language table for every label, and restyled with github.com/gookit/color
// the way TortleWortle-gate uses it for terminal output.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gookit/color"

	"mcslp/internal/lang"
	"mcslp/internal/motd"
	"mcslp/internal/status"
)

// Mode selects one of the three output shapes.
type Mode int

const (
	ModeStructured   Mode = 0
	ModePlainFavicon Mode = 1
	ModePlainOnly    Mode = 2
)

// Structured is the mode-0 record: an HTML-templating-ready view of a
// StatusRecord, with MOTD, version, and the player sample pre-rendered.
type Structured struct {
	Record      status.StatusRecord
	MOTDHTML    string
	VersionHTML string
	PlayersHTML string
}

// Render dispatches to the requested mode.
func Render(rec status.StatusRecord, tbl *lang.Table, mode Mode) (interface{}, error) {
	switch mode {
	case ModeStructured:
		return renderStructured(rec), nil
	case ModePlainFavicon:
		return renderPlain(rec, tbl, true), nil
	case ModePlainOnly:
		return renderPlain(rec, tbl, false), nil
	default:
		return nil, fmt.Errorf("format: unknown mode %d", mode)
	}
}

func renderStructured(rec status.StatusRecord) Structured {
	var playerNames []string
	for _, p := range rec.PlayerList {
		playerNames = append(playerNames, p.Name)
	}
	playersJoined := "§r" + strings.Join(playerNames, ", ")

	return Structured{
		Record:      rec,
		MOTDHTML:    motdToHTML(rec.MOTD),
		VersionHTML: motd.HTMLLegacy(rec.Version),
		PlayersHTML: motd.HTMLLegacy(playersJoined),
	}
}

// motdToHTML renders a StatusRecord's MOTD field to HTML. The JSON probe
// stores a chat-component description as its serialized JSON text (see
// internal/probe/json.go), so a MOTD that parses back into a JSON value is
// routed through motd.HTMLJSON for per-node color/style spans; every other
// protocol's §-coded plain string falls through to motd.HTMLLegacy.
func motdToHTML(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var v interface{}
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return motd.HTMLJSON(v)
		}
	}
	return motd.HTMLLegacy(raw)
}

// PlainResult is the mode-1/mode-2 rendering: a text block plus, for mode
// 1, the raw favicon bytes to attach as an image.
type PlainResult struct {
	Text    string
	Favicon []byte
}

func renderPlain(rec status.StatusRecord, tbl *lang.Table, withFavicon bool) PlainResult {
	var b strings.Builder

	statusLabel := tbl.Label(strings.ToUpper(string(rec.ConnectionStatus)))
	if statusLabel == "" {
		statusLabel = string(rec.ConnectionStatus)
	}

	fmt.Fprintf(&b, "%s: %s\n", tbl.Label("address"), colorAddress(rec.Address))
	fmt.Fprintf(&b, "%s: %d\n", tbl.Label("port"), rec.Port)
	fmt.Fprintf(&b, "%s\n", statusLabel)

	if rec.Online {
		fmt.Fprintf(&b, "%s: %s\n", tbl.Label("slp_protocol"), rec.SlpProtocol)
		fmt.Fprintf(&b, "%s: %s\n", tbl.Label("version"), rec.Version)
		fmt.Fprintf(&b, "%s: %d\n", tbl.Label("protocol_version"), rec.ProtocolVersion)
		fmt.Fprintf(&b, "%s: %s\n", tbl.Label("motd"), rec.StrippedMOTD)
		fmt.Fprintf(&b, "%s: %d/%d\n", tbl.Label("players"), rec.CurrentPlayers, rec.MaxPlayers)
		fmt.Fprintf(&b, "%s: %dms\n", tbl.Label("delay"), rec.LatencyMillis)
		if len(rec.PlayerList) > 0 {
			names := make([]string, len(rec.PlayerList))
			for i, p := range rec.PlayerList {
				names[i] = p.Name
			}
			fmt.Fprintf(&b, "%s: %s\n", tbl.Label("player_list"), strings.Join(names, ", "))
		}
		if rec.GameMode != "" {
			fmt.Fprintf(&b, "%s: %s\n", tbl.Label("gamemode"), rec.GameMode)
		}
	}

	result := PlainResult{Text: b.String()}
	if withFavicon && len(rec.Favicon) > 0 {
		result.Favicon = rec.Favicon
	}
	return result
}

func colorAddress(addr string) string {
	return color.FgCyan.Render(addr)
}
