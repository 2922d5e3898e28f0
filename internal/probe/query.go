package probe

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math/rand"
	"net"
	"strconv"
	"strings"
	"time"

	"mcslp/internal/motd"
	"mcslp/internal/status"
	"mcslp/internal/wire"
)

const (
	queryMagicA        = 0xFE
	queryMagicB        = 0xFD
	queryTypeHandshake = 0x09
	queryTypeStat      = 0x00
)

var playerSectionSentinel = []byte{0x00, 0x00, 0x01, 'p', 'l', 'a', 'y', 'e', 'r', '_', 0x00, 0x00}

// Query implements the GameSpy4/UT3 "fullstat" query: a handshake for a
// challenge token, then a full-stat request decoded into key/value stats
// plus a player list. Grounded on the wire layout documented by
// other_examples' server-side Query implementation, read in reverse as the
// client counterpart, and on the teacher's dial/deadline conventions.
func Query(ctx context.Context, o Options) status.StatusRecord {
	conn, err := dialUDP(o)
	if err != nil {
		return status.Failure(o.IP, o.Port, classifyDialErr(err))
	}
	defer conn.Close()

	start := time.Now()

	sessionID := int32(rand.Uint32() & 0x0F0F0F0F)
	handshake := []byte{queryMagicA, queryMagicB, queryTypeHandshake}
	handshake = binary.BigEndian.AppendUint32(handshake, uint32(sessionID))
	if _, err := conn.Write(handshake); err != nil {
		return status.Failure(o.IP, o.Port, classifyDialErr(err))
	}

	hbuf := make([]byte, 256)
	n, err := conn.Read(hbuf)
	if err != nil {
		return status.Failure(o.IP, o.Port, timeoutOrConnFail(err))
	}
	if n < 6 {
		return status.Failure(o.IP, o.Port, status.Unknown)
	}
	challengeASCII := wire.TrimTrailingNUL(hbuf[5:n])
	challenge, err := strconv.ParseInt(string(challengeASCII), 10, 32)
	if err != nil {
		return status.Failure(o.IP, o.Port, status.Unknown)
	}

	req := []byte{queryMagicA, queryMagicB, queryTypeStat}
	req = binary.BigEndian.AppendUint32(req, uint32(sessionID))
	req = binary.BigEndian.AppendUint32(req, uint32(challenge))
	req = append(req, 0x00, 0x00, 0x00, 0x00)
	if _, err := conn.Write(req); err != nil {
		return status.Failure(o.IP, o.Port, classifyDialErr(err))
	}

	fbuf := make([]byte, 8192)
	n, err = conn.Read(fbuf)
	if err != nil {
		return status.Failure(o.IP, o.Port, timeoutOrConnFail(err))
	}
	latency := uint32(time.Since(start).Milliseconds())

	if n < 11 {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}
	payload := fbuf[11:n]

	idx := bytes.Index(payload, playerSectionSentinel)
	var rawStats, rawPlayers []byte
	if idx >= 0 {
		rawStats = payload[:idx]
		rawPlayers = payload[idx+len(playerSectionSentinel):]
	} else {
		rawStats = payload
	}
	rawStats = bytes.TrimPrefix(rawStats, []byte{0x00, 0x00})

	stats := parseQueryStats(rawStats)

	rec := status.StatusRecord{
		Address:          o.IP,
		Port:             o.Port,
		Online:           true,
		SlpProtocol:      status.Query,
		LatencyMillis:    latency,
		ConnectionStatus: status.Success,
	}

	if hostname, ok := stats["hostname"]; ok {
		rec.MOTD = hostname
	} else if m, ok := stats["MOTD"]; ok {
		rec.MOTD = m
	}
	rec.StrippedMOTD = motd.StripLegacy(rec.MOTD)
	rec.Version = stats["version"]
	rec.Map = stats["map"]
	if plugins, ok := stats["plugins"]; ok {
		rec.Plugins = parseQueryPlugins(plugins)
	}
	if n, err := strconv.ParseInt(stats["numplayers"], 10, 32); err == nil {
		rec.CurrentPlayers = int32(n)
	}
	if n, err := strconv.ParseInt(stats["maxplayers"], 10, 32); err == nil {
		rec.MaxPlayers = int32(n)
	}

	for _, name := range parseQueryPlayerList(rawPlayers) {
		rec.PlayerList = append(rec.PlayerList, status.Player{Name: name})
	}

	return rec
}

func timeoutOrConnFail(err error) status.ConnStatus {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return status.Timeout
	}
	return status.ConnFail
}

// parseQueryStats decodes a NUL-separated key\0value\0... sequence,
// stopping at the first unpaired trailing entry.
func parseQueryStats(raw []byte) map[string]string {
	parts := strings.Split(wire.DecodeISO88591(raw), "\x00")
	out := make(map[string]string)
	for i := 0; i+1 < len(parts); i += 2 {
		if parts[i] == "" {
			continue
		}
		out[parts[i]] = parts[i+1]
	}
	return out
}

// parseQueryPlugins splits the "; "-separated plugin sequence and, only
// when the first entry contains ": ", splits that first entry into
// (server_software, first_plugin) per §4.3.2 — a plugin entry after the
// first is never treated as a software-name prefix.
func parseQueryPlugins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "; ")
	var out []string
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i == 0 {
			if idx := strings.Index(p, ": "); idx >= 0 {
				out = append(out, p[:idx], p[idx+2:])
				continue
			}
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseQueryPlayerList splits the NUL-separated player name blob,
// trimming only the trailing run of empty strings the double-NUL
// terminator produces.
func parseQueryPlayerList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	parts := strings.Split(string(raw), "\x00")
	end := len(parts)
	for end > 0 && parts[end-1] == "" {
		end--
	}
	return parts[:end]
}
