package probe

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"mcslp/internal/motd"
	"mcslp/internal/status"
)

// raknetMagic is the fixed 16-byte offline message identifier every
// RakNet unconnected ping/pong carries.
var raknetMagic = [16]byte{0x00, 0xff, 0xff, 0x00, 0xfe, 0xfe, 0xfe, 0xfe, 0xfd, 0xfd, 0xfd, 0xfd, 0x12, 0x34, 0x56, 0x78}

const (
	raknetPingID = 0x01
	raknetPongID = 0x1c
	raknetGUID   = 0x02
)

// Bedrock sends an Unconnected Ping over UDP and parses the Unconnected
// Pong's semicolon-delimited id_string, per the RakNet offline-message
// handshake. Grounded on the teacher's internal/ping/bedrock.go
// (buildUnconnectedPing/parsePong), rewritten to a single-shot send (no
// retry ticker: one ping is sent, and the orchestrator does not retry it)
// and to the field layout and ConnStatus classification spec.md names.
func Bedrock(ctx context.Context, o Options) status.StatusRecord {
	conn, err := dialUDP(o)
	if err != nil {
		return status.Failure(o.IP, o.Port, classifyDialErr(err))
	}
	defer conn.Close()

	start := time.Now()

	ping := make([]byte, 0, 1+8+16+8)
	ping = append(ping, raknetPingID)
	ping = binary.LittleEndian.AppendUint64(ping, uint64(time.Now().UnixMilli()))
	ping = append(ping, raknetMagic[:]...)
	ping = binary.LittleEndian.AppendUint64(ping, raknetGUID)

	if _, err := conn.Write(ping); err != nil {
		return status.Failure(o.IP, o.Port, classifyDialErr(err))
	}

	buf := make([]byte, 2048)
	n, err := conn.Read(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return status.Failure(o.IP, o.Port, status.Timeout)
		}
		return status.Failure(o.IP, o.Port, status.ConnFail)
	}
	latency := uint32(time.Since(start).Milliseconds())

	buf = buf[:n]
	const headerLen = 1 + 8 + 8 + 16 + 2
	if n < headerLen || buf[0] != raknetPongID {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}
	if !bytes.Equal(buf[17:33], raknetMagic[:]) {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}

	// id_len at buf[33:35] is nominal; real servers often pad the datagram,
	// so the id_string is read to the end of the packet instead.
	idString := string(buf[35:])
	return parseBedrockIDString(o, idString, latency)
}

// parseBedrockIDString decodes an Unconnected Pong's semicolon-delimited
// id_string per the field order in §4.3.1: edition, motd_1, protocol_version,
// version, current_players, max_players, server_uid, motd_2, gamemode,
// gamemode_numeric, port_ipv4, port_ipv6. Trailing fields are tolerated
// missing (older servers), matching invariant (d): motd is motd_1, map is
// motd_2.
func parseBedrockIDString(o Options, idString string, latency uint32) status.StatusRecord {
	fields := strings.Split(idString, ";")
	field := func(i int) string {
		if i >= 0 && i < len(fields) {
			return fields[i]
		}
		return ""
	}

	rec := status.StatusRecord{
		Address:          o.IP,
		Port:             o.Port,
		Online:           true,
		SlpProtocol:      status.BedrockRaknet,
		MOTD:             field(1),
		StrippedMOTD:     motd.StripLegacy(field(1)),
		Version:          field(3),
		Map:              field(7),
		GameMode:         field(8),
		Edition:          field(0),
		LatencyMillis:    latency,
		ConnectionStatus: status.Success,
	}
	if pv, err := strconv.ParseInt(field(2), 10, 32); err == nil {
		rec.ProtocolVersion = int32(pv)
	}
	if cp, err := strconv.ParseInt(field(4), 10, 32); err == nil {
		rec.CurrentPlayers = int32(cp)
	}
	if mp, err := strconv.ParseInt(field(5), 10, 32); err == nil {
		rec.MaxPlayers = int32(mp)
	}
	return rec
}
