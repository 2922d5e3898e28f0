package probe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"net"
	"strings"

	"github.com/Jeffail/gabs/v2"

	"mcslp/internal/motd"
	"mcslp/internal/status"
	"mcslp/internal/wire"
)

// legacyProtocolVersionHack is the protocol version advertised in the
// handshake. Real servers ignore it for status requests, so the literal
// observed in the source implementation (0xDD 0xC7 0x01 as a VarInt) is
// kept rather than "fixed" to a current protocol number.
const legacyProtocolVersionHack = 25565

// JSON implements the modern (1.7+) SLP handshake-then-status-request
// exchange over TCP. Grounded on the teacher's internal/ping/java.go
// (writeHandshake/writeStatusRequest/parseJavaStatus), rewritten onto the
// internal/wire codec and extended to decode the favicon and chat-
// component MOTD the teacher's JSON-only struct never parsed.
func JSON(ctx context.Context, o Options) status.StatusRecord {
	conn, latency, err := dialTCP(ctx, o)
	if err != nil {
		return status.Failure(o.IP, o.Port, classifyDialErr(err))
	}
	defer conn.Close()

	handshake := wire.AppendVarInt(nil, 0x00)
	handshake = wire.AppendVarInt(handshake, legacyProtocolVersionHack)
	handshake = wire.AppendString(handshake, o.Refer)
	portBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(portBuf, o.Port)
	handshake = append(handshake, portBuf...)
	handshake = wire.AppendVarInt(handshake, 0x01)
	if err := wire.WritePacket(conn, handshake); err != nil {
		return status.FailureWithLatency(o.IP, o.Port, status.ConnFail, latency)
	}

	if _, err := conn.Write([]byte{0x01, 0x00}); err != nil {
		return status.FailureWithLatency(o.IP, o.Port, status.ConnFail, latency)
	}

	payload, err := wire.ReadPacket(conn)
	if err != nil {
		return status.FailureWithLatency(o.IP, o.Port, classifyTimeout(err), latency)
	}

	if len(payload) < 3 {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}
	r := bytes.NewReader(payload)
	id, err := wire.ReadVarInt(r)
	if err != nil || id != 0x00 {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}
	jsonStr, err := wire.ReadString(r)
	if err != nil {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}

	parsed, err := gabs.ParseJSON([]byte(jsonStr))
	if err != nil {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}

	rec := status.StatusRecord{
		Address:          o.IP,
		Port:             o.Port,
		Online:           true,
		SlpProtocol:      status.JSON,
		LatencyMillis:    latency,
		ConnectionStatus: status.Success,
	}

	if v, ok := parsed.Path("version.name").Data().(string); ok {
		rec.Version = v
	}
	if v, ok := parsed.Path("version.protocol").Data().(float64); ok {
		rec.ProtocolVersion = int32(v)
	}
	if v, ok := parsed.Path("players.max").Data().(float64); ok {
		rec.MaxPlayers = int32(v)
	}
	if v, ok := parsed.Path("players.online").Data().(float64); ok {
		rec.CurrentPlayers = int32(v)
	}
	if samples, err := parsed.Path("players.sample").Children(); err == nil {
		for _, s := range samples {
			name, _ := s.Path("name").Data().(string)
			id, _ := s.Path("id").Data().(string)
			rec.PlayerList = append(rec.PlayerList, status.Player{Name: name, ID: id})
		}
	}

	if desc := parsed.Path("description"); desc != nil && desc.Data() != nil {
		if s, ok := desc.Data().(string); ok {
			rec.MOTD = s
		} else {
			rec.MOTD = desc.String()
		}
		rec.StrippedMOTD = motd.StripJSON(desc.Data())
	}

	if fav, ok := parsed.Path("favicon").Data().(string); ok && fav != "" {
		rec.FaviconB64 = fav
		if idx := strings.Index(fav, "base64,"); idx >= 0 {
			if decoded, err := base64.StdEncoding.DecodeString(fav[idx+len("base64,"):]); err == nil {
				rec.Favicon = decoded
			}
		}
	}

	return rec
}

func classifyTimeout(err error) status.ConnStatus {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return status.Timeout
	}
	return status.Unknown
}
