package probe

import (
	"context"
	"encoding/binary"
	"errors"
	"net"
	"strconv"
	"strings"

	"mcslp/internal/motd"
	"mcslp/internal/status"
	"mcslp/internal/wire"
)

// legacyVersionSentinel is the version string Beta SLP responses never
// carry; the protocol predates a version field, so callers are told the
// widest range it could plausibly be.
const legacyVersionSentinel = ">=1.8b/1.3"

// ExtendedLegacy implements the 1.6+ "extended" legacy ping: a plugin-
// message-shaped request naming the target host/port so virtual-hosted
// servers answer correctly. Grounded on the teacher's legacy-ping branch
// of internal/ping/java.go, rebuilt onto internal/wire's UTF-16BE helpers
// the teacher's JSON-only codec didn't have.
func ExtendedLegacy(ctx context.Context, o Options) status.StatusRecord {
	conn, latency, err := dialTCP(ctx, o)
	if err != nil {
		return status.Failure(o.IP, o.Port, classifyDialErr(err))
	}
	defer conn.Close()

	refer16 := wire.EncodeUTF16BE(o.Refer)

	req := []byte{0xFE, 0x01, 0xFA, 0x00, 0x0B}
	req = append(req, wire.EncodeUTF16BE("MC|PingHost")...)
	restLen := 7 + 2*len(o.Refer)
	req = binary.BigEndian.AppendUint16(req, uint16(restLen))
	req = append(req, 0x49)
	req = binary.BigEndian.AppendUint16(req, uint16(len(o.Refer)))
	req = append(req, refer16...)
	req = binary.BigEndian.AppendUint32(req, uint32(o.Port))

	return legacyExchange(conn, o, req, status.ExtendedLegacy, true, latency)
}

// Legacy implements the pre-1.6 legacy ping: the bare kick-packet trigger
// with no virtual-host hint, same six-field response.
func Legacy(ctx context.Context, o Options) status.StatusRecord {
	conn, latency, err := dialTCP(ctx, o)
	if err != nil {
		return status.Failure(o.IP, o.Port, classifyDialErr(err))
	}
	defer conn.Close()
	return legacyExchange(conn, o, []byte{0xFE, 0x01}, status.Legacy, true, latency)
}

// Beta implements the earliest SLP form: a single magic byte, answered
// with a §-delimited (not NUL-delimited) three-plus-field string.
func Beta(ctx context.Context, o Options) status.StatusRecord {
	conn, latency, err := dialTCP(ctx, o)
	if err != nil {
		return status.Failure(o.IP, o.Port, classifyDialErr(err))
	}
	defer conn.Close()
	return legacyExchange(conn, o, []byte{0xFE}, status.Beta, false, latency)
}

func legacyExchange(conn net.Conn, o Options, req []byte, proto status.SlpProtocol, nulDelimited bool, latency uint32) status.StatusRecord {
	if _, err := conn.Write(req); err != nil {
		return status.FailureWithLatency(o.IP, o.Port, classifyDialErr(err), latency)
	}

	header, err := wire.RecvExact(conn, 3)
	if err != nil {
		return status.FailureWithLatency(o.IP, o.Port, classifyRecvErr(err), latency)
	}
	if header[0] != 0xFF {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}
	contentLen := int(binary.BigEndian.Uint16(header[1:3]))
	if contentLen < 3 {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}

	body, err := wire.RecvExact(conn, contentLen*2)
	if err != nil {
		return status.FailureWithLatency(o.IP, o.Port, classifyRecvErr(err), latency)
	}
	decoded, err := wire.DecodeUTF16BE(body)
	if err != nil {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}

	if nulDelimited {
		return parseLegacyFields(o, proto, decoded, latency)
	}
	return parseBetaFields(o, decoded, latency)
}

func parseLegacyFields(o Options, proto status.SlpProtocol, decoded string, latency uint32) status.StatusRecord {
	fields := strings.Split(decoded, "\x00")
	if len(fields) != 6 {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}
	rec := status.StatusRecord{
		Address:          o.IP,
		Port:             o.Port,
		Online:           true,
		SlpProtocol:      proto,
		Version:          fields[2],
		MOTD:             fields[3],
		StrippedMOTD:     motd.StripLegacy(fields[3]),
		LatencyMillis:    latency,
		ConnectionStatus: status.Success,
	}
	if pv, err := strconv.ParseInt(fields[1], 10, 32); err == nil {
		rec.ProtocolVersion = int32(pv)
	}
	if cp, err := strconv.ParseInt(fields[4], 10, 32); err == nil {
		rec.CurrentPlayers = int32(cp)
	}
	if mp, err := strconv.ParseInt(fields[5], 10, 32); err == nil {
		rec.MaxPlayers = int32(mp)
	}
	return rec
}

func parseBetaFields(o Options, decoded string, latency uint32) status.StatusRecord {
	parts := strings.Split(decoded, "§")
	if len(parts) < 3 {
		return status.FailureWithLatency(o.IP, o.Port, status.Unknown, latency)
	}
	maxPlayers := parts[len(parts)-1]
	currentPlayers := parts[len(parts)-2]
	motdText := strings.Join(parts[:len(parts)-2], "§")

	rec := status.StatusRecord{
		Address:          o.IP,
		Port:             o.Port,
		Online:           true,
		SlpProtocol:      status.Beta,
		Version:          legacyVersionSentinel,
		MOTD:             motdText,
		StrippedMOTD:     motd.StripLegacy(motdText),
		LatencyMillis:    latency,
		ConnectionStatus: status.Success,
	}
	if cp, err := strconv.ParseInt(currentPlayers, 10, 32); err == nil {
		rec.CurrentPlayers = int32(cp)
	}
	if mp, err := strconv.ParseInt(maxPlayers, 10, 32); err == nil {
		rec.MaxPlayers = int32(mp)
	}
	return rec
}

func classifyRecvErr(err error) status.ConnStatus {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return status.Timeout
	}
	return status.Unknown
}
