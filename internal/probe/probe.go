// Package probe implements the six wire protocols that can answer a
// Minecraft server-list-ping: Bedrock RakNet, GameSpy4/Query, modern JSON
// SLP, Extended Legacy SLP, Legacy SLP, and Beta SLP. Each probe takes an
// Options (the dial target and its timeout) and returns a populated
// status.StatusRecord on success, or a status.StatusRecord built by
// status.Failure describing why it didn't.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"mcslp/internal/status"
)

// DefaultTimeout is the per-socket-operation timeout applied when the
// caller does not specify one.
const DefaultTimeout = 5 * time.Second

// Options carries everything one probe attempt needs to dial a target.
type Options struct {
	IP      string
	Port    uint16
	Refer   string // hostname sent in the handshake (MC|PingHost / JSON handshake)
	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o Options) addr() string {
	return net.JoinHostPort(o.IP, fmt.Sprintf("%d", o.Port))
}

// classifyDialErr maps a failed net.Dial/net.DialContext into the
// CONNFAIL/TIMEOUT split every probe reports on connection failure.
func classifyDialErr(err error) status.ConnStatus {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return status.Timeout
	}
	return status.ConnFail
}

// dialTCP opens a TCP connection honoring Options.Timeout as both the
// connect deadline and (via SetDeadline) the subsequent I/O deadline. It
// also reports the wall-clock connect latency per §4.3 ("pre-connect to
// post-connect for TCP probes"), which callers report even when the
// subsequent exchange fails to parse.
func dialTCP(ctx context.Context, o Options) (net.Conn, uint32, error) {
	start := time.Now()
	d := &net.Dialer{Timeout: o.timeout()}
	conn, err := d.DialContext(ctx, "tcp", o.addr())
	if err != nil {
		return nil, 0, err
	}
	latency := uint32(time.Since(start).Milliseconds())
	if err := conn.SetDeadline(time.Now().Add(o.timeout())); err != nil {
		conn.Close()
		return nil, 0, err
	}
	return conn, latency, nil
}

// dialUDP "connects" a UDP socket (fixes the peer for Write/Read) and
// applies the same deadline convention as dialTCP.
func dialUDP(o Options) (*net.UDPConn, error) {
	network := "udp4"
	if ip := net.ParseIP(o.IP); ip != nil && ip.To4() == nil {
		network = "udp6"
	}
	raddr, err := net.ResolveUDPAddr(network, o.addr())
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP(network, nil, raddr)
	if err != nil {
		return nil, err
	}
	if err := conn.SetDeadline(time.Now().Add(o.timeout())); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
