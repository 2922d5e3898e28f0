package wire

import (
	"fmt"
	"io"
)

// RecvExact repeatedly reads from r until exactly n bytes are accumulated.
// Running out of data before n is reached is reported as a "connection
// aborted" error that wraps the underlying io.EOF or io.ErrUnexpectedEOF.
func RecvExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(r, buf)
	if err != nil {
		return nil, fmt.Errorf("wire: connection aborted after %d/%d bytes: %w", read, n, err)
	}
	return buf, nil
}

// WritePacket prefixes payload with its VarInt length and writes both in
// one call, the framing every modern-SLP packet uses.
func WritePacket(w io.Writer, payload []byte) error {
	framed := AppendVarInt(make([]byte, 0, VarIntSize(int32(len(payload)))+len(payload)), int32(len(payload)))
	framed = append(framed, payload...)
	_, err := w.Write(framed)
	return err
}

// ReadPacket reads a VarInt-length-prefixed payload.
func ReadPacket(r io.Reader) ([]byte, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("wire: invalid packet length %d", n)
	}
	return RecvExact(r, int(n))
}
