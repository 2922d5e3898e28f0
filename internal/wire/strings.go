package wire

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf16"
)

// WriteString writes a modern-SLP UTF-8 string: a VarInt byte length
// followed by the raw UTF-8 bytes.
func WriteString(w io.Writer, s string) error {
	if err := WriteVarInt(w, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// AppendString is the in-memory counterpart of WriteString.
func AppendString(dst []byte, s string) []byte {
	dst = AppendVarInt(dst, int32(len(s)))
	return append(dst, s...)
}

// ReadString reads a VarInt-length-prefixed UTF-8 string.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("wire: negative string length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// EncodeUTF16BE encodes s (UTF-8) as big-endian UTF-16 code units, the form
// the Beta/Legacy/Extended-Legacy SLP protocols use for all their text.
func EncodeUTF16BE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		out[2*i] = byte(u >> 8)
		out[2*i+1] = byte(u)
	}
	return out
}

// DecodeUTF16BE decodes big-endian UTF-16 bytes (an even-length buffer)
// back to a Go string.
func DecodeUTF16BE(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("wire: odd-length UTF-16BE buffer (%d bytes)", len(b))
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return string(utf16.Decode(units)), nil
}

// DecodeISO88591 decodes a Latin-1 byte string (Query protocol MOTD field)
// to UTF-8. Every byte is a direct Unicode code point under ISO-8859-1, so
// this is a lossless widen, not a lookup table.
func DecodeISO88591(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// TrimTrailingNUL trims every trailing NUL byte, tolerating servers that
// terminate or pad fixed fields with them.
func TrimTrailingNUL(b []byte) []byte {
	return bytes.TrimRight(b, "\x00")
}
