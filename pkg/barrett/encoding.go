package barrett

import (
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"barrettgo/internal/core"
)

const (
	contextMagic   = "BRT1"
	contextBodyLen = 4 + 8 + 8 + 8
	contextLen     = contextBodyLen + 8 // body + checksum
)

// ErrBadEncoding is returned when a serialized context is malformed.
var ErrBadEncoding = errors.New("bad context encoding")

func (c Context) appendBody(buf []byte) []byte {
	buf = append(buf, contextMagic...)
	buf = binary.LittleEndian.AppendUint64(buf, c.modulus)
	buf = binary.LittleEndian.AppendUint64(buf, c.mu.Hi)
	buf = binary.LittleEndian.AppendUint64(buf, c.mu.Lo)
	return buf
}

// Fingerprint returns a stable 64-bit identity for the context.
func (c Context) Fingerprint() uint64 {
	var buf [contextBodyLen]byte
	return xxhash.Sum64(c.appendBody(buf[:0]))
}

// MarshalBinary implements encoding.BinaryMarshaler.
// Layout: magic, modulus, mu.Hi, mu.Lo, xxhash64 of the preceding bytes.
func (c Context) MarshalBinary() ([]byte, error) {
	if c.modulus < 2 {
		return nil, errors.Wrap(ErrInvalidModulus, "marshal uninitialized context")
	}
	buf := c.appendBody(make([]byte, 0, contextLen))
	buf = binary.LittleEndian.AppendUint64(buf, xxhash.Sum64(buf))
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The stored mu must
// match the one recomputed from the stored modulus.
func (c *Context) UnmarshalBinary(data []byte) error {
	if len(data) < contextLen {
		return io.ErrUnexpectedEOF
	}
	if len(data) > contextLen {
		return errors.Wrapf(ErrBadEncoding, "trailing %d bytes", len(data)-contextLen)
	}
	if string(data[:4]) != contextMagic {
		return errors.Wrap(ErrBadEncoding, "invalid magic identifier")
	}
	sum := binary.LittleEndian.Uint64(data[contextBodyLen:])
	if got := xxhash.Sum64(data[:contextBodyLen]); got != sum {
		return errors.Wrapf(ErrBadEncoding, "checksum mismatch: stored %016x, computed %016x", sum, got)
	}

	modulus := binary.LittleEndian.Uint64(data[4:12])
	mu := core.U128{
		Hi: binary.LittleEndian.Uint64(data[12:20]),
		Lo: binary.LittleEndian.Uint64(data[20:28]),
	}
	want, err := core.ComputeMu(modulus)
	if err != nil {
		return err
	}
	if mu != want {
		return errors.Wrapf(ErrBadEncoding, "mu %v does not belong to modulus %d", mu, modulus)
	}
	c.modulus, c.mu = modulus, mu
	return nil
}
