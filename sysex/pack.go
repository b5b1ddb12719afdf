package sysex

import (
	"bytes"

	"github.com/dgryski/go-bitstream"
)

// Pack7 re-encodes 8-bit data as a bit stream cut into 7-bit bytes, so it can
// travel in a sysex7 message. The last byte is padded with zero bits.
func Pack7(data []byte) []byte {
	var (
		nbits = len(data) * 8
		buf   = bytes.NewBuffer(make([]byte, 0, (nbits+6)/7))
		r     = bitstream.NewReader(bytes.NewReader(data))
	)
	for nbits > 0 {
		n := min(7, nbits)
		v, err := r.ReadBits(n)
		if err != nil {
			break // in-memory reader, bounded by nbits
		}
		buf.WriteByte(byte(v << (7 - n)))
		nbits -= n
	}
	return buf.Bytes()
}

// Unpack7 reverses Pack7. Trailing padding bits are dropped.
func Unpack7(packed []byte) []byte {
	var (
		buf = bytes.NewBuffer(make([]byte, 0, len(packed)*7/8))
		w   = bitstream.NewWriter(buf)
	)
	for _, b := range packed {
		if err := w.WriteBits(uint64(b&0x7f), 7); err != nil {
			break
		}
	}
	return buf.Bytes()
}

// Packed7 returns a copy of s whose data is Pack7 encoded.
func (s *Sysex) Packed7() *Sysex {
	return &Sysex{Manufacturer: s.Manufacturer, Data: Pack7(s.Data)}
}
