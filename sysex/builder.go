package sysex

// Builder accumulates a message one byte at a time. The leading 1 or 3 bytes
// are decoded as the manufacturer id: a non-zero first byte is a one byte
// id, a zero first byte is followed by two more id bytes. Later bytes are
// data.
type Builder struct {
	Sysex

	// MaskID clears bit 7 of the first id byte before it is tested for zero,
	// for 8-bit transports.
	MaskID bool
	// Max caps the data length, 0 means unlimited. Bytes past the cap are
	// dropped and the message is marked truncated.
	Max int

	id        [3]byte
	consumed  int // id bytes consumed, 0..3
	truncated bool
}

// WriteByte implements io.ByteWriter, it never fails.
func (b *Builder) WriteByte(c byte) error {
	switch {
	case b.consumed == 0:
		if b.MaskID {
			c &= 0x7f
		}
		b.id[0] = c
		if c != 0 {
			b.Manufacturer = Manufacturer(c) << 16
			b.consumed = len(b.id)
		} else {
			b.consumed = 1
		}
	case b.consumed < len(b.id):
		b.id[b.consumed] = c
		b.consumed++
		if b.consumed == len(b.id) {
			b.Manufacturer = ManufacturerFrom(b.id[:]...)
		}
	case b.Max > 0 && len(b.Data) >= b.Max:
		b.truncated = true
	default:
		b.Data = append(b.Data, c)
	}
	return nil
}

func (b *Builder) Write(p []byte) (int, error) {
	for _, c := range p {
		_ = b.WriteByte(c)
	}
	return len(p), nil
}

// Truncated reports whether bytes were dropped because of Max.
func (b *Builder) Truncated() bool { return b.truncated }

// Empty reports whether no byte has been written since the last Reset.
func (b *Builder) Empty() bool { return b.consumed == 0 }

// Reset clears the message, keeping MaskID, Max and the data buffer.
func (b *Builder) Reset() {
	b.Sysex.Reset()
	b.consumed = 0
	b.truncated = false
}
