// Package sysex holds the system exclusive payload reconstructed from, or
// split into, sysex7 and sysex8 fragment packets.
package sysex

import "fmt"

// Manufacturer is a 24-bit manufacturer id. One byte ids are stored in the
// top byte (b<<16); three byte ids, sent as 0x00 b1 b2, are stored as
// b1<<8 | b2.
type Manufacturer uint32

// ManufacturerFrom decodes the 1 or 3 leading id bytes of a message.
func ManufacturerFrom(b ...byte) Manufacturer {
	switch {
	case len(b) == 0:
		return 0
	case b[0] != 0:
		return Manufacturer(b[0]) << 16
	case len(b) >= 3:
		return Manufacturer(b[1])<<8 | Manufacturer(b[2])
	default:
		return 0
	}
}

// Short reports whether m is a one byte id.
func (m Manufacturer) Short() bool {
	return m&0xff0000 != 0
}

// Len returns the number of id bytes m occupies on the wire.
func (m Manufacturer) Len() int {
	switch {
	case m == 0:
		return 0
	case m.Short():
		return 1
	default:
		return 3
	}
}

// AppendBytes appends the wire form of m to b.
func (m Manufacturer) AppendBytes(b []byte) []byte {
	switch m.Len() {
	case 1:
		return append(b, byte(m>>16))
	case 3:
		return append(b, 0, byte(m>>8), byte(m))
	default:
		return b
	}
}

func (m Manufacturer) String() string {
	switch m.Len() {
	case 1:
		return fmt.Sprintf("%02X", byte(m>>16))
	case 3:
		return fmt.Sprintf("00 %02X %02X", byte(m>>8), byte(m))
	default:
		return "none"
	}
}

// Sysex is a manufacturer tagged system exclusive message, without the
// framing 0xF0/0xF7 bytes.
type Sysex struct {
	Manufacturer Manufacturer
	Data         []byte
}

// IsSevenBit reports whether every data byte is below 0x80. An empty message
// is 7-bit clean.
func (s *Sysex) IsSevenBit() bool {
	for _, b := range s.Data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// IsEightBit reports whether at least one data byte is 0x80 or above. An
// empty message is not 8-bit.
func (s *Sysex) IsEightBit() bool {
	for _, b := range s.Data {
		if b >= 0x80 {
			return true
		}
	}
	return false
}

// TotalSize returns the wire size of s, manufacturer id included.
func (s *Sysex) TotalSize() int {
	return len(s.Data) + s.Manufacturer.Len()
}

// AppendBytes appends the manufacturer id followed by the data to b.
func (s *Sysex) AppendBytes(b []byte) []byte {
	return append(s.Manufacturer.AppendBytes(b), s.Data...)
}

func (s *Sysex) Reset() {
	s.Manufacturer = 0
	s.Data = s.Data[:0]
}

func (s *Sysex) Clone() *Sysex {
	return &Sysex{Manufacturer: s.Manufacturer, Data: append([]byte(nil), s.Data...)}
}

func (s *Sysex) String() string {
	return fmt.Sprintf("{Manufacturer:%s, Data:% X}", s.Manufacturer.String(), s.Data)
}

// Handler receives completed messages. The *Sysex is only valid for the
// duration of the call, Clone it to keep it.
type Handler interface {
	HandleSysex(s *Sysex)
}

type HandlerFunc func(s *Sysex)

func (f HandlerFunc) HandleSysex(s *Sysex) { f(s) }
