// Package ump implements the Universal MIDI Packet: a 1 to 4 word binary
// message whose word count and field layout are selected by the 4-bit type
// tag in the top of word 0.
package ump

import (
	"fmt"

	"github.com/lysShub/netkit/debug"
	"github.com/lysShub/rawsock/test"
	"github.com/stretchr/testify/require"
)

// Type is the 4-bit message type tag, bits 31:28 of word 0.
type Type uint8

const (
	Utility           Type = 0x0
	System            Type = 0x1
	MIDI1ChannelVoice Type = 0x2
	Data64            Type = 0x3 // sysex7
	MIDI2ChannelVoice Type = 0x4
	Data128           Type = 0x5 // sysex8, mixed data set
	FlexData          Type = 0xD
	Stream            Type = 0xF
)

// MaxWords is the capacity of a Packet.
const MaxWords = 4

var sizes = [16]uint8{
	Utility:           1,
	System:            1,
	MIDI1ChannelVoice: 1,
	Data64:            2,
	MIDI2ChannelVoice: 2,
	Data128:           4,
	0x6:               1,
	0x7:               1,
	0x8:               1,
	0x9:               1,
	0xA:               1,
	0xB:               1,
	0xC:               1,
	FlexData:          4,
	0xE:               1,
	Stream:            4,
}

// Size returns the number of 32-bit words of a packet of type t. Reserved
// types occupy one word.
func (t Type) Size() int {
	return int(sizes[t&0x0f])
}

// Grouped reports whether packets of type t carry a group field.
func (t Type) Grouped() bool {
	return t&0x0f != Utility
}

func (t Type) String() string {
	switch t {
	case Utility:
		return "Utility"
	case System:
		return "System"
	case MIDI1ChannelVoice:
		return "MIDI1ChannelVoice"
	case Data64:
		return "Data64"
	case MIDI2ChannelVoice:
		return "MIDI2ChannelVoice"
	case Data128:
		return "Data128"
	case FlexData:
		return "FlexData"
	case Stream:
		return "Stream"
	default:
		return fmt.Sprintf("Type(0x%x)", uint8(t))
	}
}

// Packet is a Universal MIDI Packet. Word 0 is always present, the number of
// meaningful words is Size(); unused trailing words are zero.
type Packet [MaxWords]uint32

// Make builds a packet from 1 to 4 raw words, missing words are zero.
func Make(words ...uint32) (p Packet) {
	if debug.Debug() {
		require.LessOrEqual(test.T(), len(words), MaxWords)
	}
	copy(p[:], words)
	return p
}

// Type returns the type tag. It depends on nothing but the top nibble of
// word 0, so a receiver can know how many words to read before parsing the
// rest.
func (p Packet) Type() Type {
	return Type(p[0] >> 28)
}

// Size returns the word count as selected by the type tag.
func (p Packet) Size() int {
	return p.Type().Size()
}

// Words returns the Size() leading words.
func (p *Packet) Words() []uint32 {
	return p[:p.Size()]
}

// Group returns bits 27:24. Utility packets are groupless and must not be
// asked for a group.
func (p Packet) Group() uint8 {
	if debug.Debug() {
		require.True(test.T(), p.Type().Grouped(), "utility packet has no group")
	}
	return uint8(p[0]>>24) & 0x0f
}

func (p *Packet) SetGroup(group uint8) {
	if debug.Debug() {
		require.True(test.T(), p.Type().Grouped(), "utility packet has no group")
		require.Less(test.T(), group, uint8(16))
	}
	p[0] = p[0]&^(0x0f<<24) | uint32(group&0x0f)<<24
}

func (p *Packet) SetType(t Type) {
	p[0] = p[0]&^(0x0f<<28) | uint32(t&0x0f)<<28
}

// Status returns bits 23:16 of word 0.
func (p Packet) Status() uint8 {
	return uint8(p[0] >> 16)
}

func (p *Packet) SetStatus(status uint8) {
	p.SetByte(1, status)
}

// Byte returns byte i of the packet, 0 <= i < 16. Bytes are numbered
// most-significant first within each word, byte 0 being bits 31:24 of
// word 0 and byte 4 bits 31:24 of word 1.
func (p Packet) Byte(i int) uint8 {
	if debug.Debug() {
		require.GreaterOrEqual(test.T(), i, 0)
		require.Less(test.T(), i, MaxWords*4)
	}
	return uint8(p[i>>2] >> shift(i))
}

func (p *Packet) SetByte(i int, v uint8) {
	if debug.Debug() {
		require.GreaterOrEqual(test.T(), i, 0)
		require.Less(test.T(), i, MaxWords*4)
	}
	s := shift(i)
	p[i>>2] = p[i>>2]&^(0xff<<s) | uint32(v)<<s
}

// Byte7 returns byte i with its top bit cleared.
func (p Packet) Byte7(i int) Uint7 {
	return Uint7(p.Byte(i) & 0x7f)
}

// SetByte7 stores the low 7 bits of v in byte i, bit 7 is always cleared.
func (p *Packet) SetByte7(i int, v uint8) {
	p.SetByte(i, v&0x7f)
}

// Nibble returns the high (hi=true) or low nibble of byte i.
func (p Packet) Nibble(i int, hi bool) uint8 {
	if hi {
		return p.Byte(i) >> 4
	}
	return p.Byte(i) & 0x0f
}

func (p *Packet) SetNibble(i int, hi bool, v uint8) {
	b := p.Byte(i)
	if hi {
		b = b&0x0f | (v&0x0f)<<4
	} else {
		b = b&0xf0 | v&0x0f
	}
	p.SetByte(i, b)
}

// Uint14 reads two 7-bit bytes starting at byte i, low-order byte first.
func (p Packet) Uint14(i int) Uint14 {
	return Uint14(p.Byte7(i)) | Uint14(p.Byte7(i+1))<<7
}

func (p *Packet) SetUint14(i int, v Uint14) {
	p.SetByte7(i, uint8(v))
	p.SetByte7(i+1, uint8(v>>7))
}

// Uint28 reads four 7-bit bytes starting at byte i, low-order byte first.
func (p Packet) Uint28(i int) Uint28 {
	var v Uint28
	for j := 3; j >= 0; j-- {
		v = v<<7 | Uint28(p.Byte7(i+j))
	}
	return v
}

func (p *Packet) SetUint28(i int, v Uint28) {
	for j := 0; j < 4; j++ {
		p.SetByte7(i+j, uint8(v>>(7*j)))
	}
}

func (p Packet) String() string {
	switch p.Size() {
	case 1:
		return fmt.Sprintf("%08X", p[0])
	case 2:
		return fmt.Sprintf("%08X %08X", p[0], p[1])
	default:
		return fmt.Sprintf("%08X %08X %08X %08X", p[0], p[1], p[2], p[3])
	}
}

func shift(i int) uint {
	return uint(24 - 8*(i&3))
}
