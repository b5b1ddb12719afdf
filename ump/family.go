package ump

import (
	"github.com/lysShub/netkit/debug"
	"github.com/lysShub/rawsock/test"
	"github.com/stretchr/testify/require"
)

// Form is the position of a data fragment within its message, the high
// nibble of the status byte of Data64 and Data128 packets.
type Form uint8

const (
	Complete Form = 0x0
	Start    Form = 0x1
	Continue Form = 0x2
	End      Form = 0x3
)

func (f Form) String() string {
	switch f {
	case Complete:
		return "complete"
	case Start:
		return "start"
	case Continue:
		return "continue"
	case End:
		return "end"
	default:
		return "invalid"
	}
}

// Terminal reports whether f closes a message.
func (f Form) Terminal() bool { return f == Complete || f == End }

// Initial reports whether f opens a message.
func (f Form) Initial() bool { return f == Complete || f == Start }

// utility status
const (
	NOOP               uint8 = 0x00
	JRClock            uint8 = 0x10
	JRTimestamp        uint8 = 0x20
	DeltaClockstampTPQ uint8 = 0x30
	DeltaClockstamp    uint8 = 0x40
)

// data128 status
const (
	MixedDataSetHeader  uint8 = 0x80
	MixedDataSetPayload uint8 = 0x90
)

const (
	// Sysex7MaxLen is the payload capacity of one sysex7 packet.
	Sysex7MaxLen = 6
	// Sysex8MaxLen is the payload capacity of one sysex8 packet, stream id excluded.
	Sysex8MaxLen = 13
)

func IsUtility(p Packet) bool {
	return p.Type() == Utility && p.Status()&0x0f == 0 && p.Status() <= DeltaClockstamp
}

func IsSystem(p Packet) bool {
	if p.Type() != System {
		return false
	}
	switch p.Status() {
	case 0xf1, 0xf2, 0xf3, 0xf6, 0xf8, 0xfa, 0xfb, 0xfc, 0xfe, 0xff:
		return true
	default:
		return false
	}
}

func IsMIDI1ChannelVoice(p Packet) bool {
	return p.Type() == MIDI1ChannelVoice && p.Status() >= 0x80 && p.Status() < 0xf0
}

func IsSysex7(p Packet) bool {
	return p.Type() == Data64 && p.Status()>>4 <= uint8(End) && p.Status()&0x0f <= Sysex7MaxLen
}

func IsMIDI2ChannelVoice(p Packet) bool {
	return p.Type() == MIDI2ChannelVoice && p.Status()>>4 != 0x7
}

// IsSysex8 reports whether p is an 8-bit system exclusive fragment. The
// stored byte count includes the stream id, so a valid count is 1..14.
func IsSysex8(p Packet) bool {
	n := p.Status() & 0x0f
	return p.Type() == Data128 && p.Status()>>4 <= uint8(End) && n >= 1 && n <= Sysex8MaxLen+1
}

func IsMixedDataSet(p Packet) bool {
	return p.Type() == Data128 && (p.Status()&0xf0 == MixedDataSetHeader || p.Status()&0xf0 == MixedDataSetPayload)
}

func IsFlexData(p Packet) bool { return p.Type() == FlexData }

func IsStream(p Packet) bool { return p.Type() == Stream }

// UtilityMsg is a validated view of a Utility packet.
type UtilityMsg struct{ Packet }

func AsUtility(p Packet) (UtilityMsg, bool) {
	if !IsUtility(p) {
		return UtilityMsg{}, false
	}
	return UtilityMsg{p}, true
}

// Timestamp returns the 16-bit JR clock or JR timestamp value.
func (u UtilityMsg) Timestamp() uint16 {
	return uint16(u.Packet[0])
}

func NewJRClock(ts uint16) Packet {
	return Make(uint32(JRClock)<<16 | uint32(ts))
}

func NewJRTimestamp(ts uint16) Packet {
	return Make(uint32(JRTimestamp)<<16 | uint32(ts))
}

// SystemMsg is a validated view of a System real-time/common packet.
type SystemMsg struct{ Packet }

func AsSystem(p Packet) (SystemMsg, bool) {
	if !IsSystem(p) {
		return SystemMsg{}, false
	}
	return SystemMsg{p}, true
}

// RealTime reports whether s carries a single byte real-time message.
func (s SystemMsg) RealTime() bool { return s.Status() >= 0xf8 }

func (s SystemMsg) Data1() Uint7 { return s.Byte7(2) }
func (s SystemMsg) Data2() Uint7 { return s.Byte7(3) }

// NewSystem builds a system packet, data bytes are masked to 7 bits.
func NewSystem(group, status, data1, data2 uint8) Packet {
	p := Make(uint32(System) << 28)
	p.SetGroup(group)
	p.SetStatus(status)
	p.SetByte7(2, data1)
	p.SetByte7(3, data2)
	return p
}

// MIDI1CV is a validated view of a MIDI 1.0 channel voice packet.
type MIDI1CV struct{ Packet }

func AsMIDI1ChannelVoice(p Packet) (MIDI1CV, bool) {
	if !IsMIDI1ChannelVoice(p) {
		return MIDI1CV{}, false
	}
	return MIDI1CV{p}, true
}

func (m MIDI1CV) Opcode() uint8  { return m.Status() >> 4 }
func (m MIDI1CV) Channel() uint8 { return m.Status() & 0x0f }
func (m MIDI1CV) Data1() Uint7   { return m.Byte7(2) }
func (m MIDI1CV) Data2() Uint7   { return m.Byte7(3) }

// PitchBend returns the 14-bit bend value, meaningful for opcode 0xE only.
func (m MIDI1CV) PitchBend() Uint14 { return m.Uint14(2) }

// NewMIDI1ChannelVoice builds a MIDI 1.0 channel voice packet, data bytes
// are masked to 7 bits.
func NewMIDI1ChannelVoice(group, status, data1, data2 uint8) Packet {
	if debug.Debug() {
		require.GreaterOrEqual(test.T(), status, uint8(0x80))
		require.Less(test.T(), status, uint8(0xf0))
	}
	p := Make(uint32(MIDI1ChannelVoice) << 28)
	p.SetGroup(group)
	p.SetStatus(status)
	p.SetByte7(2, data1)
	p.SetByte7(3, data2)
	return p
}

// MIDI2CV is a validated view of a MIDI 2.0 channel voice packet.
type MIDI2CV struct{ Packet }

func AsMIDI2ChannelVoice(p Packet) (MIDI2CV, bool) {
	if !IsMIDI2ChannelVoice(p) {
		return MIDI2CV{}, false
	}
	return MIDI2CV{p}, true
}

func (m MIDI2CV) Opcode() uint8  { return m.Status() >> 4 }
func (m MIDI2CV) Channel() uint8 { return m.Status() & 0x0f }

// Index returns the note or controller number, byte 2.
func (m MIDI2CV) Index() Uint7 { return m.Byte7(2) }

// Data returns the 32-bit data word.
func (m MIDI2CV) Data() uint32 { return m.Packet[1] }

// Velocity returns the 16-bit velocity of note on/off messages.
func (m MIDI2CV) Velocity() uint16 { return uint16(m.Packet[1] >> 16) }

func NewMIDI2ChannelVoice(group, status, index, attr uint8, data uint32) Packet {
	p := Make(uint32(MIDI2ChannelVoice)<<28, data)
	p.SetGroup(group)
	p.SetStatus(status)
	p.SetByte7(2, index)
	p.SetByte(3, attr)
	return p
}

// Sysex7 is a validated view of a 7-bit system exclusive fragment. Payload
// bytes live at packet bytes 2..7.
type Sysex7 struct{ Packet }

func AsSysex7(p Packet) (Sysex7, bool) {
	if !IsSysex7(p) {
		return Sysex7{}, false
	}
	return Sysex7{p}, true
}

func (s Sysex7) Form() Form { return Form(s.Status() >> 4) }

// Len returns the number of payload bytes, 0..6.
func (s Sysex7) Len() int { return int(s.Status() & 0x0f) }

func (s Sysex7) Payload(i int) uint8 {
	if debug.Debug() {
		require.Less(test.T(), i, s.Len())
	}
	return uint8(s.Byte7(2 + i))
}

// AppendPayload appends the payload bytes of s to b.
func (s Sysex7) AppendPayload(b []byte) []byte {
	for i := 0; i < s.Len(); i++ {
		b = append(b, s.Payload(i))
	}
	return b
}

// NewSysex7 builds a sysex7 fragment, len(data) must not exceed 6.
func NewSysex7(group uint8, form Form, data []byte) Packet {
	if debug.Debug() {
		require.LessOrEqual(test.T(), len(data), Sysex7MaxLen)
	}
	p := Make(uint32(Data64) << 28)
	p.SetGroup(group)
	p.SetStatus(uint8(form)<<4 | uint8(len(data)))
	for i, b := range data {
		p.SetByte7(2+i, b)
	}
	return p
}

// Sysex8 is a validated view of an 8-bit system exclusive fragment. Byte 2
// carries the stream id, payload bytes live at packet bytes 3..15.
type Sysex8 struct{ Packet }

func AsSysex8(p Packet) (Sysex8, bool) {
	if !IsSysex8(p) {
		return Sysex8{}, false
	}
	return Sysex8{p}, true
}

func (s Sysex8) Form() Form      { return Form(s.Status() >> 4) }
func (s Sysex8) StreamID() uint8 { return s.Byte(2) }

// Len returns the number of payload bytes, 0..13. The stored count
// includes the stream id.
func (s Sysex8) Len() int { return int(s.Status()&0x0f) - 1 }

func (s Sysex8) Payload(i int) uint8 {
	if debug.Debug() {
		require.Less(test.T(), i, s.Len())
	}
	return s.Byte(3 + i)
}

func (s Sysex8) AppendPayload(b []byte) []byte {
	for i := 0; i < s.Len(); i++ {
		b = append(b, s.Payload(i))
	}
	return b
}

// NewSysex8 builds a sysex8 fragment, len(data) must not exceed 13.
func NewSysex8(group uint8, form Form, stream uint8, data []byte) Packet {
	if debug.Debug() {
		require.LessOrEqual(test.T(), len(data), Sysex8MaxLen)
	}
	p := Make(uint32(Data128) << 28)
	p.SetGroup(group)
	p.SetStatus(uint8(form)<<4 | uint8(len(data)+1))
	p.SetByte(2, stream)
	for i, b := range data {
		p.SetByte(3+i, b)
	}
	return p
}
