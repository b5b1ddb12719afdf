package ump

import "github.com/lysShub/umpkit/scale"

// channel voice opcodes shared by MIDI 1.0 and MIDI 2.0 packets
const (
	NoteOff         uint8 = 0x8
	NoteOn          uint8 = 0x9
	PolyPressure    uint8 = 0xA
	ControlChange   uint8 = 0xB
	ProgramChange   uint8 = 0xC
	ChannelPressure uint8 = 0xD
	PitchBend       uint8 = 0xE
)

// ToMIDI2 translates a MIDI 1.0 channel voice packet into its MIDI 2.0
// equivalent. A note on with velocity zero becomes a note off.
func ToMIDI2(p Packet) (Packet, bool) {
	m, ok := AsMIDI1ChannelVoice(p)
	if !ok {
		return Packet{}, false
	}

	var (
		group  = m.Group()
		ch     = m.Channel()
		d1, d2 = uint8(m.Data1()), uint8(m.Data2())
	)
	switch m.Opcode() {
	case NoteOff:
		return NewMIDI2ChannelVoice(group, NoteOff<<4|ch, d1, 0, uint32(scale.Upscale7To16(d2))<<16), true
	case NoteOn:
		if d2 == 0 {
			return NewMIDI2ChannelVoice(group, NoteOff<<4|ch, d1, 0, uint32(scale.Upscale7To16(0x40))<<16), true
		}
		return NewMIDI2ChannelVoice(group, NoteOn<<4|ch, d1, 0, uint32(scale.Upscale7To16(d2))<<16), true
	case PolyPressure:
		return NewMIDI2ChannelVoice(group, PolyPressure<<4|ch, d1, 0, scale.Upscale7To32(d2)), true
	case ControlChange:
		return NewMIDI2ChannelVoice(group, ControlChange<<4|ch, d1, 0, scale.Upscale7To32(d2)), true
	case ProgramChange:
		return NewMIDI2ChannelVoice(group, ProgramChange<<4|ch, 0, 0, uint32(d1)<<24), true
	case ChannelPressure:
		return NewMIDI2ChannelVoice(group, ChannelPressure<<4|ch, 0, 0, scale.Upscale7To32(d1)), true
	case PitchBend:
		return NewMIDI2ChannelVoice(group, PitchBend<<4|ch, 0, 0, scale.Upscale14To32(uint16(m.PitchBend()))), true
	default:
		return Packet{}, false
	}
}

// ToMIDI1 translates the MIDI 2.0 channel voice messages that have a MIDI 1.0
// counterpart. A note on whose velocity scales down to zero is sent with
// velocity 1 so it is not taken for a note off.
func ToMIDI1(p Packet) (Packet, bool) {
	m, ok := AsMIDI2ChannelVoice(p)
	if !ok {
		return Packet{}, false
	}

	var (
		group = m.Group()
		ch    = m.Channel()
		index = uint8(m.Index())
	)
	switch m.Opcode() {
	case NoteOff:
		return NewMIDI1ChannelVoice(group, NoteOff<<4|ch, index, scale.Downscale16To7(m.Velocity())), true
	case NoteOn:
		v := scale.Downscale16To7(m.Velocity())
		if v == 0 {
			v = 1
		}
		return NewMIDI1ChannelVoice(group, NoteOn<<4|ch, index, v), true
	case PolyPressure:
		return NewMIDI1ChannelVoice(group, PolyPressure<<4|ch, index, scale.Downscale32To7(m.Data())), true
	case ControlChange:
		return NewMIDI1ChannelVoice(group, ControlChange<<4|ch, index, scale.Downscale32To7(m.Data())), true
	case ProgramChange:
		return NewMIDI1ChannelVoice(group, ProgramChange<<4|ch, uint8(m.Data()>>24), 0), true
	case ChannelPressure:
		return NewMIDI1ChannelVoice(group, ChannelPressure<<4|ch, scale.Downscale32To7(m.Data()), 0), true
	case PitchBend:
		v := U14(scale.Downscale32To14(m.Data()))
		return NewMIDI1ChannelVoice(group, PitchBend<<4|ch, v.LSB(), v.MSB()), true
	default:
		return Packet{}, false
	}
}
