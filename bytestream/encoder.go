package bytestream

import "github.com/lysShub/umpkit/ump"

// Encoder writes System, MIDI 1.0 channel voice and sysex7 packets back to a
// MIDI 1.0 byte stream. Other packet types have no byte stream form and
// are skipped.
type Encoder struct {
	// RunningStatus omits repeated channel voice status bytes.
	RunningStatus bool

	status uint8 // last status sent, 0 when running status is cancelled
}

// Reset forgets the running status, the next channel voice message is sent
// with its status byte.
func (e *Encoder) Reset() { e.status = 0 }

// Append appends the byte stream form of p to dst.
func (e *Encoder) Append(dst []byte, p ump.Packet) []byte {
	if s, ok := ump.AsSysex7(p); ok {
		if s.Form().Initial() {
			e.status = 0
			dst = append(dst, SysexStart)
		}
		dst = s.AppendPayload(dst)
		if s.Form().Terminal() {
			dst = append(dst, SysexEnd)
		}
		return dst
	}

	var status uint8
	switch {
	case ump.IsSystem(p):
		status = p.Status()
		if status < RealTime {
			e.status = 0
		}
		dst = append(dst, status)
	case ump.IsMIDI1ChannelVoice(p):
		status = p.Status()
		if !e.RunningStatus || status != e.status {
			dst = append(dst, status)
		}
		e.status = status
	default:
		return dst
	}

	for i := 0; i < dataLen(status); i++ {
		dst = append(dst, uint8(p.Byte7(2+i)))
	}
	return dst
}

// Encode returns the byte stream form of ps.
func (e *Encoder) Encode(ps ...ump.Packet) []byte {
	var b []byte
	for _, p := range ps {
		b = e.Append(b, p)
	}
	return b
}
