package fragment

import (
	"github.com/lysShub/umpkit/sysex"
	"github.com/lysShub/umpkit/ump"
)

// Split7 splits s, manufacturer id included, into sysex7 fragments of up to
// six bytes. Data bytes are sent with bit 7 cleared.
func Split7(group uint8, s *sysex.Sysex) []ump.Packet {
	return Append7(nil, group, s)
}

func Append7(dst []ump.Packet, group uint8, s *sysex.Sysex) []ump.Packet {
	b := s.AppendBytes(make([]byte, 0, s.TotalSize()))
	for i, form := range forms(len(b), ump.Sysex7MaxLen) {
		j := min((i+1)*ump.Sysex7MaxLen, len(b))
		dst = append(dst, ump.NewSysex7(group, form, b[i*ump.Sysex7MaxLen:j]))
	}
	return dst
}

// Split8 splits s, manufacturer id included, into sysex8 fragments of up to
// thirteen bytes tagged with stream.
func Split8(group, stream uint8, s *sysex.Sysex) []ump.Packet {
	return Append8(nil, group, stream, s)
}

func Append8(dst []ump.Packet, group, stream uint8, s *sysex.Sysex) []ump.Packet {
	b := s.AppendBytes(make([]byte, 0, s.TotalSize()))
	for i, form := range forms(len(b), ump.Sysex8MaxLen) {
		j := min((i+1)*ump.Sysex8MaxLen, len(b))
		dst = append(dst, ump.NewSysex8(group, form, stream, b[i*ump.Sysex8MaxLen:j]))
	}
	return dst
}

// forms returns the fragment forms of an n byte message cut in chunks of
// size bytes. An empty message is one empty complete fragment.
func forms(n, size int) []ump.Form {
	if n <= size {
		return []ump.Form{ump.Complete}
	}

	fs := make([]ump.Form, (n+size-1)/size)
	for i := range fs {
		fs[i] = ump.Continue
	}
	fs[0], fs[len(fs)-1] = ump.Start, ump.End
	return fs
}
