package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/lysShub/umpkit/bytestream"
	"github.com/lysShub/umpkit/fragment"
	"github.com/lysShub/umpkit/sysex"
	"github.com/lysShub/umpkit/ump"
)

type printer struct {
	w     io.Writer
	midi2 bool
}

func (p *printer) HandlePacket(pkt ump.Packet) {
	if p.midi2 {
		if m, ok := ump.ToMIDI2(pkt); ok {
			pkt = m
		}
	}
	fmt.Fprintf(p.w, "%-35s %s\n", pkt.String(), pkt.Type())
}

func (p *printer) HandleSysex(s *sysex.Sysex) {
	fmt.Fprintf(p.w, "sysex7 %s\n", s.String())
}

func (p *printer) HandleSysex8(stream uint8, s *sysex.Sysex, truncated bool) {
	if truncated {
		fmt.Fprintf(p.w, "sysex8 stream %d %s truncated\n", stream, s.String())
	} else {
		fmt.Fprintf(p.w, "sysex8 stream %d %s\n", stream, s.String())
	}
}

// packetsOnly hides HandleSysex, the parser then emits sysex7 fragments.
type packetsOnly struct{ p *printer }

func (o packetsOnly) HandlePacket(pkt ump.Packet) { o.p.HandlePacket(pkt) }

// dumpBytes decodes a MIDI 1.0 byte stream and prints the packets.
func dumpBytes(cfg *Config, name string, b []byte, w io.Writer) error {
	var (
		logger = cfg.logger.With(slog.String("file", name))
		parser = bytestream.New(cfg.Group, bytestream.WithLogger(logger))
		pr     = &printer{w: w, midi2: cfg.MIDI2}
	)

	var h bytestream.Handler = packetsOnly{pr}
	if cfg.SysexPayload {
		h = pr
	}
	parser.FeedBytes(b, h)

	logger.Info("decoded", slog.Int("bytes", len(b)))
	return nil
}

// dumpUMP prints the packets of a binary UMP file, reassembling system
// exclusive messages. With MIDI1 set, the MIDI 1.0 byte stream equivalent
// is printed as well.
func dumpUMP(cfg *Config, name string, b []byte, w io.Writer) error {
	ps, err := ump.ReadPackets(b)
	if err != nil {
		return errors.Wrapf(err, "read %s", name)
	}

	var (
		logger = cfg.logger.With(slog.String("file", name))
		c7     = fragment.NewCollector7(fragment.WithLogger(logger))
		c8     = fragment.NewCollector8(fragment.WithLogger(logger))
		pr     = &printer{w: w}
		enc    = bytestream.Encoder{RunningStatus: cfg.RunningStatus}
		stream []byte
	)
	c8.SetMaxSize(cfg.MaxSysex)

	for _, p := range ps {
		switch p.Type() {
		case ump.Data64:
			c7.Feed(p, pr)
		case ump.Data128:
			c8.Feed(p, pr)
		default:
			pr.HandlePacket(p)
		}

		if m, ok := ump.ToMIDI1(p); ok {
			p = m
		}
		stream = enc.Append(stream, p)
	}
	if cfg.MIDI1 && len(stream) > 0 {
		fmt.Fprintf(w, "midi1 % X\n", stream)
	}

	logger.Info("decoded", slog.Int("packets", len(ps)))
	return nil
}
