// Package bytestream converts between the legacy MIDI 1.0 serial byte stream
// and Universal MIDI Packets.
package bytestream

import (
	"io"
	"log/slog"

	"github.com/lysShub/umpkit/sysex"
	"github.com/lysShub/umpkit/ump"
)

// Handler receives decoded packets.
type Handler interface {
	HandlePacket(p ump.Packet)
}

type HandlerFunc func(p ump.Packet)

func (f HandlerFunc) HandlePacket(p ump.Packet) { f(p) }

// Parser decodes a MIDI 1.0 byte stream into packets of one group. It
// honors running status and lets real-time bytes interleave anywhere.
//
// System exclusive data is delivered as sysex7 fragment packets, unless the
// Handler passed with the 0xF0 byte also implements sysex.Handler: then the
// whole message is collected and delivered once on 0xF7.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	group  uint8
	output bool
	logger *slog.Logger

	pending  ump.Packet
	expected int   // data bytes still expected by pending
	cursor   int   // byte index of the next data byte in pending
	running  uint8 // running status, 0 when none

	inSysex bool
	collect sysex.Handler // non nil while a sysex is collected as one message
	builder sysex.Builder
}

type Option func(*Parser)

// WithLogger logs dropped messages at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

func New(group uint8, opts ...Option) *Parser {
	var p = &Parser{
		group:  group & 0x0f,
		output: true,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Group() uint8 { return p.group }

// SetGroup changes the group of subsequently started messages.
func (p *Parser) SetGroup(group uint8) { p.group = group & 0x0f }

// SetOutput enables or disables delivery to handlers. The parser state keeps
// advancing while output is disabled.
func (p *Parser) SetOutput(enable bool) { p.output = enable }

// Reset drops all pending state. Group, output and options are kept.
func (p *Parser) Reset() {
	p.pending = ump.Packet{}
	p.expected, p.cursor = 0, 0
	p.running = 0
	p.inSysex = false
	p.collect = nil
	p.builder.Reset()
}

// Feed consumes one byte of the stream.
func (p *Parser) Feed(b byte, h Handler) {
	switch {
	case b >= RealTime:
		p.realTime(b, h)
	case b == SysexStart:
		if p.inSysex {
			p.discard(b)
		}
		p.startSysex(h)
	case b == SysexEnd:
		if p.inSysex {
			p.endSysex(h)
		} else {
			p.running, p.expected = 0, 0
		}
	case b >= 0x80:
		if p.inSysex {
			p.discard(b)
		}
		p.status(b, h)
	case p.inSysex:
		p.sysexData(b, h)
	default:
		p.data(b, h)
	}
}

func (p *Parser) FeedBytes(bs []byte, h Handler) {
	for _, b := range bs {
		p.Feed(b, h)
	}
}

// Parse feeds bs and returns the packets they completed. Sysex data is
// returned as sysex7 fragments.
func (p *Parser) Parse(bs []byte) []ump.Packet {
	var c collector
	p.FeedBytes(bs, &c)
	return c
}

type collector []ump.Packet

func (c *collector) HandlePacket(p ump.Packet) { *c = append(*c, p) }

func (p *Parser) realTime(b byte, h Handler) {
	if b == undefinedRealTime1 || b == undefinedRealTime2 {
		return
	}
	p.emit(h, ump.NewSystem(p.group, b, 0, 0))
}

func (p *Parser) status(b byte, h Handler) {
	n := dataLen(b)
	switch {
	case n < 0:
		p.running, p.expected = 0, 0
	case isChannelVoice(b):
		p.running = b
		p.arm(b, n)
	default:
		p.running = 0
		p.arm(b, n)
		if n == 0 {
			p.complete(h)
		}
	}
}

func (p *Parser) arm(status byte, n int) {
	t := ump.System
	if isChannelVoice(status) {
		t = ump.MIDI1ChannelVoice
	}
	p.pending = ump.Make(uint32(t)<<28 | uint32(p.group)<<24 | uint32(status)<<16)
	p.expected = n
	p.cursor = 2
}

func (p *Parser) data(b byte, h Handler) {
	if p.expected == 0 {
		if p.running == 0 {
			return // no status to attach the byte to
		}
		p.arm(p.running, dataLen(p.running))
	}
	p.pending.SetByte7(p.cursor, b)
	p.cursor++
	p.expected--
	if p.expected == 0 {
		p.complete(h)
	}
}

func (p *Parser) complete(h Handler) {
	p.emit(h, p.pending)
	p.pending = ump.Packet{}
	p.expected = 0
}

func (p *Parser) startSysex(h Handler) {
	p.inSysex = true
	p.running, p.expected = 0, 0
	if sh, ok := h.(sysex.Handler); ok {
		p.collect = sh
		p.builder.Reset()
	} else {
		p.collect = nil
		p.pending = ump.NewSysex7(p.group, ump.Start, nil)
	}
}

func (p *Parser) sysexData(b byte, h Handler) {
	if p.collect != nil {
		_ = p.builder.WriteByte(b)
		return
	}

	n := int(p.pending.Status() & 0x0f)
	if n == ump.Sysex7MaxLen {
		p.emit(h, p.pending)
		p.pending = ump.NewSysex7(p.group, ump.Continue, nil)
		n = 0
	}
	p.pending.SetByte7(2+n, b)
	p.pending.SetStatus(p.pending.Status()&0xf0 | uint8(n+1))
}

func (p *Parser) endSysex(h Handler) {
	if p.collect != nil {
		if p.output {
			p.collect.HandleSysex(&p.builder.Sysex)
		}
		p.builder.Reset()
	} else {
		form := ump.End
		if ump.Form(p.pending.Status()>>4) == ump.Start {
			form = ump.Complete
		}
		p.pending.SetStatus(uint8(form)<<4 | p.pending.Status()&0x0f)
		p.emit(h, p.pending)
	}
	p.inSysex = false
	p.collect = nil
	p.pending = ump.Packet{}
}

// discard drops an unterminated sysex, cut short by status byte b.
func (p *Parser) discard(b byte) {
	p.logger.Debug("discard unterminated sysex", slog.Int("status", int(b)), slog.Int("group", int(p.group)))
	p.inSysex = false
	p.collect = nil
	p.pending = ump.Packet{}
	p.builder.Reset()
}

func (p *Parser) emit(h Handler, pkt ump.Packet) {
	if p.output && h != nil {
		h.HandlePacket(pkt)
	}
}
