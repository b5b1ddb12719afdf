// Package fragment reassembles system exclusive messages from sysex7 and
// sysex8 fragment packets, and splits messages into such packets.
package fragment

import (
	"log/slog"

	"github.com/lysShub/umpkit/sysex"
	"github.com/lysShub/umpkit/ump"
)

type base struct {
	logger *slog.Logger
}

type Option func(*base)

// WithLogger logs dropped and truncated messages at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) { b.logger = logger }
}

func (b *base) debug(msg string, attrs ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, attrs...)
	}
}

// Collector7 reassembles sysex7 messages. The zero value is ready to use.
// A Collector7 follows a single packet stream and is not safe for
// concurrent use.
type Collector7 struct {
	base
	b      sysex.Builder
	active bool // a start fragment was seen, expecting continuation
}

func NewCollector7(opts ...Option) *Collector7 {
	var c = &Collector7{}
	for _, opt := range opts {
		opt(&c.base)
	}
	return c
}

// Feed consumes one packet. Packets other than sysex7 fragments are
// ignored. On a complete or end fragment the message is passed to h, even
// when it is empty.
func (c *Collector7) Feed(p ump.Packet, h sysex.Handler) {
	s, ok := ump.AsSysex7(p)
	if !ok {
		return
	}

	if s.Form().Initial() {
		if c.active {
			c.debug("discard unterminated sysex7", slog.Int("size", c.b.TotalSize()))
		}
		c.b.Reset()
		c.active = true
	} else if !c.active {
		c.debug("drop sysex7 fragment without start", slog.String("form", s.Form().String()))
		c.Reset()
		return
	}

	for i := 0; i < s.Len(); i++ {
		_ = c.b.WriteByte(s.Payload(i))
	}
	if s.Form().Terminal() {
		h.HandleSysex(&c.b.Sysex)
		c.Reset()
	}
}

func (c *Collector7) Reset() {
	c.b.Reset()
	c.active = false
}

// Handler8 receives messages reassembled from sysex8 fragments. truncated is
// set when bytes past the collector's maximum size were dropped.
type Handler8 interface {
	HandleSysex8(stream uint8, s *sysex.Sysex, truncated bool)
}

type Handler8Func func(stream uint8, s *sysex.Sysex, truncated bool)

func (f Handler8Func) HandleSysex8(stream uint8, s *sysex.Sysex, truncated bool) {
	f(stream, s, truncated)
}

// Collector8 reassembles sysex8 messages of one stream at a time. While a
// message is in progress, fragments carrying another stream id are ignored
// and leave it untouched. The zero value is ready to use.
type Collector8 struct {
	base
	b      sysex.Builder
	stream uint8
	active bool
}

func NewCollector8(opts ...Option) *Collector8 {
	var c = &Collector8{}
	for _, opt := range opts {
		opt(&c.base)
	}
	return c
}

// SetMaxSize caps the data size of reassembled messages, 0 means unlimited.
// Longer messages are delivered truncated.
func (c *Collector8) SetMaxSize(n int) { c.b.Max = n }

// Stream returns the stream id of the message in progress.
func (c *Collector8) Stream() (id uint8, ok bool) { return c.stream, c.active }

func (c *Collector8) Feed(p ump.Packet, h Handler8) {
	s, ok := ump.AsSysex8(p)
	if !ok {
		return
	}

	switch {
	case c.active && s.StreamID() != c.stream:
		return // other stream
	case s.Form().Initial():
		if c.active {
			c.debug("discard unterminated sysex8", slog.Int("stream", int(c.stream)), slog.Int("size", c.b.TotalSize()))
		}
		c.b.Reset()
		c.b.MaskID = true
		c.stream = s.StreamID()
		c.active = true
	case !c.active:
		c.debug("drop sysex8 fragment without start", slog.Int("stream", int(s.StreamID())))
		return
	}

	for i := 0; i < s.Len(); i++ {
		_ = c.b.WriteByte(s.Payload(i))
	}
	if s.Form().Terminal() {
		if c.b.Truncated() {
			c.debug("truncate sysex8", slog.Int("stream", int(c.stream)), slog.Int("max", c.b.Max))
		}
		h.HandleSysex8(c.stream, &c.b.Sysex, c.b.Truncated())
		c.Reset()
	}
}

func (c *Collector8) Reset() {
	c.b.Reset()
	c.stream = 0
	c.active = false
}
