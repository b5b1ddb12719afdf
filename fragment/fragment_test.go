package fragment

import (
	"math/rand"
	"testing"

	"github.com/lysShub/umpkit/sysex"
	"github.com/lysShub/umpkit/ump"
	"github.com/stretchr/testify/require"
)

type msgs7 []*sysex.Sysex

func (m *msgs7) HandleSysex(s *sysex.Sysex) { *m = append(*m, s.Clone()) }

type msg8 struct {
	stream    uint8
	s         *sysex.Sysex
	truncated bool
}

type msgs8 []msg8

func (m *msgs8) HandleSysex8(stream uint8, s *sysex.Sysex, truncated bool) {
	*m = append(*m, msg8{stream, s.Clone(), truncated})
}

func randData(n int, mask byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rand.Intn(256)) & mask
	}
	return b
}

var ids = []sysex.Manufacturer{0x430000, 0x002109}

func Test_Split7(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		ps := Split7(0, &sysex.Sysex{})
		require.Equal(t, []ump.Packet{ump.Make(0x30000000, 0)}, ps)
	})
	t.Run("forms", func(t *testing.T) {
		s := &sysex.Sysex{Manufacturer: 0x7e0000, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}}
		ps := Split7(4, s)
		require.Equal(t, []ump.Packet{
			ump.Make(0x34167e01, 0x02030405),
			ump.Make(0x34260607, 0x08090a0b),
			ump.Make(0x34310c00, 0),
		}, ps)
	})
	t.Run("append", func(t *testing.T) {
		s := &sysex.Sysex{Manufacturer: 0x7e0000}
		ps := Append7([]ump.Packet{ump.Make(0x20903c40)}, 0, s)
		require.Len(t, ps, 2)
		require.Equal(t, ump.Make(0x30017e00, 0), ps[1])
	})
}

func Test_Collector7(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, id := range ids {
			for _, n := range []int{0, 1, 6, 7, 13, 14, 200} {
				s := &sysex.Sysex{Manufacturer: id, Data: randData(n, 0x7f)}

				var got msgs7
				c := NewCollector7()
				for _, p := range Split7(1, s) {
					c.Feed(p, &got)
				}
				require.Len(t, got, 1, "id %s len %d", id, n)
				require.Equal(t, s.Manufacturer, got[0].Manufacturer)
				require.Equal(t, len(s.Data), len(got[0].Data))
				if n > 0 {
					require.Equal(t, s.Data, got[0].Data)
				}
			}
		}
	})
	t.Run("reuse", func(t *testing.T) {
		var got msgs7
		var c Collector7
		for i := 0; i < 3; i++ {
			s := &sysex.Sysex{Manufacturer: 0x410000, Data: randData(20+i, 0x7f)}
			for _, p := range Split7(0, s) {
				c.Feed(p, &got)
			}
			require.Equal(t, s.Data, got[i].Data)
		}
	})
	t.Run("empty message", func(t *testing.T) {
		var got msgs7
		var c Collector7
		c.Feed(ump.NewSysex7(0, ump.Complete, nil), &got)
		require.Len(t, got, 1)
		require.Zero(t, got[0].Manufacturer)
		require.Empty(t, got[0].Data)
	})
	t.Run("continuation without start", func(t *testing.T) {
		var got msgs7
		var c Collector7
		c.Feed(ump.NewSysex7(0, ump.Continue, []byte{1, 2}), &got)
		c.Feed(ump.NewSysex7(0, ump.End, []byte{3}), &got)
		require.Empty(t, got)

		c.Feed(ump.NewSysex7(0, ump.Complete, []byte{0x41, 0x05}), &got)
		require.Len(t, got, 1)
		require.Equal(t, []byte{0x05}, got[0].Data)
	})
	t.Run("restart", func(t *testing.T) {
		var got msgs7
		var c Collector7
		c.Feed(ump.NewSysex7(0, ump.Start, []byte{0x41, 1, 2, 3, 4, 5}), &got)
		c.Feed(ump.NewSysex7(0, ump.Start, []byte{0x42, 9, 9, 9, 9, 9}), &got)
		c.Feed(ump.NewSysex7(0, ump.End, []byte{8}), &got)
		require.Len(t, got, 1)
		require.Equal(t, sysex.Manufacturer(0x420000), got[0].Manufacturer)
		require.Equal(t, []byte{9, 9, 9, 9, 9, 8}, got[0].Data)
	})
	t.Run("ignore other packets", func(t *testing.T) {
		var got msgs7
		var c Collector7
		c.Feed(ump.NewSysex7(0, ump.Start, []byte{0x41, 1, 2, 3, 4, 5}), &got)
		c.Feed(ump.Make(0x20903c40), &got)
		c.Feed(ump.NewSysex8(0, ump.Complete, 0, []byte{1}), &got)
		c.Feed(ump.NewSysex7(0, ump.End, []byte{6}), &got)
		require.Len(t, got, 1)
		require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, got[0].Data)
	})
	t.Run("reset", func(t *testing.T) {
		var got msgs7
		var c Collector7
		c.Feed(ump.NewSysex7(0, ump.Start, []byte{0x41, 1, 2, 3, 4, 5}), &got)
		c.Reset()
		c.Feed(ump.NewSysex7(0, ump.End, []byte{6}), &got)
		require.Empty(t, got)
	})
	t.Run("handler func", func(t *testing.T) {
		var n int
		var c Collector7
		c.Feed(ump.NewSysex7(0, ump.Complete, []byte{0x41}), sysex.HandlerFunc(func(*sysex.Sysex) { n++ }))
		require.Equal(t, 1, n)
	})
}

func Test_Collector8(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, id := range ids {
			for _, n := range []int{0, 1, 6, 7, 13, 14, 200} {
				s := &sysex.Sysex{Manufacturer: id, Data: randData(n, 0xff)}

				var got msgs8
				c := NewCollector8()
				for _, p := range Split8(2, 7, s) {
					c.Feed(p, &got)
				}
				require.Len(t, got, 1, "id %s len %d", id, n)
				require.Equal(t, uint8(7), got[0].stream)
				require.False(t, got[0].truncated)
				require.Equal(t, s.Manufacturer, got[0].s.Manufacturer)
				require.Equal(t, len(s.Data), len(got[0].s.Data))
				if n > 0 {
					require.Equal(t, s.Data, got[0].s.Data)
				}
			}
		}
	})
	t.Run("split forms", func(t *testing.T) {
		s := &sysex.Sysex{Manufacturer: 0x7e0000, Data: randData(20, 0xff)}
		ps := Split8(0, 3, s)
		require.Len(t, ps, 2)

		first, ok := ump.AsSysex8(ps[0])
		require.True(t, ok)
		require.Equal(t, ump.Start, first.Form())
		require.Equal(t, ump.Sysex8MaxLen, first.Len())
		require.Equal(t, uint8(3), first.StreamID())

		last, ok := ump.AsSysex8(ps[1])
		require.True(t, ok)
		require.Equal(t, ump.End, last.Form())
		require.Equal(t, 21-ump.Sysex8MaxLen, last.Len())
	})
	t.Run("foreign stream interleave", func(t *testing.T) {
		a := &sysex.Sysex{Manufacturer: 0x410000, Data: randData(40, 0xff)}
		b := &sysex.Sysex{Manufacturer: 0x002109, Data: randData(40, 0xff)}
		pa, pb := Split8(0, 1, a), Split8(0, 2, b)
		require.Equal(t, len(pa), len(pb))

		var got msgs8
		var c Collector8
		for i := range pa {
			c.Feed(pa[i], &got)
			if i+1 < len(pa) {
				id, ok := c.Stream()
				require.True(t, ok)
				require.Equal(t, uint8(1), id)
			}
			c.Feed(pb[i], &got)
		}
		require.Len(t, got, 1)
		require.Equal(t, uint8(1), got[0].stream)
		require.Equal(t, a.Manufacturer, got[0].s.Manufacturer)
		require.Equal(t, a.Data, got[0].s.Data)

		_, ok := c.Stream()
		require.False(t, ok)
	})
	t.Run("foreign complete", func(t *testing.T) {
		var got msgs8
		var c Collector8
		c.Feed(ump.NewSysex8(0, ump.Start, 5, []byte{0x41, 1}), &got)
		c.Feed(ump.NewSysex8(0, ump.Complete, 6, []byte{0x42, 2}), &got)
		c.Feed(ump.NewSysex8(0, ump.End, 5, []byte{3}), &got)
		require.Len(t, got, 1)
		require.Equal(t, uint8(5), got[0].stream)
		require.Equal(t, []byte{1, 3}, got[0].s.Data)
	})
	t.Run("masked id", func(t *testing.T) {
		var got msgs8
		var c Collector8
		c.Feed(ump.NewSysex8(0, ump.Complete, 0, []byte{0xc1, 0x80}), &got)
		require.Len(t, got, 1)
		require.Equal(t, sysex.Manufacturer(0x410000), got[0].s.Manufacturer)
		require.Equal(t, []byte{0x80}, got[0].s.Data)

		c.Feed(ump.NewSysex8(0, ump.Complete, 0, []byte{0x80, 0x21, 0x09, 0xff}), &got)
		require.Len(t, got, 2)
		require.Equal(t, sysex.Manufacturer(0x002109), got[1].s.Manufacturer)
		require.Equal(t, []byte{0xff}, got[1].s.Data)
	})
	t.Run("without start", func(t *testing.T) {
		var got msgs8
		var c Collector8
		c.Feed(ump.NewSysex8(0, ump.Continue, 1, []byte{1, 2}), &got)
		c.Feed(ump.NewSysex8(0, ump.End, 1, []byte{3}), &got)
		require.Empty(t, got)
	})
	t.Run("truncate", func(t *testing.T) {
		s := &sysex.Sysex{Manufacturer: 0x410000, Data: randData(100, 0xff)}

		var got msgs8
		var c = NewCollector8()
		c.SetMaxSize(30)
		for _, p := range Split8(0, 0, s) {
			c.Feed(p, &got)
		}
		require.Len(t, got, 1)
		require.True(t, got[0].truncated)
		require.Equal(t, s.Data[:30], got[0].s.Data)

		got = got[:0]
		for _, p := range Split8(0, 0, &sysex.Sysex{Manufacturer: 0x410000, Data: s.Data[:30]}) {
			c.Feed(p, &got)
		}
		require.Len(t, got, 1)
		require.False(t, got[0].truncated)
	})
	t.Run("handler func", func(t *testing.T) {
		var stream uint8
		var c Collector8
		c.Feed(ump.NewSysex8(0, ump.Complete, 9, []byte{0x41}), Handler8Func(func(id uint8, _ *sysex.Sysex, _ bool) {
			stream = id
		}))
		require.Equal(t, uint8(9), stream)
	})
}
