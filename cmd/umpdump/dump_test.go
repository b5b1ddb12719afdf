package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lysShub/umpkit/fragment"
	"github.com/lysShub/umpkit/sysex"
	"github.com/lysShub/umpkit/ump"
)

func newConfig(t *testing.T, c Config) *Config {
	c.LogPath = filepath.Join(t.TempDir(), "umpdump.log")
	cfg, err := c.init()
	require.NoError(t, err)
	return cfg
}

func Test_Config(t *testing.T) {
	_, err := (&Config{Group: 16}).init()
	require.Error(t, err)

	_, err = (&Config{MaxSysex: -1}).init()
	require.Error(t, err)
}

func Test_DumpBytes(t *testing.T) {
	t.Run("packets", func(t *testing.T) {
		var w bytes.Buffer
		cfg := newConfig(t, Config{Group: 2})
		err := dumpBytes(cfg, "a", []byte{0x90, 0x3c, 0x40, 0xf0, 0x41, 0x01, 0xf7}, &w)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(w.String()), "\n")
		require.Len(t, lines, 2)
		require.True(t, strings.HasPrefix(lines[0], "22903C40"))
		require.True(t, strings.HasPrefix(lines[1], "32024101 00000000"))
	})
	t.Run("payload", func(t *testing.T) {
		var w bytes.Buffer
		cfg := newConfig(t, Config{SysexPayload: true})
		err := dumpBytes(cfg, "a", []byte{0xf0, 0x41, 0x01, 0xf7}, &w)
		require.NoError(t, err)
		require.Equal(t, "sysex7 {Manufacturer:41, Data:01}\n", w.String())
	})
	t.Run("midi2", func(t *testing.T) {
		var w bytes.Buffer
		cfg := newConfig(t, Config{MIDI2: true})
		err := dumpBytes(cfg, "a", []byte{0xb0, 0x07, 0x7f}, &w)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(w.String(), "40B00700 FFFFFFFF"))
	})
}

func Test_DumpUMP(t *testing.T) {
	t.Run("sysex", func(t *testing.T) {
		var ps = []ump.Packet{ump.Make(0x20903c40)}
		ps = fragment.Append7(ps, 0, &sysex.Sysex{Manufacturer: 0x410000, Data: []byte{1, 2, 3, 4, 5, 6, 7}})
		ps = fragment.Append8(ps, 0, 3, &sysex.Sysex{Manufacturer: 0x002109, Data: bytes.Repeat([]byte{0xff}, 20)})

		var b []byte
		for _, p := range ps {
			b = ump.AppendBinary(b, p)
		}

		var w bytes.Buffer
		cfg := newConfig(t, Config{MaxSysex: 4, MIDI1: true})
		require.NoError(t, dumpUMP(cfg, "a", b, &w))

		lines := strings.Split(strings.TrimSpace(w.String()), "\n")
		require.Len(t, lines, 4)
		require.True(t, strings.HasPrefix(lines[0], "20903C40"))
		require.Equal(t, "sysex7 {Manufacturer:41, Data:01 02 03 04 05 06 07}", lines[1])
		require.Equal(t, "sysex8 stream 3 {Manufacturer:00 21 09, Data:FF FF FF FF} truncated", lines[2])
		require.Equal(t, "midi1 90 3C 40 F0 41 01 02 03 04 05 06 07 F7", lines[3])
	})
	t.Run("midi2 to midi1", func(t *testing.T) {
		b := ump.AppendBinary(nil, ump.NewMIDI2ChannelVoice(0, 0x91, 0x3c, 0, 0xffff0000))
		b = ump.AppendBinary(b, ump.NewMIDI2ChannelVoice(0, 0x91, 0x3e, 0, 0xffff0000))

		var w bytes.Buffer
		cfg := newConfig(t, Config{MIDI1: true, RunningStatus: true})
		require.NoError(t, dumpUMP(cfg, "a", b, &w))
		require.Contains(t, w.String(), "midi1 91 3C 7F 3E 7F\n")
	})
	t.Run("truncated file", func(t *testing.T) {
		var w bytes.Buffer
		cfg := newConfig(t, Config{})
		require.Error(t, dumpUMP(cfg, "a", []byte{0x40, 0x90, 0x3c, 0x00}, &w))
	})
}

func Test_DumpFiles(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.mid"), filepath.Join(dir, "b.mid")
	require.NoError(t, os.WriteFile(a, []byte{0x90, 0x3c, 0x40}, 0o666))
	require.NoError(t, os.WriteFile(b, []byte{0xf8}, 0o666))

	var w bytes.Buffer
	cfg := newConfig(t, Config{})
	require.NoError(t, dumpFiles(cfg, dumpBytes, []string{a, b}, &w))

	s := w.String()
	require.Less(t, strings.Index(s, "# "+a), strings.Index(s, "# "+b))
	require.Contains(t, s, "20903C40")
	require.Contains(t, s, "10F80000")

	err := dumpFiles(cfg, dumpBytes, []string{filepath.Join(dir, "missing")}, &w)
	require.Error(t, err)
}
