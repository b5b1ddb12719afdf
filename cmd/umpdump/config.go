package main

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
)

type Config struct {
	Group         uint8
	MaxSysex      int
	RunningStatus bool
	SysexPayload  bool
	MIDI2         bool
	MIDI1         bool

	LogPath string
	Verbose bool
	logger  *slog.Logger
}

func (c *Config) init() (*Config, error) {
	var err error

	var fh *os.File
	if c.LogPath == "" {
		fh = os.Stderr
	} else {
		fh, err = os.OpenFile(c.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o666)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	var opts *slog.HandlerOptions
	if c.Verbose {
		opts = &slog.HandlerOptions{Level: slog.LevelDebug}
	}
	c.logger = slog.New(slog.NewJSONHandler(fh, opts))
	if c.Group > 0x0f {
		return nil, errors.Errorf("invalid group %d", c.Group)
	}
	if c.MaxSysex < 0 {
		return nil, errors.Errorf("invalid max sysex size %d", c.MaxSysex)
	}
	return c, nil
}
