package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lysShub/netkit/errorx"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
	"golang.org/x/sync/errgroup"
)

var flags = []cli.Flag{
	altsrc.NewIntFlag(&cli.IntFlag{
		Name:    "group",
		Aliases: []string{"g"},
		Usage:   "group of packets decoded from a MIDI 1.0 byte stream",
	}),
	altsrc.NewIntFlag(&cli.IntFlag{
		Name:  "max-sysex",
		Usage: "truncate sysex8 messages longer than this, 0 is unlimited",
	}),
	altsrc.NewBoolFlag(&cli.BoolFlag{
		Name:  "running-status",
		Usage: "use running status in the printed MIDI 1.0 stream",
	}),
	altsrc.NewBoolFlag(&cli.BoolFlag{
		Name:  "sysex-payload",
		Usage: "print byte stream sysex as whole messages instead of sysex7 packets",
	}),
	altsrc.NewBoolFlag(&cli.BoolFlag{
		Name:  "midi2",
		Usage: "translate MIDI 1.0 channel voice messages to MIDI 2.0",
	}),
	altsrc.NewBoolFlag(&cli.BoolFlag{
		Name:  "midi1",
		Usage: "also print the MIDI 1.0 byte stream of UMP input",
	}),
	altsrc.NewStringFlag(&cli.StringFlag{
		Name:    "log",
		Usage:   "log file, stderr when empty",
		EnvVars: []string{"UMPDUMP_LOG"},
	}),
	altsrc.NewBoolFlag(&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log dropped messages",
	}),
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "yaml file holding flag values",
	},
}

type dumpFunc func(cfg *Config, name string, b []byte, w io.Writer) error

func main() {
	app := &cli.App{
		Name:     "umpdump",
		Usage:    "print Universal MIDI Packets decoded from MIDI 1.0 byte streams or UMP files",
		Compiled: time.Now().UTC(),
		Flags:    flags,
		Before:   altsrc.InitInputSourceWithContext(flags, altsrc.NewYamlSourceFromFlagFunc("config")),
		Commands: []*cli.Command{
			{
				Name:      "bytes",
				Aliases:   []string{"b"},
				Usage:     "decode MIDI 1.0 byte stream files",
				ArgsUsage: "FILE...",
				Action:    run(dumpBytes),
			},
			{
				Name:      "ump",
				Aliases:   []string{"u"},
				Usage:     "decode big endian UMP files",
				ArgsUsage: "FILE...",
				Action:    run(dumpUMP),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dump dumpFunc) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		cfg, err := (&Config{
			Group:         uint8(cCtx.Int("group")),
			MaxSysex:      cCtx.Int("max-sysex"),
			RunningStatus: cCtx.Bool("running-status"),
			SysexPayload:  cCtx.Bool("sysex-payload"),
			MIDI2:         cCtx.Bool("midi2"),
			MIDI1:         cCtx.Bool("midi1"),
			LogPath:       cCtx.String("log"),
			Verbose:       cCtx.Bool("verbose"),
		}).init()
		if err != nil {
			return err
		}

		files := cCtx.Args().Slice()
		if len(files) == 0 {
			return errors.New("no input file")
		}
		return dumpFiles(cfg, dump, files, cCtx.App.Writer)
	}
}

// dumpFiles decodes every file on its own goroutine and prints the results
// in argument order.
func dumpFiles(cfg *Config, dump dumpFunc, files []string, w io.Writer) error {
	var (
		outs = make([]bytes.Buffer, len(files))
		g    errgroup.Group
	)
	for i, name := range files {
		g.Go(func() error {
			b, err := os.ReadFile(name)
			if err != nil {
				return errors.WithStack(err)
			}
			return dump(cfg, name, b, &outs[i])
		})
	}
	err := g.Wait()

	for i := range outs {
		if outs[i].Len() > 0 {
			fmt.Fprintf(w, "# %s\n", files[i])
			w.Write(outs[i].Bytes())
		}
	}
	if err != nil {
		cfg.logger.Error(err.Error(), errorx.Trace(err))
	}
	return err
}
