package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const (
	logLevelFlag = "loglevel"
	fixtureFlag  = "fixture"
	outFlag      = "out"
	inFlag       = "in"
	zstdFlag     = "zstd"
	formatFlag   = "format"
)

var Version = "DEV"

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	log := zerolog.Nop()
	app := &cli.App{
		Name:      "capnlist",
		Usage:     "Build and inspect framed Drawing messages",
		UsageText: "capnlist [global options] command [command options]",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    logLevelFlag,
				Value:   "info",
				Usage:   "Application logging level {debug, info, warn, error}",
				EnvVars: []string{"CAPNLIST_LOGLEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			l, err := newLogger(c.String(logLevelFlag), stderr)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:  "encode",
			Usage: "Build a Drawing from a YAML or TOML fixture and write it as a frame",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     fixtureFlag,
					Usage:    "Fixture `FILE` (.yaml, .yml or .toml)",
					EnvVars:  []string{"CAPNLIST_FIXTURE"},
					Required: true,
				},
				&cli.StringFlag{
					Name:    outFlag,
					Value:   "drawing.frame",
					Usage:   "Output frame `FILE`",
					EnvVars: []string{"CAPNLIST_OUT"},
				},
				&cli.BoolFlag{
					Name:    zstdFlag,
					Usage:   "Compress the payload with zstd",
					EnvVars: []string{"CAPNLIST_ZSTD"},
				},
			},
			Action: func(c *cli.Context) error {
				return runEncode(c, &log)
			},
		},
		{
			Name:  "dump",
			Usage: "Print the lists of a framed Drawing",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    inFlag,
					Value:   "drawing.frame",
					Usage:   "Input frame `FILE`",
					EnvVars: []string{"CAPNLIST_IN"},
				},
				&cli.StringFlag{
					Name:  formatFlag,
					Value: "yaml",
					Usage: "Output format {yaml, json, cbor}",
				},
			},
			Action: func(c *cli.Context) error {
				return runDump(c, &log)
			},
		},
	}
	return app
}
