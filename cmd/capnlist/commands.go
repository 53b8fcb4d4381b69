package main

import (
	"os"

	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rawbytedev/capnlist/internal/sample"
	"github.com/rawbytedev/capnlist/pkg/frame"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func runEncode(c *cli.Context, log *zerolog.Logger) error {
	fixture, err := homedir.Expand(c.String(fixtureFlag))
	if err != nil {
		return errors.Wrap(err, "expand fixture path")
	}
	out, err := homedir.Expand(c.String(outFlag))
	if err != nil {
		return errors.Wrap(err, "expand output path")
	}

	doc, err := loadFixture(fixture)
	if err != nil {
		return err
	}
	msg, err := buildDrawing(doc)
	if err != nil {
		return errors.Wrap(err, "build drawing")
	}
	data, err := frame.Encoder{Compress: c.Bool(zstdFlag)}.Encode(msg)
	if err != nil {
		return errors.Wrap(err, "encode frame")
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return errors.Wrap(err, "write frame")
	}
	log.Info().
		Str("fixture", fixture).
		Str("out", out).
		Bool("zstd", c.Bool(zstdFlag)).
		Int("bytes", len(data)).
		Msg("wrote drawing")
	return nil
}

func runDump(c *cli.Context, log *zerolog.Logger) error {
	in, err := homedir.Expand(c.String(inFlag))
	if err != nil {
		return errors.Wrap(err, "expand input path")
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return errors.Wrap(err, "read frame")
	}
	var dec frame.Decoder
	msg, err := dec.Decode(data)
	if err != nil {
		return errors.Wrapf(err, "decode %s", in)
	}
	d, err := sample.ReadRootDrawing(msg)
	if err != nil {
		return err
	}
	doc, err := readDrawing(d)
	if err != nil {
		return errors.Wrap(err, "read drawing")
	}
	log.Debug().Str("in", in).Int("bytes", len(data)).Msg("decoded drawing")

	w := c.App.Writer
	switch format := c.String(formatFlag); format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "write yaml")
		}
		return enc.Close()
	case "json":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return errors.Wrap(err, "write json")
		}
		_, err = w.Write(append(out, '\n'))
		return err
	case "cbor":
		out, err := cbor.Marshal(doc)
		if err != nil {
			return errors.Wrap(err, "write cbor")
		}
		_, err = w.Write(out)
		return err
	default:
		return errors.Errorf("unknown --%s %q", formatFlag, format)
	}
}
