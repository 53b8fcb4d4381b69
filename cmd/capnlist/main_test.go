package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/rawbytedev/capnlist/internal/sample"
	"github.com/rawbytedev/capnlist/pkg/frame"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	capnp "zombiezen.com/go/capnproto2"
)

const yamlFixture = `
ints: [10, 20, 30, 40]
flags: [true, false, true]
colors: [green, blue, "unknown(7)"]
points:
  - {x: 1, y: -2}
  - {x: 3, y: 4}
rows:
  - ~
  - [7, 8, 9]
labels: [a, b]
`

const tomlFixture = `
ints = [1, 2]
colors = ["red"]
rows = [[], [255]]

[[points]]
x = 5
y = 6
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func run(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(append([]string{"capnlist"}, args...))
	return stdout.Bytes(), err
}

func TestEncodeDumpYAML(t *testing.T) {
	fixture := writeFile(t, "drawing.yaml", yamlFixture)
	out := filepath.Join(t.TempDir(), "drawing.frame")
	_, err := run(t, "encode", "--fixture", fixture, "--out", out, "--zstd")
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NotZero(t, raw[7]&frame.FlagZstd)

	stdout, err := run(t, "dump", "--in", out, "--format", "json")
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(stdout, &doc))
	require.Equal(t, []int32{10, 20, 30, 40}, doc.Ints)
	require.Equal(t, []bool{true, false, true}, doc.Flags)
	require.Equal(t, []string{"green", "blue", "unknown(7)"}, doc.Colors)
	require.Equal(t, []Point{{1, -2}, {3, 4}}, doc.Points)
	require.Equal(t, [][]int{nil, {7, 8, 9}}, doc.Rows)
	require.Equal(t, []string{"a", "b"}, doc.Labels)
}

func TestEncodeDumpTOML(t *testing.T) {
	fixture := writeFile(t, "drawing.toml", tomlFixture)
	out := filepath.Join(t.TempDir(), "drawing.frame")
	_, err := run(t, "--loglevel", "debug", "encode", "--fixture", fixture, "--out", out)
	require.NoError(t, err)

	stdout, err := run(t, "dump", "--in", out, "--format", "yaml")
	require.NoError(t, err)
	var doc Document
	require.NoError(t, yaml.Unmarshal(stdout, &doc))
	require.Equal(t, []int32{1, 2}, doc.Ints)
	require.Equal(t, []string{"red"}, doc.Colors)
	require.Equal(t, []Point{{5, 6}}, doc.Points)
	require.Len(t, doc.Rows, 2)
	require.Empty(t, doc.Rows[0])
	require.Equal(t, []int{255}, doc.Rows[1])
	require.Nil(t, doc.Flags)
}

func TestDumpCBOR(t *testing.T) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	require.NoError(t, err)
	d, err := sample.NewRootDrawing(seg)
	require.NoError(t, err)
	colors, err := d.NewColors(2)
	require.NoError(t, err)
	colors.Set(0, sample.Blue)
	colors.SetRaw(1, 12)
	data, err := frame.Encoder{}.Encode(msg)
	require.NoError(t, err)
	in := writeFile(t, "drawing.frame", string(data))

	stdout, err := run(t, "dump", "--in", in, "--format", "cbor")
	require.NoError(t, err)
	var doc Document
	require.NoError(t, cbor.Unmarshal(stdout, &doc))
	require.Equal(t, []string{"blue", "unknown(12)"}, doc.Colors)
	require.Nil(t, doc.Ints)
}

func TestErrors(t *testing.T) {
	_, err := run(t, "encode", "--fixture", writeFile(t, "drawing.json", "{}"))
	require.ErrorIs(t, err, errFixtureFormat)

	_, err = run(t, "encode", "--fixture", writeFile(t, "bad.yaml", "colors: [mauve]"),
		"--out", filepath.Join(t.TempDir(), "x"))
	require.ErrorIs(t, err, sample.ErrUnknownColor)

	_, err = run(t, "dump", "--in", writeFile(t, "junk.frame", "not a frame at all"))
	require.ErrorIs(t, err, frame.ErrBadMagic)

	_, err = run(t, "--loglevel", "loud", "dump")
	require.Error(t, err)
}
