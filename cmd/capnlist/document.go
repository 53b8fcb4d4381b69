package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/rawbytedev/capnlist"
	"github.com/rawbytedev/capnlist/internal/sample"
	"github.com/rawbytedev/capnlist/pkg/listcodec"
	"gopkg.in/yaml.v3"
	capnp "zombiezen.com/go/capnproto2"
)

// Document is the plain form of a Drawing, used both as fixture input and
// as dump output.
type Document struct {
	Ints   []int32  `yaml:"ints,omitempty" toml:"ints" json:"ints,omitempty"`
	Flags  []bool   `yaml:"flags,omitempty" toml:"flags" json:"flags,omitempty"`
	Colors []string `yaml:"colors,omitempty" toml:"colors" json:"colors,omitempty"`
	Points []Point  `yaml:"points,omitempty" toml:"points" json:"points,omitempty"`
	Rows   [][]int  `yaml:"rows,omitempty" toml:"rows" json:"rows,omitempty"`
	Labels []string `yaml:"labels,omitempty" toml:"labels" json:"labels,omitempty"`
}

type Point struct {
	X int32 `yaml:"x" toml:"x" json:"x"`
	Y int32 `yaml:"y" toml:"y" json:"y"`
}

var errFixtureFormat = errors.New("unsupported fixture format")

func loadFixture(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read fixture")
	}
	var doc Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, errors.Wrapf(errFixtureFormat, "%q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse fixture %s", path)
	}
	return &doc, nil
}

// parseColor accepts an enumerator name or the unknown(N) form dump prints
// for undeclared discriminants.
func parseColor(s string) (uint16, error) {
	c, err := sample.ColorFromString(s)
	if err == nil {
		return uint16(c), nil
	}
	var raw uint16
	if _, scanErr := fmt.Sscanf(s, "unknown(%d)", &raw); scanErr == nil {
		return raw, nil
	}
	return 0, err
}

func formatColor(l capnlist.EnumList[sample.Color], i int) string {
	if c, ok := l.At(i); ok {
		return c.String()
	}
	return fmt.Sprintf("unknown(%d)", l.Raw(i))
}

// buildDrawing lays doc out as the root Drawing of a new message.
func buildDrawing(doc *Document) (*capnp.Message, error) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, errors.Wrap(err, "new message")
	}
	d, err := sample.NewRootDrawing(seg)
	if err != nil {
		return nil, err
	}

	if doc.Ints != nil {
		ints, err := d.NewInts(int32(len(doc.Ints)))
		if err != nil {
			return nil, errors.Wrap(err, "ints")
		}
		for i, v := range doc.Ints {
			ints.Set(i, v)
		}
	}
	if doc.Flags != nil {
		flags, err := d.NewFlags(int32(len(doc.Flags)))
		if err != nil {
			return nil, errors.Wrap(err, "flags")
		}
		for i, v := range doc.Flags {
			flags.Set(i, v)
		}
	}
	if doc.Colors != nil {
		colors, err := d.NewColors(int32(len(doc.Colors)))
		if err != nil {
			return nil, errors.Wrap(err, "colors")
		}
		for i, s := range doc.Colors {
			raw, err := parseColor(s)
			if err != nil {
				return nil, errors.Wrapf(err, "colors[%d]", i)
			}
			colors.SetRaw(i, raw)
		}
	}
	if doc.Points != nil {
		points, err := d.NewPoints(int32(len(doc.Points)))
		if err != nil {
			return nil, errors.Wrap(err, "points")
		}
		for i, p := range doc.Points {
			pb := points.At(i)
			pb.SetX(p.X)
			pb.SetY(p.Y)
		}
	}
	if doc.Rows != nil {
		rows, err := d.NewRows(int32(len(doc.Rows)))
		if err != nil {
			return nil, errors.Wrap(err, "rows")
		}
		for i, row := range doc.Rows {
			if row == nil {
				continue
			}
			buf := make([]uint8, len(row))
			for j, v := range row {
				if v < 0 || v > 0xFF {
					return nil, errors.Errorf("rows[%d][%d]: %d does not fit in a byte", i, j, v)
				}
				buf[j] = uint8(v)
			}
			if err := listcodec.Encode(rows.Slot(i), buf); err != nil {
				return nil, errors.Wrapf(err, "rows[%d]", i)
			}
		}
	}
	if doc.Labels != nil {
		labels, err := d.NewLabels(int32(len(doc.Labels)))
		if err != nil {
			return nil, errors.Wrap(err, "labels")
		}
		for i, s := range doc.Labels {
			if err := labels.Set(i, s); err != nil {
				return nil, errors.Wrapf(err, "labels[%d]", i)
			}
		}
	}
	return msg, nil
}

// readDrawing converts a Drawing back into its plain form.
func readDrawing(d sample.Drawing) (*Document, error) {
	var doc Document

	ints, err := d.Ints()
	if err != nil {
		return nil, errors.Wrap(err, "ints")
	}
	if err := listcodec.Decode(ints.ToPtr(), &doc.Ints); err != nil {
		return nil, errors.Wrap(err, "ints")
	}
	flags, err := d.Flags()
	if err != nil {
		return nil, errors.Wrap(err, "flags")
	}
	if err := listcodec.Decode(flags.ToPtr(), &doc.Flags); err != nil {
		return nil, errors.Wrap(err, "flags")
	}
	labels, err := d.Labels()
	if err != nil {
		return nil, errors.Wrap(err, "labels")
	}
	if err := listcodec.Decode(labels.ToPtr(), &doc.Labels); err != nil {
		return nil, errors.Wrap(err, "labels")
	}

	colors, err := d.Colors()
	if err != nil {
		return nil, errors.Wrap(err, "colors")
	}
	if colors.IsValid() {
		doc.Colors = make([]string, colors.Len())
		for i := range doc.Colors {
			doc.Colors[i] = formatColor(colors, i)
		}
	}

	points, err := d.Points()
	if err != nil {
		return nil, errors.Wrap(err, "points")
	}
	if points.IsValid() {
		doc.Points = make([]Point, points.Len())
		for i := range doc.Points {
			p := points.At(i)
			doc.Points[i] = Point{X: p.X(), Y: p.Y()}
		}
	}

	rows, err := d.Rows()
	if err != nil {
		return nil, errors.Wrap(err, "rows")
	}
	if rows.IsValid() {
		doc.Rows = make([][]int, rows.Len())
		for i := range doc.Rows {
			row, err := rows.At(i)
			if err != nil {
				return nil, errors.Wrapf(err, "rows[%d]", i)
			}
			if !row.IsValid() {
				continue
			}
			doc.Rows[i] = make([]int, row.Len())
			for j := range doc.Rows[i] {
				doc.Rows[i][j] = int(row.At(j))
			}
		}
	}
	return &doc, nil
}
