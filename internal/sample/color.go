package sample

import (
	"strconv"

	"github.com/pkg/errors"
)

// Color is the enum `Color { red @0; green @1; blue @2; }`.
type Color uint16

const (
	Red Color = iota
	Green
	Blue
)

var colorNames = [...]string{Red: "red", Green: "green", Blue: "blue"}

// ErrUnknownColor is returned by ColorFromString for names that are not
// enumerators.
var ErrUnknownColor = errors.New("sample: unknown color")

// Known reports whether c is a declared enumerator.
func (c Color) Known() bool { return int(c) < len(colorNames) }

func (c Color) String() string {
	if !c.Known() {
		return "Color(" + strconv.FormatUint(uint64(c), 10) + ")"
	}
	return colorNames[c]
}

// ColorFromString returns the enumerator named s.
func ColorFromString(s string) (Color, error) {
	for i, n := range colorNames {
		if n == s {
			return Color(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownColor, "%q", s)
}
