package capnlist

import (
	"github.com/pkg/errors"
)

var (
	// ErrOutOfBounds is wrapped by the value every list kind panics with
	// when indexed outside [0, Len()).
	ErrOutOfBounds = errors.New("capnlist: index out of bounds")
	// ErrNullSlot is returned by Root when a message has no first segment.
	ErrNullSlot = errors.New("capnlist: no pointer slot")
	// ErrElementSize is returned when a list pointer resolves to a list
	// whose element encoding the view cannot read or write.
	ErrElementSize = errors.New("capnlist: mismatched list element size")
)

// checkIndex panics unless 0 <= i < n.
func checkIndex(i, n int) {
	if i < 0 || i >= n {
		panic(errors.Wrapf(ErrOutOfBounds, "index %d, len %d", i, n))
	}
}
