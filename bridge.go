// Package capnlist provides typed, zero-copy list views over Cap'n Proto
// messages.
//
// Each list kind comes as a Reader (PrimitiveList, EnumList, StructList,
// ListList, TextList, DataList) and a Builder (the same name with a Builder
// suffix). Views borrow the message's segment memory and never copy it; they
// stay valid as long as the message is not reset.
//
// Every kind can be produced from a pointer slot through the PtrReader and
// PtrBuilder contracts, which is what lets ListList nest any kind, itself
// included.
package capnlist

import (
	"github.com/pkg/errors"
	capnp "zombiezen.com/go/capnproto2"
)

// PtrReader is implemented by types that can be read out of a pointer.
// ReadPtr is called on the zero value; the receiver carries no state.
type PtrReader[R any] interface {
	// ReadPtr resolves p as an R, substituting def (a marshaled message
	// whose root is the default value) when p is null. An empty def
	// yields R's empty view.
	ReadPtr(p capnp.Ptr, def []byte) (R, error)
}

// PtrBuilder is implemented by types that can be built in a pointer slot.
// Methods are called on the zero value; the receiver carries no state.
type PtrBuilder[B any] interface {
	// InitPtr allocates a new n-element object and stores it in s,
	// replacing whatever s pointed to.
	InitPtr(s Slot, n int32) (B, error)
	// BuildPtr re-opens the object s points to. When s is null, def is
	// copied into s, or the empty view is returned if def is empty.
	BuildPtr(s Slot, def []byte) (B, error)
}

// elemLayout is the element encoding a view needs from the list it wraps.
type elemLayout struct {
	bit     bool             // bit-packed booleans
	size    capnp.ObjectSize // per-element size otherwise
	structs bool             // any non-bit encoding will do
}

var (
	pointerLayout = elemLayout{size: capnp.ObjectSize{PointerCount: 1}}
	structLayout  = elemLayout{structs: true}
)

// primitiveLayout is the layout of a scalar list with bits-wide elements.
func primitiveLayout(bits int) elemLayout {
	if bits == 1 {
		return elemLayout{bit: true}
	}
	return elemLayout{size: capnp.ObjectSize{DataSize: capnp.Size(bits / 8)}}
}

func (w elemLayout) accepts(sz capnp.ObjectSize, bit bool) bool {
	switch {
	case w.bit || bit:
		return w.bit && bit
	case w.structs:
		return true
	case w.size.PointerCount > 0:
		// Element pointers are read from the start of each element, which
		// is the pointer section only when there is no data section.
		return sz.DataSize == 0 && sz.PointerCount >= w.size.PointerCount
	case sz == w.size:
		return true
	}
	// An inline composite list serves any scalar that fits its data
	// section. These sizes cannot belong to a flat list.
	composite := sz.PointerCount > 0 && sz.DataSize > 0 || sz.DataSize > 8
	return composite && sz.DataSize >= w.size.DataSize
}

// checkLayout fails unless l's elements are encoded the way w needs. The
// encoding is observed through the first element, so empty lists always
// pass.
func checkLayout(l capnp.List, w elemLayout) error {
	if l.Len() == 0 {
		return nil
	}
	e := l.Struct(0)
	bit := !e.IsValid()
	if w.accepts(e.Size(), bit) {
		return nil
	}
	if bit {
		return errors.Wrap(ErrElementSize, "list of bits")
	}
	return errors.Wrapf(ErrElementSize, "elements of %d data bytes and %d pointers",
		e.Size().DataSize, e.Size().PointerCount)
}

// readList resolves p as a list laid out as w, falling back to def.
func readList(p capnp.Ptr, def []byte, w elemLayout) (capnp.List, error) {
	l, err := p.ListDefault(def)
	if err != nil {
		return capnp.List{}, errors.Wrap(err, "resolve list pointer")
	}
	if err := checkLayout(l, w); err != nil {
		return capnp.List{}, err
	}
	return l, nil
}

// buildList re-opens the list s points to, copying def in when s is null.
// The list must be laid out as w.
func buildList(s Slot, def []byte, w elemLayout) (capnp.List, error) {
	p, err := Resolve(s, def)
	if err != nil {
		return capnp.List{}, err
	}
	l := p.List()
	if err := checkLayout(l, w); err != nil {
		return capnp.List{}, err
	}
	return l, nil
}

// Resolve returns the pointer held by s, first storing a copy of the
// default in s when s is null and def is non-empty. It is the slot side of
// every BuildPtr.
func Resolve(s Slot, def []byte) (capnp.Ptr, error) {
	p, err := s.Ptr()
	if err != nil {
		return capnp.Ptr{}, errors.Wrap(err, "resolve slot")
	}
	if p.IsValid() || len(def) == 0 {
		return p, nil
	}
	dp, err := defaultPtr(def)
	if err != nil {
		return capnp.Ptr{}, err
	}
	if !dp.IsValid() {
		return capnp.Ptr{}, nil
	}
	if err := s.SetPtr(dp); err != nil {
		return capnp.Ptr{}, errors.Wrap(err, "copy default into slot")
	}
	p, err = s.Ptr()
	if err != nil {
		return capnp.Ptr{}, errors.Wrap(err, "resolve slot")
	}
	return p, nil
}

// defaultPtr decodes a default value message and returns its root.
func defaultPtr(def []byte) (capnp.Ptr, error) {
	msg, err := capnp.Unmarshal(def)
	if err != nil {
		return capnp.Ptr{}, errors.Wrap(err, "decode default value")
	}
	p, err := msg.RootPtr()
	if err != nil {
		return capnp.Ptr{}, errors.Wrap(err, "default value root")
	}
	return p, nil
}

// initList allocates a list in s's segment with alloc and stores it in s.
func initList(s Slot, n int32, alloc func(*capnp.Segment, int32) (capnp.List, error)) (capnp.List, error) {
	if n < 0 {
		return capnp.List{}, errors.Errorf("capnlist: negative list size %d", n)
	}
	l, err := alloc(s.Segment(), n)
	if err != nil {
		return capnp.List{}, errors.Wrapf(err, "allocate %d-element list", n)
	}
	if err := s.SetPtr(l.ToPtr()); err != nil {
		return capnp.List{}, errors.Wrap(err, "store list pointer")
	}
	return l, nil
}

// DefaultValue marshals a message whose root is p, for use as the def
// argument of ReadPtr and BuildPtr.
func DefaultValue(p capnp.Ptr) ([]byte, error) {
	msg, _, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, errors.Wrap(err, "new default message")
	}
	if err := msg.SetRootPtr(p); err != nil {
		return nil, errors.Wrap(err, "set default root")
	}
	return msg.Marshal()
}
