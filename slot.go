package capnlist

import (
	"github.com/pkg/errors"
	capnp "zombiezen.com/go/capnproto2"
)

// A Slot is a writable pointer location: a pointer field of a struct, an
// element of a pointer list, or a message's root pointer. Builders are
// created by allocating into a slot or by re-opening what it points to.
type Slot interface {
	// Segment is where new objects for this slot are allocated.
	Segment() *capnp.Segment
	// Ptr resolves the slot. A null slot yields an invalid Ptr and no error.
	Ptr() (capnp.Ptr, error)
	// SetPtr points the slot at p, copying p if it lives in another message.
	SetPtr(p capnp.Ptr) error
}

// Field returns the slot for pointer field i of s.
func Field(s capnp.Struct, i uint16) Slot {
	return fieldSlot{s: s, i: i}
}

type fieldSlot struct {
	s capnp.Struct
	i uint16
}

func (f fieldSlot) Segment() *capnp.Segment  { return f.s.Segment() }
func (f fieldSlot) Ptr() (capnp.Ptr, error)  { return f.s.Ptr(f.i) }
func (f fieldSlot) SetPtr(p capnp.Ptr) error { return f.s.SetPtr(f.i, p) }

// Element returns the slot for element i of the pointer list l.
func Element(l capnp.PointerList, i int) Slot {
	checkIndex(i, l.Len())
	return elemSlot{l: l, i: i}
}

type elemSlot struct {
	l capnp.PointerList
	i int
}

func (e elemSlot) Segment() *capnp.Segment  { return e.l.Segment() }
func (e elemSlot) Ptr() (capnp.Ptr, error)  { return e.l.PtrAt(e.i) }
func (e elemSlot) SetPtr(p capnp.Ptr) error { return e.l.SetPtr(e.i, p) }

// Root returns the root pointer slot of msg.
func Root(msg *capnp.Message) (Slot, error) {
	seg, err := msg.Segment(0)
	if err != nil {
		return nil, errors.Wrap(err, "root segment")
	}
	if seg == nil {
		return nil, ErrNullSlot
	}
	return rootSlot{msg: msg, seg: seg}, nil
}

type rootSlot struct {
	msg *capnp.Message
	seg *capnp.Segment
}

func (r rootSlot) Segment() *capnp.Segment  { return r.seg }
func (r rootSlot) Ptr() (capnp.Ptr, error)  { return r.msg.RootPtr() }
func (r rootSlot) SetPtr(p capnp.Ptr) error { return r.msg.SetRootPtr(p) }
