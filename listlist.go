package capnlist

import (
	"github.com/pkg/errors"
	capnp "zombiezen.com/go/capnproto2"
)

// ListList is a read-only view of a list of pointers, each resolved as a T.
// T is usually another list kind, ListList included.
type ListList[T PtrReader[T]] struct {
	l capnp.PointerList
}

// ReadPtr implements PtrReader.
func (ListList[T]) ReadPtr(p capnp.Ptr, def []byte) (ListList[T], error) {
	l, err := readList(p, def, pointerLayout)
	if err != nil {
		return ListList[T]{}, err
	}
	return ListList[T]{l: capnp.PointerList{List: l}}, nil
}

// Len returns the number of elements.
func (l ListList[T]) Len() int { return l.l.Len() }

// IsValid reports whether the list was resolved from a non-null pointer.
func (l ListList[T]) IsValid() bool { return l.l.IsValid() }

// ToPtr returns the list as a generic pointer.
func (l ListList[T]) ToPtr() capnp.Ptr { return l.l.ToPtr() }

// At resolves element i as a T. A null element yields T's empty view and
// allocates nothing. At panics if i is out of range.
func (l ListList[T]) At(i int) (T, error) {
	var zero T
	checkIndex(i, l.l.Len())
	p, err := l.l.PtrAt(i)
	if err != nil {
		return zero, errors.Wrapf(err, "list element %d", i)
	}
	return zero.ReadPtr(p, nil)
}

// ListListBuilder is a mutable view of a list of pointers, each built as
// a T.
type ListListBuilder[T PtrBuilder[T]] struct {
	l capnp.PointerList
}

// InitPtr implements PtrBuilder. All n elements start out null.
func (ListListBuilder[T]) InitPtr(s Slot, n int32) (ListListBuilder[T], error) {
	l, err := initList(s, n, func(seg *capnp.Segment, n int32) (capnp.List, error) {
		l, err := capnp.NewPointerList(seg, n)
		return l.List, err
	})
	if err != nil {
		return ListListBuilder[T]{}, err
	}
	return ListListBuilder[T]{l: capnp.PointerList{List: l}}, nil
}

// BuildPtr implements PtrBuilder.
func (ListListBuilder[T]) BuildPtr(s Slot, def []byte) (ListListBuilder[T], error) {
	l, err := buildList(s, def, pointerLayout)
	if err != nil {
		return ListListBuilder[T]{}, err
	}
	return ListListBuilder[T]{l: capnp.PointerList{List: l}}, nil
}

// Len returns the number of elements.
func (b ListListBuilder[T]) Len() int { return b.l.Len() }

// ToPtr returns the list as a generic pointer.
func (b ListListBuilder[T]) ToPtr() capnp.Ptr { return b.l.ToPtr() }

// Slot returns the pointer slot of element i. It panics if i is out of
// range.
func (b ListListBuilder[T]) Slot(i int) Slot {
	return Element(b.l, i)
}

// At re-opens element i. A null element yields T's empty builder; use Init
// to allocate it. At panics if i is out of range.
func (b ListListBuilder[T]) At(i int) (T, error) {
	var zero T
	return zero.BuildPtr(b.Slot(i), nil)
}

// Init allocates an n-element T at element i, replacing any previous
// value. It panics if i is out of range.
func (b ListListBuilder[T]) Init(i int, n int32) (T, error) {
	var zero T
	return zero.InitPtr(b.Slot(i), n)
}
