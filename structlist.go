package capnlist

import (
	"github.com/pkg/errors"
	capnp "zombiezen.com/go/capnproto2"
)

// StructReader is implemented by read-only struct views. ReadStruct is
// called on the zero value and wraps s without copying.
type StructReader[T any] interface {
	ReadStruct(s capnp.Struct) T
}

// StructBuilder is implemented by mutable struct views. Both methods are
// called on the zero value: StructSize reports the declared size of the
// struct type, BuildStruct wraps s.
type StructBuilder[T any] interface {
	BuildStruct(s capnp.Struct) T
	StructSize() capnp.ObjectSize
}

// StructList is a read-only view of an inline composite list.
type StructList[T StructReader[T]] struct {
	l capnp.List
}

// ReadPtr implements PtrReader.
func (StructList[T]) ReadPtr(p capnp.Ptr, def []byte) (StructList[T], error) {
	l, err := readList(p, def, structLayout)
	if err != nil {
		return StructList[T]{}, err
	}
	return StructList[T]{l: l}, nil
}

// Len returns the number of elements.
func (l StructList[T]) Len() int { return l.l.Len() }

// IsValid reports whether the list was resolved from a non-null pointer.
func (l StructList[T]) IsValid() bool { return l.l.IsValid() }

// ToPtr returns the list as a generic pointer.
func (l StructList[T]) ToPtr() capnp.Ptr { return l.l.ToPtr() }

// At returns a view of element i. It panics if i is out of range.
func (l StructList[T]) At(i int) T {
	checkIndex(i, l.l.Len())
	var zero T
	return zero.ReadStruct(l.l.Struct(i))
}

// StructListBuilder is a mutable view of an inline composite list.
// Elements are changed through the builders At returns.
type StructListBuilder[T StructBuilder[T]] struct {
	l capnp.List
}

// InitPtr implements PtrBuilder. Each of the n elements is laid out with
// T's declared size, its data section rounded up to a whole word.
func (StructListBuilder[T]) InitPtr(s Slot, n int32) (StructListBuilder[T], error) {
	var zero T
	sz := zero.StructSize()
	l, err := initList(s, n, func(seg *capnp.Segment, n int32) (capnp.List, error) {
		return capnp.NewCompositeList(seg, sz, n)
	})
	if err != nil {
		return StructListBuilder[T]{}, err
	}
	return StructListBuilder[T]{l: l}, nil
}

// BuildPtr implements PtrBuilder. A list whose elements are smaller than
// T's declared size, written by an older schema, is copied into a list of
// full-size elements first so every field of T can be set.
func (StructListBuilder[T]) BuildPtr(s Slot, def []byte) (StructListBuilder[T], error) {
	l, err := buildList(s, def, structLayout)
	if err != nil {
		return StructListBuilder[T]{}, err
	}
	if l.Len() == 0 {
		return StructListBuilder[T]{l: l}, nil
	}
	var zero T
	want, have := zero.StructSize(), l.Struct(0).Size()
	if have.DataSize >= want.DataSize && have.PointerCount >= want.PointerCount {
		return StructListBuilder[T]{l: l}, nil
	}
	l, err = growStructList(s, l, capnp.ObjectSize{
		DataSize:     max(have.DataSize, want.DataSize),
		PointerCount: max(have.PointerCount, want.PointerCount),
	})
	if err != nil {
		return StructListBuilder[T]{}, err
	}
	return StructListBuilder[T]{l: l}, nil
}

// growStructList copies the elements of l into a new list of sz-sized
// elements and stores it in s. The old list stays behind in the message.
func growStructList(s Slot, l capnp.List, sz capnp.ObjectSize) (capnp.List, error) {
	nl, err := capnp.NewCompositeList(s.Segment(), sz, int32(l.Len()))
	if err != nil {
		return capnp.List{}, errors.Wrapf(err, "allocate %d-element struct list", l.Len())
	}
	for i := 0; i < l.Len(); i++ {
		if err := nl.Struct(i).CopyFrom(l.Struct(i)); err != nil {
			return capnp.List{}, errors.Wrapf(err, "copy struct element %d", i)
		}
	}
	if err := s.SetPtr(nl.ToPtr()); err != nil {
		return capnp.List{}, errors.Wrap(err, "store struct list pointer")
	}
	return nl, nil
}

// Len returns the number of elements.
func (b StructListBuilder[T]) Len() int { return b.l.Len() }

// ToPtr returns the list as a generic pointer.
func (b StructListBuilder[T]) ToPtr() capnp.Ptr { return b.l.ToPtr() }

// At returns a builder for element i. It panics if i is out of range.
func (b StructListBuilder[T]) At(i int) T {
	checkIndex(i, b.l.Len())
	var zero T
	return zero.BuildStruct(b.l.Struct(i))
}
