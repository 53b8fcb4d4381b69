package capnlist

import (
	capnp "zombiezen.com/go/capnproto2"
)

// Enum is implemented by schema enumerations. Values are stored on the wire
// as their 16-bit discriminant; Known reports whether a value is one of the
// declared enumerators.
type Enum interface {
	~uint16
	Known() bool
}

var enumLayout = primitiveLayout(16)

// EnumList is a read-only view of a list of enumerants.
type EnumList[T Enum] struct {
	l capnp.List
}

// ReadPtr implements PtrReader.
func (EnumList[T]) ReadPtr(p capnp.Ptr, def []byte) (EnumList[T], error) {
	l, err := readList(p, def, enumLayout)
	if err != nil {
		return EnumList[T]{}, err
	}
	return EnumList[T]{l: l}, nil
}

// Len returns the number of elements.
func (l EnumList[T]) Len() int { return l.l.Len() }

// IsValid reports whether the list was resolved from a non-null pointer.
func (l EnumList[T]) IsValid() bool { return l.l.IsValid() }

// ToPtr returns the list as a generic pointer.
func (l EnumList[T]) ToPtr() capnp.Ptr { return l.l.ToPtr() }

// At returns element i. ok is false when the stored discriminant is not a
// declared enumerator, which happens when the writer used a newer schema.
// At panics if i is out of range.
func (l EnumList[T]) At(i int) (v T, ok bool) {
	return decodeEnum[T](l.Raw(i))
}

// Raw returns the discriminant stored at element i.
func (l EnumList[T]) Raw(i int) uint16 {
	checkIndex(i, l.l.Len())
	return capnp.UInt16List{List: l.l}.At(i)
}

func decodeEnum[T Enum](raw uint16) (T, bool) {
	v := T(raw)
	if !v.Known() {
		return 0, false
	}
	return v, true
}

// EnumListBuilder is a mutable view of a list of enumerants.
type EnumListBuilder[T Enum] struct {
	l capnp.List
}

// InitPtr implements PtrBuilder. Every element of the new list holds
// discriminant 0.
func (EnumListBuilder[T]) InitPtr(s Slot, n int32) (EnumListBuilder[T], error) {
	l, err := initList(s, n, func(seg *capnp.Segment, n int32) (capnp.List, error) {
		l, err := capnp.NewUInt16List(seg, n)
		return l.List, err
	})
	if err != nil {
		return EnumListBuilder[T]{}, err
	}
	return EnumListBuilder[T]{l: l}, nil
}

// BuildPtr implements PtrBuilder.
func (EnumListBuilder[T]) BuildPtr(s Slot, def []byte) (EnumListBuilder[T], error) {
	l, err := buildList(s, def, enumLayout)
	if err != nil {
		return EnumListBuilder[T]{}, err
	}
	return EnumListBuilder[T]{l: l}, nil
}

// Len returns the number of elements.
func (b EnumListBuilder[T]) Len() int { return b.l.Len() }

// ToPtr returns the list as a generic pointer.
func (b EnumListBuilder[T]) ToPtr() capnp.Ptr { return b.l.ToPtr() }

// Reader returns a read-only view of the same list.
func (b EnumListBuilder[T]) Reader() EnumList[T] { return EnumList[T]{l: b.l} }

// At returns element i, with the same meaning as EnumList.At.
func (b EnumListBuilder[T]) At(i int) (T, bool) {
	return b.Reader().At(i)
}

// Set stores v at element i. It panics if i is out of range.
func (b EnumListBuilder[T]) Set(i int, v T) {
	b.SetRaw(i, uint16(v))
}

// SetRaw stores a discriminant at element i without checking that it is
// declared, so values read from a newer writer can be passed through.
func (b EnumListBuilder[T]) SetRaw(i int, raw uint16) {
	checkIndex(i, b.l.Len())
	capnp.UInt16List{List: b.l}.Set(i, raw)
}
