package capnlist

import (
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/rawbytedev/capnlist/internal/common"
	capnp "zombiezen.com/go/capnproto2"
)

// Primitive is the set of element types a PrimitiveList can hold.
type Primitive interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// elementBits returns the wire width of T: 1 for booleans, which are
// bit-packed, and the type's byte width times eight otherwise.
func elementBits[T Primitive]() int {
	return common.ElementBits(reflect.TypeFor[T]().Kind())
}

// PrimitiveList is a read-only view of a list of fixed-width scalars.
type PrimitiveList[T Primitive] struct {
	l capnp.List
}

// ReadPtr implements PtrReader.
func (PrimitiveList[T]) ReadPtr(p capnp.Ptr, def []byte) (PrimitiveList[T], error) {
	l, err := readList(p, def, primitiveLayout(elementBits[T]()))
	if err != nil {
		return PrimitiveList[T]{}, err
	}
	return PrimitiveList[T]{l: l}, nil
}

// Len returns the number of elements.
func (l PrimitiveList[T]) Len() int { return l.l.Len() }

// IsValid reports whether the list was resolved from a non-null pointer.
func (l PrimitiveList[T]) IsValid() bool { return l.l.IsValid() }

// ToPtr returns the list as a generic pointer.
func (l PrimitiveList[T]) ToPtr() capnp.Ptr { return l.l.ToPtr() }

// At returns element i. It panics if i is out of range.
func (l PrimitiveList[T]) At(i int) T {
	checkIndex(i, l.l.Len())
	return loadPrimitive[T](l.l, i)
}

// Slice copies the elements into a new Go slice.
func (l PrimitiveList[T]) Slice() []T {
	out := make([]T, l.Len())
	for i := range out {
		out[i] = loadPrimitive[T](l.l, i)
	}
	return out
}

// PrimitiveListBuilder is a mutable view of a list of fixed-width scalars.
type PrimitiveListBuilder[T Primitive] struct {
	l capnp.List
}

// InitPtr implements PtrBuilder. The new list is zero-filled.
func (PrimitiveListBuilder[T]) InitPtr(s Slot, n int32) (PrimitiveListBuilder[T], error) {
	l, err := initList(s, n, allocPrimitive[T])
	if err != nil {
		return PrimitiveListBuilder[T]{}, err
	}
	return PrimitiveListBuilder[T]{l: l}, nil
}

// BuildPtr implements PtrBuilder.
func (PrimitiveListBuilder[T]) BuildPtr(s Slot, def []byte) (PrimitiveListBuilder[T], error) {
	l, err := buildList(s, def, primitiveLayout(elementBits[T]()))
	if err != nil {
		return PrimitiveListBuilder[T]{}, err
	}
	return PrimitiveListBuilder[T]{l: l}, nil
}

// Len returns the number of elements.
func (b PrimitiveListBuilder[T]) Len() int { return b.l.Len() }

// ToPtr returns the list as a generic pointer.
func (b PrimitiveListBuilder[T]) ToPtr() capnp.Ptr { return b.l.ToPtr() }

// Reader returns a read-only view of the same list.
func (b PrimitiveListBuilder[T]) Reader() PrimitiveList[T] { return PrimitiveList[T]{l: b.l} }

// At returns element i. It panics if i is out of range.
func (b PrimitiveListBuilder[T]) At(i int) T {
	checkIndex(i, b.l.Len())
	return loadPrimitive[T](b.l, i)
}

// Set writes v to element i. It panics if i is out of range.
func (b PrimitiveListBuilder[T]) Set(i int, v T) {
	checkIndex(i, b.l.Len())
	storePrimitive(b.l, i, v)
}

// NewPrimitiveList allocates a list holding vs in s and returns a builder
// over it.
func NewPrimitiveList[T Primitive](s Slot, vs ...T) (PrimitiveListBuilder[T], error) {
	b, err := PrimitiveListBuilder[T]{}.InitPtr(s, int32(len(vs)))
	if err != nil {
		return b, err
	}
	for i, v := range vs {
		storePrimitive(b.l, i, v)
	}
	return b, nil
}

func allocPrimitive[T Primitive](seg *capnp.Segment, n int32) (capnp.List, error) {
	switch elementBits[T]() {
	case 1:
		l, err := capnp.NewBitList(seg, n)
		return l.List, err
	case 8:
		l, err := capnp.NewUInt8List(seg, n)
		return l.List, err
	case 16:
		l, err := capnp.NewUInt16List(seg, n)
		return l.List, err
	case 32:
		l, err := capnp.NewUInt32List(seg, n)
		return l.List, err
	case 64:
		l, err := capnp.NewUInt64List(seg, n)
		return l.List, err
	}
	return capnp.List{}, errors.Errorf("capnlist: no list encoding for %v", reflect.TypeFor[T]())
}

// loadPrimitive decodes element i by reinterpreting the stored bits as T.
// The caller has checked i.
func loadPrimitive[T Primitive](l capnp.List, i int) T {
	var v T
	p := unsafe.Pointer(&v)
	switch elementBits[T]() {
	case 1:
		*(*bool)(p) = capnp.BitList{List: l}.At(i)
	case 8:
		*(*uint8)(p) = capnp.UInt8List{List: l}.At(i)
	case 16:
		*(*uint16)(p) = capnp.UInt16List{List: l}.At(i)
	case 32:
		*(*uint32)(p) = capnp.UInt32List{List: l}.At(i)
	case 64:
		*(*uint64)(p) = capnp.UInt64List{List: l}.At(i)
	}
	return v
}

func storePrimitive[T Primitive](l capnp.List, i int, v T) {
	p := unsafe.Pointer(&v)
	switch elementBits[T]() {
	case 1:
		capnp.BitList{List: l}.Set(i, *(*bool)(p))
	case 8:
		capnp.UInt8List{List: l}.Set(i, *(*uint8)(p))
	case 16:
		capnp.UInt16List{List: l}.Set(i, *(*uint16)(p))
	case 32:
		capnp.UInt32List{List: l}.Set(i, *(*uint32)(p))
	case 64:
		capnp.UInt64List{List: l}.Set(i, *(*uint64)(p))
	}
}
