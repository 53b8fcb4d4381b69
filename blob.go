package capnlist

import (
	"github.com/pkg/errors"
	capnp "zombiezen.com/go/capnproto2"
)

// TextList is a read-only view of a list of text pointers.
type TextList struct {
	l capnp.TextList
}

// ReadPtr implements PtrReader.
func (TextList) ReadPtr(p capnp.Ptr, def []byte) (TextList, error) {
	l, err := readList(p, def, pointerLayout)
	if err != nil {
		return TextList{}, err
	}
	return TextList{l: capnp.TextList{List: l}}, nil
}

// Len returns the number of elements.
func (l TextList) Len() int { return l.l.Len() }

// IsValid reports whether the list was resolved from a non-null pointer.
func (l TextList) IsValid() bool { return l.l.IsValid() }

// ToPtr returns the list as a generic pointer.
func (l TextList) ToPtr() capnp.Ptr { return l.l.ToPtr() }

// At returns element i. A null element reads as "". At panics if i is out
// of range.
func (l TextList) At(i int) (string, error) {
	checkIndex(i, l.l.Len())
	s, err := l.l.At(i)
	return s, errors.Wrapf(err, "text element %d", i)
}

// TextListBuilder is a mutable view of a list of text pointers.
type TextListBuilder struct {
	l capnp.TextList
}

// InitPtr implements PtrBuilder. All n elements start out null.
func (TextListBuilder) InitPtr(s Slot, n int32) (TextListBuilder, error) {
	l, err := initList(s, n, func(seg *capnp.Segment, n int32) (capnp.List, error) {
		l, err := capnp.NewTextList(seg, n)
		return l.List, err
	})
	if err != nil {
		return TextListBuilder{}, err
	}
	return TextListBuilder{l: capnp.TextList{List: l}}, nil
}

// BuildPtr implements PtrBuilder.
func (TextListBuilder) BuildPtr(s Slot, def []byte) (TextListBuilder, error) {
	l, err := buildList(s, def, pointerLayout)
	if err != nil {
		return TextListBuilder{}, err
	}
	return TextListBuilder{l: capnp.TextList{List: l}}, nil
}

// Len returns the number of elements.
func (b TextListBuilder) Len() int { return b.l.Len() }

// ToPtr returns the list as a generic pointer.
func (b TextListBuilder) ToPtr() capnp.Ptr { return b.l.ToPtr() }

// Reader returns a read-only view of the same list.
func (b TextListBuilder) Reader() TextList { return TextList{l: b.l} }

// Set allocates a copy of v and points element i at it. The empty string
// is stored as a null pointer. Set panics if i is out of range.
func (b TextListBuilder) Set(i int, v string) error {
	checkIndex(i, b.l.Len())
	return errors.Wrapf(b.l.Set(i, v), "text element %d", i)
}

// DataList is a read-only view of a list of data pointers.
type DataList struct {
	l capnp.DataList
}

// ReadPtr implements PtrReader.
func (DataList) ReadPtr(p capnp.Ptr, def []byte) (DataList, error) {
	l, err := readList(p, def, pointerLayout)
	if err != nil {
		return DataList{}, err
	}
	return DataList{l: capnp.DataList{List: l}}, nil
}

// Len returns the number of elements.
func (l DataList) Len() int { return l.l.Len() }

// IsValid reports whether the list was resolved from a non-null pointer.
func (l DataList) IsValid() bool { return l.l.IsValid() }

// ToPtr returns the list as a generic pointer.
func (l DataList) ToPtr() capnp.Ptr { return l.l.ToPtr() }

// At returns element i. The slice aliases the message; it must not be
// retained past the message's lifetime. At panics if i is out of range.
func (l DataList) At(i int) ([]byte, error) {
	checkIndex(i, l.l.Len())
	b, err := l.l.At(i)
	return b, errors.Wrapf(err, "data element %d", i)
}

// DataListBuilder is a mutable view of a list of data pointers.
type DataListBuilder struct {
	l capnp.DataList
}

// InitPtr implements PtrBuilder. All n elements start out null.
func (DataListBuilder) InitPtr(s Slot, n int32) (DataListBuilder, error) {
	l, err := initList(s, n, func(seg *capnp.Segment, n int32) (capnp.List, error) {
		l, err := capnp.NewDataList(seg, n)
		return l.List, err
	})
	if err != nil {
		return DataListBuilder{}, err
	}
	return DataListBuilder{l: capnp.DataList{List: l}}, nil
}

// BuildPtr implements PtrBuilder.
func (DataListBuilder) BuildPtr(s Slot, def []byte) (DataListBuilder, error) {
	l, err := buildList(s, def, pointerLayout)
	if err != nil {
		return DataListBuilder{}, err
	}
	return DataListBuilder{l: capnp.DataList{List: l}}, nil
}

// Len returns the number of elements.
func (b DataListBuilder) Len() int { return b.l.Len() }

// ToPtr returns the list as a generic pointer.
func (b DataListBuilder) ToPtr() capnp.Ptr { return b.l.ToPtr() }

// Reader returns a read-only view of the same list.
func (b DataListBuilder) Reader() DataList { return DataList{l: b.l} }

// Set allocates a copy of v and points element i at it. An empty v is
// stored as a null pointer. Set panics if i is out of range.
func (b DataListBuilder) Set(i int, v []byte) error {
	checkIndex(i, b.l.Len())
	return errors.Wrapf(b.l.Set(i, v), "data element %d", i)
}
