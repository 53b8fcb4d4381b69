package sample

import (
	"github.com/pkg/errors"
	"github.com/rawbytedev/capnlist"
	capnp "zombiezen.com/go/capnproto2"
)

// Point is the struct `Point { x @0 :Int32; y @1 :Int32; }`.
type Point struct{ capnp.Struct }

var pointSize = capnp.ObjectSize{DataSize: 8}

// ReadStruct implements capnlist.StructReader.
func (Point) ReadStruct(s capnp.Struct) Point { return Point{s} }

// ReadPtr implements capnlist.PtrReader for lists of struct pointers.
func (Point) ReadPtr(p capnp.Ptr, def []byte) (Point, error) {
	s, err := p.StructDefault(def)
	if err != nil {
		return Point{}, errors.Wrap(err, "resolve Point")
	}
	return Point{s}, nil
}

func (p Point) X() int32 { return int32(p.Struct.Uint32(0)) }
func (p Point) Y() int32 { return int32(p.Struct.Uint32(4)) }

// PointBuilder is the mutable side of Point.
type PointBuilder struct{ capnp.Struct }

// BuildStruct implements capnlist.StructBuilder.
func (PointBuilder) BuildStruct(s capnp.Struct) PointBuilder { return PointBuilder{s} }

// StructSize implements capnlist.StructBuilder.
func (PointBuilder) StructSize() capnp.ObjectSize { return pointSize }

// InitPtr implements capnlist.PtrBuilder. A struct has no length, so n is
// ignored.
func (PointBuilder) InitPtr(s capnlist.Slot, _ int32) (PointBuilder, error) {
	st, err := capnp.NewStruct(s.Segment(), pointSize)
	if err != nil {
		return PointBuilder{}, errors.Wrap(err, "allocate Point")
	}
	if err := s.SetPtr(st.ToPtr()); err != nil {
		return PointBuilder{}, errors.Wrap(err, "store Point")
	}
	return PointBuilder{st}, nil
}

// BuildPtr implements capnlist.PtrBuilder. A null slot is initialized.
func (b PointBuilder) BuildPtr(s capnlist.Slot, def []byte) (PointBuilder, error) {
	p, err := capnlist.Resolve(s, def)
	if err != nil {
		return PointBuilder{}, err
	}
	if !p.IsValid() {
		return b.InitPtr(s, 0)
	}
	return PointBuilder{p.Struct()}, nil
}

func (p PointBuilder) X() int32      { return int32(p.Struct.Uint32(0)) }
func (p PointBuilder) Y() int32      { return int32(p.Struct.Uint32(4)) }
func (p PointBuilder) SetX(v int32)  { p.Struct.SetUint32(0, uint32(v)) }
func (p PointBuilder) SetY(v int32)  { p.Struct.SetUint32(4, uint32(v)) }
func (p PointBuilder) Reader() Point { return Point{p.Struct} }
