package sample

import (
	"github.com/pkg/errors"
	"github.com/rawbytedev/capnlist"
	capnp "zombiezen.com/go/capnproto2"
)

// Drawing is the struct
//
//	Drawing {
//	  ints   @0 :List(Int32);
//	  flags  @1 :List(Bool);
//	  colors @2 :List(Color);
//	  points @3 :List(Point);
//	  rows   @4 :List(List(UInt8));
//	  labels @5 :List(Text);
//	}
type Drawing struct{ capnp.Struct }

const (
	intsField uint16 = iota
	flagsField
	colorsField
	pointsField
	rowsField
	labelsField
)

var drawingSize = capnp.ObjectSize{PointerCount: 6}

// ReadRootDrawing returns the Drawing at the root of msg.
func ReadRootDrawing(msg *capnp.Message) (Drawing, error) {
	p, err := msg.RootPtr()
	if err != nil {
		return Drawing{}, errors.Wrap(err, "read root")
	}
	return Drawing{p.Struct()}, nil
}

// ReadStruct implements capnlist.StructReader.
func (Drawing) ReadStruct(s capnp.Struct) Drawing { return Drawing{s} }

func (d Drawing) Ints() (capnlist.PrimitiveList[int32], error) {
	return readField[capnlist.PrimitiveList[int32]](d.Struct, intsField)
}

func (d Drawing) Flags() (capnlist.PrimitiveList[bool], error) {
	return readField[capnlist.PrimitiveList[bool]](d.Struct, flagsField)
}

func (d Drawing) Colors() (capnlist.EnumList[Color], error) {
	return readField[capnlist.EnumList[Color]](d.Struct, colorsField)
}

func (d Drawing) Points() (capnlist.StructList[Point], error) {
	return readField[capnlist.StructList[Point]](d.Struct, pointsField)
}

func (d Drawing) Rows() (capnlist.ListList[capnlist.PrimitiveList[uint8]], error) {
	return readField[capnlist.ListList[capnlist.PrimitiveList[uint8]]](d.Struct, rowsField)
}

func (d Drawing) Labels() (capnlist.TextList, error) {
	return readField[capnlist.TextList](d.Struct, labelsField)
}

// DrawingBuilder is the mutable side of Drawing. NewX allocates field X,
// replacing its previous value; X re-opens it.
type DrawingBuilder struct{ capnp.Struct }

// NewRootDrawing allocates a Drawing in seg and makes it the message root.
func NewRootDrawing(seg *capnp.Segment) (DrawingBuilder, error) {
	s, err := capnp.NewRootStruct(seg, drawingSize)
	if err != nil {
		return DrawingBuilder{}, errors.Wrap(err, "allocate Drawing")
	}
	return DrawingBuilder{s}, nil
}

// BuildStruct implements capnlist.StructBuilder.
func (DrawingBuilder) BuildStruct(s capnp.Struct) DrawingBuilder { return DrawingBuilder{s} }

// StructSize implements capnlist.StructBuilder.
func (DrawingBuilder) StructSize() capnp.ObjectSize { return drawingSize }

func (d DrawingBuilder) Reader() Drawing { return Drawing{d.Struct} }

func (d DrawingBuilder) NewInts(n int32) (capnlist.PrimitiveListBuilder[int32], error) {
	return initField[capnlist.PrimitiveListBuilder[int32]](d.Struct, intsField, n)
}

func (d DrawingBuilder) Ints() (capnlist.PrimitiveListBuilder[int32], error) {
	return buildField[capnlist.PrimitiveListBuilder[int32]](d.Struct, intsField)
}

func (d DrawingBuilder) NewFlags(n int32) (capnlist.PrimitiveListBuilder[bool], error) {
	return initField[capnlist.PrimitiveListBuilder[bool]](d.Struct, flagsField, n)
}

func (d DrawingBuilder) Flags() (capnlist.PrimitiveListBuilder[bool], error) {
	return buildField[capnlist.PrimitiveListBuilder[bool]](d.Struct, flagsField)
}

func (d DrawingBuilder) NewColors(n int32) (capnlist.EnumListBuilder[Color], error) {
	return initField[capnlist.EnumListBuilder[Color]](d.Struct, colorsField, n)
}

func (d DrawingBuilder) Colors() (capnlist.EnumListBuilder[Color], error) {
	return buildField[capnlist.EnumListBuilder[Color]](d.Struct, colorsField)
}

func (d DrawingBuilder) NewPoints(n int32) (capnlist.StructListBuilder[PointBuilder], error) {
	return initField[capnlist.StructListBuilder[PointBuilder]](d.Struct, pointsField, n)
}

func (d DrawingBuilder) Points() (capnlist.StructListBuilder[PointBuilder], error) {
	return buildField[capnlist.StructListBuilder[PointBuilder]](d.Struct, pointsField)
}

func (d DrawingBuilder) NewRows(n int32) (capnlist.ListListBuilder[capnlist.PrimitiveListBuilder[uint8]], error) {
	return initField[capnlist.ListListBuilder[capnlist.PrimitiveListBuilder[uint8]]](d.Struct, rowsField, n)
}

func (d DrawingBuilder) Rows() (capnlist.ListListBuilder[capnlist.PrimitiveListBuilder[uint8]], error) {
	return buildField[capnlist.ListListBuilder[capnlist.PrimitiveListBuilder[uint8]]](d.Struct, rowsField)
}

func (d DrawingBuilder) NewLabels(n int32) (capnlist.TextListBuilder, error) {
	return initField[capnlist.TextListBuilder](d.Struct, labelsField, n)
}

func (d DrawingBuilder) Labels() (capnlist.TextListBuilder, error) {
	return buildField[capnlist.TextListBuilder](d.Struct, labelsField)
}

func readField[R capnlist.PtrReader[R]](s capnp.Struct, i uint16) (R, error) {
	var zero R
	p, err := s.Ptr(i)
	if err != nil {
		return zero, errors.Wrapf(err, "pointer field %d", i)
	}
	return zero.ReadPtr(p, nil)
}

func initField[B capnlist.PtrBuilder[B]](s capnp.Struct, i uint16, n int32) (B, error) {
	var zero B
	return zero.InitPtr(capnlist.Field(s, i), n)
}

func buildField[B capnlist.PtrBuilder[B]](s capnp.Struct, i uint16) (B, error) {
	var zero B
	return zero.BuildPtr(capnlist.Field(s, i), nil)
}
