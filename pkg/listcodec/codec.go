// Package listcodec copies Go slices into and out of Cap'n Proto lists
// using reflection, for callers that have no schema types to hand.
//
// Element types map to list encodings as follows:
//
//	bool, ints, uints, floats    fixed-width list (bit-packed for bool)
//	~uint16 with Known() bool     enum list (2-byte discriminants)
//	string                        list of text pointers
//	slice of any of the above     list of pointers, each encoded recursively
//
// A []byte is a list of UInt8, which is also how Data is laid out. A nil
// slice is stored as a null pointer and decodes back to nil.
package listcodec

import (
	"math"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"github.com/rawbytedev/capnlist"
	"github.com/rawbytedev/capnlist/internal/common"
	capnp "zombiezen.com/go/capnproto2"
)

var (
	ErrUnsupported = errors.New("listcodec: unsupported type")
	ErrNotSlice    = errors.New("listcodec: expected slice")
	ErrNotSlicePtr = errors.New("listcodec: expected pointer to slice")
	ErrUnknownEnum = errors.New("listcodec: undeclared enum value")
	ErrTooLong     = errors.New("listcodec: slice too long for a list")
)

type Options struct {
	// StrictEnums makes Decode fail on discriminants the element type does
	// not declare. By default they are kept as-is.
	StrictEnums bool
}

// Codec caches a plan per slice type. The zero value is ready to use.
type Codec struct {
	Opts  Options
	plans sync.Map // reflect.Type -> *plan
}

var std Codec

// Encode stores v, a slice or pointer to slice, in s using default options.
func Encode(s capnlist.Slot, v any) error { return std.Encode(s, v) }

// Decode reads the list at p into out, a pointer to slice, using default
// options.
func Decode(p capnp.Ptr, out any) error { return std.Decode(p, out) }

type encoding uint8

const (
	encPrimitive encoding = iota
	encEnum
	encText
	encPointer
)

type plan struct {
	enc  encoding
	kind reflect.Kind // element kind
	elem *plan        // element plan of a pointer list
}

type knower interface{ Known() bool }

var knowerType = reflect.TypeFor[knower]()

func (c *Codec) planFor(t reflect.Type) (*plan, error) {
	return c.buildPlan(t, nil)
}

// buildPlan computes the plan for t. outer holds the slice types whose
// plans are being built further up, so a type that contains itself is
// rejected instead of recursing forever.
func (c *Codec) buildPlan(t reflect.Type, outer map[reflect.Type]bool) (*plan, error) {
	if pl, ok := c.plans.Load(t); ok {
		return pl.(*plan), nil
	}
	if t.Kind() != reflect.Slice {
		return nil, errors.Wrapf(ErrNotSlice, "%v", t)
	}
	if outer[t] {
		return nil, errors.Wrapf(ErrUnsupported, "recursive type %v", t)
	}
	et := t.Elem()
	pl := &plan{kind: et.Kind()}
	switch {
	case et.Kind() == reflect.Uint16 && et.Implements(knowerType):
		pl.enc = encEnum
	case common.IsFixedKind(et.Kind()):
		pl.enc = encPrimitive
	case et.Kind() == reflect.String:
		pl.enc = encText
	case et.Kind() == reflect.Slice:
		if outer == nil {
			outer = make(map[reflect.Type]bool)
		}
		outer[t] = true
		elem, err := c.buildPlan(et, outer)
		if err != nil {
			return nil, err
		}
		pl.enc, pl.elem = encPointer, elem
	default:
		return nil, errors.Wrapf(ErrUnsupported, "element type %v", et)
	}
	c.plans.Store(t, pl)
	return pl, nil
}

// rawEnum carries discriminants of enum types only known at run time.
type rawEnum uint16

func (rawEnum) Known() bool { return true }

// ptrRef resolves a list element to its pointer, leaving decoding to the
// codec.
type ptrRef struct{ p capnp.Ptr }

func (ptrRef) ReadPtr(p capnp.Ptr, _ []byte) (ptrRef, error) { return ptrRef{p}, nil }

// slotRef resolves a list element to its slot without allocating.
type slotRef struct{ s capnlist.Slot }

func (slotRef) InitPtr(s capnlist.Slot, _ int32) (slotRef, error)   { return slotRef{s}, nil }
func (slotRef) BuildPtr(s capnlist.Slot, _ []byte) (slotRef, error) { return slotRef{s}, nil }

func listLen(v reflect.Value) (int32, error) {
	n := v.Len()
	if n > math.MaxInt32 {
		return 0, errors.Wrapf(ErrTooLong, "%d elements", n)
	}
	return int32(n), nil
}
