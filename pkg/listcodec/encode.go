package listcodec

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/rawbytedev/capnlist"
	capnp "zombiezen.com/go/capnproto2"
)

// Encode stores v, a slice or pointer to slice, in s, replacing what s
// pointed to.
func (c *Codec) Encode(s capnlist.Slot, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return errors.Wrapf(ErrNotSlice, "got %T", v)
	}
	pl, err := c.planFor(rv.Type())
	if err != nil {
		return err
	}
	return c.encode(s, rv, pl)
}

func (c *Codec) encode(s capnlist.Slot, v reflect.Value, pl *plan) error {
	if v.IsNil() {
		return errors.Wrap(s.SetPtr(capnp.Ptr{}), "clear slot")
	}
	n, err := listLen(v)
	if err != nil {
		return err
	}
	switch pl.enc {
	case encPrimitive:
		return encodePrimitive(s, v, pl.kind)
	case encEnum:
		b, err := capnlist.EnumListBuilder[rawEnum]{}.InitPtr(s, n)
		if err != nil {
			return err
		}
		for i := 0; i < b.Len(); i++ {
			b.SetRaw(i, uint16(v.Index(i).Uint()))
		}
		return nil
	case encText:
		b, err := capnlist.TextListBuilder{}.InitPtr(s, n)
		if err != nil {
			return err
		}
		for i := 0; i < b.Len(); i++ {
			if err := b.Set(i, v.Index(i).String()); err != nil {
				return err
			}
		}
		return nil
	case encPointer:
		b, err := capnlist.ListListBuilder[slotRef]{}.InitPtr(s, n)
		if err != nil {
			return err
		}
		for i := 0; i < b.Len(); i++ {
			ref, err := b.At(i)
			if err != nil {
				return err
			}
			if err := c.encode(ref.s, v.Index(i), pl.elem); err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
		}
		return nil
	}
	return errors.Wrapf(ErrUnsupported, "%v", v.Type())
}

func encodePrimitive(s capnlist.Slot, v reflect.Value, k reflect.Kind) error {
	switch k {
	case reflect.Bool:
		return fill(s, v, func(e reflect.Value) bool { return e.Bool() })
	case reflect.Int8:
		return fill(s, v, func(e reflect.Value) int8 { return int8(e.Int()) })
	case reflect.Int16:
		return fill(s, v, func(e reflect.Value) int16 { return int16(e.Int()) })
	case reflect.Int32:
		return fill(s, v, func(e reflect.Value) int32 { return int32(e.Int()) })
	case reflect.Int64:
		return fill(s, v, func(e reflect.Value) int64 { return e.Int() })
	case reflect.Uint8:
		return fill(s, v, func(e reflect.Value) uint8 { return uint8(e.Uint()) })
	case reflect.Uint16:
		return fill(s, v, func(e reflect.Value) uint16 { return uint16(e.Uint()) })
	case reflect.Uint32:
		return fill(s, v, func(e reflect.Value) uint32 { return uint32(e.Uint()) })
	case reflect.Uint64:
		return fill(s, v, func(e reflect.Value) uint64 { return e.Uint() })
	case reflect.Float32:
		return fill(s, v, func(e reflect.Value) float32 { return float32(e.Float()) })
	case reflect.Float64:
		return fill(s, v, func(e reflect.Value) float64 { return e.Float() })
	}
	return errors.Wrapf(ErrUnsupported, "element kind %v", k)
}

func fill[T capnlist.Primitive](s capnlist.Slot, v reflect.Value, get func(reflect.Value) T) error {
	b, err := capnlist.PrimitiveListBuilder[T]{}.InitPtr(s, int32(v.Len()))
	if err != nil {
		return err
	}
	for i := 0; i < b.Len(); i++ {
		b.Set(i, get(v.Index(i)))
	}
	return nil
}
