package listcodec

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/rawbytedev/capnlist"
	capnp "zombiezen.com/go/capnproto2"
)

// Decode reads the list at p into out, which must be a pointer to slice.
// A null p sets the slice to nil.
func (c *Codec) Decode(p capnp.Ptr, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return errors.Wrapf(ErrNotSlicePtr, "got %T", out)
	}
	dst := rv.Elem()
	pl, err := c.planFor(dst.Type())
	if err != nil {
		return err
	}
	return c.decode(p, dst, pl)
}

func (c *Codec) decode(p capnp.Ptr, dst reflect.Value, pl *plan) error {
	if !p.IsValid() {
		dst.SetZero()
		return nil
	}
	switch pl.enc {
	case encPrimitive:
		return decodePrimitive(p, dst, pl.kind)
	case encEnum:
		l, err := capnlist.EnumList[rawEnum]{}.ReadPtr(p, nil)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(dst.Type(), l.Len(), l.Len())
		for i := 0; i < l.Len(); i++ {
			e := out.Index(i)
			e.SetUint(uint64(l.Raw(i)))
			if c.Opts.StrictEnums && !e.Interface().(knower).Known() {
				return errors.Wrapf(ErrUnknownEnum, "element %d is %d", i, l.Raw(i))
			}
		}
		dst.Set(out)
		return nil
	case encText:
		l, err := capnlist.TextList{}.ReadPtr(p, nil)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(dst.Type(), l.Len(), l.Len())
		for i := 0; i < l.Len(); i++ {
			s, err := l.At(i)
			if err != nil {
				return err
			}
			out.Index(i).SetString(s)
		}
		dst.Set(out)
		return nil
	case encPointer:
		l, err := capnlist.ListList[ptrRef]{}.ReadPtr(p, nil)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(dst.Type(), l.Len(), l.Len())
		for i := 0; i < l.Len(); i++ {
			ref, err := l.At(i)
			if err != nil {
				return err
			}
			if err := c.decode(ref.p, out.Index(i), pl.elem); err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
		}
		dst.Set(out)
		return nil
	}
	return errors.Wrapf(ErrUnsupported, "%v", dst.Type())
}

func decodePrimitive(p capnp.Ptr, dst reflect.Value, k reflect.Kind) error {
	switch k {
	case reflect.Bool:
		return drain(p, dst, func(e reflect.Value, x bool) { e.SetBool(x) })
	case reflect.Int8:
		return drain(p, dst, func(e reflect.Value, x int8) { e.SetInt(int64(x)) })
	case reflect.Int16:
		return drain(p, dst, func(e reflect.Value, x int16) { e.SetInt(int64(x)) })
	case reflect.Int32:
		return drain(p, dst, func(e reflect.Value, x int32) { e.SetInt(int64(x)) })
	case reflect.Int64:
		return drain(p, dst, func(e reflect.Value, x int64) { e.SetInt(x) })
	case reflect.Uint8:
		return drain(p, dst, func(e reflect.Value, x uint8) { e.SetUint(uint64(x)) })
	case reflect.Uint16:
		return drain(p, dst, func(e reflect.Value, x uint16) { e.SetUint(uint64(x)) })
	case reflect.Uint32:
		return drain(p, dst, func(e reflect.Value, x uint32) { e.SetUint(uint64(x)) })
	case reflect.Uint64:
		return drain(p, dst, func(e reflect.Value, x uint64) { e.SetUint(x) })
	case reflect.Float32:
		return drain(p, dst, func(e reflect.Value, x float32) { e.SetFloat(float64(x)) })
	case reflect.Float64:
		return drain(p, dst, func(e reflect.Value, x float64) { e.SetFloat(x) })
	}
	return errors.Wrapf(ErrUnsupported, "element kind %v", k)
}

func drain[T capnlist.Primitive](p capnp.Ptr, dst reflect.Value, set func(reflect.Value, T)) error {
	l, err := capnlist.PrimitiveList[T]{}.ReadPtr(p, nil)
	if err != nil {
		return err
	}
	out := reflect.MakeSlice(dst.Type(), l.Len(), l.Len())
	for i := 0; i < l.Len(); i++ {
		set(out.Index(i), l.At(i))
	}
	dst.Set(out)
	return nil
}
