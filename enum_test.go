package capnlist

import (
	"testing"

	"github.com/stretchr/testify/require"
	capnp "zombiezen.com/go/capnproto2"
)

type hue uint16

const (
	red hue = iota
	green
	blue
)

func (h hue) Known() bool { return h <= blue }

func TestEnumUnknownDiscriminant(t *testing.T) {
	msg, root := newRoot(t)
	b, err := EnumListBuilder[hue]{}.InitPtr(root, 2)
	require.NoError(t, err)
	b.Set(0, green)
	b.Set(1, blue)

	r, err := EnumList[hue]{}.ReadPtr(rootPtr(t, msg), nil)
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())
	v, ok := r.At(0)
	require.True(t, ok)
	require.Equal(t, green, v)
	v, ok = r.At(1)
	require.True(t, ok)
	require.Equal(t, blue, v)

	capnp.UInt16List{List: b.l}.Set(0, 5)
	v, ok = r.At(0)
	require.False(t, ok)
	require.Equal(t, red, v)
	require.Equal(t, uint16(5), r.Raw(0))
}

func TestEnumInitZeroFilled(t *testing.T) {
	_, root := newRoot(t)
	b, err := EnumListBuilder[hue]{}.InitPtr(root, 3)
	require.NoError(t, err)
	for i := 0; i < b.Len(); i++ {
		v, ok := b.At(i)
		require.True(t, ok)
		require.Equal(t, red, v)
	}
}

func TestEnumSetRawPassThrough(t *testing.T) {
	msg, root := newRoot(t)
	b, err := EnumListBuilder[hue]{}.InitPtr(root, 1)
	require.NoError(t, err)
	b.SetRaw(0, 300)

	_, dst := newRoot(t)
	out, err := EnumListBuilder[hue]{}.InitPtr(dst, 1)
	require.NoError(t, err)
	in, err := EnumList[hue]{}.ReadPtr(rootPtr(t, msg), nil)
	require.NoError(t, err)
	out.SetRaw(0, in.Raw(0))
	require.Equal(t, uint16(300), out.Reader().Raw(0))
}

func TestEnumBuildPtrDefault(t *testing.T) {
	src, srcRoot := newRoot(t)
	d, err := EnumListBuilder[hue]{}.InitPtr(srcRoot, 2)
	require.NoError(t, err)
	d.Set(0, blue)
	d.Set(1, green)
	def, err := DefaultValue(rootPtr(t, src))
	require.NoError(t, err)

	msg, root := newRoot(t)
	b, err := EnumListBuilder[hue]{}.BuildPtr(root, def)
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())
	b.Set(1, red)

	// The default was copied, so the source is untouched.
	v, _ := d.At(1)
	require.Equal(t, green, v)
	r, err := EnumList[hue]{}.ReadPtr(rootPtr(t, msg), nil)
	require.NoError(t, err)
	v, _ = r.At(0)
	require.Equal(t, blue, v)
	v, _ = r.At(1)
	require.Equal(t, red, v)
}

func TestEnumOutOfRange(t *testing.T) {
	_, root := newRoot(t)
	b, err := EnumListBuilder[hue]{}.InitPtr(root, 2)
	require.NoError(t, err)
	r := b.Reader()
	require.ErrorIs(t, recoverErr(func() { r.At(2) }), ErrOutOfBounds)
	require.ErrorIs(t, recoverErr(func() { r.Raw(-1) }), ErrOutOfBounds)
	require.ErrorIs(t, recoverErr(func() { b.Set(2, blue) }), ErrOutOfBounds)
	require.ErrorIs(t, recoverErr(func() { b.SetRaw(7, 1) }), ErrOutOfBounds)
}

func TestEnumElementSizeMismatch(t *testing.T) {
	msg, root := newRoot(t)
	_, err := NewPrimitiveList[uint64](root, 2, 1)
	require.NoError(t, err)
	_, err = EnumList[hue]{}.ReadPtr(rootPtr(t, msg), nil)
	require.ErrorIs(t, err, ErrElementSize)
	_, err = EnumListBuilder[hue]{}.BuildPtr(root, nil)
	require.ErrorIs(t, err, ErrElementSize)

	// A uint16 list holds discriminants as they are.
	_, err = NewPrimitiveList[uint16](root, 2)
	require.NoError(t, err)
	r, err := EnumList[hue]{}.ReadPtr(rootPtr(t, msg), nil)
	require.NoError(t, err)
	v, ok := r.At(0)
	require.True(t, ok)
	require.Equal(t, blue, v)
}
