package sample

import (
	"testing"

	"github.com/rawbytedev/capnlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	capnp "zombiezen.com/go/capnproto2"
)

func newDrawing(t *testing.T) (*capnp.Message, DrawingBuilder) {
	t.Helper()
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	require.NoError(t, err)
	d, err := NewRootDrawing(seg)
	require.NoError(t, err)
	return msg, d
}

func TestColor(t *testing.T) {
	for _, c := range []Color{Red, Green, Blue} {
		require.True(t, c.Known())
		got, err := ColorFromString(c.String())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
	require.False(t, Color(3).Known())
	require.Equal(t, "Color(5)", Color(5).String())
	_, err := ColorFromString("mauve")
	require.ErrorIs(t, err, ErrUnknownColor)
}

func TestDrawingRoundTrip(t *testing.T) {
	msg, d := newDrawing(t)

	ints, err := d.NewInts(3)
	require.NoError(t, err)
	for i, v := range []int32{-1, 0, 1 << 30} {
		ints.Set(i, v)
	}
	flags, err := d.NewFlags(9)
	require.NoError(t, err)
	flags.Set(8, true)
	colors, err := d.NewColors(2)
	require.NoError(t, err)
	colors.Set(0, Blue)
	colors.SetRaw(1, 40)
	points, err := d.NewPoints(2)
	require.NoError(t, err)
	points.At(1).SetX(-3)
	points.At(1).SetY(4)
	rows, err := d.NewRows(2)
	require.NoError(t, err)
	_, err = capnlist.NewPrimitiveList[uint8](rows.Slot(1), 7, 8, 9)
	require.NoError(t, err)
	labels, err := d.NewLabels(1)
	require.NoError(t, err)
	require.NoError(t, labels.Set(0, "origin"))

	data, err := msg.Marshal()
	require.NoError(t, err)
	decoded, err := capnp.Unmarshal(data)
	require.NoError(t, err)
	r, err := ReadRootDrawing(decoded)
	require.NoError(t, err)

	gotInts, err := r.Ints()
	require.NoError(t, err)
	assert.Equal(t, []int32{-1, 0, 1 << 30}, gotInts.Slice())

	gotFlags, err := r.Flags()
	require.NoError(t, err)
	assert.Equal(t, 9, gotFlags.Len())
	assert.True(t, gotFlags.At(8))
	assert.False(t, gotFlags.At(7))

	gotColors, err := r.Colors()
	require.NoError(t, err)
	c, ok := gotColors.At(0)
	assert.True(t, ok)
	assert.Equal(t, Blue, c)
	_, ok = gotColors.At(1)
	assert.False(t, ok)

	gotPoints, err := r.Points()
	require.NoError(t, err)
	assert.Equal(t, int32(0), gotPoints.At(0).X())
	assert.Equal(t, int32(-3), gotPoints.At(1).X())
	assert.Equal(t, int32(4), gotPoints.At(1).Y())

	gotRows, err := r.Rows()
	require.NoError(t, err)
	row0, err := gotRows.At(0)
	require.NoError(t, err)
	assert.Zero(t, row0.Len())
	row1, err := gotRows.At(1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{7, 8, 9}, row1.Slice())

	gotLabels, err := r.Labels()
	require.NoError(t, err)
	s, err := gotLabels.At(0)
	require.NoError(t, err)
	assert.Equal(t, "origin", s)
}

func TestDrawingUnsetFields(t *testing.T) {
	_, d := newDrawing(t)
	r := d.Reader()
	ints, err := r.Ints()
	require.NoError(t, err)
	require.False(t, ints.IsValid())
	require.Zero(t, ints.Len())
	rows, err := r.Rows()
	require.NoError(t, err)
	require.Zero(t, rows.Len())

	b, err := d.Labels()
	require.NoError(t, err)
	require.Zero(t, b.Len())
}

func TestDrawingReopen(t *testing.T) {
	_, d := newDrawing(t)
	_, err := d.NewColors(1)
	require.NoError(t, err)
	colors, err := d.Colors()
	require.NoError(t, err)
	colors.Set(0, Green)

	got, err := d.Reader().Colors()
	require.NoError(t, err)
	c, ok := got.At(0)
	require.True(t, ok)
	require.Equal(t, Green, c)
}

func TestPointPointerList(t *testing.T) {
	msg, _, err := capnp.NewMessage(capnp.SingleSegment(nil))
	require.NoError(t, err)
	root, err := capnlist.Root(msg)
	require.NoError(t, err)

	b, err := capnlist.ListListBuilder[PointBuilder]{}.InitPtr(root, 3)
	require.NoError(t, err)
	p, err := b.Init(0, 0)
	require.NoError(t, err)
	p.SetX(11)
	// Re-opening a null struct element allocates it.
	p, err = b.At(2)
	require.NoError(t, err)
	p.SetY(22)

	rootP, err := msg.RootPtr()
	require.NoError(t, err)
	r, err := capnlist.ListList[Point]{}.ReadPtr(rootP, nil)
	require.NoError(t, err)
	got, err := r.At(0)
	require.NoError(t, err)
	assert.Equal(t, int32(11), got.X())
	got, err = r.At(1)
	require.NoError(t, err)
	assert.False(t, got.IsValid())
	assert.Equal(t, int32(0), got.Y())
	got, err = r.At(2)
	require.NoError(t, err)
	assert.Equal(t, int32(22), got.Y())
}
