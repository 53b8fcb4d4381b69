package frame

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/rawbytedev/capnlist"
	"github.com/rawbytedev/capnlist/internal/common"
	"github.com/stretchr/testify/require"
	capnp "zombiezen.com/go/capnproto2"
)

func testMessage(t *testing.T, n int) *capnp.Message {
	t.Helper()
	msg, _, err := capnp.NewMessage(capnp.SingleSegment(nil))
	require.NoError(t, err)
	root, err := capnlist.Root(msg)
	require.NoError(t, err)
	vs := make([]uint32, n)
	for i := range vs {
		vs[i] = uint32(i % 7)
	}
	_, err = capnlist.NewPrimitiveList(root, vs...)
	require.NoError(t, err)
	return msg
}

func readBack(t *testing.T, msg *capnp.Message) []uint32 {
	t.Helper()
	p, err := msg.RootPtr()
	require.NoError(t, err)
	l, err := capnlist.PrimitiveList[uint32]{}.ReadPtr(p, nil)
	require.NoError(t, err)
	return l.Slice()
}

func TestRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		msg := testMessage(t, 1000)
		data, err := Encoder{Compress: compress}.Encode(msg)
		require.NoError(t, err)
		require.Equal(t, compress, data[7]&FlagZstd != 0)

		var d Decoder
		got, err := d.Decode(data)
		require.NoError(t, err)
		require.Equal(t, readBack(t, msg), readBack(t, got))
	}
}

func TestCompressionShrinks(t *testing.T) {
	msg := testMessage(t, 4096)
	plain, err := Encoder{}.Encode(msg)
	require.NoError(t, err)
	packed, err := Encoder{Compress: true}.Encode(msg)
	require.NoError(t, err)
	require.Less(t, len(packed), len(plain))
}

func TestDecodeErrors(t *testing.T) {
	data, err := Encoder{}.EncodePayload(bytes.Repeat([]byte{0}, 16))
	require.NoError(t, err)
	var d Decoder

	_, err = d.DecodePayload(data[:5])
	require.ErrorIs(t, err, ErrShortFrame)

	bad := bytes.Clone(data)
	bad[0] = 0
	_, err = d.DecodePayload(bad)
	require.ErrorIs(t, err, ErrBadMagic)

	bad = bytes.Clone(data)
	bad[2] = 0x7F
	_, err = d.DecodePayload(bad)
	require.ErrorIs(t, err, ErrFrameType)

	_, err = d.DecodePayload(append(bytes.Clone(data), 0))
	require.ErrorIs(t, err, ErrLength)

	bad = bytes.Clone(data)
	bad[headerSize+3] ^= 0xFF
	_, err = d.DecodePayload(bad)
	require.ErrorIs(t, err, ErrChecksum)

	got, err := d.DecodePayload(data)
	require.NoError(t, err)
	require.Len(t, got, 16)
}

func TestDecodeBadMessage(t *testing.T) {
	data, err := Encoder{}.EncodePayload([]byte{1, 2, 3})
	require.NoError(t, err)
	var d Decoder
	_, err = d.Decode(data)
	require.Error(t, err)
}

// seal wraps body in a frame header and checksum without validating it.
func seal(flags byte, body []byte) []byte {
	total := headerSize + len(body) + crcSize
	out := make([]byte, headerSize, total)
	out[0], out[1], out[2] = Magic0, Magic1, TypeMessage
	binary.LittleEndian.PutUint32(out[3:], uint32(total))
	out[7] = flags
	out = append(out, body...)
	return binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(out[2:]))
}

func TestDecodeOversizedClaim(t *testing.T) {
	packed, err := Encoder{Compress: true}.EncodePayload([]byte("tiny"))
	require.NoError(t, err)
	_, n := common.ReadVarUint(packed[headerSize:])
	zs := packed[headerSize+n : len(packed)-crcSize]

	var d Decoder
	huge := seal(FlagZstd, append(common.WriteVarUint(nil, MaxFrameSize), zs...))
	require.Less(t, len(huge), 64)
	_, err = d.DecodePayload(huge)
	require.ErrorIs(t, err, ErrLength)

	// Within the expansion bound but disagreeing with the zstd header.
	off := seal(FlagZstd, append(common.WriteVarUint(nil, 5), zs...))
	_, err = d.DecodePayload(off)
	require.ErrorIs(t, err, ErrLength)

	got, err := d.DecodePayload(packed)
	require.NoError(t, err)
	require.Equal(t, []byte("tiny"), got)
}

func TestMaxExpansion(t *testing.T) {
	require.Equal(t, uint64(128<<10), maxExpansion(0))
	require.Equal(t, uint64(9*128<<10), maxExpansion(33))
}
