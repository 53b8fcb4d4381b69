package frame

import (
	"encoding/binary"
	"hash/crc32"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/rawbytedev/capnlist/internal/common"
	capnp "zombiezen.com/go/capnproto2"
)

// Decoder parses message frames. The zero value is ready to use and may be
// shared between goroutines.
type Decoder struct {
	once sync.Once
	zd   *zstd.Decoder
	err  error
}

// Decode validates a frame and unmarshals its message. For uncompressed
// frames the message aliases data.
func (d *Decoder) Decode(data []byte) (*capnp.Message, error) {
	payload, err := d.DecodePayload(data)
	if err != nil {
		return nil, err
	}
	msg, err := capnp.Unmarshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal message")
	}
	return msg, nil
}

// DecodePayload validates a frame and returns the marshaled message it
// carries, decompressing it if needed.
func (d *Decoder) DecodePayload(data []byte) ([]byte, error) {
	if len(data) < headerSize+crcSize {
		return nil, errors.Wrapf(ErrShortFrame, "%d bytes", len(data))
	}
	if data[0] != Magic0 || data[1] != Magic1 {
		return nil, ErrBadMagic
	}
	if data[2] != TypeMessage {
		return nil, errors.Wrapf(ErrFrameType, "type 0x%02x", data[2])
	}
	if n := binary.LittleEndian.Uint32(data[3:]); int64(n) != int64(len(data)) {
		return nil, errors.Wrapf(ErrLength, "header says %d, have %d", n, len(data))
	}
	end := len(data) - crcSize
	if crc32.ChecksumIEEE(data[2:end]) != binary.LittleEndian.Uint32(data[end:]) {
		return nil, ErrChecksum
	}

	flags := data[7]
	payload := data[headerSize:end]
	if flags&FlagZstd == 0 {
		return payload, nil
	}
	rawLen, n := common.ReadVarUint(payload)
	if n == 0 || rawLen > MaxFrameSize {
		return nil, errors.Wrap(ErrLength, "bad uncompressed length")
	}
	src := payload[n:]
	if limit := maxExpansion(len(src)); rawLen > limit {
		return nil, errors.Wrapf(ErrLength, "%d compressed bytes cannot hold %d", len(src), rawLen)
	}
	var h zstd.Header
	if err := h.Decode(src); err != nil {
		return nil, errors.Wrap(err, "zstd header")
	}
	if h.HasFCS && h.FrameContentSize != rawLen {
		return nil, errors.Wrapf(ErrLength, "zstd frame holds %d bytes, want %d", h.FrameContentSize, rawLen)
	}
	zd, err := d.decompressor()
	if err != nil {
		return nil, err
	}
	out, err := zd.DecodeAll(src, make([]byte, 0, rawLen))
	if err != nil {
		return nil, errors.Wrap(err, "zstd decode")
	}
	if uint64(len(out)) != rawLen {
		return nil, errors.Wrapf(ErrLength, "decompressed %d bytes, want %d", len(out), rawLen)
	}
	return out, nil
}

func (d *Decoder) decompressor() (*zstd.Decoder, error) {
	d.once.Do(func() {
		d.zd, d.err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxFrameSize))
		d.err = errors.Wrap(d.err, "zstd reader")
	})
	return d.zd, d.err
}

// maxExpansion bounds what n bytes of zstd can decompress to: every
// non-empty block costs at least four bytes and yields at most 128 KiB.
func maxExpansion(n int) uint64 {
	const minBlock, maxBlock = 4, 128 << 10
	return uint64(n/minBlock+1) * maxBlock
}
