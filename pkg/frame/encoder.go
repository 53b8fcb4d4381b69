package frame

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/rawbytedev/capnlist/internal/common"
	capnp "zombiezen.com/go/capnproto2"
)

// Encoder builds message frames. The zero value writes uncompressed frames.
type Encoder struct {
	// Compress enables zstd compression of the payload.
	Compress bool
}

// Encode marshals msg and wraps it in a frame.
func (e Encoder) Encode(msg *capnp.Message) ([]byte, error) {
	payload, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	return e.EncodePayload(payload)
}

// EncodePayload wraps an already marshaled message in a frame.
func (e Encoder) EncodePayload(payload []byte) ([]byte, error) {
	var flags byte
	var rawLen []byte
	if e.Compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, errors.Wrap(err, "zstd writer")
		}
		rawLen = common.WriteVarUint(nil, uint64(len(payload)))
		payload = enc.EncodeAll(payload, nil)
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "zstd close")
		}
		flags |= FlagZstd
	}

	total := headerSize + len(rawLen) + len(payload) + crcSize
	if total > MaxFrameSize {
		return nil, errors.Wrapf(ErrLength, "frame of %d bytes", total)
	}
	out := make([]byte, headerSize, total)
	out[0], out[1], out[2] = Magic0, Magic1, TypeMessage
	binary.LittleEndian.PutUint32(out[3:], uint32(total))
	out[7] = flags
	out = append(out, rawLen...)
	out = append(out, payload...)

	// crc covers everything after the magic
	return binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(out[2:])), nil
}
