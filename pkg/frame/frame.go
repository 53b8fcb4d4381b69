// Package frame wraps marshaled Cap'n Proto messages in a checksummed
// envelope for storage and transport.
//
// Layout (little endian):
//
//	magic   [2]byte  0xCA 0x9E
//	type    byte     TypeMessage
//	length  uint32   whole frame, CRC included
//	flags   byte
//	rawLen  varint   uncompressed payload size, only with FlagZstd
//	payload []byte
//	crc     uint32   CRC32-IEEE over type through payload
package frame

import (
	"github.com/pkg/errors"
)

const (
	Magic0 byte = 0xCA
	Magic1 byte = 0x9E

	// TypeMessage marks a frame carrying one message.
	TypeMessage byte = 0x01

	// FlagZstd marks a zstd-compressed payload.
	FlagZstd byte = 1 << 0

	headerSize = 2 + 1 + 4 + 1
	crcSize    = 4

	// MaxFrameSize bounds the declared length and the decompressed payload.
	MaxFrameSize = 1 << 30
)

var (
	ErrShortFrame = errors.New("frame: short frame")
	ErrBadMagic   = errors.New("frame: bad magic")
	ErrFrameType  = errors.New("frame: unexpected frame type")
	ErrLength     = errors.New("frame: length mismatch")
	ErrChecksum   = errors.New("frame: crc mismatch")
)
