package section

import (
	"github.com/arloliu/canz/endian"
	"github.com/arloliu/canz/errs"
	"github.com/arloliu/canz/format"
)

// TraceFlag is the packed flag at the start of a trace header.
type TraceFlag struct {
	// Options is a packed field for various options.
	// Bit 0 is the checksum flag, 1 means the header checksum covers the payload.
	// Bit 1 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bit 2 is set when the final block is padded past SampleCount.
	// Bit 3 is reserved and must be 0.
	// Bits 4-15 hold the magic number 0xCA1.
	Options uint16

	// EncodingType is the block encoding shared by every block of the trace.
	EncodingType uint8
	// CompressionType is the second-stage compression applied to the payload.
	CompressionType uint8
}

var (
	validEncodings = map[uint8]struct{}{
		uint8(format.TypeRaw):      {},
		uint8(format.TypeCanadian): {},
	}

	validCompressions = map[uint8]struct{}{
		uint8(format.CompressionNone): {},
		uint8(format.CompressionZstd): {},
		uint8(format.CompressionS2):   {},
		uint8(format.CompressionLZ4):  {},
	}
)

// NewTraceFlag creates a flag for a little-endian, checksummed, uncompressed Canadian trace.
func NewTraceFlag() TraceFlag {
	return TraceFlag{
		Options:         MagicTraceV1Opt | ChecksumMask,
		EncodingType:    uint8(format.TypeCanadian),
		CompressionType: uint8(format.CompressionNone),
	}
}

// HasChecksum returns whether the payload checksum is populated.
func (f TraceFlag) HasChecksum() bool {
	return f.Options&ChecksumMask != 0
}

// SetChecksum enables or disables the payload checksum.
func (f *TraceFlag) SetChecksum(enabled bool) {
	if enabled {
		f.Options |= ChecksumMask
	} else {
		f.Options &^= ChecksumMask
	}
}

// IsPadded returns whether the final block holds padding samples.
func (f TraceFlag) IsPadded() bool {
	return f.Options&PaddedMask != 0
}

// SetPadded marks whether the final block holds padding samples.
func (f *TraceFlag) SetPadded(padded bool) {
	if padded {
		f.Options |= PaddedMask
	} else {
		f.Options &^= PaddedMask
	}
}

// IsBigEndian returns whether header fields and index entries are big-endian.
func (f TraceFlag) IsBigEndian() bool {
	return f.Options&EndiannessMask != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *TraceFlag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// WithBigEndian sets big-endian byte order.
func (f *TraceFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetEndianEngine returns the engine matching the endianness bit.
func (f TraceFlag) GetEndianEngine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Encoding returns the block encoding type.
func (f TraceFlag) Encoding() format.EncodingType {
	return format.EncodingType(f.EncodingType)
}

// SetEncoding sets the block encoding type.
func (f *TraceFlag) SetEncoding(enc format.EncodingType) {
	f.EncodingType = uint8(enc)
}

// Compression returns the payload compression type.
func (f TraceFlag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// SetCompression sets the payload compression type.
func (f *TraceFlag) SetCompression(compression format.CompressionType) {
	f.CompressionType = uint8(compression)
}

// GetMagicNumber returns the magic number bits of Options.
func (f TraceFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// Validate checks the magic number, reserved bit, encoding and compression.
func (f TraceFlag) Validate() error {
	if f.GetMagicNumber() != MagicTraceV1Opt {
		return errs.ErrInvalidHeaderFlags
	}
	if f.Options&ReservedBitsMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}
	if _, ok := validEncodings[f.EncodingType]; !ok {
		return errs.ErrInvalidEncodingType
	}
	if _, ok := validCompressions[f.CompressionType]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}
