// Package errs defines the sentinel errors returned by canz packages.
//
// Callers should compare with errors.Is, since most errors are wrapped with
// additional context before they reach the caller.
package errs

import "errors"

// Block codec errors.
var (
	// ErrNotMultipleOf20 is returned when a block's sample count is zero or not a multiple of 20.
	ErrNotMultipleOf20 = errors.New("sample count must be a positive multiple of 20")
	// ErrCorrupted is returned when a bit width outside the width catalogue is met while packing or unpacking.
	ErrCorrupted = errors.New("corrupted block: invalid bit width")
	// ErrBufferExceeded is returned when decompression runs past the end of the input buffer.
	ErrBufferExceeded = errors.New("compressed buffer exhausted before block was complete")
	// ErrAllocationFailure is returned when scratch storage for a block cannot be obtained.
	ErrAllocationFailure = errors.New("scratch storage unavailable")
)

// Trace container errors.
var (
	ErrInvalidHeaderSize   = errors.New("invalid header size")
	ErrInvalidHeaderFlags  = errors.New("invalid header flags")
	ErrInvalidEncodingType = errors.New("invalid encoding type")
	ErrInvalidBlockSize    = errors.New("block size must be a positive multiple of 20")
	ErrInvalidBlockIndex   = errors.New("invalid block index entry")
	ErrChecksumMismatch    = errors.New("payload checksum mismatch")
	ErrDiscontinuity       = errors.New("block continuity anchor does not match next block")
	ErrNoSamples           = errors.New("no samples to encode")
	ErrTooManySamples      = errors.New("too many samples for a single trace")
	ErrEncoderFinished     = errors.New("encoder already finished")
	ErrBlockOutOfRange     = errors.New("block index out of range")
)

// Archive errors.
var (
	ErrTraceNotFound  = errors.New("trace not found")
	ErrInvalidChannel = errors.New("invalid channel name")
	ErrTraceExists    = errors.New("trace already exists")
)
