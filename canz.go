// Package canz compresses 32-bit seismic waveform samples with a fixed-ratio
// differencing bit-packer.
//
// Each block of samples is reduced to second-order differences, grouped in fours, and
// every group is packed at the smallest of twelve widths (4 to 32 bits) that holds it.
// A 2-byte index entry per 20 samples records the widths. The format is lossless for
// all int32 input and decodes in a single pass.
//
// # Basic Usage
//
// Compressing a single block (length a multiple of 20):
//
//	data, err := canz.CompressBlock(samples, nextSample)
//	restored, anchor, err := canz.DecompressBlock(data, len(samples))
//
// Encoding a whole trace of any length:
//
//	data, err := canz.EncodeTrace(time.Now(), samples,
//	    blob.WithChannel("IU.ANMO.00.BHZ"),
//	    blob.WithSampleRate(40),
//	)
//	samples, err := canz.DecodeTrace(data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers. The encoding package holds the
// block codec, blob holds the trace container and archive stores traces in SQLite.
package canz

import (
	"time"

	"github.com/arloliu/canz/blob"
	"github.com/arloliu/canz/encoding"
	"github.com/arloliu/canz/internal/hash"
)

// CompressBlock encodes one block of samples. The anchor is the sample that follows the
// block in the original series; for the last block of a series pass samples[len-1].
//
// It is safe for concurrent use.
func CompressBlock(samples []int32, anchor int32) ([]byte, error) {
	return encoding.Compress(samples, anchor)
}

// DecompressBlock decodes one m-sample block and returns the samples and the
// continuity anchor, which equals the first sample of the following block.
func DecompressBlock(data []byte, m int) ([]int32, int32, error) {
	return encoding.Decompress(data, m)
}

// EncodeTrace encodes samples into a trace.
//
// Parameters:
//   - startTime: time of the first sample
//   - samples: at least one sample, any length
//   - opts: trace options, see blob.TraceEncoderOption
//
// Returns:
//   - []byte: the encoded trace
//   - error: option, encoding or compression errors
func EncodeTrace(startTime time.Time, samples []int32, opts ...blob.TraceEncoderOption) ([]byte, error) {
	encoder, err := blob.NewTraceEncoder(startTime, opts...)
	if err != nil {
		return nil, err
	}
	if err := encoder.WriteSlice(samples); err != nil {
		return nil, err
	}

	return encoder.Finish()
}

// NewTraceDecoder creates a decoder for an encoded trace.
func NewTraceDecoder(data []byte) (*blob.TraceDecoder, error) {
	return blob.NewTraceDecoder(data)
}

// DecodeTrace decodes every sample of a trace.
func DecodeTrace(data []byte) ([]int32, error) {
	decoder, err := blob.NewTraceDecoder(data)
	if err != nil {
		return nil, err
	}

	return decoder.Samples()
}

// ChannelID returns the 64-bit identifier recorded for a channel name.
func ChannelID(channel string) uint64 {
	return hash.ID(channel)
}
