package blob

import (
	"fmt"
	"iter"
	"time"

	"github.com/arloliu/canz/compress"
	"github.com/arloliu/canz/encoding"
	"github.com/arloliu/canz/endian"
	"github.com/arloliu/canz/errs"
	"github.com/arloliu/canz/format"
	"github.com/arloliu/canz/internal/hash"
	"github.com/arloliu/canz/section"
)

// rawEngine is the byte order of format.TypeRaw blocks, matching the codec wire format.
var rawEngine = endian.GetBigEndianEngine()

// TraceDecoder decodes the blocks of a trace.
type TraceDecoder struct {
	header  section.TraceHeader
	entries []section.BlockIndexEntry
	payload []byte
}

// NewTraceDecoder parses and validates a trace.
//
// The header, checksum and block index are verified and the payload is decompressed
// eagerly; individual blocks are decoded on demand.
//
// Returns:
//   - *TraceDecoder: decoder over the trace
//   - error: header errors, errs.ErrChecksumMismatch, errs.ErrInvalidBlockIndex or decompression errors
func NewTraceDecoder(data []byte) (*TraceDecoder, error) {
	header, err := section.ParseTraceHeader(data)
	if err != nil {
		return nil, err
	}

	payloadOffset := header.PayloadOffset()
	end := uint64(payloadOffset) + uint64(header.PayloadLength)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: trace needs %d bytes, have %d", errs.ErrInvalidHeaderSize, end, len(data))
	}

	stored := data[payloadOffset:end]
	if header.Flag.HasChecksum() && hash.Checksum(stored) != header.Checksum {
		return nil, errs.ErrChecksumMismatch
	}

	codec, err := compress.CreateCodec(header.Flag.Compression(), "payload")
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress payload: %w", err)
	}

	engine := header.Flag.GetEndianEngine()
	entries, err := section.ParseBlockIndex(data[section.IndexOffset:payloadOffset], int(header.BlockCount), len(payload), engine)
	if err != nil {
		return nil, err
	}

	if header.Flag.Encoding() == format.TypeRaw {
		want := uint64(header.BlockSize) * rawSampleSize
		for i, entry := range entries {
			if uint64(entry.Length) != want {
				return nil, fmt.Errorf("%w: raw block %d has %d bytes, want %d", errs.ErrInvalidBlockIndex, i, entry.Length, want)
			}
		}
	}

	return &TraceDecoder{
		header:  header,
		entries: entries,
		payload: payload,
	}, nil
}

// Header returns the parsed trace header.
func (d *TraceDecoder) Header() section.TraceHeader {
	return d.header
}

// Len returns the number of real samples in the trace.
func (d *TraceDecoder) Len() int {
	return int(d.header.SampleCount)
}

// BlockSize returns the number of samples per block.
func (d *TraceDecoder) BlockSize() int {
	return int(d.header.BlockSize)
}

// BlockCount returns the number of blocks.
func (d *TraceDecoder) BlockCount() int {
	return len(d.entries)
}

// ChannelID returns the xxHash64 channel identifier, 0 for unnamed traces.
func (d *TraceDecoder) ChannelID() uint64 {
	return d.header.ChannelID
}

// MatchesChannel reports whether the trace was written for the named channel.
func (d *TraceDecoder) MatchesChannel(name string) bool {
	return d.header.ChannelID == hash.ID(name)
}

// SampleTime returns the timestamp of sample i, derived from the start time and sample rate.
// Without a recorded sample rate every sample reports the start time.
func (d *TraceDecoder) SampleTime(i int) time.Time {
	return d.header.StartTimeAsTime().Add(time.Duration(i) * d.header.SamplePeriod())
}

// blockData returns the encoded bytes of block i.
func (d *TraceDecoder) blockData(i int) ([]byte, section.BlockIndexEntry, error) {
	if i < 0 || i >= len(d.entries) {
		return nil, section.BlockIndexEntry{}, fmt.Errorf("%w: %d of %d", errs.ErrBlockOutOfRange, i, len(d.entries))
	}
	entry := d.entries[i]

	return d.payload[entry.Offset:entry.End()], entry, nil
}

// DecodeBlockInto decodes the full block i, including padding, into dst.
//
// Returns:
//   - []int32: BlockSize decoded samples, reusing dst when it has capacity
//   - int32: the block's continuity anchor (for raw blocks, the last sample)
//   - error: errs.ErrBlockOutOfRange, codec errors, or errs.ErrInvalidBlockIndex when
//     the decoded first sample disagrees with the index
func (d *TraceDecoder) DecodeBlockInto(dst []int32, i int) ([]int32, int32, error) {
	data, entry, err := d.blockData(i)
	if err != nil {
		return dst, 0, err
	}

	m := d.BlockSize()
	var out []int32
	var anchor int32

	switch d.header.Flag.Encoding() {
	case format.TypeRaw:
		if cap(dst) < m {
			dst = make([]int32, m)
		}
		out = dst[:m]
		for k := range out {
			out[k] = int32(rawEngine.Uint32(data[k*rawSampleSize:])) //nolint:gosec
		}
		anchor = out[m-1]
	default:
		out, anchor, err = encoding.DecompressInto(dst, data, m)
		if err != nil {
			return dst, 0, fmt.Errorf("block %d: %w", i, err)
		}
	}

	if out[0] != entry.First {
		return out, anchor, fmt.Errorf("%w: block %d starts with %d, index says %d", errs.ErrInvalidBlockIndex, i, out[0], entry.First)
	}

	return out, anchor, nil
}

// Block decodes block i and returns only its real samples.
func (d *TraceDecoder) Block(i int) ([]int32, error) {
	out, _, err := d.DecodeBlockInto(nil, i)
	if err != nil {
		return nil, err
	}

	return out[:d.realSamples(i)], nil
}

// realSamples returns the number of non-padding samples in block i.
func (d *TraceDecoder) realSamples(i int) int {
	m := d.BlockSize()
	if rest := d.Len() - i*m; rest < m {
		return rest
	}

	return m
}

// checkContinuity verifies that block i hands over to block i+1.
func (d *TraceDecoder) checkContinuity(i int, anchor int32) error {
	if d.header.Flag.Encoding() != format.TypeCanadian || i+1 >= len(d.entries) {
		return nil
	}
	if next := d.entries[i+1].First; anchor != next {
		return fmt.Errorf("%w: block %d anchor %d, block %d first sample %d", errs.ErrDiscontinuity, i, anchor, i+1, next)
	}

	return nil
}

// Samples decodes the whole trace, verifying continuity between blocks.
func (d *TraceDecoder) Samples() ([]int32, error) {
	out := make([]int32, 0, len(d.entries)*d.BlockSize())
	m := d.BlockSize()

	for i := range d.entries {
		block, anchor, err := d.DecodeBlockInto(out[len(out):len(out)+m], i)
		if err != nil {
			return nil, err
		}
		if err := d.checkContinuity(i, anchor); err != nil {
			return nil, err
		}
		out = out[:len(out)+len(block)]
	}

	return out[:d.Len()], nil
}

// Verify decodes every block and checks continuity without keeping the samples.
func (d *TraceDecoder) Verify() error {
	var block []int32
	for i := range d.entries {
		var anchor int32
		var err error
		block, anchor, err = d.DecodeBlockInto(block, i)
		if err != nil {
			return err
		}
		if err := d.checkContinuity(i, anchor); err != nil {
			return err
		}
	}

	return nil
}

// All returns an iterator over every real sample in order.
//
// Iteration stops early, yielding fewer than Len samples, when a block fails to decode
// or breaks continuity. Use Verify or Samples to obtain the error.
func (d *TraceDecoder) All() iter.Seq[int32] {
	return func(yield func(int32) bool) {
		var block []int32
		for i := range d.entries {
			var anchor int32
			var err error
			block, anchor, err = d.DecodeBlockInto(block, i)
			if err != nil || d.checkContinuity(i, anchor) != nil {
				return
			}
			for _, s := range block[:d.realSamples(i)] {
				if !yield(s) {
					return
				}
			}
		}
	}
}
