package blob

import (
	"fmt"
	"time"

	"github.com/arloliu/canz/encoding"
	"github.com/arloliu/canz/errs"
	"github.com/arloliu/canz/format"
	"github.com/arloliu/canz/internal/hash"
	"github.com/arloliu/canz/internal/options"
	"github.com/arloliu/canz/internal/pool"
	"github.com/arloliu/canz/section"
)

// rawSampleSize is the size of one sample in a format.TypeRaw block.
const rawSampleSize = 4

// TraceEncoder accumulates samples and encodes them into a trace.
//
// Samples are buffered until Finish, because the anchor of every block is the first
// sample of the block that follows it.
type TraceEncoder struct {
	*TraceEncoderConfig
	samples  []int32
	encoder  *encoding.Encoder
	finished bool
}

// NewTraceEncoder creates a trace encoder whose first sample is taken at startTime.
//
// Parameters:
//   - startTime: time of the first sample
//   - opts: options such as WithBlockSize, WithCompression or WithChannel
//
// Returns:
//   - *TraceEncoder: encoder ready to accept samples
//   - error: the first option error
func NewTraceEncoder(startTime time.Time, opts ...TraceEncoderOption) (*TraceEncoder, error) {
	header := section.NewTraceHeader(startTime, DefaultBlockSize)
	config := newTraceEncoderConfig(header)

	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}
	if err := config.setCodec(); err != nil {
		return nil, err
	}

	return &TraceEncoder{
		TraceEncoderConfig: config,
		encoder:            encoding.NewEncoder(encoding.NewScratch(config.BlockSize())),
	}, nil
}

// Len returns the number of samples written so far.
func (e *TraceEncoder) Len() int {
	return len(e.samples)
}

// Write appends a single sample.
func (e *TraceEncoder) Write(sample int32) error {
	if e.finished {
		return errs.ErrEncoderFinished
	}
	if uint64(len(e.samples))+1 > MaxTraceSamples {
		return errs.ErrTooManySamples
	}
	e.samples = append(e.samples, sample)

	return nil
}

// WriteSlice appends samples in order.
func (e *TraceEncoder) WriteSlice(samples []int32) error {
	if e.finished {
		return errs.ErrEncoderFinished
	}
	if uint64(len(e.samples))+uint64(len(samples)) > MaxTraceSamples {
		return errs.ErrTooManySamples
	}
	e.samples = append(e.samples, samples...)

	return nil
}

// Finish encodes every buffered sample and returns the complete trace.
//
// The encoder cannot be reused afterwards.
//
// Returns:
//   - []byte: header, block index and payload
//   - error: errs.ErrNoSamples, errs.ErrEncoderFinished, codec or compression errors
func (e *TraceEncoder) Finish() ([]byte, error) {
	if e.finished {
		return nil, errs.ErrEncoderFinished
	}
	e.finished = true
	defer func() { e.samples = nil }()

	n := len(e.samples)
	if n == 0 {
		return nil, errs.ErrNoSamples
	}

	m := e.BlockSize()
	blockCount := (n + m - 1) / m
	padded := blockCount*m != n

	header := *e.header
	header.SampleCount = uint32(n)         //nolint:gosec
	header.BlockCount = uint32(blockCount) //nolint:gosec
	header.Flag.SetPadded(padded)

	buf := pool.GetTraceBuffer()
	defer pool.PutTraceBuffer(buf)

	entries := make([]section.BlockIndexEntry, blockCount)
	block, cleanup := pool.GetInt32Slice(m)
	defer cleanup()

	for b := range entries {
		start := b * m
		end := min(start+m, n)
		copy(block, e.samples[start:end])
		// Pad the final block by repeating the last real sample.
		for i := end - start; i < m; i++ {
			block[i] = e.samples[n-1]
		}

		anchor := block[m-1]
		if end < n {
			anchor = e.samples[end]
		}

		offset := buf.Len()
		if err := e.appendBlock(buf, block, anchor); err != nil {
			return nil, fmt.Errorf("block %d: %w", b, err)
		}

		entries[b] = section.BlockIndexEntry{
			Offset: uint32(offset),             //nolint:gosec
			Length: uint32(buf.Len() - offset), //nolint:gosec
			First:  block[0],
		}
	}

	payload, err := e.codec.Compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}

	header.PayloadLength = uint32(len(payload)) //nolint:gosec
	if header.Flag.HasChecksum() {
		header.Checksum = hash.Checksum(payload)
	}

	indexSize := blockCount * section.BlockIndexEntrySize
	trace := make([]byte, section.HeaderSize+indexSize+len(payload))
	offset := copy(trace, header.Bytes())
	for _, entry := range entries {
		offset = entry.WriteToSlice(trace, offset, e.engine)
	}
	copy(trace[offset:], payload)

	return trace, nil
}

func (e *TraceEncoder) appendBlock(buf *pool.ByteBuffer, block []int32, anchor int32) error {
	switch e.header.Flag.Encoding() {
	case format.TypeRaw:
		buf.Grow(len(block) * rawSampleSize)
		for _, s := range block {
			buf.B = rawEngine.AppendUint32(buf.B, uint32(s)) //nolint:gosec
		}

		return nil
	case format.TypeCanadian:
		buf.Grow(encoding.MaxCompressedSize(len(block)))
		out, err := e.encoder.AppendCompress(buf.B, block, anchor)
		if err != nil {
			return err
		}
		buf.B = out

		return nil
	default:
		return errs.ErrInvalidEncodingType
	}
}
