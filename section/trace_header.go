package section

import (
	"fmt"
	"time"

	"github.com/arloliu/canz/encoding"
	"github.com/arloliu/canz/errs"
)

// TraceHeader is the fixed-size header at the start of a trace.
type TraceHeader struct {
	// Flag is a packed field for options, magic number, encoding and compression.
	Flag TraceFlag // byte offset 0-3
	// StartTime is the time of the first sample in unix microseconds.
	StartTime int64 // byte offset 4-11
	// SampleCount is the number of real samples; the final block may hold padding beyond it.
	SampleCount uint32 // byte offset 12-15
	// BlockSize is the number of samples in every block.
	BlockSize uint32 // byte offset 16-19
	// BlockCount is the number of blocks and index entries.
	BlockCount uint32 // byte offset 20-23
	// SampleRate is the sampling rate in millihertz, 0 when unknown.
	SampleRate uint32 // byte offset 24-27
	// PayloadLength is the stored payload length after second-stage compression.
	PayloadLength uint32 // byte offset 28-31
	// ChannelID is the xxHash64 of the channel name, 0 when unnamed.
	ChannelID uint64 // byte offset 32-39
	// Checksum is the xxHash64 of the stored payload when Flag.HasChecksum is set.
	Checksum uint64 // byte offset 40-47
}

// NewTraceHeader creates a header with default flags starting at startTime.
// Counts, lengths and the checksum are filled in when the encoder finishes.
func NewTraceHeader(startTime time.Time, blockSize int) *TraceHeader {
	return &TraceHeader{
		Flag:      NewTraceFlag(),
		StartTime: startTime.UnixMicro(),
		BlockSize: uint32(blockSize), //nolint:gosec
	}
}

// PayloadOffset returns the byte offset where the payload starts.
func (h *TraceHeader) PayloadOffset() int {
	return IndexOffset + int(h.BlockCount)*BlockIndexEntrySize
}

// StartTimeAsTime returns the start time as a time.Time.
func (h *TraceHeader) StartTimeAsTime() time.Time {
	return time.UnixMicro(h.StartTime)
}

// SamplePeriod returns the interval between samples, or 0 when the sample rate is unknown.
func (h *TraceHeader) SamplePeriod() time.Duration {
	if h.SampleRate == 0 {
		return 0
	}

	return time.Duration(float64(time.Second) * 1000 / float64(h.SampleRate))
}

// Parse parses the header from exactly HeaderSize bytes.
func (h *TraceHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Options is always little-endian so the endianness bit can be read first.
	h.Flag.Options = uint16(data[0]) | uint16(data[1])<<8
	h.Flag.EncodingType = data[2]
	h.Flag.CompressionType = data[3]

	engine := h.Flag.GetEndianEngine()

	h.StartTime = int64(engine.Uint64(data[4:12])) //nolint:gosec
	h.SampleCount = engine.Uint32(data[12:16])
	h.BlockSize = engine.Uint32(data[16:20])
	h.BlockCount = engine.Uint32(data[20:24])
	h.SampleRate = engine.Uint32(data[24:28])
	h.PayloadLength = engine.Uint32(data[28:32])
	h.ChannelID = engine.Uint64(data[32:40])
	h.Checksum = engine.Uint64(data[40:48])

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	return h.validateCounts()
}

func (h *TraceHeader) validateCounts() error {
	if err := encoding.ValidateBlockSize(int(h.BlockSize)); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidBlockSize, err)
	}

	capacity := uint64(h.BlockCount) * uint64(h.BlockSize)
	if uint64(h.SampleCount) > capacity || capacity-uint64(h.SampleCount) >= uint64(h.BlockSize) {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// Bytes serializes the header into HeaderSize bytes.
func (h *TraceHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.Flag.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.EncodingType
	b[3] = h.Flag.CompressionType
	engine.PutUint64(b[4:12], uint64(h.StartTime)) //nolint:gosec
	engine.PutUint32(b[12:16], h.SampleCount)
	engine.PutUint32(b[16:20], h.BlockSize)
	engine.PutUint32(b[20:24], h.BlockCount)
	engine.PutUint32(b[24:28], h.SampleRate)
	engine.PutUint32(b[28:32], h.PayloadLength)
	engine.PutUint64(b[32:40], h.ChannelID)
	engine.PutUint64(b[40:48], h.Checksum)

	return b
}

// ParseTraceHeader parses a TraceHeader from the start of data.
func ParseTraceHeader(data []byte) (TraceHeader, error) {
	if len(data) < HeaderSize {
		return TraceHeader{}, errs.ErrInvalidHeaderSize
	}

	h := TraceHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return TraceHeader{}, err
	}

	return h, nil
}
