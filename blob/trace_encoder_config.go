package blob

import (
	"fmt"
	"math"

	"github.com/arloliu/canz/compress"
	"github.com/arloliu/canz/encoding"
	"github.com/arloliu/canz/endian"
	"github.com/arloliu/canz/errs"
	"github.com/arloliu/canz/format"
	"github.com/arloliu/canz/internal/hash"
	"github.com/arloliu/canz/internal/options"
	"github.com/arloliu/canz/section"
)

const (
	// DefaultBlockSize is the number of samples per block when WithBlockSize is not given.
	DefaultBlockSize = 400
	// MaxTraceSamples is the largest number of samples a single trace can hold.
	MaxTraceSamples = math.MaxUint32
)

// TraceEncoderConfig holds the settings of a TraceEncoder.
type TraceEncoderConfig struct {
	header  *section.TraceHeader
	codec   compress.Codec
	engine  endian.EndianEngine
	channel string
}

func newTraceEncoderConfig(header *section.TraceHeader) *TraceEncoderConfig {
	return &TraceEncoderConfig{
		header: header,
		engine: header.Flag.GetEndianEngine(),
	}
}

// Header returns the header being built.
func (c *TraceEncoderConfig) Header() *section.TraceHeader {
	return c.header
}

// Channel returns the configured channel name.
func (c *TraceEncoderConfig) Channel() string {
	return c.channel
}

// BlockSize returns the configured number of samples per block.
func (c *TraceEncoderConfig) BlockSize() int {
	return int(c.header.BlockSize)
}

func (c *TraceEncoderConfig) setBlockSize(m int) error {
	if err := encoding.ValidateBlockSize(m); err != nil {
		return fmt.Errorf("%w: %d", errs.ErrInvalidBlockSize, m)
	}
	c.header.BlockSize = uint32(m) //nolint:gosec

	return nil
}

func (c *TraceEncoderConfig) setEncoding(enc format.EncodingType) error {
	switch enc {
	case format.TypeRaw, format.TypeCanadian:
		c.header.Flag.SetEncoding(enc)
		return nil
	default:
		return fmt.Errorf("%w: %v", errs.ErrInvalidEncodingType, enc)
	}
}

func (c *TraceEncoderConfig) setCompression(comp format.CompressionType) error {
	switch comp {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		c.header.Flag.SetCompression(comp)
		return nil
	default:
		return fmt.Errorf("invalid payload compression: %v", comp)
	}
}

func (c *TraceEncoderConfig) setCodec() error {
	codec, err := compress.CreateCodec(c.header.Flag.Compression(), "payload")
	if err != nil {
		return err
	}
	c.codec = codec

	return nil
}

// TraceEncoderOption configures a TraceEncoder.
type TraceEncoderOption = options.Option[*TraceEncoderConfig]

// WithBlockSize sets the number of samples per block. It must be a positive multiple of 20.
func WithBlockSize(m int) TraceEncoderOption {
	return options.New(func(c *TraceEncoderConfig) error {
		return c.setBlockSize(m)
	})
}

// WithEncoding selects the block encoding. format.TypeRaw stores plain big-endian
// int32 samples and exists for comparison and for incompressible channels.
func WithEncoding(enc format.EncodingType) TraceEncoderOption {
	return options.New(func(c *TraceEncoderConfig) error {
		return c.setEncoding(enc)
	})
}

// WithCompression selects the second-stage payload compression.
func WithCompression(comp format.CompressionType) TraceEncoderOption {
	return options.New(func(c *TraceEncoderConfig) error {
		return c.setCompression(comp)
	})
}

// WithLittleEndian writes header fields and index entries little-endian (the default).
func WithLittleEndian() TraceEncoderOption {
	return options.NoError(func(c *TraceEncoderConfig) {
		c.header.Flag.WithLittleEndian()
		c.engine = c.header.Flag.GetEndianEngine()
	})
}

// WithBigEndian writes header fields and index entries big-endian.
func WithBigEndian() TraceEncoderOption {
	return options.NoError(func(c *TraceEncoderConfig) {
		c.header.Flag.WithBigEndian()
		c.engine = c.header.Flag.GetEndianEngine()
	})
}

// WithChannel records the xxHash64 of a channel name such as "IU.ANMO.00.BHZ".
func WithChannel(name string) TraceEncoderOption {
	return options.New(func(c *TraceEncoderConfig) error {
		if name == "" {
			return errs.ErrInvalidChannel
		}
		c.channel = name
		c.header.ChannelID = hash.ID(name)

		return nil
	})
}

// WithSampleRate records the sampling rate in hertz. Zero means unknown.
func WithSampleRate(hz float64) TraceEncoderOption {
	return options.New(func(c *TraceEncoderConfig) error {
		mhz := math.Round(hz * 1000)
		if hz < 0 || mhz > math.MaxUint32 || math.IsNaN(hz) {
			return fmt.Errorf("invalid sample rate: %v", hz)
		}
		c.header.SampleRate = uint32(mhz)

		return nil
	})
}

// WithChecksum enables or disables the payload checksum. It is enabled by default.
func WithChecksum(enabled bool) TraceEncoderOption {
	return options.NoError(func(c *TraceEncoderConfig) {
		c.header.Flag.SetChecksum(enabled)
	})
}
