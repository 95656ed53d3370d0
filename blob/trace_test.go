package blob

import (
	"encoding/binary"
	"math/rand"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/canz/encoding"
	"github.com/arloliu/canz/errs"
	"github.com/arloliu/canz/format"
	"github.com/arloliu/canz/internal/hash"
	"github.com/arloliu/canz/section"
)

// ==============================================================================
// Helper Functions
// ==============================================================================

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// waveform produces a noisy sinusoid resembling a broadband seismometer channel.
func waveform(n int, seed int64) []int32 {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec
	out := make([]int32, n)
	var v int32
	for i := range out {
		v += int32(rng.Intn(201) - 100)
		if i%97 == 0 {
			v += int32(rng.Intn(1<<20) - 1<<19)
		}
		out[i] = v
	}

	return out
}

func encodeTrace(t *testing.T, samples []int32, opts ...TraceEncoderOption) []byte {
	t.Helper()

	encoder, err := NewTraceEncoder(testStart, opts...)
	require.NoError(t, err)
	require.NoError(t, encoder.WriteSlice(samples))

	data, err := encoder.Finish()
	require.NoError(t, err)

	return data
}

func decodeTrace(t *testing.T, data []byte) []int32 {
	t.Helper()

	decoder, err := NewTraceDecoder(data)
	require.NoError(t, err)

	samples, err := decoder.Samples()
	require.NoError(t, err)

	return samples
}

// ==============================================================================
// Encoder Tests
// ==============================================================================

func TestNewTraceEncoder_Defaults(t *testing.T) {
	encoder, err := NewTraceEncoder(testStart)
	require.NoError(t, err)

	require.Equal(t, DefaultBlockSize, encoder.BlockSize())
	require.Equal(t, format.TypeCanadian, encoder.Header().Flag.Encoding())
	require.Equal(t, format.CompressionNone, encoder.Header().Flag.Compression())
	require.True(t, encoder.Header().Flag.HasChecksum())
	require.False(t, encoder.Header().Flag.IsBigEndian())
	require.Zero(t, encoder.Len())
}

func TestNewTraceEncoder_InvalidOptions(t *testing.T) {
	_, err := NewTraceEncoder(testStart, WithBlockSize(30))
	require.ErrorIs(t, err, errs.ErrInvalidBlockSize)

	_, err = NewTraceEncoder(testStart, WithBlockSize(0))
	require.ErrorIs(t, err, errs.ErrInvalidBlockSize)

	_, err = NewTraceEncoder(testStart, WithChannel(""))
	require.ErrorIs(t, err, errs.ErrInvalidChannel)

	_, err = NewTraceEncoder(testStart, WithEncoding(format.EncodingType(99)))
	require.ErrorIs(t, err, errs.ErrInvalidEncodingType)

	_, err = NewTraceEncoder(testStart, WithCompression(format.CompressionType(99)))
	require.Error(t, err)

	_, err = NewTraceEncoder(testStart, WithSampleRate(-1))
	require.Error(t, err)
}

func TestTraceEncoder_Lifecycle(t *testing.T) {
	encoder, err := NewTraceEncoder(testStart)
	require.NoError(t, err)

	_, err = encoder.Finish()
	require.ErrorIs(t, err, errs.ErrNoSamples)

	_, err = encoder.Finish()
	require.ErrorIs(t, err, errs.ErrEncoderFinished)
	require.ErrorIs(t, encoder.Write(1), errs.ErrEncoderFinished)
	require.ErrorIs(t, encoder.WriteSlice([]int32{1}), errs.ErrEncoderFinished)
}

func TestTraceEncoder_Header(t *testing.T) {
	samples := waveform(450, 1)
	data := encodeTrace(t, samples,
		WithBlockSize(200),
		WithChannel("IU.ANMO.00.BHZ"),
		WithSampleRate(40),
	)

	decoder, err := NewTraceDecoder(data)
	require.NoError(t, err)

	header := decoder.Header()
	require.Equal(t, uint32(450), header.SampleCount)
	require.Equal(t, uint32(200), header.BlockSize)
	require.Equal(t, uint32(3), header.BlockCount)
	require.Equal(t, uint32(40000), header.SampleRate)
	require.True(t, header.Flag.IsPadded())
	require.Equal(t, hash.ID("IU.ANMO.00.BHZ"), decoder.ChannelID())
	require.True(t, decoder.MatchesChannel("IU.ANMO.00.BHZ"))
	require.False(t, decoder.MatchesChannel("IU.ANMO.00.BHN"))

	require.True(t, testStart.Equal(decoder.SampleTime(0)))
	require.True(t, testStart.Add(time.Second).Equal(decoder.SampleTime(40)))
	require.Len(t, data, section.HeaderSize+3*section.BlockIndexEntrySize+int(header.PayloadLength))
}

func TestTraceEncoder_ExactBlocksNotPadded(t *testing.T) {
	data := encodeTrace(t, waveform(400, 2), WithBlockSize(200))

	decoder, err := NewTraceDecoder(data)
	require.NoError(t, err)
	require.False(t, decoder.Header().Flag.IsPadded())
	require.Equal(t, 2, decoder.BlockCount())
}

// ==============================================================================
// Round Trip Tests
// ==============================================================================

func TestTrace_RoundTrip(t *testing.T) {
	lengths := []int{1, 19, 20, 21, 399, 400, 401, 1234}
	variants := map[string][]TraceEncoderOption{
		"canadian":     nil,
		"block-20":     {WithBlockSize(20)},
		"big-endian":   {WithBigEndian()},
		"no-checksum":  {WithChecksum(false)},
		"zstd":         {WithCompression(format.CompressionZstd)},
		"s2":           {WithCompression(format.CompressionS2)},
		"lz4":          {WithCompression(format.CompressionLZ4)},
		"raw":          {WithEncoding(format.TypeRaw)},
		"raw-zstd":     {WithEncoding(format.TypeRaw), WithCompression(format.CompressionZstd)},
		"little-again": {WithBigEndian(), WithLittleEndian()},
	}

	for name, opts := range variants {
		t.Run(name, func(t *testing.T) {
			for _, n := range lengths {
				samples := waveform(n, int64(n))
				got := decodeTrace(t, encodeTrace(t, samples, opts...))
				require.Equal(t, samples, got, "length %d", n)
			}
		})
	}
}

func TestTrace_RoundTripExtremes(t *testing.T) {
	samples := make([]int32, 0, 200)
	for i := 0; i < 100; i++ {
		samples = append(samples, 2147483647, -2147483648)
	}

	got := decodeTrace(t, encodeTrace(t, samples, WithBlockSize(40)))
	require.Equal(t, samples, got)
}

func TestTrace_WriteMatchesWriteSlice(t *testing.T) {
	samples := waveform(777, 3)

	encoder, err := NewTraceEncoder(testStart)
	require.NoError(t, err)
	for _, s := range samples {
		require.NoError(t, encoder.Write(s))
	}
	require.Equal(t, len(samples), encoder.Len())

	data, err := encoder.Finish()
	require.NoError(t, err)
	require.Equal(t, encodeTrace(t, samples), data)
}

// ==============================================================================
// Decoder Tests
// ==============================================================================

func TestTraceDecoder_Block(t *testing.T) {
	samples := waveform(450, 4)
	decoder, err := NewTraceDecoder(encodeTrace(t, samples, WithBlockSize(200)))
	require.NoError(t, err)

	for i := 0; i < decoder.BlockCount(); i++ {
		block, err := decoder.Block(i)
		require.NoError(t, err)
		require.Equal(t, samples[i*200:min((i+1)*200, len(samples))], block)
	}

	full, _, err := decoder.DecodeBlockInto(nil, 2)
	require.NoError(t, err)
	require.Len(t, full, 200)
	for _, s := range full[50:] {
		require.Equal(t, samples[len(samples)-1], s, "padding repeats the last sample")
	}

	_, err = decoder.Block(3)
	require.ErrorIs(t, err, errs.ErrBlockOutOfRange)
	_, err = decoder.Block(-1)
	require.ErrorIs(t, err, errs.ErrBlockOutOfRange)
}

func TestTraceDecoder_BlockAnchors(t *testing.T) {
	samples := waveform(600, 5)
	decoder, err := NewTraceDecoder(encodeTrace(t, samples, WithBlockSize(200)))
	require.NoError(t, err)

	_, anchor, err := decoder.DecodeBlockInto(nil, 0)
	require.NoError(t, err)
	require.Equal(t, samples[200], anchor)

	_, anchor, err = decoder.DecodeBlockInto(nil, 1)
	require.NoError(t, err)
	require.Equal(t, samples[400], anchor)

	// The last block closes on its own final sample.
	_, anchor, err = decoder.DecodeBlockInto(nil, 2)
	require.NoError(t, err)
	require.Equal(t, samples[599], anchor)
}

func TestTraceDecoder_All(t *testing.T) {
	samples := waveform(1001, 6)
	decoder, err := NewTraceDecoder(encodeTrace(t, samples))
	require.NoError(t, err)

	require.Equal(t, samples, slices.Collect(decoder.All()))
	require.NoError(t, decoder.Verify())

	var first []int32
	for s := range decoder.All() {
		first = append(first, s)
		if len(first) == 5 {
			break
		}
	}
	require.Equal(t, samples[:5], first)
}

func TestTraceDecoder_ChecksumMismatch(t *testing.T) {
	data := encodeTrace(t, waveform(400, 7))
	data[len(data)-1] ^= 0x01

	_, err := NewTraceDecoder(data)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestTraceDecoder_Discontinuity(t *testing.T) {
	samples := waveform(400, 8)
	data := encodeTrace(t, samples, WithBlockSize(200))

	// Rewrite the expected first sample of block 1 in the index.
	pos := section.IndexOffset + section.BlockIndexEntrySize + 8
	binary.LittleEndian.PutUint32(data[pos:], uint32(samples[200]+1)) //nolint:gosec

	decoder, err := NewTraceDecoder(data)
	require.NoError(t, err)

	_, err = decoder.Samples()
	require.ErrorIs(t, err, errs.ErrDiscontinuity)
	require.ErrorIs(t, decoder.Verify(), errs.ErrDiscontinuity)
	require.Empty(t, slices.Collect(decoder.All()))
}

func TestTraceDecoder_FirstSampleMismatch(t *testing.T) {
	samples := waveform(200, 9)
	data := encodeTrace(t, samples, WithBlockSize(200))

	pos := section.IndexOffset + 8
	binary.LittleEndian.PutUint32(data[pos:], uint32(samples[0]-1)) //nolint:gosec

	decoder, err := NewTraceDecoder(data)
	require.NoError(t, err)

	_, err = decoder.Block(0)
	require.ErrorIs(t, err, errs.ErrInvalidBlockIndex)
}

func TestTraceDecoder_OversizedBlockSize(t *testing.T) {
	data := encodeTrace(t, waveform(20, 13), WithBlockSize(20), WithEncoding(format.TypeRaw), WithChecksum(false))

	header, err := section.ParseTraceHeader(data)
	require.NoError(t, err)

	// A multiple of 20 whose raw block length wraps to 64 bytes in 32-bit arithmetic.
	for _, size := range []uint32{1<<30 + 16, encoding.MaxBlockSamples + encoding.SuperblockSamples} {
		header.BlockSize = size
		header.SampleCount = size
		copy(data, header.Bytes())

		_, err = NewTraceDecoder(data)
		require.ErrorIs(t, err, errs.ErrInvalidBlockSize, "block size %d", size)
	}
}

func TestTraceDecoder_Truncated(t *testing.T) {
	data := encodeTrace(t, waveform(400, 10))

	_, err := NewTraceDecoder(data[:section.HeaderSize-1])
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)

	_, err = NewTraceDecoder(data[:len(data)-1])
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestTraceDecoder_ConcurrentUse(t *testing.T) {
	samples := waveform(2000, 11)
	decoder, err := NewTraceDecoder(encodeTrace(t, samples, WithCompression(format.CompressionS2)))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errCh := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := decoder.Samples()
			if err != nil {
				errCh <- err
				return
			}
			if !slices.Equal(samples, got) {
				errCh <- errs.ErrCorrupted
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}
}

// ==============================================================================
// Stats Tests
// ==============================================================================

func TestTraceDecoder_StatsConstant(t *testing.T) {
	samples := make([]int32, 400)
	for i := range samples {
		samples[i] = 1234
	}
	data := encodeTrace(t, samples)

	decoder, err := NewTraceDecoder(data)
	require.NoError(t, err)

	stats, err := decoder.Stats(len(data))
	require.NoError(t, err)
	require.Equal(t, 400, stats.SampleCount)
	require.Equal(t, 1, stats.BlockCount)
	require.Equal(t, 1600, stats.RawSize)
	require.Equal(t, encoding.IndexSize(400)+encoding.AnchorHeaderSize+100*2, stats.EncodedSize)
	require.Equal(t, map[encoding.Width]int{encoding.Width4: 100}, stats.Widths)
	require.Equal(t, 20, stats.Superblocks)
	require.Zero(t, stats.FamilyB)
	require.Greater(t, stats.Ratio(), 1.0)
}

func TestTraceDecoder_StatsRaw(t *testing.T) {
	data := encodeTrace(t, waveform(400, 12), WithEncoding(format.TypeRaw))

	decoder, err := NewTraceDecoder(data)
	require.NoError(t, err)

	stats, err := decoder.Stats(len(data))
	require.NoError(t, err)
	require.Equal(t, 1600, stats.EncodedSize)
	require.Empty(t, stats.Widths)
	require.Less(t, stats.Ratio(), 1.0)
	require.Zero(t, TraceStats{}.Ratio())
}
