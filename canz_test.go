package canz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/canz/blob"
	"github.com/arloliu/canz/errs"
	"github.com/arloliu/canz/format"
)

func TestCompressBlock(t *testing.T) {
	samples := make([]int32, 40)
	for i := range samples {
		samples[i] = int32(i * i)
	}

	data, err := CompressBlock(samples, 1600)
	require.NoError(t, err)

	got, anchor, err := DecompressBlock(data, len(samples))
	require.NoError(t, err)
	require.Equal(t, samples, got)
	require.Equal(t, int32(1600), anchor)

	_, err = CompressBlock(samples[:30], 0)
	require.ErrorIs(t, err, errs.ErrNotMultipleOf20)
}

func TestEncodeDecodeTrace(t *testing.T) {
	samples := make([]int32, 1003)
	for i := range samples {
		samples[i] = int32(i%50*7 - 100)
	}

	data, err := EncodeTrace(time.Now(), samples,
		blob.WithChannel("IU.ANMO.00.BHZ"),
		blob.WithCompression(format.CompressionZstd),
	)
	require.NoError(t, err)

	got, err := DecodeTrace(data)
	require.NoError(t, err)
	require.Equal(t, samples, got)

	decoder, err := NewTraceDecoder(data)
	require.NoError(t, err)
	require.Equal(t, ChannelID("IU.ANMO.00.BHZ"), decoder.ChannelID())
}

func TestEncodeTrace_Errors(t *testing.T) {
	_, err := EncodeTrace(time.Now(), nil)
	require.ErrorIs(t, err, errs.ErrNoSamples)

	_, err = EncodeTrace(time.Now(), []int32{1}, blob.WithBlockSize(21))
	require.ErrorIs(t, err, errs.ErrInvalidBlockSize)

	_, err = DecodeTrace([]byte{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestChannelID(t *testing.T) {
	require.Equal(t, ChannelID("a"), ChannelID("a"))
	require.NotEqual(t, ChannelID("a"), ChannelID("b"))
}
