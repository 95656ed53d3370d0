package encoding

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func ramp(n int) []int32 {
	s := make([]int32, n)
	for i := range s {
		s[i] = int32(i)
	}

	return s
}

func TestDifference_Ramp(t *testing.T) {
	samples := ramp(20)
	diffs := make([]int32, 20)
	Difference(diffs, samples, 20)

	want := make([]int32, 20)
	want[0] = 1
	require.Equal(t, want, diffs)

	anchor := Integrate(diffs, samples[0])
	require.Equal(t, int32(20), anchor)
	require.Equal(t, samples, diffs)
}

func TestDifference_Quadratic(t *testing.T) {
	// s[k] = k*k has constant second difference 2.
	samples := make([]int32, 8)
	for k := range samples {
		samples[k] = int32(k * k)
	}
	diffs := make([]int32, 8)
	Difference(diffs, samples, 64)

	require.Equal(t, []int32{1, 2, 2, 2, 2, 2, 2, 2}, diffs)
}

func TestDifference_InPlace(t *testing.T) {
	samples := []int32{5, 9, -3, 100, 7}
	orig := append([]int32(nil), samples...)

	Difference(samples, samples, 42)
	anchor := Integrate(samples, orig[0])

	require.Equal(t, orig, samples)
	require.Equal(t, int32(42), anchor)
}

func TestDifference_Wraparound(t *testing.T) {
	samples := []int32{math.MaxInt32, math.MinInt32, math.MaxInt32, math.MinInt32}
	diffs := make([]int32, len(samples))
	Difference(diffs, samples, math.MaxInt32)

	restored := append([]int32(nil), diffs...)
	anchor := Integrate(restored, samples[0])
	require.Equal(t, samples, restored)
	require.Equal(t, int32(math.MaxInt32), anchor)
}

func TestDifference_RandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(44))
	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(100)
		samples := make([]int32, n)
		for j := range samples {
			samples[j] = int32(rng.Uint32())
		}
		anchor := int32(rng.Uint32())

		diffs := make([]int32, n)
		Difference(diffs, samples, anchor)
		got := Integrate(diffs, samples[0])

		require.Equal(t, samples, diffs)
		require.Equal(t, anchor, got)
	}
}

func TestDifference_Empty(t *testing.T) {
	Difference(nil, nil, 1)
	require.Equal(t, int32(9), Integrate(nil, 9))
}
