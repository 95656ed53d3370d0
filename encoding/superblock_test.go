package encoding

import (
	"testing"

	"github.com/arloliu/canz/errs"
	"github.com/stretchr/testify/require"
)

func TestFamily_String(t *testing.T) {
	require.Equal(t, "A", FamilyA.String())
	require.Equal(t, "B", FamilyB.String())
	require.Equal(t, "Unknown", Family(7).String())
}

func TestResolveFamily(t *testing.T) {
	t.Run("all step-2 widths stay in family A", func(t *testing.T) {
		in := [5]Width{Width4, Width6, Width10, Width14, Width18}
		family, out, err := ResolveFamily(in)
		require.NoError(t, err)
		require.Equal(t, FamilyA, family)
		require.Equal(t, in, out)
	})

	t.Run("one wide group promotes odd-step widths", func(t *testing.T) {
		in := [5]Width{Width6, Width10, Width14, Width18, Width20}
		family, out, err := ResolveFamily(in)
		require.NoError(t, err)
		require.Equal(t, FamilyB, family)
		require.Equal(t, [5]Width{Width8, Width12, Width16, Width20, Width20}, out)
	})

	t.Run("step-4 widths are unchanged", func(t *testing.T) {
		in := [5]Width{Width4, Width8, Width24, Width28, Width32}
		family, out, err := ResolveFamily(in)
		require.NoError(t, err)
		require.Equal(t, FamilyB, family)
		require.Equal(t, in, out)
	})

	t.Run("invalid width", func(t *testing.T) {
		_, _, err := ResolveFamily([5]Width{Width4, 5, Width4, Width4, Width4})
		require.ErrorIs(t, err, errs.ErrCorrupted)
	})
}

func TestEncodeIndex_Fixtures(t *testing.T) {
	tests := []struct {
		name   string
		widths [5]Width
		want   [2]byte
	}{
		{"all minimal", [5]Width{4, 4, 4, 4, 4}, [2]byte{0x00, 0x00}},
		{"family A", [5]Width{4, 6, 8, 10, 18}, [2]byte{0x02, 0x9f}},
		{"family A max", [5]Width{18, 18, 18, 18, 18}, [2]byte{0x7f, 0xff}},
		{"family B", [5]Width{4, 6, 20, 18, 32}, [2]byte{0x83, 0x27}},
		{"family B max", [5]Width{32, 32, 32, 32, 32}, [2]byte{0xff, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := EncodeIndex(tt.widths)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeIndex_Invalid(t *testing.T) {
	_, _, err := EncodeIndex([5]Width{Width4, Width4, 0, Width4, Width4})
	require.ErrorIs(t, err, errs.ErrCorrupted)
}

// Every combination of catalogue widths must decode to the resolved widths it was encoded with.
func TestIndex_Decodability(t *testing.T) {
	n := len(Catalogue)
	var combo [5]int
	for {
		var widths [5]Width
		for i, c := range combo {
			widths[i] = Catalogue[c]
		}

		index, resolved, err := EncodeIndex(widths)
		require.NoError(t, err)

		family, decoded := DecodeIndex(index[0], index[1])
		require.Equal(t, resolved, decoded, "widths %v", widths)

		for i, w := range decoded {
			require.True(t, family.Contains(w), "width %d not in family %s", w, family)
			require.GreaterOrEqual(t, w, widths[i])
			require.LessOrEqual(t, w-widths[i], Width(2))
		}

		// advance odometer
		i := 0
		for ; i < len(combo); i++ {
			combo[i]++
			if combo[i] < n {
				break
			}
			combo[i] = 0
		}
		if i == len(combo) {
			break
		}
	}
}

func TestDecodeIndex_AllBytesValid(t *testing.T) {
	for b0 := 0; b0 < 256; b0++ {
		for _, b1 := range []byte{0x00, 0x55, 0xaa, 0xff} {
			family, widths := DecodeIndex(byte(b0), b1)
			for _, w := range widths {
				require.True(t, w.IsValid())
				require.True(t, family.Contains(w))
			}
		}
	}
}
