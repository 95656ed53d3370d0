package blob

import (
	"github.com/arloliu/canz/encoding"
	"github.com/arloliu/canz/format"
)

// TraceStats summarizes how a trace was encoded.
type TraceStats struct {
	SampleCount int
	BlockCount  int
	// RawSize is the size of the real samples as plain int32 values.
	RawSize int
	// EncodedSize is the payload size before second-stage compression.
	EncodedSize int
	// StoredSize is the full trace size including header and block index.
	StoredSize int
	// Widths counts the groups packed at each width. Empty for raw traces.
	Widths map[encoding.Width]int
	// FamilyB counts the superblocks promoted into the step-4 family.
	FamilyB     int
	Superblocks int
}

// Ratio returns RawSize divided by StoredSize.
func (s TraceStats) Ratio() float64 {
	if s.StoredSize == 0 {
		return 0
	}

	return float64(s.RawSize) / float64(s.StoredSize)
}

// Stats walks the block index regions of the trace without decoding payload groups.
func (d *TraceDecoder) Stats(storedSize int) (TraceStats, error) {
	stats := TraceStats{
		SampleCount: d.Len(),
		BlockCount:  d.BlockCount(),
		RawSize:     d.Len() * rawSampleSize,
		EncodedSize: len(d.payload),
		StoredSize:  storedSize,
		Widths:      make(map[encoding.Width]int),
	}

	if d.header.Flag.Encoding() != format.TypeCanadian {
		return stats, nil
	}

	for i := range d.entries {
		data, _, err := d.blockData(i)
		if err != nil {
			return stats, err
		}
		info, err := encoding.Inspect(data, d.BlockSize())
		if err != nil {
			return stats, err
		}
		for _, w := range info.Widths {
			stats.Widths[w]++
		}
		for _, f := range info.Families {
			if f == encoding.FamilyB {
				stats.FamilyB++
			}
		}
		stats.Superblocks += len(info.Families)
	}

	return stats, nil
}
