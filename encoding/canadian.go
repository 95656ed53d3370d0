package encoding

import (
	"fmt"
	"sync"

	"github.com/arloliu/canz/endian"
	"github.com/arloliu/canz/errs"
)

const (
	// AnchorHeaderSize is the size of the verbatim first sample stored after the index region.
	AnchorHeaderSize = 4
	// MaxBlockSamples bounds the sample count of one block, the largest multiple of 20
	// not above 2^24. Larger blocks are refused with errs.ErrAllocationFailure rather
	// than attempting an unbounded scratch allocation.
	MaxBlockSamples = (1 << 24) / SuperblockSamples * SuperblockSamples
)

// wire is the byte order of the anchor header. The codec wire format is always big-endian.
var wire = endian.GetBigEndianEngine()

// ValidateBlockSize checks that m is a positive multiple of 20 within MaxBlockSamples.
func ValidateBlockSize(m int) error {
	if m <= 0 || m%SuperblockSamples != 0 {
		return fmt.Errorf("%w: got %d", errs.ErrNotMultipleOf20, m)
	}
	if m > MaxBlockSamples {
		return fmt.Errorf("%w: block of %d samples exceeds limit %d", errs.ErrAllocationFailure, m, MaxBlockSamples)
	}

	return nil
}

// IndexSize returns the size of the index region of an m-sample block, m/10 bytes.
func IndexSize(m int) int {
	return m / SuperblockSamples * IndexEntrySize
}

// MaxCompressedSize returns the largest encoded size of an m-sample block, reached when
// every group needs 32 bits.
func MaxCompressedSize(m int) int {
	return IndexSize(m) + AnchorHeaderSize + m/GroupSamples*MaxGroupBytes
}

// Scratch holds the per-call working storage of an Encoder: the second-difference
// array and the resolved width of every group.
//
// A Scratch must not be shared by concurrent calls.
type Scratch struct {
	diffs  []int32
	widths []Width
	fixed  bool
}

// NewScratch creates a scratch area sized for m-sample blocks. It grows on demand when
// larger blocks are encoded.
func NewScratch(m int) *Scratch {
	s := &Scratch{}
	if m > 0 && m <= MaxBlockSamples {
		s.diffs = make([]int32, 0, m)
		s.widths = make([]Width, 0, m/GroupSamples)
	}

	return s
}

// NewFixedScratch creates a scratch area that never grows. Encoding a block larger than
// m samples with it fails with errs.ErrAllocationFailure.
func NewFixedScratch(m int) *Scratch {
	s := NewScratch(m)
	s.fixed = true

	return s
}

// Cap returns the largest block size the scratch holds without growing.
func (s *Scratch) Cap() int {
	return min(cap(s.diffs), cap(s.widths)*GroupSamples)
}

func (s *Scratch) reserve(m int) error {
	groups := m / GroupSamples
	if cap(s.diffs) < m || cap(s.widths) < groups {
		if s.fixed {
			return fmt.Errorf("%w: fixed scratch holds %d samples, block needs %d", errs.ErrAllocationFailure, s.Cap(), m)
		}
		s.diffs = make([]int32, m)
		s.widths = make([]Width, groups)
	}
	s.diffs = s.diffs[:m]
	s.widths = s.widths[:groups]

	return nil
}

// scratchPool backs the package-level Compress function so concurrent callers never
// share working storage.
var scratchPool = sync.Pool{
	New: func() any {
		return NewScratch(0)
	},
}

// Encoder compresses blocks of samples into the fixed-ratio differencing bit-packed format.
//
// An Encoder owns its scratch storage and is not safe for concurrent use. Create one
// Encoder per goroutine, or use the package-level Compress function.
type Encoder struct {
	scratch *Scratch
}

// NewEncoder creates an encoder using the given scratch storage. A nil scratch is
// replaced by a growable one.
func NewEncoder(scratch *Scratch) *Encoder {
	if scratch == nil {
		scratch = NewScratch(0)
	}

	return &Encoder{scratch: scratch}
}

// Compress encodes one block and returns a newly allocated buffer.
//
// Parameters:
//   - samples: the block, its length must be a positive multiple of 20
//   - anchor: the logical sample following the block, usually the first sample of the next block
//
// Returns:
//   - []byte: index region, anchor header and payload
//   - error: errs.ErrNotMultipleOf20, errs.ErrAllocationFailure or errs.ErrCorrupted
func (e *Encoder) Compress(samples []int32, anchor int32) ([]byte, error) {
	return e.AppendCompress(nil, samples, anchor)
}

// AppendCompress encodes one block and appends it to dst.
//
// On error dst is returned with its length unchanged, but bytes in its spare capacity
// beyond len(dst) may have been overwritten.
func (e *Encoder) AppendCompress(dst []byte, samples []int32, anchor int32) ([]byte, error) {
	m := len(samples)
	if err := ValidateBlockSize(m); err != nil {
		return dst, err
	}
	if err := e.scratch.reserve(m); err != nil {
		return dst, err
	}

	diffs := e.scratch.diffs
	widths := e.scratch.widths
	Difference(diffs, samples, anchor)

	superblocks := m / SuperblockSamples
	indexSize := IndexSize(m)

	// First pass: choose widths and compute the exact output size.
	payloadSize := 0
	start := len(dst)
	out := growBytes(dst, indexSize+AnchorHeaderSize)
	for sb := 0; sb < superblocks; sb++ {
		var chosen [SuperblockGroups]Width
		for g := range chosen {
			base := (sb*SuperblockGroups + g) * GroupSamples
			chosen[g] = SelectWidth([GroupSamples]int32(diffs[base : base+GroupSamples]))
		}

		index, resolved, err := EncodeIndex(chosen)
		if err != nil {
			return dst, err
		}

		copy(out[start+sb*IndexEntrySize:], index[:])
		for g, w := range resolved {
			widths[sb*SuperblockGroups+g] = w
			payloadSize += w.GroupBytes()
		}
	}

	wire.PutUint32(out[start+indexSize:], uint32(samples[0])) //nolint:gosec

	// Second pass: pack every group in superblock order.
	pos := len(out)
	out = growBytes(out, payloadSize)
	for i, w := range widths {
		base := i * GroupSamples
		if err := PackGroup(out[pos:], [GroupSamples]int32(diffs[base:base+GroupSamples]), w); err != nil {
			return dst, err
		}
		pos += w.GroupBytes()
	}

	return out, nil
}

// growBytes extends b by n bytes, reallocating when capacity is short.
func growBytes(b []byte, n int) []byte {
	l := len(b)
	if cap(b)-l >= n {
		return b[:l+n]
	}

	nb := make([]byte, l+n, 2*cap(b)+n)
	copy(nb, b)

	return nb
}

// Compress encodes one block using pooled scratch storage. It is safe for concurrent use.
func Compress(samples []int32, anchor int32) ([]byte, error) {
	s, _ := scratchPool.Get().(*Scratch)
	defer scratchPool.Put(s)

	enc := Encoder{scratch: s}

	return enc.Compress(samples, anchor)
}

// Decompress decodes one m-sample block from data into a newly allocated slice.
//
// Returns:
//   - []int32: the m decoded samples
//   - int32: the continuity anchor, to be passed along with the next block
//   - error: errs.ErrNotMultipleOf20, errs.ErrBufferExceeded or errs.ErrCorrupted
func Decompress(data []byte, m int) ([]int32, int32, error) {
	if err := ValidateBlockSize(m); err != nil {
		return nil, 0, err
	}

	return DecompressInto(make([]int32, m), data, m)
}

// DecompressInto decodes one m-sample block from data into dst, reusing its capacity.
//
// Only len(data) bytes are ever read; a block that needs more yields errs.ErrBufferExceeded.
// Decompression is stateless and safe for concurrent use with distinct dst slices.
func DecompressInto(dst []int32, data []byte, m int) ([]int32, int32, error) {
	if err := ValidateBlockSize(m); err != nil {
		return dst, 0, err
	}

	indexSize := IndexSize(m)
	if len(data) < indexSize+AnchorHeaderSize {
		return dst, 0, fmt.Errorf("%w: %d bytes cannot hold index and header of %d-sample block",
			errs.ErrBufferExceeded, len(data), m)
	}

	if cap(dst) < m {
		dst = make([]int32, m)
	}
	out := dst[:m]

	first := int32(wire.Uint32(data[indexSize:])) //nolint:gosec
	pos := indexSize + AnchorHeaderSize

	superblocks := m / SuperblockSamples
	for sb := 0; sb < superblocks; sb++ {
		_, widths := DecodeIndex(data[sb*IndexEntrySize], data[sb*IndexEntrySize+1])
		for g, w := range widths {
			if !w.IsValid() {
				return dst, 0, fmt.Errorf("%w: superblock %d group %d width %d", errs.ErrCorrupted, sb, g, w)
			}
			if pos+w.GroupBytes() > len(data) {
				return dst, 0, fmt.Errorf("%w: superblock %d group %d needs %d bytes at offset %d of %d",
					errs.ErrBufferExceeded, sb, g, w.GroupBytes(), pos, len(data))
			}

			group, err := UnpackGroup(data[pos:], w)
			if err != nil {
				return dst, 0, err
			}
			copy(out[(sb*SuperblockGroups+g)*GroupSamples:], group[:])
			pos += w.GroupBytes()
		}
	}

	anchor := Integrate(out, first)

	return out, anchor, nil
}

// CompressedSize returns the exact encoded size of the m-sample block at the start of
// data by walking its index region. It lets containers split concatenated blocks.
func CompressedSize(data []byte, m int) (int, error) {
	if err := ValidateBlockSize(m); err != nil {
		return 0, err
	}

	indexSize := IndexSize(m)
	if len(data) < indexSize {
		return 0, fmt.Errorf("%w: index region needs %d bytes, have %d", errs.ErrBufferExceeded, indexSize, len(data))
	}

	size := indexSize + AnchorHeaderSize
	for sb := 0; sb < m/SuperblockSamples; sb++ {
		_, widths := DecodeIndex(data[sb*IndexEntrySize], data[sb*IndexEntrySize+1])
		for _, w := range widths {
			size += w.GroupBytes()
		}
	}

	return size, nil
}

// BlockInfo describes the layout of an encoded block.
type BlockInfo struct {
	// First is the verbatim first sample from the anchor header.
	First int32
	// Families holds the family of each superblock.
	Families []Family
	// Widths holds the resolved width of each group in block order.
	Widths []Width
	// Size is the encoded size in bytes.
	Size int
}

// Inspect parses the index region and anchor header of an encoded block without
// unpacking its payload.
func Inspect(data []byte, m int) (BlockInfo, error) {
	size, err := CompressedSize(data, m)
	if err != nil {
		return BlockInfo{}, err
	}
	if len(data) < size {
		return BlockInfo{}, fmt.Errorf("%w: block needs %d bytes, have %d", errs.ErrBufferExceeded, size, len(data))
	}

	superblocks := m / SuperblockSamples
	info := BlockInfo{
		First:    int32(wire.Uint32(data[IndexSize(m):])), //nolint:gosec
		Families: make([]Family, 0, superblocks),
		Widths:   make([]Width, 0, superblocks*SuperblockGroups),
		Size:     size,
	}
	for sb := 0; sb < superblocks; sb++ {
		family, widths := DecodeIndex(data[sb*IndexEntrySize], data[sb*IndexEntrySize+1])
		info.Families = append(info.Families, family)
		info.Widths = append(info.Widths, widths[:]...)
	}

	return info, nil
}
