package section

import (
	"github.com/arloliu/canz/endian"
	"github.com/arloliu/canz/errs"
)

// BlockIndexEntry locates one encoded block inside the decompressed payload.
type BlockIndexEntry struct {
	// Offset is the block start within the decompressed payload.
	Offset uint32
	// Length is the encoded block length in bytes.
	Length uint32
	// First is the block's first sample, the continuity value expected from the previous block.
	First int32
}

// WriteToSlice writes the entry at offset and returns the next write position.
func (e BlockIndexEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint32(data[offset:offset+4], e.Offset)
	engine.PutUint32(data[offset+4:offset+8], e.Length)
	engine.PutUint32(data[offset+8:offset+12], uint32(e.First)) //nolint:gosec

	return offset + BlockIndexEntrySize
}

// End returns the offset just past the block.
func (e BlockIndexEntry) End() uint64 {
	return uint64(e.Offset) + uint64(e.Length)
}

// ParseBlockIndexEntry parses an entry from the start of data.
func ParseBlockIndexEntry(data []byte, engine endian.EndianEngine) (BlockIndexEntry, error) {
	if len(data) < BlockIndexEntrySize {
		return BlockIndexEntry{}, errs.ErrInvalidBlockIndex
	}

	return BlockIndexEntry{
		Offset: engine.Uint32(data[0:4]),
		Length: engine.Uint32(data[4:8]),
		First:  int32(engine.Uint32(data[8:12])), //nolint:gosec
	}, nil
}

// ParseBlockIndex parses count consecutive entries and checks that they tile a payload
// of payloadLen bytes in order without gaps.
func ParseBlockIndex(data []byte, count int, payloadLen int, engine endian.EndianEngine) ([]BlockIndexEntry, error) {
	if len(data) < count*BlockIndexEntrySize {
		return nil, errs.ErrInvalidBlockIndex
	}

	entries := make([]BlockIndexEntry, count)
	var next uint64
	for i := range entries {
		entry, err := ParseBlockIndexEntry(data[i*BlockIndexEntrySize:], engine)
		if err != nil {
			return nil, err
		}
		if uint64(entry.Offset) != next || entry.Length == 0 {
			return nil, errs.ErrInvalidBlockIndex
		}
		next = entry.End()
		entries[i] = entry
	}
	if next != uint64(payloadLen) {
		return nil, errs.ErrInvalidBlockIndex
	}

	return entries, nil
}
