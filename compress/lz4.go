package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4SizePrefix is the length of the uncompressed-size prefix written before each LZ4 block.
const lz4SizePrefix = 4

// maxLZ4Output guards against corrupted size prefixes requesting huge allocations.
const maxLZ4Output = 256 * 1024 * 1024

// lz4CompressorPool pools lz4.Compressor instances, which keep a reusable hash table.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor compresses payloads as a single LZ4 block.
//
// The block is prefixed with the uncompressed length (uint32, little-endian) so the
// decoder can size its output exactly.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses data using a pooled lz4.Compressor. Empty input yields nil.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4SizePrefix+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(dst, uint32(len(data))) //nolint:gosec

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[lz4SizePrefix:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Only reachable with a destination shorter than CompressBlockBound.
		return nil, errors.New("lz4: incompressible payload")
	}

	return dst[:lz4SizePrefix+n], nil
}

// Decompress decompresses a size-prefixed LZ4 block. Empty input yields nil.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < lz4SizePrefix {
		return nil, fmt.Errorf("lz4: truncated size prefix (%d bytes)", len(data))
	}

	size := int(binary.LittleEndian.Uint32(data))
	if size > maxLZ4Output {
		return nil, fmt.Errorf("lz4: declared size %d exceeds limit", size)
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data[lz4SizePrefix:], buf)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, fmt.Errorf("lz4: decoded %d bytes, expected %d", n, size)
	}

	return buf, nil
}
