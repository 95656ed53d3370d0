package section

const (
	// Option bit masks
	ChecksumMask     = 0x0001 // Mask for payload checksum bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	PaddedMask       = 0x0004 // Mask for padded final block bit (bit 2)
	ReservedBitsMask = 0x0008 // Mask for reserved bit (bit 3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicTraceV1Opt identifies version 1 of the trace format.
	MagicTraceV1Opt = 0xCA10
)

// offset and section sizes in the trace
const (
	HeaderSize          = 48         // fixed header size in bytes
	BlockIndexEntrySize = 12         // fixed block index entry size in bytes
	IndexOffset         = HeaderSize // byte offset where the block index starts
)
