// Package section defines the fixed-size binary structures of a canz trace: the trace
// header, its packed flag and the per-block index entries.
//
// # Trace Structure
//
//	┌──────────────────────────────────────────────────────┐
//	│ Header (48 bytes, fixed)                             │
//	├──────────────────────────────────────────────────────┤
//	│ Block index (BlockCount × 12 bytes)                  │
//	├──────────────────────────────────────────────────────┤
//	│ Payload (variable)                                   │
//	│  - concatenated encoded blocks                       │
//	│  - optionally compressed as a whole                  │
//	└──────────────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes  | Field          | Type   | Description
//	-------|----------------|--------|-------------------------------------------
//	0-1    | Flag.Options   | uint16 | magic (bits 4-15) and option bits, always little-endian
//	2      | EncodingType   | uint8  | format.EncodingType of every block
//	3      | Compression    | uint8  | format.CompressionType of the payload
//	4-11   | StartTime      | int64  | first sample time, unix microseconds
//	12-15  | SampleCount    | uint32 | real sample count, excluding block padding
//	16-19  | BlockSize      | uint32 | samples per block, a multiple of 20
//	20-23  | BlockCount     | uint32 | number of blocks and index entries
//	24-27  | SampleRate     | uint32 | sampling rate in millihertz, 0 if unknown
//	28-31  | PayloadLength  | uint32 | stored (possibly compressed) payload length
//	32-39  | ChannelID      | uint64 | xxHash64 of the channel name
//	40-47  | Checksum       | uint64 | xxHash64 of the stored payload
//
// All header fields except Options, and all index entries, use the byte order selected
// by the endianness option bit. Encoded blocks themselves are always big-endian.
//
// # Block Index Entry
//
//	Bytes | Field  | Type   | Description
//	------|--------|--------|-------------------------------------------------
//	0-3   | Offset | uint32 | block start within the decompressed payload
//	4-7   | Length | uint32 | encoded block length
//	8-11  | First  | int32  | first sample of the block
package section
