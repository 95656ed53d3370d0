// Package encoding implements the Canadian compression codec: a lossless, fixed-ratio,
// differencing bit-packing scheme for 32-bit signed waveform samples.
//
// # Algorithm
//
// A block of m samples (m a positive multiple of 20) is encoded in four steps:
//
//  1. Differencing: second-order differences are taken over the block. The first
//     difference of the last sample uses a caller-supplied continuity anchor, the
//     logical sample following the block.
//  2. Width selection: every group of 4 differences gets the smallest width from the
//     catalogue {4, 6, 8, 10, 12, 14, 16, 18, 20, 24, 28, 32} that holds all of them.
//  3. Superblock indexing: 5 groups form a superblock sharing one family, either the
//     step-2 widths up to 18 or the step-4 widths up to 32. Widths are promoted into
//     the family and recorded as five 3-bit selectors in a 2-byte index entry.
//  4. Bit packing: each group is stored in width/2 bytes, MSB-first.
//
// # Wire Format
//
// All multi-byte fields are big-endian:
//
//	+---------------------+------------------+----------------------------------+
//	| index: m/10 bytes   | first sample: 4  | packed groups, superblock order  |
//	+---------------------+------------------+----------------------------------+
//
// # Usage
//
//	data, err := encoding.Compress(samples, nextBlockFirstSample)
//	if err != nil {
//	    return err
//	}
//
//	decoded, anchor, err := encoding.Decompress(data, len(samples))
//	// anchor equals nextBlockFirstSample
//
// # Thread Safety
//
// The package-level Compress, Decompress and DecompressInto functions are safe for
// concurrent use. An Encoder owns its Scratch and must be used by one goroutine at a time.
package encoding
