// Package compress provides the optional second-stage compression applied to the
// concatenated block payload of a canz trace.
//
// Blocks are first encoded with the differencing bit-packing codec from the encoding
// package. That codec is fixed-ratio per group and leaves byte-level redundancy on
// quiet channels (long runs of identical index entries and zero groups), which a
// general-purpose compressor can still remove:
//
//   - None: payload stored as encoded
//   - Zstd: best ratio, used for archival traces
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression
//
// Every codec implements Codec and is safe for concurrent use. Use CreateCodec to
// obtain the codec recorded in a trace header:
//
//	codec, err := compress.CreateCodec(format.CompressionZstd, "payload")
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
//
// The Zstd codec is backed by the pure-Go klauspost/compress implementation. Building
// with the gozstd tag (and cgo) switches it to the libzstd binding from valyala/gozstd.
package compress
