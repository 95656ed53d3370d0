// Package blob encodes and decodes canz traces: a continuous series of waveform samples
// cut into fixed-size blocks, each block compressed with the codec from the encoding
// package, wrapped with a header and block index.
//
// The trace is the data-access layer around the block codec. It threads the continuity
// anchor between blocks (the anchor of block i is the first sample of block i+1), pads
// the final block by repeating the last sample, and verifies on decode that every
// block's recovered anchor matches the first sample of the next block.
//
// # Encoding
//
//	encoder, err := blob.NewTraceEncoder(startTime,
//	    blob.WithChannel("IU.ANMO.00.BHZ"),
//	    blob.WithSampleRate(40),
//	    blob.WithBlockSize(400),
//	    blob.WithCompression(format.CompressionZstd),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := encoder.WriteSlice(samples); err != nil {
//	    return err
//	}
//	data, err := encoder.Finish()
//
// # Decoding
//
//	decoder, err := blob.NewTraceDecoder(data)
//	if err != nil {
//	    return err
//	}
//	samples, err := decoder.Samples()
//
// A TraceDecoder is immutable after construction and safe for concurrent use.
// A TraceEncoder is not.
package blob
