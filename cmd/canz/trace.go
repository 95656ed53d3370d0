package main

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/arloliu/canz/blob"
	"github.com/arloliu/canz/encoding"
	"github.com/arloliu/canz/format"
)

func binaryFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "binary",
		Usage: "Samples are packed big-endian int32 instead of one decimal value per line",
	}
}

func compressCommand() *cli.Command {
	return &cli.Command{
		Name:      "compress",
		Usage:     "encode samples into a trace",
		ArgsUsage: "<in> <out>",
		Action:    compressTrace,
		Flags: []cli.Flag{
			binaryFlag(),
			&cli.IntFlag{Name: "block-size", Usage: "Samples per block, a multiple of 20"},
			&cli.StringFlag{Name: "compression", Usage: "Payload compression: none, zstd, s2, lz4"},
			&cli.StringFlag{Name: "encoding", Usage: "Block encoding: canadian, raw"},
			&cli.StringFlag{Name: "channel", Usage: "Channel name, e.g. IU.ANMO.00.BHZ"},
			&cli.Float64Flag{Name: "sample-rate", Usage: "Sampling rate in hertz"},
			&cli.TimestampFlag{Name: "start", Usage: "Time of the first sample", Layout: time.RFC3339},
		},
	}
}

// applyTraceFlags overrides configured trace settings with the flags given on the command line.
func applyTraceFlags(c *cli.Context, e *env) {
	if c.IsSet("block-size") {
		e.cfg.BlockSize = c.Int("block-size")
	}
	if c.IsSet("compression") {
		e.cfg.Compression = c.String("compression")
	}
	if c.IsSet("encoding") {
		e.cfg.Encoding = c.String("encoding")
	}
	if c.IsSet("channel") {
		e.cfg.Channel = c.String("channel")
	}
	if c.IsSet("sample-rate") {
		e.cfg.SampleRate = c.Float64("sample-rate")
	}
}

func encodeInput(c *cli.Context, e *env, path string) ([]byte, error) {
	applyTraceFlags(c, e)

	opts, err := e.cfg.EncoderOptions()
	if err != nil {
		return nil, err
	}

	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	samples, err := readSamples(in, c.Bool("binary"))
	if err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}

	start := time.Now()
	if ts := c.Timestamp("start"); ts != nil {
		start = *ts
	}

	encoder, err := blob.NewTraceEncoder(start, opts...)
	if err != nil {
		return nil, err
	}
	if err := encoder.WriteSlice(samples); err != nil {
		return nil, err
	}
	data, err := encoder.Finish()
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"samples": len(samples),
		"bytes":   len(data),
		"ratio":   fmt.Sprintf("%.2f", float64(len(samples)*4)/float64(len(data))),
	}).Info("trace encoded")

	return data, nil
}

func compressTrace(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	data, err := encodeInput(c, e, c.Args().Get(0))
	if err != nil {
		return err
	}

	return writeOutput(c.Args().Get(1), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func decompressCommand() *cli.Command {
	return &cli.Command{
		Name:      "decompress",
		Usage:     "decode a trace into samples",
		ArgsUsage: "<in> <out>",
		Action:    decompressTrace,
		Flags:     []cli.Flag{binaryFlag()},
	}
}

func decompressTrace(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	data, err := readFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	decoder, err := blob.NewTraceDecoder(data)
	if err != nil {
		return err
	}
	samples, err := decoder.Samples()
	if err != nil {
		return err
	}

	e.log.WithField("samples", len(samples)).Debug("trace decoded")

	return writeOutput(c.Args().Get(1), func(w io.Writer) error {
		return writeSamples(w, samples, c.Bool("binary"))
	})
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print the header and width histogram of a trace",
		ArgsUsage: "<in>",
		Action:    inspectTrace,
	}
}

func inspectTrace(c *cli.Context) error {
	if _, err := setup(c); err != nil {
		return err
	}

	data, err := readFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	decoder, err := blob.NewTraceDecoder(data)
	if err != nil {
		return err
	}
	stats, err := decoder.Stats(len(data))
	if err != nil {
		return err
	}

	return printStats(c.App.Writer, decoder, stats)
}

func printStats(w io.Writer, decoder *blob.TraceDecoder, stats blob.TraceStats) error {
	header := decoder.Header()
	byteOrder := "little-endian"
	if header.Flag.IsBigEndian() {
		byteOrder = "big-endian"
	}

	lines := []string{
		fmt.Sprintf("start:        %s", header.StartTimeAsTime().UTC().Format(time.RFC3339Nano)),
		fmt.Sprintf("channel id:   %#016x", decoder.ChannelID()),
		fmt.Sprintf("sample rate:  %g Hz", float64(header.SampleRate)/1000),
		fmt.Sprintf("encoding:     %s", header.Flag.Encoding()),
		fmt.Sprintf("compression:  %s", header.Flag.Compression()),
		fmt.Sprintf("byte order:   %s", byteOrder),
		fmt.Sprintf("samples:      %d", stats.SampleCount),
		fmt.Sprintf("blocks:       %d x %d", stats.BlockCount, decoder.BlockSize()),
		fmt.Sprintf("raw size:     %d", stats.RawSize),
		fmt.Sprintf("encoded size: %d", stats.EncodedSize),
		fmt.Sprintf("stored size:  %d", stats.StoredSize),
		fmt.Sprintf("ratio:        %.3f", stats.Ratio()),
	}

	if header.Flag.Encoding() == format.TypeCanadian {
		lines = append(lines, fmt.Sprintf("family B:     %d of %d superblocks", stats.FamilyB, stats.Superblocks))
		widths := make([]encoding.Width, 0, len(stats.Widths))
		for w := range stats.Widths {
			widths = append(widths, w)
		}
		slices.Sort(widths)
		for _, w := range widths {
			lines = append(lines, fmt.Sprintf("  %-6s %d groups", w, stats.Widths[w]))
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
