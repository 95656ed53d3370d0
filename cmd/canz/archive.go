package main

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/arloliu/canz/archive"
)

func channelFlag() cli.Flag {
	return &cli.StringFlag{Name: "channel", Usage: "Channel name, e.g. IU.ANMO.00.BHZ", Required: true}
}

func seqFlag() cli.Flag {
	return &cli.UintFlag{Name: "seq", Usage: "Sequence number of the trace within the channel", Required: true}
}

func archiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "store and fetch traces in the SQLite archive",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "Archive database path (overrides archive.path)"},
		},
		Subcommands: []*cli.Command{
			{
				Name:      "put",
				Usage:     "store a trace file, or encode and store a sample file with --encode",
				ArgsUsage: "<in>",
				Action:    archivePut,
				Flags: []cli.Flag{
					channelFlag(),
					seqFlag(),
					binaryFlag(),
					&cli.BoolFlag{Name: "encode", Usage: "Input holds samples rather than an encoded trace"},
				},
			},
			{
				Name:      "get",
				Usage:     "write the samples of a stored trace",
				ArgsUsage: "<out>",
				Action:    archiveGet,
				Flags:     []cli.Flag{channelFlag(), seqFlag(), binaryFlag()},
			},
			{
				Name:   "list",
				Usage:  "list the traces stored for a channel",
				Action: archiveList,
				Flags:  []cli.Flag{channelFlag()},
			},
			{
				Name:   "delete",
				Usage:  "remove a stored trace",
				Action: archiveDelete,
				Flags:  []cli.Flag{channelFlag(), seqFlag()},
			},
		},
	}
}

func openArchive(c *cli.Context) (*env, *archive.Archive, error) {
	e, err := setup(c)
	if err != nil {
		return nil, nil, err
	}

	path := e.cfg.Archive.Path
	if c.IsSet("db") {
		path = c.String("db")
	}

	arc, err := archive.Open(path,
		archive.WithLogger(e.log),
		archive.WithCacheTTL(e.cfg.Archive.CacheTTL),
		archive.WithQueryLogging(e.cfg.Archive.QueryLogging),
	)
	if err != nil {
		return nil, nil, err
	}

	return e, arc, nil
}

func seqArg(c *cli.Context) (uint32, error) {
	seq := c.Uint("seq")
	if uint64(seq) > uint64(^uint32(0)) {
		return 0, fmt.Errorf("sequence number %d out of range", seq)
	}

	return uint32(seq), nil
}

func archivePut(c *cli.Context) error {
	e, arc, err := openArchive(c)
	if err != nil {
		return err
	}
	defer arc.Close()

	seq, err := seqArg(c)
	if err != nil {
		return err
	}

	var data []byte
	if c.Bool("encode") {
		data, err = encodeInput(c, e, c.Args().Get(0))
	} else {
		data, err = readFile(c.Args().Get(0))
	}
	if err != nil {
		return err
	}

	return arc.Put(c.Context, c.String("channel"), seq, data)
}

func archiveGet(c *cli.Context) error {
	_, arc, err := openArchive(c)
	if err != nil {
		return err
	}
	defer arc.Close()

	seq, err := seqArg(c)
	if err != nil {
		return err
	}

	samples, err := arc.Get(c.Context, c.String("channel"), seq)
	if err != nil {
		return err
	}

	return writeOutput(c.Args().Get(0), func(w io.Writer) error {
		return writeSamples(w, samples, c.Bool("binary"))
	})
}

func archiveList(c *cli.Context) error {
	_, arc, err := openArchive(c)
	if err != nil {
		return err
	}
	defer arc.Close()

	infos, err := arc.List(c.Context, c.String("channel"))
	if err != nil {
		return err
	}

	for _, info := range infos {
		_, err := fmt.Fprintf(c.App.Writer, "%d\t%s\t%d samples\t%d blocks\t%d bytes\n",
			info.Seq, info.StartTime.UTC().Format(time.RFC3339), info.SampleCount, info.BlockCount, info.Size)
		if err != nil {
			return err
		}
	}

	return nil
}

func archiveDelete(c *cli.Context) error {
	_, arc, err := openArchive(c)
	if err != nil {
		return err
	}
	defer arc.Close()

	seq, err := seqArg(c)
	if err != nil {
		return err
	}

	return arc.Delete(c.Context, c.String("channel"), seq)
}
