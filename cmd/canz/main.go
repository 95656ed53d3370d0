package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/arloliu/canz/internal/core"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "canz error: %v\n", err)
		os.Exit(1)
	}
}

func app() *cli.App {
	app := cli.NewApp()
	app.Name = "canz"
	app.Usage = "lossless compression of 32-bit seismic waveform samples"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the config file (default ./canz.yaml when present)",
			EnvVars: []string{"CANZ_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Minimum log level: debug, info, warn, error",
		},
	}
	app.Commands = []*cli.Command{
		compressCommand(),
		decompressCommand(),
		inspectCommand(),
		archiveCommand(),
	}

	return app
}

// env is the loaded configuration and logger shared by every command.
type env struct {
	cfg *core.Config
	log *logrus.Logger
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := core.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	log, err := core.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, log: log}, nil
}
