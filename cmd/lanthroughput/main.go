// lanthroughput runs the multiple-access throughput sweep and reports its results.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/urfave/cli.v1"
)

var app = cli.NewApp()

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=error, 1=warn, 2=info, 3=debug",
		Value: 2,
	}
)

func init() {
	app.Name = "lanthroughput"
	app.Usage = "channel throughput versus offered load for ALOHA and CSMA protocols"
	app.Flags = []cli.Flag{verbosityFlag}
	app.Commands = []cli.Command{
		runCommand,
		plotCommand,
		dumpConfigCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		slog.SetDefault(newLogger(ctx.GlobalInt(verbosityFlag.Name)))
		return nil
	}
}

// newLogger builds the stderr text logger for a verbosity level
func newLogger(verbosity int) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbosity <= 0:
		level = slog.LevelError
	case verbosity == 1:
		level = slog.LevelWarn
	case verbosity >= 3:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
