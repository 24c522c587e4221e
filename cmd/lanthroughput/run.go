package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"

	lanmac "github.com/renginhelin/NetworkProtocols2024"
)

var (
	runCommand = cli.Command{
		Action:    runSweep,
		Name:      "run",
		Usage:     "Simulate every protocol across the device and load sweep",
		ArgsUsage: "",
		Flags: []cli.Flag{
			configFileFlag,
			slotsFlag,
			workersFlag,
			replicationsFlag,
			resultsFileFlag,
			plotDirFlag,
			traceFileFlag,
			quietFlag,
		},
		Description: `The run command executes the sweep, prints one summary table per protocol
and optionally saves the results table, the charts and slot traces.`,
	}

	plotCommand = cli.Command{
		Action:      plotResults,
		Name:        "plot",
		Usage:       "Render charts from a saved results file",
		Flags:       []cli.Flag{resultsFileFlag, plotDirFlag},
		Description: `The plot command draws one chart per protocol from a results file written by run.`,
	}

	resultsFileFlag = cli.StringFlag{
		Name:  "results",
		Usage: "Results file (yaml or json)",
	}
	plotDirFlag = cli.StringFlag{
		Name:  "plots",
		Usage: "Directory receiving one PNG chart per protocol",
	}
	traceFileFlag = cli.StringFlag{
		Name:  "trace",
		Usage: "Slot trace file (yaml or json) for the runs selected in the configuration",
	}
	quietFlag = cli.BoolFlag{
		Name:  "quiet",
		Usage: "Do not print the summary tables",
	}
)

// runSweep is the run command.
func runSweep(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	resultsFile := ctx.String(resultsFileFlag.Name)
	traceFile := ctx.String(traceFileFlag.Name)
	plotDir := ctx.String(plotDirFlag.Name)
	if _, err := lanmac.CheckOutputFiles([]string{resultsFile, traceFile}); err != nil {
		return err
	}
	if _, err := lanmac.CheckDirectories([]string{plotDir}); err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := lanmac.CreateSweepRunner(cfg, slog.Default())
	traceMgr := lanmac.CreateTraceManager(cfg.Name, traceFile != "" && len(cfg.Trace) > 0)
	runner.SetTraceManager(traceMgr)

	color.Cyan("Starting simulations...")
	rt, err := runner.Run(sigCtx)
	if err != nil {
		return err
	}

	if !ctx.Bool(quietFlag.Name) {
		printResults(os.Stdout, rt)
	}
	if resultsFile != "" {
		if err := rt.WriteToFile(resultsFile); err != nil {
			return err
		}
		slog.Info("Results written", "file", resultsFile)
	}
	if traceFile != "" {
		if !traceMgr.Active() {
			slog.Warn("No runs selected for tracing", "file", traceFile)
		} else if err := traceMgr.WriteToFile(traceFile); err != nil {
			return err
		}
	}
	if plotDir != "" {
		color.Cyan("Simulations completed. Plotting results...")
		files, err := lanmac.RenderCharts(rt, plotDir)
		if err != nil {
			return err
		}
		slog.Info("Results plotted", "charts", len(files), "dir", plotDir)
	}
	return nil
}

// plotResults is the plot command.
func plotResults(ctx *cli.Context) error {
	resultsFile := ctx.String(resultsFileFlag.Name)
	plotDir := ctx.String(plotDirFlag.Name)
	if resultsFile == "" || plotDir == "" {
		return errors.New("plot needs both --results and --plots")
	}

	rt, err := lanmac.ReadResultsTable(resultsFile, nil)
	if err != nil {
		return err
	}
	files, err := lanmac.RenderCharts(rt, plotDir)
	if err != nil {
		return err
	}
	slog.Info("Results plotted", "charts", len(files), "dir", plotDir)
	return nil
}
