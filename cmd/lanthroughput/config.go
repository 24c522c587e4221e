package main

import (
	"os"

	"gopkg.in/urfave/cli.v1"

	lanmac "github.com/renginhelin/NetworkProtocols2024"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show the default sweep configuration",
		ArgsUsage:   "[file]",
		Description: `The dumpconfig command writes the default sweep, in the format implied by the file extension (yaml, json or toml). Without a file the yaml form goes to stdout.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Sweep configuration file (yaml, json or toml)",
	}
	slotsFlag = cli.IntFlag{
		Name:  "slots",
		Usage: "Slots simulated per run (overrides the configuration file)",
	}
	workersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "Runs executed concurrently, 0 for one per CPU (overrides the configuration file)",
	}
	replicationsFlag = cli.IntFlag{
		Name:  "replications",
		Usage: "Independent runs averaged per grid point (overrides the configuration file)",
	}
)

// loadConfig builds the sweep configuration: defaults, then the file, then flags
func loadConfig(ctx *cli.Context) (*lanmac.SweepCfg, error) {
	cfg := lanmac.CreateSweepCfg("lan")

	if file := ctx.String(configFileFlag.Name); file != "" {
		var err error
		cfg, err = lanmac.ReadSweepCfg(file, nil)
		if err != nil {
			return nil, err
		}
	}

	if ctx.IsSet(slotsFlag.Name) {
		cfg.SlotCount = ctx.Int(slotsFlag.Name)
	}
	if ctx.IsSet(workersFlag.Name) {
		cfg.Workers = ctx.Int(workersFlag.Name)
	}
	if ctx.IsSet(replicationsFlag.Name) {
		cfg.Replications = ctx.Int(replicationsFlag.Name)
	}
	return cfg, cfg.Validate()
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg := lanmac.CreateSweepCfg("lan")
	if ctx.NArg() > 0 {
		return cfg.WriteToFile(ctx.Args().Get(0))
	}

	out, err := cfg.Marshal("yaml")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
