package lanmac

// sweep.go holds the parameter sweep: for every device count and load
// value it runs every selected protocol, replications included, and
// gathers the throughputs into a ResultsTable.  Runs are independent of
// each other and are executed on a bounded pool of goroutines

import (
	"context"
	"fmt"
	"github.com/iti/rngstream"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"runtime"
)

// StreamFactory produces the uniform stream of one run.  It is only ever
// called from one goroutine, in run order
type StreamFactory func(name string) UniformSource

// RngStreamFactory hands every run its own L'Ecuyer stream
func RngStreamFactory(name string) UniformSource {
	return rngstream.New(name)
}

// runSpec identifies one run of the sweep, and holds its result once done
type runSpec struct {
	proto    Protocol
	devIdx   int
	gIdx     int
	rep      int
	rng      UniformSource
	traced   bool
	throughp float64
}

// SweepRunner executes a SweepCfg
type SweepRunner struct {
	cfg       *SweepCfg
	logger    *slog.Logger
	newStream StreamFactory
	traceMgr  *TraceManager
}

// CreateSweepRunner is a constructor.  A nil logger means slog.Default()
func CreateSweepRunner(cfg *SweepCfg, logger *slog.Logger) *SweepRunner {
	if logger == nil {
		logger = slog.Default()
	}
	sr := new(SweepRunner)
	sr.cfg = cfg
	sr.logger = logger
	sr.newStream = RngStreamFactory
	return sr
}

// SetStreamFactory replaces the source of per-run uniform streams
func (sr *SweepRunner) SetStreamFactory(sf StreamFactory) {
	sr.newStream = sf
}

// SetTraceManager gives the runner a place to record the runs the configuration selects
func (sr *SweepRunner) SetTraceManager(tm *TraceManager) {
	sr.traceMgr = tm
}

// workers returns the size of the run pool
func (sr *SweepRunner) workers() int {
	if sr.cfg.Workers > 0 {
		return sr.cfg.Workers
	}
	return runtime.NumCPU()
}

// planRuns lists every run of the sweep in reporting order and binds
// each to its stream.  Streams are drawn here, sequentially, so that
// the stream a run gets does not depend on scheduling
func (sr *SweepRunner) planRuns(protos []Protocol) []*runSpec {
	cfg := sr.cfg
	for skip := 0; skip < cfg.StreamOffset; skip++ {
		sr.newStream(fmt.Sprintf("skip-%d", skip))
	}

	runs := make([]*runSpec, 0, len(cfg.DeviceCounts)*len(cfg.GValues)*len(protos)*cfg.Replications)
	for devIdx, devices := range cfg.DeviceCounts {
		for gIdx, g := range cfg.GValues {
			for _, proto := range protos {
				for rep := 0; rep < cfg.Replications; rep++ {
					name := fmt.Sprintf("%s/n=%d/G=%g/r=%d", proto.Slug(), devices, g, rep)
					runs = append(runs, &runSpec{
						proto:  proto,
						devIdx: devIdx,
						gIdx:   gIdx,
						rep:    rep,
						rng:    sr.newStream(name),
						traced: sr.traceMgr.Active() && cfg.traced(proto, devices, g),
					})
				}
			}
		}
	}
	return runs
}

// Run executes the sweep and assembles the results table.  Cancelling ctx
// stops runs from being started; runs already underway finish
func (sr *SweepRunner) Run(ctx context.Context) (*ResultsTable, error) {
	cfg := sr.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	protos, _ := cfg.ProtocolList()
	runs := sr.planRuns(protos)

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(sr.workers())

	lastDev := -1
	for runID, run := range runs {
		if err := gctx.Err(); err != nil {
			break
		}
		devices := cfg.DeviceCounts[run.devIdx]
		g := cfg.GValues[run.gIdx]
		if run.devIdx != lastDev {
			sr.logger.Info("Simulating", "devices", devices)
			lastDev = run.devIdx
		}
		if run.proto == protos[0] && run.rep == 0 {
			sr.logger.Debug("Simulating", "devices", devices, "G", g)
		}

		simCfg := SimulationConfig{Protocol: run.proto, DeviceCount: devices,
			OfferedLoad: cfg.OfferedLoad(g), SlotCount: cfg.SlotCount, PacketTime: cfg.PacketTime}

		if run.traced {
			desc := RunDesc{Protocol: run.proto.String(), DeviceCount: devices, OfferedLoad: simCfg.OfferedLoad, Replication: run.rep}
			if err := sr.traceMgr.AddRun(runID, desc); err != nil {
				grp.Wait()
				return nil, err
			}
		}

		grp.Go(func() error {
			ps, err := CreateProtocolSimulator(simCfg, run.rng)
			if err != nil {
				return fmt.Errorf("%s with %d devices at G=%g: %w", run.proto, devices, g, err)
			}
			// traced runs take turns on the slot clock; the rest step
			// directly and run in parallel
			if run.traced {
				ps.SetTrace(sr.traceMgr, runID)
				run.throughp = ps.Run()
				return nil
			}
			run.throughp = ps.runSteps()
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sr.logger.Info("Simulations completed", "runs", len(runs))

	return sr.assemble(protos, runs), nil
}

// assemble folds the finished runs into a results table, averaging replications
func (sr *SweepRunner) assemble(protos []Protocol, runs []*runSpec) *ResultsTable {
	cfg := sr.cfg
	rt := CreateResultsTable(cfg)

	// samples[proto][devIdx][gIdx] holds the replications of one grid point
	samples := make(map[Protocol][][][]float64)
	for _, proto := range protos {
		grid := make([][][]float64, len(cfg.DeviceCounts))
		for devIdx := range grid {
			grid[devIdx] = make([][]float64, len(cfg.GValues))
		}
		samples[proto] = grid
	}
	for _, run := range runs {
		cell := &samples[run.proto][run.devIdx][run.gIdx]
		*cell = append(*cell, run.throughp)
	}

	for _, proto := range protos {
		for devIdx, devices := range cfg.DeviceCounts {
			series := CreateSeries(devices, len(cfg.GValues))
			for gIdx, g := range cfg.GValues {
				mean, std := summarize(samples[proto][devIdx][gIdx])
				analytic, present := AnalyticThroughput(proto, devices, cfg.OfferedLoad(g))
				series.AddPoint(g, mean, std, analytic, present)
			}
			rt.AddSeries(proto, series)
		}
	}
	return rt
}

// RunSweep is a convenience that runs the sweep with rngstream streams and no tracing
func RunSweep(ctx context.Context, cfg *SweepCfg, logger *slog.Logger) (*ResultsTable, error) {
	return CreateSweepRunner(cfg, logger).Run(ctx)
}
