package lanmac

// simulator.go holds the ProtocolSimulator, which carries a single
// (protocol, device count, offered load) combination through a fixed
// number of slots and reports the throughput of the run

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSlotCount is the number of slots simulated per run
const DefaultSlotCount = 10000

// DefaultPacketTime is the transmission time of one packet, in slots
const DefaultPacketTime = 1

// SimulationConfig describes one simulation run.  It is not changed once a run starts
type SimulationConfig struct {
	Protocol    Protocol
	DeviceCount int
	OfferedLoad float64 // G, attempts per packet time across all devices
	SlotCount   int
	PacketTime  int // slots per packet; freeze length for CSMA/CD
}

// Validate returns an error if the configuration cannot be simulated.
// An offered load of zero is legal and gives throughput 0
func (cfg *SimulationConfig) Validate() error {
	errs := []error{}
	if _, present := slotModels[cfg.Protocol]; !present {
		errs = append(errs, fmt.Errorf("protocol %d is not recognized", int(cfg.Protocol)))
	}
	if cfg.DeviceCount <= 0 {
		errs = append(errs, fmt.Errorf("device count %d must be positive", cfg.DeviceCount))
	}
	if cfg.OfferedLoad < 0.0 || math.IsNaN(cfg.OfferedLoad) || math.IsInf(cfg.OfferedLoad, 0) {
		errs = append(errs, fmt.Errorf("offered load %v must be a non-negative number", cfg.OfferedLoad))
	}
	if cfg.SlotCount <= 0 {
		errs = append(errs, fmt.Errorf("slot count %d must be positive", cfg.SlotCount))
	}
	if cfg.PacketTime < 1 {
		errs = append(errs, fmt.Errorf("packet time %d must be at least one slot", cfg.PacketTime))
	}
	return ReportErrs(errs)
}

// attemptPr is the per-device, per-slot attempt probability under the configuration
func (cfg *SimulationConfig) attemptPr() float64 {
	return slotModels[cfg.Protocol].pScale * cfg.OfferedLoad / float64(cfg.DeviceCount)
}

// RunAccumulator gathers the counts a run's throughput is computed from
type RunAccumulator struct {
	Successes      int `json:"successes" yaml:"successes"`
	Attempts       int `json:"attempts" yaml:"attempts"`
	IdleSlots      int `json:"idle" yaml:"idle"`
	CollisionSlots int `json:"collisions" yaml:"collisions"`
}

// record folds one slot into the accumulator
func (acc *RunAccumulator) record(attempts int, outcome SlotOutcome) {
	acc.Attempts += attempts
	switch outcome {
	case Idle:
		acc.IdleSlots += 1
	case Success:
		acc.Successes += 1
	case Collision:
		acc.CollisionSlots += 1
	}
}

// Throughput is the fraction of attempted transmissions that succeeded,
// defined as zero when nothing was attempted
func (acc *RunAccumulator) Throughput() float64 {
	if acc.Attempts == 0 {
		return 0.0
	}
	return float64(acc.Successes) / float64(acc.Attempts)
}

// ErrRunComplete is returned by Step once every configured slot has been simulated
var ErrRunComplete = errors.New("all slots of the run have been simulated")

// ProtocolSimulator owns the channel state and accumulator of one run
type ProtocolSimulator struct {
	cfg   SimulationConfig
	model *slotModel
	pr    float64 // per-device attempt probability while the channel is open

	state channelState
	acc   RunAccumulator
	slot  int // number of slots simulated so far

	rng UniformSource // private to this run

	// optional per-slot trace
	traceMgr *TraceManager
	runID    int
}

// CreateProtocolSimulator is a constructor.  It validates the configuration
// and binds the run to its uniform stream
func CreateProtocolSimulator(cfg SimulationConfig, rng UniformSource) (*ProtocolSimulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("simulation needs a uniform source")
	}
	ps := new(ProtocolSimulator)
	ps.cfg = cfg
	ps.model = slotModels[cfg.Protocol]
	ps.pr = cfg.attemptPr()
	ps.rng = rng
	return ps, nil
}

// SetTrace asks the simulator to record every slot it simulates under runID
func (ps *ProtocolSimulator) SetTrace(tm *TraceManager, runID int) {
	ps.traceMgr = tm
	ps.runID = runID
}

// Config returns the configuration of the run
func (ps *ProtocolSimulator) Config() SimulationConfig {
	return ps.cfg
}

// Slot returns the number of slots simulated so far
func (ps *ProtocolSimulator) Slot() int {
	return ps.slot
}

// Done reports whether the run has simulated all its slots
func (ps *ProtocolSimulator) Done() bool {
	return ps.slot >= ps.cfg.SlotCount
}

// Busy reports the carrier-sense flag used by the persistent CSMA variants
func (ps *ProtocolSimulator) Busy() bool {
	return ps.state.busy
}

// CollisionWindow reports the remaining CSMA/CD freeze, in slots
func (ps *ProtocolSimulator) CollisionWindow() int {
	return ps.state.collisionWindow
}

// Accumulator returns a copy of the counts gathered so far
func (ps *ProtocolSimulator) Accumulator() RunAccumulator {
	return ps.acc
}

// Throughput returns the throughput of the slots simulated so far
func (ps *ProtocolSimulator) Throughput() float64 {
	return ps.acc.Throughput()
}

// Step simulates one slot: gate on the state left by the previous slot,
// let every device draw, classify, account, and evolve the channel state.
// A gated slot consumes no draws.
func (ps *ProtocolSimulator) Step() (SlotOutcome, int, error) {
	if ps.Done() {
		return Idle, 0, ErrRunComplete
	}

	attempts := 0
	if ps.model.open(&ps.state) {
		attempts = countAttempts(ps.rng, ps.cfg.DeviceCount, ps.pr)
	}
	outcome := classifySlot(attempts)

	ps.acc.record(attempts, outcome)
	ps.model.update(&ps.state, outcome, ps.cfg.PacketTime)

	if ps.traceMgr.Active() {
		ps.traceMgr.AddSlotTrace(ps.runID, ps.slotTrace(attempts, outcome))
	}
	ps.slot += 1
	return outcome, attempts, nil
}

// Run simulates every remaining slot on the event-driven slot clock and
// returns the run's throughput.  Slot clocks run one at a time across the
// package, see evtMu
func (ps *ProtocolSimulator) Run() float64 {
	clock := CreateSlotClock(ps)
	clock.Run()
	return ps.Throughput()
}

// runSteps simulates every remaining slot in a plain loop, without the
// event manager, and returns the run's throughput.  Sweeps use it so
// that runs execute in parallel
func (ps *ProtocolSimulator) runSteps() float64 {
	for !ps.Done() {
		if _, _, err := ps.Step(); err != nil {
			break
		}
	}
	return ps.Throughput()
}

// Simulate is a convenience that creates and runs a simulator in one call
func Simulate(cfg SimulationConfig, rng UniformSource) (float64, error) {
	ps, err := CreateProtocolSimulator(cfg, rng)
	if err != nil {
		return 0.0, err
	}
	return ps.Run(), nil
}
