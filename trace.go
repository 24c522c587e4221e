package lanmac

// trace.go holds the TraceManager, which gathers slot-by-slot records of
// the runs a sweep selects for tracing

import (
	"encoding/json"
	"fmt"
	"github.com/iti/evt/vrtime"
	"gopkg.in/yaml.v3"
	"os"
	"path"
	"strconv"
	"sync"
)

type TraceInst struct {
	TraceTime string `json:"tracetime" yaml:"tracetime"`
	TraceType string `json:"tracetype" yaml:"tracetype"`
	TraceStr  string `json:"tracestr" yaml:"tracestr"`
}

// RunDesc names the run whose slots are gathered under a run id
type RunDesc struct {
	Protocol    string  `json:"protocol" yaml:"protocol"`
	DeviceCount int     `json:"devices" yaml:"devices"`
	OfferedLoad float64 `json:"load" yaml:"load"`
	Replication int     `json:"replication" yaml:"replication"`
}

// TraceManager gathers slot-level information about selected runs of a sweep.
// Runs execute concurrently, so all access is under mu
type TraceManager struct {
	// experiment uses trace
	InUse bool `json:"inuse" yaml:"inuse"`

	// name of experiment
	ExpName string `json:"expname" yaml:"expname"`

	// description of each traced run, by run id
	RunByID map[int]RunDesc `json:"runbyid" yaml:"runbyid"`

	// all trace records for this experiment, by run id
	Traces map[int][]TraceInst `json:"traces" yaml:"traces"`

	mu sync.Mutex
}

// CreateTraceManager is a constructor.  It saves the name of the experiment
// and a flag indicating whether the trace manager is active.  An inactive
// manager ignores every request to record
func CreateTraceManager(expName string, active bool) *TraceManager {
	tm := new(TraceManager)
	tm.InUse = active
	tm.ExpName = expName
	tm.RunByID = make(map[int]RunDesc)
	tm.Traces = make(map[int][]TraceInst)
	return tm
}

// Active tells the caller whether the Trace Manager is actively being used
func (tm *TraceManager) Active() bool {
	return tm != nil && tm.InUse
}

// AddRun is used to add an element to the id -> run dictionary
func (tm *TraceManager) AddRun(runID int, desc RunDesc) error {
	if !tm.Active() {
		return nil
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if _, present := tm.RunByID[runID]; present {
		return fmt.Errorf("run id %d already traced", runID)
	}
	tm.RunByID[runID] = desc
	return nil
}

// AddTrace stores a trace record under the given run id
func (tm *TraceManager) AddTrace(runID int, trace TraceInst) {
	if !tm.Active() {
		return
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.Traces[runID] = append(tm.Traces[runID], trace)
}

// RunTraces returns a copy of the records gathered for a run
func (tm *TraceManager) RunTraces(runID int) []TraceInst {
	if !tm.Active() {
		return nil
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return append([]TraceInst(nil), tm.Traces[runID]...)
}

// WriteToFile stores the TraceManager to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
// An inactive manager writes nothing
func (tm *TraceManager) WriteToFile(filename string) error {
	if !tm.Active() {
		return nil
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return writeSerialized(filename, tm)
}

// SlotTrace saves what happened in one slot of a traced run
type SlotTrace struct {
	Slot      int     `json:"slot" yaml:"slot"`
	Time      float64 `json:"time" yaml:"time"`
	Ticks     int64   `json:"ticks" yaml:"ticks"`
	Attempts  int     `json:"attempts" yaml:"attempts"`
	Outcome   string  `json:"outcome" yaml:"outcome"`
	Busy      bool    `json:"busy" yaml:"busy"`           // channel state after the slot
	Window    int     `json:"window" yaml:"window"`       // collision window after the slot
	Attempted int     `json:"attempted" yaml:"attempted"` // running total
	Succeeded int     `json:"succeeded" yaml:"succeeded"` // running total
}

func (str *SlotTrace) Serialize() string {
	bytes, merr := yaml.Marshal(*str)
	if merr != nil {
		panic(merr)
	}
	return string(bytes[:])
}

// slotTrace builds the trace record of the slot just simulated
func (ps *ProtocolSimulator) slotTrace(attempts int, outcome SlotOutcome) *SlotTrace {
	vrt := vrtime.SecondsToTime(float64(ps.slot * ps.cfg.PacketTime))
	return &SlotTrace{
		Slot:      ps.slot,
		Time:      vrt.Seconds(),
		Ticks:     vrt.Ticks(),
		Attempts:  attempts,
		Outcome:   outcome.String(),
		Busy:      ps.state.busy,
		Window:    ps.state.collisionWindow,
		Attempted: ps.acc.Attempts,
		Succeeded: ps.acc.Successes,
	}
}

// AddSlotTrace serializes a slot record and stores it under the run id
func (tm *TraceManager) AddSlotTrace(runID int, str *SlotTrace) {
	traceTime := strconv.FormatFloat(str.Time, 'f', -1, 64)
	tm.AddTrace(runID, TraceInst{TraceTime: traceTime, TraceType: "slot", TraceStr: str.Serialize()})
}

// writeSerialized marshals v to yaml or json, chosen by the extension of filename,
// and writes the bytes to that file
func writeSerialized(filename string, v any) error {
	var bytes []byte
	var merr error

	pathExt := path.Ext(filename)
	switch pathExt {
	case ".yaml", ".YAML", ".yml":
		bytes, merr = yaml.Marshal(v)
	case ".json", ".JSON":
		bytes, merr = json.MarshalIndent(v, "", "\t")
	default:
		return fmt.Errorf("%s: unsupported extension %q, expected yaml or json", filename, pathExt)
	}
	if merr != nil {
		return fmt.Errorf("serializing %s: %w", filename, merr)
	}

	if werr := os.WriteFile(filename, bytes, 0o644); werr != nil {
		return fmt.Errorf("writing %s: %w", filename, werr)
	}
	return nil
}
