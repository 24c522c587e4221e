package lanmac

// desc-cfg.go holds the serializable description of a parameter sweep,
// and the functions that read, write, and check it

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/naoina/toml"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
	"math"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// A TraceSel picks out the runs of a sweep whose slots are traced.
// G is matched against the normalized load of the sweep's GValues, not the
// offered load G/PacketTime. Zero-valued Devices or G match every device count or load
type TraceSel struct {
	Protocol string  `json:"protocol" yaml:"protocol" toml:"protocol"`
	Devices  int     `json:"devices" yaml:"devices" toml:"devices"`
	G        float64 `json:"g" yaml:"g" toml:"g"`
}

// matches reports whether a run falls under the selector
func (sel *TraceSel) matches(proto Protocol, devices int, g float64) bool {
	selProto, err := ProtocolFromStr(sel.Protocol)
	if err != nil || selProto != proto {
		return false
	}
	if sel.Devices != 0 && sel.Devices != devices {
		return false
	}
	return sel.G == 0.0 || sel.G == g
}

// SweepCfg describes a whole experiment: the grid of device counts and
// normalized loads, the protocols to run at every grid point, and run parameters
type SweepCfg struct {
	// Name is an identifier for the experiment, used to label results and traces
	Name string `json:"expname" yaml:"expname" toml:"expname"`

	// Protocols lists display names of the protocols to simulate
	Protocols []string `json:"protocols" yaml:"protocols" toml:"protocols"`

	// DeviceCounts is the device population sweep, in reporting order
	DeviceCounts []int `json:"devicecounts" yaml:"devicecounts" toml:"devicecounts"`

	// GValues is the normalized load sweep.  The offered load of a run is G/PacketTime
	GValues []float64 `json:"gvalues" yaml:"gvalues" toml:"gvalues"`

	// SlotCount is the number of slots simulated per run
	SlotCount int `json:"slotcount" yaml:"slotcount" toml:"slotcount"`

	// PacketTime is the transmission time of one packet, in slots
	PacketTime int `json:"packettime" yaml:"packettime" toml:"packettime"`

	// Replications is the number of independent runs averaged at each grid point
	Replications int `json:"replications" yaml:"replications" toml:"replications"`

	// Workers bounds the number of runs executed concurrently. Zero means one per CPU
	Workers int `json:"workers" yaml:"workers" toml:"workers"`

	// StreamOffset is the number of random number streams skipped before the first run
	StreamOffset int `json:"streamoffset" yaml:"streamoffset" toml:"streamoffset"`

	// Trace selects runs whose every slot is recorded
	Trace []TraceSel `json:"trace,omitempty" yaml:"trace,omitempty" toml:"trace"`
}

// CreateSweepCfg is a constructor.  The returned sweep is the classic one:
// every protocol, 5 to 50 devices in steps of 5, G from 1 to 10, 10000 slots
func CreateSweepCfg(name string) *SweepCfg {
	sc := new(SweepCfg)
	sc.Name = name
	sc.Protocols = ProtocolNames()
	sc.DeviceCounts = make([]int, 0, 10)
	for devices := 5; devices <= 50; devices += 5 {
		sc.DeviceCounts = append(sc.DeviceCounts, devices)
	}
	sc.GValues = make([]float64, 0, 10)
	for g := 1; g <= 10; g++ {
		sc.GValues = append(sc.GValues, float64(g))
	}
	sc.SlotCount = DefaultSlotCount
	sc.PacketTime = DefaultPacketTime
	sc.Replications = 1
	sc.Trace = []TraceSel{}
	return sc
}

// ProtocolList converts the configured protocol names
func (sc *SweepCfg) ProtocolList() ([]Protocol, error) {
	protos := make([]Protocol, 0, len(sc.Protocols))
	errs := []error{}
	for _, name := range sc.Protocols {
		proto, err := ProtocolFromStr(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		protos = append(protos, proto)
	}
	return protos, ReportErrs(errs)
}

// OfferedLoad converts a normalized load G into attempts per slot
func (sc *SweepCfg) OfferedLoad(g float64) float64 {
	return g / float64(sc.PacketTime)
}

// Validate gathers every problem with the sweep description into one error
func (sc *SweepCfg) Validate() error {
	errs := []error{}

	protos, err := sc.ProtocolList()
	errs = append(errs, err)
	if len(sc.Protocols) == 0 {
		errs = append(errs, errors.New("no protocols selected"))
	}
	for idx := range protos {
		if slices.Contains(protos[:idx], protos[idx]) {
			errs = append(errs, fmt.Errorf("protocol %s listed more than once", protos[idx]))
		}
	}

	if len(sc.DeviceCounts) == 0 {
		errs = append(errs, errors.New("no device counts selected"))
	}
	for _, devices := range sc.DeviceCounts {
		if devices <= 0 {
			errs = append(errs, fmt.Errorf("device count %d must be positive", devices))
		}
	}

	if len(sc.GValues) == 0 {
		errs = append(errs, errors.New("no load values selected"))
	}
	for _, g := range sc.GValues {
		if g < 0.0 || math.IsNaN(g) || math.IsInf(g, 0) {
			errs = append(errs, fmt.Errorf("load %v must be a non-negative number", g))
		}
	}

	if sc.SlotCount <= 0 {
		errs = append(errs, fmt.Errorf("slot count %d must be positive", sc.SlotCount))
	}
	if sc.PacketTime < 1 {
		errs = append(errs, fmt.Errorf("packet time %d must be at least one slot", sc.PacketTime))
	}
	if sc.Replications < 1 {
		errs = append(errs, fmt.Errorf("replications %d must be at least 1", sc.Replications))
	}
	if sc.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must not be negative", sc.Workers))
	}
	if sc.StreamOffset < 0 {
		errs = append(errs, fmt.Errorf("stream offset %d must not be negative", sc.StreamOffset))
	}
	for _, sel := range sc.Trace {
		if _, err := ProtocolFromStr(sel.Protocol); err != nil {
			errs = append(errs, fmt.Errorf("trace selector: %w", err))
		}
	}

	return ReportErrs(errs)
}

// traced reports whether any trace selector picks out the run
func (sc *SweepCfg) traced(proto Protocol, devices int, g float64) bool {
	for idx := range sc.Trace {
		if sc.Trace[idx].matches(proto, devices, g) {
			return true
		}
	}
	return false
}

// cfgFormat names the serialization implied by a file extension
func cfgFormat(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	}
	return ""
}

// Marshal serializes the SweepCfg as "yaml", "json", or "toml"
func (sc *SweepCfg) Marshal(format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(sc)
	case "json":
		return json.MarshalIndent(sc, "", "\t")
	case "toml":
		return toml.Marshal(*sc)
	}
	return nil, fmt.Errorf("unsupported configuration format %q", format)
}

// WriteToFile stores the SweepCfg struct to the file whose name is given.
// Serialization to json, yaml, or toml is selected based on the extension of this name.
func (sc *SweepCfg) WriteToFile(filename string) error {
	bytes, merr := sc.Marshal(cfgFormat(filename))
	if merr != nil {
		return fmt.Errorf("serializing %s: %w", filename, merr)
	}
	if werr := os.WriteFile(filename, bytes, 0o644); werr != nil {
		return fmt.Errorf("writing %s: %w", filename, werr)
	}
	return nil
}

// ReadSweepCfg deserializes a byte slice holding a representation of a SweepCfg struct.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read
// to acquire them.  The extension of filename selects yaml, json, or toml.
// Fields absent from the representation keep their default values
func ReadSweepCfg(filename string, dict []byte) (*SweepCfg, error) {
	var err error

	// if the dict slice of bytes is empty we get them from the file whose name is an argument
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	example := CreateSweepCfg(strings.TrimSuffix(filepath.Base(filename), path.Ext(filename)))

	switch cfgFormat(filename) {
	case "yaml":
		err = yaml.Unmarshal(dict, example)
	case "json":
		err = json.Unmarshal(dict, example)
	case "toml":
		err = toml.Unmarshal(dict, example)
	default:
		err = fmt.Errorf("%s: unsupported configuration format", filename)
	}

	if err != nil {
		return nil, fmt.Errorf("reading sweep configuration %s: %w", filename, err)
	}

	return example, nil
}

// ReportErrs transforms a list of errors and transforms the non-nil ones into a single error
// with comma-separated report of all the constituent errors, and returns it.
func ReportErrs(errs []error) error {
	errMsg := make([]string, 0)
	for _, err := range errs {
		if err != nil {
			errMsg = append(errMsg, err.Error())
		}
	}
	if len(errMsg) == 0 {
		return nil
	}

	return errors.New(strings.Join(errMsg, ","))
}

// CheckOutputFiles probes the file system to ensure that the directory
// of every (non-empty) argument filename exists, so that it can be written.
func CheckOutputFiles(names []string) (bool, error) {
	errs := make([]error, 0)

	for _, name := range names {
		if len(name) == 0 {
			continue
		}

		// split off the directory portion of the path
		directory, _ := filepath.Split(name)
		if len(directory) == 0 {
			continue
		}
		if _, err := os.Stat(directory); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return true, nil
	}
	return false, ReportErrs(errs)
}

// CheckDirectories probes the file system for the existence
// of every (non-empty) directory in the list.
func CheckDirectories(dirs []string) (bool, error) {
	failures := []string{}

	for _, dir := range dirs {
		if len(dir) == 0 {
			continue
		}

		info, err := os.Stat(dir)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s not reachable", dir))
			continue
		}
		if !info.IsDir() {
			failures = append(failures, fmt.Sprintf("%s not a directory", dir))
		}
	}
	if len(failures) == 0 {
		return true, nil
	}

	return false, errors.New(strings.Join(failures, ","))
}
