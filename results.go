package lanmac

// results.go holds the ResultsTable, the product of a sweep: for every
// protocol, one series of (G, S) pairs per device count, in sweep order

import (
	"encoding/json"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"path"
)

// Series holds the throughput curve of one protocol at one device count.
// G, S, StdDev and Analytic are index-aligned
type Series struct {
	Devices int       `json:"devices" yaml:"devices"`
	G       []float64 `json:"g" yaml:"g"`
	S       []float64 `json:"s" yaml:"s"`

	// standard deviation of S across replications, zero with a single replication
	StdDev []float64 `json:"stddev" yaml:"stddev"`

	// expected S from the closed-form model, for protocols that have one
	Analytic []float64 `json:"analytic,omitempty" yaml:"analytic,omitempty"`
}

// CreateSeries is a constructor
func CreateSeries(devices, points int) *Series {
	series := new(Series)
	series.Devices = devices
	series.G = make([]float64, 0, points)
	series.S = make([]float64, 0, points)
	series.StdDev = make([]float64, 0, points)
	return series
}

// AddPoint appends one load value and its measured throughput
func (series *Series) AddPoint(g, s, std, analytic float64, hasAnalytic bool) {
	series.G = append(series.G, g)
	series.S = append(series.S, s)
	series.StdDev = append(series.StdDev, std)
	if hasAnalytic {
		series.Analytic = append(series.Analytic, analytic)
	}
}

// At returns the throughput measured at load g
func (series *Series) At(g float64) (float64, bool) {
	for idx, sg := range series.G {
		if sg == g {
			return series.S[idx], true
		}
	}
	return 0.0, false
}

// ResultsTable maps protocol display names to their series, one per
// device count in sweep order
type ResultsTable struct {
	Name         string              `json:"expname" yaml:"expname"`
	SlotCount    int                 `json:"slotcount" yaml:"slotcount"`
	PacketTime   int                 `json:"packettime" yaml:"packettime"`
	Replications int                 `json:"replications" yaml:"replications"`
	Protocols    []string            `json:"protocols" yaml:"protocols"` // reporting order
	DeviceCounts []int               `json:"devicecounts" yaml:"devicecounts"`
	Results      map[string][]Series `json:"results" yaml:"results"`
}

// CreateResultsTable is a constructor; it copies the identifying parameters of the sweep
func CreateResultsTable(cfg *SweepCfg) *ResultsTable {
	rt := new(ResultsTable)
	rt.Name = cfg.Name
	rt.SlotCount = cfg.SlotCount
	rt.PacketTime = cfg.PacketTime
	rt.Replications = cfg.Replications
	rt.Protocols = []string{}
	rt.DeviceCounts = append([]int(nil), cfg.DeviceCounts...)
	rt.Results = make(map[string][]Series)
	return rt
}

// AddSeries appends a series to the protocol's list
func (rt *ResultsTable) AddSeries(proto Protocol, series *Series) {
	name := proto.String()
	if _, present := rt.Results[name]; !present {
		rt.Protocols = append(rt.Protocols, name)
	}
	rt.Results[name] = append(rt.Results[name], *series)
}

// Lookup returns the series of a protocol at a device count
func (rt *ResultsTable) Lookup(proto Protocol, devices int) (*Series, bool) {
	for idx := range rt.Results[proto.String()] {
		if rt.Results[proto.String()][idx].Devices == devices {
			return &rt.Results[proto.String()][idx], true
		}
	}
	return nil, false
}

// Curves returns, for one protocol, the (G values, S values) pairs of every
// device count in sweep order
func (rt *ResultsTable) Curves(proto Protocol) [][2][]float64 {
	curves := [][2][]float64{}
	for _, series := range rt.Results[proto.String()] {
		curves = append(curves, [2][]float64{series.G, series.S})
	}
	return curves
}

// WriteToFile stores the ResultsTable to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (rt *ResultsTable) WriteToFile(filename string) error {
	return writeSerialized(filename, rt)
}

// ReadResultsTable deserializes a byte slice holding a representation of a ResultsTable.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read
// to acquire them.
func ReadResultsTable(filename string, dict []byte) (*ResultsTable, error) {
	var err error
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	example := ResultsTable{}
	switch path.Ext(filename) {
	case ".yaml", ".YAML", ".yml":
		err = yaml.Unmarshal(dict, &example)
	case ".json", ".JSON":
		err = json.Unmarshal(dict, &example)
	default:
		err = fmt.Errorf("unsupported extension %q", path.Ext(filename))
	}

	if err != nil {
		return nil, fmt.Errorf("reading results %s: %w", filename, err)
	}
	return &example, nil
}
