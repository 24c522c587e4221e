package lanmac

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSweepCfgDefaults(t *testing.T) {
	sc := CreateSweepCfg("lan")
	require.NoError(t, sc.Validate())
	assert.Equal(t, []int{5, 10, 15, 20, 25, 30, 35, 40, 45, 50}, sc.DeviceCounts)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, sc.GValues)
	assert.Equal(t, DefaultSlotCount, sc.SlotCount)
	assert.Equal(t, 1.0, sc.OfferedLoad(1.0))
	assert.Len(t, sc.Protocols, 5)
}

func TestSweepCfgValidate(t *testing.T) {
	sc := CreateSweepCfg("bad")
	sc.Protocols = []string{"Pure ALOHA", "pure aloha", "token ring"}
	sc.DeviceCounts = []int{5, 0}
	sc.GValues = []float64{-1}
	sc.Replications = 0
	sc.Trace = []TraceSel{{Protocol: "fddi"}}

	err := sc.Validate()
	require.Error(t, err)
	for _, fragment := range []string{"token ring", "more than once", "device count 0", "load -1", "replications", "trace selector"} {
		assert.Contains(t, err.Error(), fragment)
	}
}

func TestReadSweepCfgFormats(t *testing.T) {
	yamlDict := []byte("expname: small\ndevicecounts: [2, 4]\ngvalues: [0.5, 1]\nslotcount: 300\n")
	jsonDict := []byte(`{"expname": "small", "devicecounts": [2, 4], "gvalues": [0.5, 1], "slotcount": 300}`)
	tomlDict := []byte("expname = \"small\"\ndevicecounts = [2, 4]\ngvalues = [0.5, 1.0]\nslotcount = 300\n")

	for filename, dict := range map[string][]byte{"small.yaml": yamlDict, "small.json": jsonDict, "small.toml": tomlDict} {
		sc, err := ReadSweepCfg(filename, dict)
		require.NoError(t, err, filename)
		assert.Equal(t, "small", sc.Name, filename)
		assert.Equal(t, []int{2, 4}, sc.DeviceCounts, filename)
		assert.Equal(t, []float64{0.5, 1}, sc.GValues, filename)
		assert.Equal(t, 300, sc.SlotCount, filename)

		// absent fields keep their defaults
		assert.Equal(t, DefaultPacketTime, sc.PacketTime, filename)
		assert.Equal(t, 1, sc.Replications, filename)
		assert.Len(t, sc.Protocols, 5, filename)
	}

	_, err := ReadSweepCfg("small.ini", []byte("x=1"))
	assert.Error(t, err)
}

func TestSweepCfgWriteRead(t *testing.T) {
	dir := t.TempDir()
	sc := CreateSweepCfg("saved")
	sc.Replications = 3
	sc.Trace = []TraceSel{{Protocol: "CSMA/CD", Devices: 10, G: 2}}

	for _, name := range []string{"sweep.yaml", "sweep.json"} {
		filename := filepath.Join(dir, name)
		require.NoError(t, sc.WriteToFile(filename))
		back, err := ReadSweepCfg(filename, nil)
		require.NoError(t, err)
		assert.Equal(t, sc, back, name)
	}
}

func TestTraceSelMatches(t *testing.T) {
	sel := TraceSel{Protocol: "CSMA/CD", Devices: 10}
	assert.True(t, sel.matches(CsmaCd, 10, 3))
	assert.False(t, sel.matches(CsmaCd, 15, 3))
	assert.False(t, sel.matches(PureAloha, 10, 3))

	sel.G = 2
	assert.True(t, sel.matches(CsmaCd, 10, 2))
	assert.False(t, sel.matches(CsmaCd, 10, 3))
}

func TestReportErrs(t *testing.T) {
	assert.NoError(t, ReportErrs(nil))
	assert.NoError(t, ReportErrs([]error{nil, nil}))
	err := ReportErrs([]error{errors.New("a"), nil, errors.New("b")})
	assert.EqualError(t, err, "a,b")
}

func TestCheckOutputFiles(t *testing.T) {
	dir := t.TempDir()
	ok, err := CheckOutputFiles([]string{filepath.Join(dir, "out.yaml"), ""})
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = CheckOutputFiles([]string{filepath.Join(dir, "missing", "out.yaml")})
	assert.False(t, ok)
	assert.Error(t, err)

	ok, err = CheckDirectories([]string{dir, filepath.Join(dir, "nope")})
	assert.False(t, ok)
	assert.Error(t, err)
}
