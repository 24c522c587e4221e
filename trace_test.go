package lanmac

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSlotTraceRecords(t *testing.T) {
	tm := CreateTraceManager("trace", true)
	require.NoError(t, tm.AddRun(4, RunDesc{Protocol: "CSMA/CD", DeviceCount: 2, OfferedLoad: 1}))

	// slot 0 idle, slot 1 success, slot 2 frozen
	rng := &scriptedSource{draws: []float64{0.9, 0.9, 0.1, 0.9}, fill: 0.9}
	ps := newSimulator(t, CsmaCd, 2, 1.0, 3, rng)
	ps.SetTrace(tm, 4)
	ps.Run()

	traces := tm.RunTraces(4)
	require.Len(t, traces, 3)

	outcomes := []string{"idle", "success", "idle"}
	for idx, ti := range traces {
		assert.Equal(t, "slot", ti.TraceType)
		st := SlotTrace{}
		require.NoError(t, yaml.Unmarshal([]byte(ti.TraceStr), &st))
		assert.Equal(t, idx, st.Slot)
		assert.Equal(t, float64(idx), st.Time)
		assert.Equal(t, outcomes[idx], st.Outcome)
	}

	last := SlotTrace{}
	require.NoError(t, yaml.Unmarshal([]byte(traces[2].TraceStr), &last))
	assert.Equal(t, 1, last.Attempted)
	assert.Equal(t, 1, last.Succeeded)
	assert.Equal(t, 0, last.Attempts)
}

func TestTraceManagerInactive(t *testing.T) {
	var nilMgr *TraceManager
	assert.False(t, nilMgr.Active())
	assert.NoError(t, nilMgr.WriteToFile("never.yaml"))

	tm := CreateTraceManager("off", false)
	assert.NoError(t, tm.AddRun(1, RunDesc{}))
	tm.AddTrace(1, TraceInst{TraceType: "slot"})
	assert.Empty(t, tm.RunByID)
	assert.Nil(t, tm.RunTraces(1))
}

func TestTraceManagerDuplicateRun(t *testing.T) {
	tm := CreateTraceManager("dup", true)
	require.NoError(t, tm.AddRun(1, RunDesc{Protocol: "Pure ALOHA"}))
	assert.Error(t, tm.AddRun(1, RunDesc{Protocol: "Pure ALOHA"}))
}

func TestTraceManagerWriteToFile(t *testing.T) {
	dir := t.TempDir()
	tm := CreateTraceManager("written", true)
	require.NoError(t, tm.AddRun(0, RunDesc{Protocol: "Slotted ALOHA", DeviceCount: 3}))
	tm.AddTrace(0, TraceInst{TraceTime: "0", TraceType: "slot", TraceStr: "slot: 0\n"})

	filename := filepath.Join(dir, "trace.yaml")
	require.NoError(t, tm.WriteToFile(filename))

	bytes, err := os.ReadFile(filename)
	require.NoError(t, err)
	back := CreateTraceManager("", false)
	require.NoError(t, yaml.Unmarshal(bytes, back))
	assert.Equal(t, "written", back.ExpName)
	assert.Equal(t, 3, back.RunByID[0].DeviceCount)
	assert.Len(t, back.Traces[0], 1)
}
