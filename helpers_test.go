package lanmac

import (
	"math/rand/v2"
	"testing"
)

// scriptedSource replays fixed draws, then keeps returning fill
type scriptedSource struct {
	draws []float64
	next  int
	fill  float64
}

func (ss *scriptedSource) RandU01() float64 {
	if ss.next < len(ss.draws) {
		u := ss.draws[ss.next]
		ss.next += 1
		return u
	}
	ss.next += 1
	return ss.fill
}

// used reports the number of draws consumed
func (ss *scriptedSource) used() int {
	return ss.next
}

// pcgSource is a seeded uniform source, for reproducible runs
type pcgSource struct {
	rng *rand.Rand
}

func newPCGSource(seed uint64) *pcgSource {
	return &pcgSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (ps *pcgSource) RandU01() float64 {
	return ps.rng.Float64()
}

// pcgFactory hands out seeded streams in call order
func pcgFactory(base uint64) StreamFactory {
	next := base
	return func(name string) UniformSource {
		next += 1
		return newPCGSource(next)
	}
}

func newSimulator(t *testing.T, proto Protocol, devices int, load float64, slots int, rng UniformSource) *ProtocolSimulator {
	t.Helper()
	cfg := SimulationConfig{Protocol: proto, DeviceCount: devices, OfferedLoad: load, SlotCount: slots, PacketTime: DefaultPacketTime}
	ps, err := CreateProtocolSimulator(cfg, rng)
	if err != nil {
		t.Fatalf("creating simulator: %v", err)
	}
	return ps
}
