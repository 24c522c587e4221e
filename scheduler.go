package lanmac

// scheduler.go holds the slot clock, which drives a ProtocolSimulator
// through its run as a sequence of discrete events.  Slot t is an event
// at simulation time t*PacketTime; each slot event schedules the next one
// until the run is complete.

import (
	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"
	"sync"
)

// evtm numbers scheduled events from a package-level counter, so event
// managers in different goroutines must not schedule at the same time.
// evtMu serializes every use of evtm in this package
var evtMu sync.Mutex

// SlotClock couples a simulator to its own event manager
type SlotClock struct {
	evtMgr *evtm.EventManager
	ps     *ProtocolSimulator
	fired  int // number of slot events handled
}

// CreateSlotClock is a constructor
func CreateSlotClock(ps *ProtocolSimulator) *SlotClock {
	clock := new(SlotClock)
	evtMu.Lock()
	clock.evtMgr = evtm.New()
	evtMu.Unlock()
	clock.ps = ps
	return clock
}

// slotDuration is the simulated time between consecutive slot events
func (clock *SlotClock) slotDuration() vrtime.Time {
	return vrtime.SecondsToTime(float64(clock.ps.cfg.PacketTime))
}

// Run schedules the first remaining slot and lets the event manager
// work through the rest of the run
func (clock *SlotClock) Run() {
	if clock.ps.Done() {
		return
	}
	evtMu.Lock()
	defer evtMu.Unlock()

	clock.evtMgr.Schedule(clock, nil, slotArrival, vrtime.SecondsToTime(0.0))

	// every slot event lands strictly before this horizon
	remaining := clock.ps.cfg.SlotCount - clock.ps.slot
	horizon := float64(remaining*clock.ps.cfg.PacketTime) + 1.0
	clock.evtMgr.Run(horizon)
}

// Fired returns the number of slot events this clock handled
func (clock *SlotClock) Fired() int {
	return clock.fired
}

// slotArrival is the event handler for the start of a slot
func slotArrival(evtMgr *evtm.EventManager, context any, data any) any {
	clock := context.(*SlotClock)
	clock.fired += 1

	if _, _, err := clock.ps.Step(); err != nil {
		return nil
	}

	if !clock.ps.Done() {
		evtMgr.Schedule(clock, nil, slotArrival, clock.slotDuration())
	}
	return nil
}
