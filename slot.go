package lanmac

// slot.go holds the per-slot contention model.  Every protocol is
// described by a slotModel record (gate, probability scale, state update)
// that the simulator applies to a shared channelState one slot at a time

// SlotOutcome classifies a slot by the number of transmission attempts made in it
type SlotOutcome int

const (
	Idle SlotOutcome = iota
	Success
	Collision
)

var outcomeToStr map[SlotOutcome]string = map[SlotOutcome]string{Idle: "idle", Success: "success", Collision: "collision"}

func (so SlotOutcome) String() string {
	return outcomeToStr[so]
}

// classifySlot maps an attempt count onto the slot outcome
func classifySlot(attempts int) SlotOutcome {
	switch {
	case attempts == 0:
		return Idle
	case attempts == 1:
		return Success
	default:
		return Collision
	}
}

// UniformSource is satisfied by anything that gives U(0,1) samples,
// in particular *rngstream.RngStream
type UniformSource interface {
	RandU01() float64
}

// channelState is the protocol-dependent state carried from slot to slot.
// ALOHA variants ignore it, persistent CSMA uses busy, CSMA/CD uses collisionWindow
type channelState struct {
	busy            bool
	collisionWindow int
}

// slotModel describes one protocol as a strategy over channelState
type slotModel struct {
	// multiplies the per-device attempt probability offered_load/device_count
	pScale float64

	// reports whether devices may attempt in the slot about to start
	open func(cs *channelState) bool

	// evolves the channel state once the slot outcome is known.
	// packetTime is the freeze length (in slots) used by CSMA/CD
	update func(cs *channelState, outcome SlotOutcome, packetTime int)
}

func alwaysOpen(cs *channelState) bool { return true }

func noUpdate(cs *channelState, outcome SlotOutcome, packetTime int) {}

func idleChannel(cs *channelState) bool { return !cs.busy }

// busy only follows a successful slot; collisions and idle slots clear it
func persistUpdate(cs *channelState, outcome SlotOutcome, packetTime int) {
	cs.busy = (outcome == Success)
}

func windowClosed(cs *channelState) bool { return cs.collisionWindow == 0 }

// any transmission (successful or not) freezes the channel for packetTime slots.
// The window only counts down in idle slots, never in the slot that set it
func windowUpdate(cs *channelState, outcome SlotOutcome, packetTime int) {
	switch outcome {
	case Success, Collision:
		cs.collisionWindow = packetTime
	case Idle:
		if cs.collisionWindow > 0 {
			cs.collisionWindow -= 1
		}
	}
}

var alohaModel = slotModel{pScale: 1.0, open: alwaysOpen, update: noUpdate}

// slotModels binds every protocol to its strategy.  Pure and Slotted ALOHA
// deliberately share one model
var slotModels map[Protocol]*slotModel = map[Protocol]*slotModel{
	PureAloha:         &alohaModel,
	SlottedAloha:      &alohaModel,
	Persistent1CSMA:   {pScale: 1.0, open: idleChannel, update: persistUpdate},
	Persistent0_5CSMA: {pScale: 0.5, open: idleChannel, update: persistUpdate},
	CsmaCd:            {pScale: 1.0, open: windowClosed, update: windowUpdate},
}

// countAttempts draws once per device and counts the devices whose draw
// falls below pr.  pr is not clamped, so pr >= 1 means every device attempts
func countAttempts(rng UniformSource, devices int, pr float64) int {
	attempts := 0
	for dev := 0; dev < devices; dev++ {
		if rng.RandU01() < pr {
			attempts += 1
		}
	}
	return attempts
}
