// Package breaker simulates a circuit breaker's mechanical and electrical
// behavior, grounded on Breaker.h/Breaker.cpp's state machine and
// runSimulation scenario runner.
package breaker

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// ErrInvalidDefinition is returned by constructors and SetDefinition when a
// BreakerDefinition fails Validate.
var ErrInvalidDefinition = errors.New("breaker: invalid definition")

// ErrInvalidSimulationParams is returned by RunSimulation when its
// parameters aren't physically sane.
var ErrInvalidSimulationParams = errors.New("breaker: invalid simulation parameters")

// State is one of the six positions a breaker can occupy.
type State int

const (
	StateOpen State = iota
	StateClosed
	StateOpening
	StateClosing
	StateLockedOpen
	StateLockedClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateClosed:
		return "CLOSED"
	case StateOpening:
		return "OPENING"
	case StateClosing:
		return "CLOSING"
	case StateLockedOpen:
		return "LOCKED_OPEN"
	case StateLockedClosed:
		return "LOCKED_CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Definition holds the breaker's physical characteristics and ratings.
// ContactGapMM and DielectricStrengthKVPerMM extend the original's ratings
// with the insulation-coordination fields the spec adds.
type Definition struct {
	OpenTime                  time.Duration
	CloseTime                 time.Duration
	ResistanceOhm             float64
	ArcResistanceOhm          float64
	MaxCurrentA               float64
	VoltageRatingV            float64
	PowerRatingW              float64
	ArcDuration               time.Duration
	ContactGapMM              float64
	DielectricStrengthKVPerMM float64
}

// DefaultDefinition mirrors BreakerDefinition's C++ default member
// initializers, with sane defaults for the added dielectric fields.
func DefaultDefinition() Definition {
	return Definition{
		OpenTime:                  50 * time.Millisecond,
		CloseTime:                 100 * time.Millisecond,
		ResistanceOhm:             0.001,
		ArcResistanceOhm:          0.1,
		MaxCurrentA:               1000.0,
		VoltageRatingV:            400.0,
		PowerRatingW:              400000.0,
		ArcDuration:               20 * time.Millisecond,
		ContactGapMM:              10.0,
		DielectricStrengthKVPerMM: 3.0,
	}
}

// Validate reports whether the definition describes a physically sane
// breaker.
func (d Definition) Validate() error {
	if d.OpenTime <= 0 || d.CloseTime <= 0 {
		return fmt.Errorf("%w: open/close time must be positive", ErrInvalidDefinition)
	}
	if d.ResistanceOhm < 0 || d.ArcResistanceOhm < 0 {
		return fmt.Errorf("%w: resistance must be non-negative", ErrInvalidDefinition)
	}
	if d.MaxCurrentA <= 0 || d.VoltageRatingV <= 0 || d.PowerRatingW <= 0 {
		return fmt.Errorf("%w: current/voltage/power ratings must be positive", ErrInvalidDefinition)
	}
	if d.ContactGapMM <= 0 || d.DielectricStrengthKVPerMM <= 0 {
		return fmt.Errorf("%w: contact gap and dielectric strength must be positive", ErrInvalidDefinition)
	}
	return nil
}

// WithstandVoltageKV returns the breaker's open-contact dielectric
// withstand capability: gap times strength per unit length.
func (d Definition) WithstandVoltageKV() float64 {
	return d.ContactGapMM * d.DielectricStrengthKVPerMM
}

// CallbackFunc is invoked on every state transition. A transition to the
// same state is filtered out by Breaker and does not invoke it.
type CallbackFunc func(oldState, newState State)

// SimulationResult is the recorded trace from one RunSimulation call.
type SimulationResult struct {
	TimePoints    []float64
	CurrentValues []float64
	StateHistory  []State
	TripOccurred  bool
	TripTime      float64
	Summary       string
}

// Breaker is a circuit breaker simulation model: a six-state machine with
// timed open/close transitions, an arc-decay current model while opening,
// and an overload trip.
type Breaker struct {
	state   atomic.Int32
	locked  atomic.Bool
	current atomic.Value // float64

	transitionMu    sync.Mutex
	transitionStart time.Time
	transitionFor   time.Duration
	targetState     State

	defMu sync.Mutex
	def   Definition

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	cbMu sync.Mutex
	cb   CallbackFunc
}

// New constructs a Breaker with the default definition, starting OPEN, and
// launches its background simulation loop.
func New() *Breaker {
	b := &Breaker{def: DefaultDefinition()}
	b.state.Store(int32(StateOpen))
	b.current.Store(float64(0))
	b.StartSimulation()
	return b
}

// NewWithDefinition validates definition and constructs a Breaker from it.
func NewWithDefinition(definition Definition) (*Breaker, error) {
	if err := definition.Validate(); err != nil {
		return nil, err
	}
	b := &Breaker{def: definition}
	b.state.Store(int32(StateOpen))
	b.current.Store(float64(0))
	b.StartSimulation()
	return b, nil
}

func (b *Breaker) State() State {
	return State(b.state.Load())
}

func (b *Breaker) IsClosed() bool {
	s := b.State()
	return s == StateClosed || s == StateLockedClosed
}

func (b *Breaker) IsOpen() bool {
	s := b.State()
	return s == StateOpen || s == StateLockedOpen
}

func (b *Breaker) IsOpening() bool { return b.State() == StateOpening }
func (b *Breaker) IsClosing() bool { return b.State() == StateClosing }
func (b *Breaker) IsLocked() bool  { return b.locked.Load() }

func (b *Breaker) IsInTransition() bool {
	s := b.State()
	return s == StateOpening || s == StateClosing
}

// Open commands the breaker to begin opening. Returns false if locked or
// already open/opening.
func (b *Breaker) Open() bool {
	if b.locked.Load() {
		return false
	}

	current := b.State()
	if current == StateOpen || current == StateOpening {
		return false
	}

	b.defMu.Lock()
	dur := b.def.OpenTime
	b.defMu.Unlock()

	b.transitionMu.Lock()
	b.targetState = StateOpen
	b.transitionFor = dur
	b.transitionStart = time.Now()
	b.transitionMu.Unlock()

	b.transitionTo(StateOpening)
	return true
}

// Close commands the breaker to begin closing. Returns false if locked or
// already closed/closing.
func (b *Breaker) Close() bool {
	if b.locked.Load() {
		return false
	}

	current := b.State()
	if current == StateClosed || current == StateClosing {
		return false
	}

	b.defMu.Lock()
	dur := b.def.CloseTime
	b.defMu.Unlock()

	b.transitionMu.Lock()
	b.targetState = StateClosed
	b.transitionFor = dur
	b.transitionStart = time.Now()
	b.transitionMu.Unlock()

	b.transitionTo(StateClosing)
	return true
}

// Lock freezes the breaker in its current resting position.
func (b *Breaker) Lock() {
	b.locked.Store(true)
	switch b.State() {
	case StateOpen:
		b.transitionTo(StateLockedOpen)
	case StateClosed:
		b.transitionTo(StateLockedClosed)
	}
}

// Unlock releases a locked breaker back to its corresponding resting state.
func (b *Breaker) Unlock() {
	b.locked.Store(false)
	switch b.State() {
	case StateLockedOpen:
		b.transitionTo(StateOpen)
	case StateLockedClosed:
		b.transitionTo(StateClosed)
	}
}

// Trip forces an immediate, unconditional open: clears any lock, drops
// current to zero, and transitions straight to OPEN without the normal
// timed OPENING phase.
func (b *Breaker) Trip() {
	b.locked.Store(false)
	b.transitionTo(StateOpen)
	b.current.Store(float64(0))
}

func (b *Breaker) Definition() Definition {
	b.defMu.Lock()
	defer b.defMu.Unlock()
	return b.def
}

func (b *Breaker) SetDefinition(definition Definition) error {
	if err := definition.Validate(); err != nil {
		return err
	}
	b.defMu.Lock()
	b.def = definition
	b.defMu.Unlock()
	return nil
}

// Resistance returns the breaker's present resistance: its rated on-value
// while closed, linearly interpolated toward its arc-resistance as the
// OPENING/CLOSING transition progresses, and infinity while open.
func (b *Breaker) Resistance() float64 {
	b.defMu.Lock()
	r := b.def.ResistanceOhm
	arcR := b.def.ArcResistanceOhm
	b.defMu.Unlock()

	if b.IsClosed() {
		return r
	}
	if b.IsInTransition() {
		b.transitionMu.Lock()
		elapsed := time.Since(b.transitionStart)
		dur := b.transitionFor
		b.transitionMu.Unlock()

		progress := 0.0
		if dur > 0 {
			progress = float64(elapsed) / float64(dur)
		}
		progress = math.Max(0, math.Min(1, progress))

		return r + (arcR-r)*progress
	}
	return math.Inf(1)
}

func (b *Breaker) Current() float64 {
	return b.current.Load().(float64)
}

// SetCurrent records the measured current through the breaker and trips it
// if the magnitude exceeds the rated maximum.
func (b *Breaker) SetCurrent(amps float64) {
	b.current.Store(amps)

	b.defMu.Lock()
	max := b.def.MaxCurrentA
	b.defMu.Unlock()

	if math.Abs(amps) > max {
		b.Trip()
	}
}

func (b *Breaker) IsOverloaded() bool {
	b.defMu.Lock()
	max := b.def.MaxCurrentA
	b.defMu.Unlock()
	return math.Abs(b.Current()) > max
}

// OnStateChange registers the callback invoked on every state transition.
func (b *Breaker) OnStateChange(callback CallbackFunc) {
	b.cbMu.Lock()
	b.cb = callback
	b.cbMu.Unlock()
}

func (b *Breaker) transitionTo(newState State) {
	old := State(b.state.Swap(int32(newState)))
	if old == newState {
		return
	}

	b.cbMu.Lock()
	cb := b.cb
	b.cbMu.Unlock()
	if cb != nil {
		cb(old, newState)
	}
}

// StartSimulation launches the background tick loop that advances timed
// transitions and the arc-decay current model. It is started automatically
// by New/NewWithDefinition; calling it again while already running is a
// no-op.
func (b *Breaker) StartSimulation() {
	if !b.running.CompareAndSwap(false, true) {
		return
	}
	b.stopCh = make(chan struct{})
	b.wg.Add(1)
	go b.simulationLoop()
}

// StopSimulation halts the background tick loop and waits for it to exit.
func (b *Breaker) StopSimulation() {
	if !b.running.CompareAndSwap(true, false) {
		return
	}
	close(b.stopCh)
	b.wg.Wait()
}

func (b *Breaker) simulationLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			b.updateState()
		}
	}
}

func (b *Breaker) updateState() {
	current := b.State()

	if current == StateOpening || current == StateClosing {
		b.transitionMu.Lock()
		elapsed := time.Since(b.transitionStart)
		target := b.targetState
		dur := b.transitionFor
		b.transitionMu.Unlock()

		if elapsed >= dur {
			b.transitionTo(target)
			if target == StateOpen {
				b.current.Store(float64(0))
			}
		}
	}

	if current == StateOpening {
		amps := b.Current()
		if amps > 0.0 {
			b.defMu.Lock()
			arcDuration := b.def.ArcDuration
			b.defMu.Unlock()

			decayRate := amps / arcDuration.Seconds()
			newCurrent := math.Max(0.0, amps-decayRate*0.01)
			b.current.Store(newCurrent)
		}
	}
}

// RunSimulation closes the breaker, then steps a nominal-then-fault current
// scenario forward in timeStep increments for durationS, recording the
// current and state at every step and the first time the breaker opens.
//
// Unlike the scenario this is grounded on, the validity check requires a
// positive voltage rather than rejecting one: voltageV <= 0 is treated as
// invalid, not voltageV > 0.
func (b *Breaker) RunSimulation(voltageV, nominalCurrentA, faultCurrentA, faultTimeS, durationS, timeStepS float64) (SimulationResult, error) {
	if voltageV <= 0.0 || nominalCurrentA < 0.0 || durationS <= 0.0 || timeStepS <= 0.0 {
		return SimulationResult{}, ErrInvalidSimulationParams
	}

	result := SimulationResult{}

	b.Close()
	b.defMu.Lock()
	settle := b.def.CloseTime
	b.defMu.Unlock()
	time.Sleep(settle + 50*time.Microsecond)

	timeElapsed := 0.0
	faultInjected := false

	for timeElapsed < durationS {
		current := nominalCurrentA

		if timeElapsed >= faultTimeS && !faultInjected {
			current = faultCurrentA
			faultInjected = true
		} else if faultInjected {
			current = faultCurrentA
		}

		if b.IsClosed() {
			b.SetCurrent(current)
		} else {
			b.SetCurrent(0.0)
		}

		result.TimePoints = append(result.TimePoints, timeElapsed)
		result.CurrentValues = append(result.CurrentValues, b.Current())
		result.StateHistory = append(result.StateHistory, b.State())

		if !result.TripOccurred && b.IsOpen() && timeElapsed > 0.0 {
			result.TripOccurred = true
			result.TripTime = timeElapsed
		}

		time.Sleep(time.Duration(timeStepS * float64(time.Second)))
		timeElapsed += timeStepS
	}

	if result.TripOccurred {
		result.Summary = fmt.Sprintf("breaker tripped at t=%.4fs", result.TripTime)
	} else {
		result.Summary = "breaker did not trip"
	}

	return result, nil
}
