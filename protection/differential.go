package protection

import (
	"math/cmplx"
	"sync"
	"sync/atomic"
	"time"
)

// DifferentialProtectionSettings configures a biased-differential engine:
// operating current is the vector difference between the two measured
// currents, restraint current is the magnitude of their vector average, and the engine
// trips when operating current exceeds SlopePercent of restraint (above the
// minimums) or InstantaneousThresholdA outright.
type DifferentialProtectionSettings struct {
	SlopePercent             float64
	MinOperatingCurrentA     float64
	MinRestraintCurrentA     float64
	InstantaneousThresholdA  float64
	Enabled                  bool
}

// DefaultDifferentialProtectionSettings mirrors
// DifferentialProtectionSettings' C++ default member initializers.
func DefaultDifferentialProtectionSettings() DifferentialProtectionSettings {
	return DifferentialProtectionSettings{
		SlopePercent:            25.0,
		MinOperatingCurrentA:    0.3,
		MinRestraintCurrentA:    1.0,
		InstantaneousThresholdA: 10.0,
		Enabled:                 true,
	}
}

// Valid reports whether the settings are within sane physical bounds.
func (s DifferentialProtectionSettings) Valid() bool {
	return s.SlopePercent > 0.0 && s.SlopePercent <= 100.0 &&
		s.MinOperatingCurrentA > 0.0 && s.MinRestraintCurrentA > 0.0 &&
		s.InstantaneousThresholdA > 0.0
}

// DifferentialProtectionResult is one Update's outcome.
type DifferentialProtectionResult struct {
	Trip             bool
	OperatingCurrentA float64
	RestraintCurrentA float64
	Instantaneous    bool
	TripTime         time.Time
}

// DifferentialProtectionTripFunc is invoked once per entry into the tripped
// condition.
type DifferentialProtectionTripFunc func(result DifferentialProtectionResult)

// DifferentialProtection evaluates a biased-differential characteristic
// against current phasors measured at two ends of a protected element.
type DifferentialProtection struct {
	mu       sync.RWMutex
	settings DifferentialProtectionSettings

	enabled  atomic.Bool
	tripped  atomic.Bool

	cbMu sync.Mutex
	cb   DifferentialProtectionTripFunc
}

// NewDifferentialProtection validates settings and constructs an enabled
// engine.
func NewDifferentialProtection(settings DifferentialProtectionSettings) (*DifferentialProtection, error) {
	if !settings.Valid() {
		return nil, ErrInvalidSettings
	}
	d := &DifferentialProtection{settings: settings}
	d.enabled.Store(true)
	return d, nil
}

// Update feeds one pair of current phasors through the characteristic.
// The trip callback fires once per continuous interval of being tripped;
// the operating point must fall back inside the restraint region before it
// can fire again.
func (d *DifferentialProtection) Update(current1A, current2A complex128) DifferentialProtectionResult {
	var result DifferentialProtectionResult

	if !d.enabled.Load() {
		return result
	}

	d.mu.RLock()
	settings := d.settings
	d.mu.RUnlock()

	operatingCurrent := current1A - current2A
	restraintCurrent := (current1A + current2A) * complex(0.5, 0)

	operatingMag := cmplx.Abs(operatingCurrent)
	restraintMag := cmplx.Abs(restraintCurrent)

	result.OperatingCurrentA = operatingMag
	result.RestraintCurrentA = restraintMag

	switch {
	case operatingMag >= settings.InstantaneousThresholdA:
		result.Trip = true
		result.Instantaneous = true
		result.TripTime = time.Now()
		d.notifyOnce(result)
	case checkCharacteristic(settings, operatingMag, restraintMag):
		result.Trip = true
		result.Instantaneous = false
		result.TripTime = time.Now()
		d.notifyOnce(result)
	default:
		d.tripped.Store(false)
	}

	return result
}

func (d *DifferentialProtection) notifyOnce(result DifferentialProtectionResult) {
	if d.tripped.CompareAndSwap(false, true) {
		d.invokeCallback(result)
	}
}

// Reset clears the latched tripped state without disabling the engine.
func (d *DifferentialProtection) Reset() {
	d.tripped.Store(false)
}

// SetSettings validates and replaces the engine's settings.
func (d *DifferentialProtection) SetSettings(settings DifferentialProtectionSettings) error {
	if !settings.Valid() {
		return ErrInvalidSettings
	}
	d.mu.Lock()
	d.settings = settings
	d.mu.Unlock()
	return nil
}

// Settings returns a copy of the engine's current settings.
func (d *DifferentialProtection) Settings() DifferentialProtectionSettings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.settings
}

// SetEnabled enables or disables the engine.
func (d *DifferentialProtection) SetEnabled(enabled bool) {
	d.enabled.Store(enabled)
}

// Enabled reports whether the engine is currently evaluating updates.
func (d *DifferentialProtection) Enabled() bool {
	return d.enabled.Load()
}

// OnTrip registers the callback invoked when the characteristic trips.
func (d *DifferentialProtection) OnTrip(callback DifferentialProtectionTripFunc) {
	d.cbMu.Lock()
	d.cb = callback
	d.cbMu.Unlock()
}

func (d *DifferentialProtection) invokeCallback(result DifferentialProtectionResult) {
	d.cbMu.Lock()
	cb := d.cb
	d.cbMu.Unlock()
	if cb != nil {
		cb(result)
	}
}

func checkCharacteristic(settings DifferentialProtectionSettings, operating, restraint float64) bool {
	if operating < settings.MinOperatingCurrentA {
		return false
	}

	if restraint < settings.MinRestraintCurrentA {
		return operating >= settings.MinOperatingCurrentA
	}

	slopeThreshold := restraint * (settings.SlopePercent / 100.0)
	return operating >= slopeThreshold
}
