// Package protection implements the distance and differential protection
// engines that consume decoded sampled-value streams, grounded on
// Protection.h/Protection.cpp's settings/result/update shape.
package protection

import (
	"errors"
	"math"
	"math/cmplx"
	"sync"
	"sync/atomic"
	"time"
)

// ErrInvalidSettings is returned by setters and constructors when a
// settings value fails Valid.
var ErrInvalidSettings = errors.New("protection: invalid settings")

// DistanceZone is one mho-like impedance zone: trips when the measured
// impedance magnitude falls inside reachOhm and the measured angle falls
// within angleRad of the zone's characteristic, for at least Delay.
type DistanceZone struct {
	ReachOhm float64
	AngleRad float64
	Delay    time.Duration
	Enabled  bool
}

// Valid reports whether the zone's reach and angle are physically sane.
func (z DistanceZone) Valid() bool {
	return z.ReachOhm > 0.0 && z.AngleRad >= 0.0 && z.AngleRad <= math.Pi
}

// DistanceProtectionSettings configures a DistanceProtection engine's three
// zones plus the voltage/current pickup thresholds below which no fault is
// considered present.
type DistanceProtectionSettings struct {
	Zone1             DistanceZone
	Zone2             DistanceZone
	Zone3             DistanceZone
	VoltageThresholdV float64
	CurrentThresholdA float64
	DirectionForward  bool
}

// DefaultDistanceProtectionSettings mirrors DistanceProtectionSettings'
// default constructor: three zones at 10/20/30 ohm with 0/300/600 ms delay.
func DefaultDistanceProtectionSettings() DistanceProtectionSettings {
	return DistanceProtectionSettings{
		Zone1:             DistanceZone{ReachOhm: 10.0, AngleRad: 1.047, Delay: 0, Enabled: true},
		Zone2:             DistanceZone{ReachOhm: 20.0, AngleRad: 1.047, Delay: 300 * time.Millisecond, Enabled: true},
		Zone3:             DistanceZone{ReachOhm: 30.0, AngleRad: 1.047, Delay: 600 * time.Millisecond, Enabled: true},
		VoltageThresholdV: 20.0,
		CurrentThresholdA: 0.5,
		DirectionForward:  true,
	}
}

// Valid reports whether every zone and both thresholds are sane.
func (s DistanceProtectionSettings) Valid() bool {
	return s.Zone1.Valid() && s.Zone2.Valid() && s.Zone3.Valid() &&
		s.VoltageThresholdV > 0.0 && s.CurrentThresholdA > 0.0
}

// DistanceProtectionResult is one Update's outcome.
type DistanceProtectionResult struct {
	Zone1Trip            bool
	Zone2Trip            bool
	Zone3Trip            bool
	MeasuredImpedanceOhm float64
	MeasuredAngleRad     float64
	TripTime             time.Time
}

// DistanceProtectionTripFunc is invoked once per zone the instant it enters
// the tripped condition, never again while it remains tripped.
type DistanceProtectionTripFunc func(zone int, result DistanceProtectionResult)

type zoneTimer struct {
	active    atomic.Bool
	notified  atomic.Bool
	startTime time.Time
	mu        sync.Mutex
}

// DistanceProtection evaluates three timed impedance zones against a stream
// of voltage/current phasor measurements.
type DistanceProtection struct {
	mu       sync.RWMutex
	settings DistanceProtectionSettings

	enabled atomic.Bool

	zone1 zoneTimer
	zone2 zoneTimer
	zone3 zoneTimer

	cbMu sync.Mutex
	cb   DistanceProtectionTripFunc
}

// NewDistanceProtection validates settings and constructs an enabled engine.
func NewDistanceProtection(settings DistanceProtectionSettings) (*DistanceProtection, error) {
	if !settings.Valid() {
		return nil, ErrInvalidSettings
	}
	d := &DistanceProtection{settings: settings}
	d.enabled.Store(true)
	return d, nil
}

// Update feeds one voltage/current phasor pair through all three zones and
// returns the combined result. Each zone fires its trip callback exactly
// once per continuous interval of being tripped; it must drop out of the
// zone's region before it can fire again.
func (d *DistanceProtection) Update(voltageV, currentA complex128) DistanceProtectionResult {
	var result DistanceProtectionResult

	if !d.enabled.Load() {
		return result
	}

	d.mu.RLock()
	settings := d.settings
	d.mu.RUnlock()

	voltageMag := cmplx.Abs(voltageV)
	currentMag := cmplx.Abs(currentA)

	if voltageMag < settings.VoltageThresholdV || currentMag < settings.CurrentThresholdA {
		d.Reset()
		return result
	}

	impedance := voltageV / currentA
	impedanceMag := cmplx.Abs(impedance)
	impedanceAngle := cmplx.Phase(impedance)

	result.MeasuredImpedanceOhm = impedanceMag
	result.MeasuredAngleRad = impedanceAngle

	if !checkDirection(settings, impedance) {
		d.Reset()
		return result
	}

	now := time.Now()

	result.Zone1Trip = d.evaluateZone(&d.zone1, settings.Zone1, impedanceMag, impedanceAngle, now, 1, &result)
	result.Zone2Trip = d.evaluateZone(&d.zone2, settings.Zone2, impedanceMag, impedanceAngle, now, 2, &result)
	result.Zone3Trip = d.evaluateZone(&d.zone3, settings.Zone3, impedanceMag, impedanceAngle, now, 3, &result)

	return result
}

func (d *DistanceProtection) evaluateZone(zt *zoneTimer, zone DistanceZone, impedanceMag, impedanceAngle float64, now time.Time, zoneNum int, result *DistanceProtectionResult) bool {
	if !zone.Enabled || !checkZone(zone, impedanceMag, impedanceAngle) {
		zt.active.Store(false)
		zt.notified.Store(false)
		return false
	}

	zt.mu.Lock()
	if !zt.active.Load() {
		zt.active.Store(true)
		zt.startTime = now
	}
	start := zt.startTime
	zt.mu.Unlock()

	if now.Sub(start) < zone.Delay {
		return false
	}

	tripped := true
	switch zoneNum {
	case 1:
		result.Zone1Trip = true
	case 2:
		result.Zone2Trip = true
	case 3:
		result.Zone3Trip = true
	}
	result.TripTime = now
	if zt.notified.CompareAndSwap(false, true) {
		d.invokeCallback(zoneNum, *result)
	}
	return tripped
}

// Reset clears all three zones' timed-pickup state without disabling the
// engine.
func (d *DistanceProtection) Reset() {
	d.zone1.active.Store(false)
	d.zone1.notified.Store(false)
	d.zone2.active.Store(false)
	d.zone2.notified.Store(false)
	d.zone3.active.Store(false)
	d.zone3.notified.Store(false)
}

// SetSettings validates and replaces the engine's settings.
func (d *DistanceProtection) SetSettings(settings DistanceProtectionSettings) error {
	if !settings.Valid() {
		return ErrInvalidSettings
	}
	d.mu.Lock()
	d.settings = settings
	d.mu.Unlock()
	return nil
}

// Settings returns a copy of the engine's current settings.
func (d *DistanceProtection) Settings() DistanceProtectionSettings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.settings
}

// SetEnabled enables or disables the engine; disabling also resets all
// zones' timed-pickup state.
func (d *DistanceProtection) SetEnabled(enabled bool) {
	d.enabled.Store(enabled)
	if !enabled {
		d.Reset()
	}
}

// Enabled reports whether the engine is currently evaluating updates.
func (d *DistanceProtection) Enabled() bool {
	return d.enabled.Load()
}

// OnTrip registers the callback invoked when a zone trips. A nil callback
// disables notification without affecting trip detection.
func (d *DistanceProtection) OnTrip(callback DistanceProtectionTripFunc) {
	d.cbMu.Lock()
	d.cb = callback
	d.cbMu.Unlock()
}

func (d *DistanceProtection) invokeCallback(zone int, result DistanceProtectionResult) {
	d.cbMu.Lock()
	cb := d.cb
	d.cbMu.Unlock()
	if cb != nil {
		cb(zone, result)
	}
}

func checkZone(zone DistanceZone, impedance, angle float64) bool {
	if !zone.Enabled || impedance > zone.ReachOhm {
		return false
	}

	normalizedAngle := math.Mod(math.Abs(angle), 2.0*math.Pi)
	return normalizedAngle <= zone.AngleRad || normalizedAngle >= (2.0*math.Pi-zone.AngleRad)
}

func checkDirection(settings DistanceProtectionSettings, impedance complex128) bool {
	if settings.DirectionForward {
		return real(impedance) > 0.0
	}
	return real(impedance) < 0.0
}
