package protection

import (
	"testing"
	"time"
)

func TestDistanceProtection_TripsZone1Instantaneous(t *testing.T) {
	settings := DefaultDistanceProtectionSettings()
	d, err := NewDistanceProtection(settings)
	if err != nil {
		t.Fatalf("NewDistanceProtection() error = %v", err)
	}

	var got DistanceProtectionResult
	calls := 0
	d.OnTrip(func(zone int, result DistanceProtectionResult) {
		calls++
		got = result
	})

	// 100V / 10A at 0 rad => impedance = 10 ohm, exactly at zone1's 10 ohm
	// reach (the reach is inclusive) and 0 rad angle, forward direction.
	result := d.Update(complex(100, 0), complex(10, 0))
	if !result.Zone1Trip {
		t.Fatalf("Zone1Trip = false, want true")
	}
	if calls != 1 {
		t.Errorf("trip callback called %d times, want 1", calls)
	}
	if !got.Zone1Trip {
		t.Errorf("callback result.Zone1Trip = false, want true")
	}

	// Repeated update while still inside the zone must not re-notify.
	d.Update(complex(100, 0), complex(10, 0))
	if calls != 1 {
		t.Errorf("trip callback called %d times after repeat update, want still 1", calls)
	}
}

func TestDistanceProtection_RenotifiesAfterDroppingOut(t *testing.T) {
	d, _ := NewDistanceProtection(DefaultDistanceProtectionSettings())
	calls := 0
	d.OnTrip(func(zone int, result DistanceProtectionResult) { calls++ })

	d.Update(complex(100, 0), complex(10, 0)) // trips zone1
	d.Update(complex(1, 0), complex(0.01, 0)) // below thresholds, resets
	d.Update(complex(100, 0), complex(10, 0)) // trips again

	if calls != 2 {
		t.Errorf("trip callback called %d times, want 2", calls)
	}
}

func TestDistanceProtection_Zone2RequiresDelay(t *testing.T) {
	settings := DefaultDistanceProtectionSettings()
	settings.Zone1.Enabled = false
	settings.Zone2.Delay = 50 * time.Millisecond
	d, _ := NewDistanceProtection(settings)

	// 20 ohm is outside zone1's reach (disabled anyway) but inside zone2's.
	result := d.Update(complex(200, 0), complex(10, 0))
	if result.Zone2Trip {
		t.Fatalf("Zone2Trip = true on first update, want false (delay not yet elapsed)")
	}
}

func TestDistanceProtection_WrongDirectionResets(t *testing.T) {
	d, _ := NewDistanceProtection(DefaultDistanceProtectionSettings())
	// Negative real part of impedance with DirectionForward=true must not trip.
	result := d.Update(complex(-100, 0), complex(10, 0))
	if result.Zone1Trip || result.Zone2Trip || result.Zone3Trip {
		t.Errorf("wrong-direction update tripped a zone, want none")
	}
}

func TestDistanceProtection_DisabledNeverTrips(t *testing.T) {
	d, _ := NewDistanceProtection(DefaultDistanceProtectionSettings())
	d.SetEnabled(false)
	result := d.Update(complex(100, 0), complex(10, 0))
	if result.Zone1Trip {
		t.Errorf("disabled engine tripped, want no trip")
	}
}

func TestDistanceProtectionSettings_InvalidRejected(t *testing.T) {
	settings := DefaultDistanceProtectionSettings()
	settings.VoltageThresholdV = 0
	if _, err := NewDistanceProtection(settings); err == nil {
		t.Errorf("NewDistanceProtection() error = nil, want ErrInvalidSettings")
	}
}
