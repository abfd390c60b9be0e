package sv92

import "testing"

func TestPTPTimestamp_TAIRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		seconds     uint32
		nanoseconds uint32
	}{
		{"zero", 0, 0},
		{"typical", 1700000000, 123456789},
		{"near-second boundary", 1700000000, 999999999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewPTPTimestamp(tt.seconds, tt.nanoseconds)
			tai := ts.ToTAI()
			got, ok := PTPFromTAI(tai)
			if !ok {
				t.Fatalf("PTPFromTAI() ok = false")
			}
			if got.Seconds != tt.seconds {
				t.Errorf("Seconds = %d, want %d", got.Seconds, tt.seconds)
			}
			diff := int64(got.Nanoseconds) - int64(tt.nanoseconds)
			if diff < -1 || diff > 1 {
				t.Errorf("Nanoseconds = %d, want within 1 ULP of %d", got.Nanoseconds, tt.nanoseconds)
			}
		})
	}
}

func TestPTPTimestamp_InvalidNanoseconds(t *testing.T) {
	ts := NewPTPTimestamp(0, 2_000_000_000)
	if ts.IsValid() {
		t.Errorf("IsValid() = true for out-of-range nanoseconds")
	}
}

func TestPTPTimestamp_NanosSinceEpochRoundTrip(t *testing.T) {
	ts := NewPTPTimestamp(1700000000, 0)
	ns := ts.NanosSinceEpoch()
	if want := uint64(1700000000000000000); ns != want {
		t.Fatalf("NanosSinceEpoch() = %d, want %d", ns, want)
	}
	got := PTPFromNanosSinceEpoch(ns)
	if got.Seconds != ts.Seconds || got.Nanoseconds != ts.Nanoseconds {
		t.Errorf("PTPFromNanosSinceEpoch() = %+v, want %+v", got, ts)
	}
}
