package sv92

import "testing"

func TestQuality_RawRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  uint32
		want uint32
	}{
		{"zero", 0, 0},
		{"all defined bits set", 0x3FFF, 0x3FFF},
		{"reserved bits cleared on construction", 0xFFFFFFFF, 0x3FFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuality(tt.raw)
			if got := q.Raw(); got != tt.want {
				t.Errorf("Raw() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestQuality_IsGood(t *testing.T) {
	good := NewQuality(0)
	if !good.IsGood() {
		t.Errorf("IsGood() = false for validity Good")
	}
	invalid := good.WithValidity(ValidityInvalid)
	if invalid.IsGood() {
		t.Errorf("IsGood() = true for validity Invalid")
	}
}

func TestQuality_FlagAccessors(t *testing.T) {
	q := NewQuality(0).WithOverflow(true).WithTest(true)
	if !q.Overflow() {
		t.Errorf("Overflow() = false after WithOverflow(true)")
	}
	if !q.Test() {
		t.Errorf("Test() = false after WithTest(true)")
	}
	if q.Failure() {
		t.Errorf("Failure() = true, want false")
	}
	q = q.WithOverflow(false)
	if q.Overflow() {
		t.Errorf("Overflow() = true after WithOverflow(false)")
	}
}
