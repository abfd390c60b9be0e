package sv92

import "time"

// PTPTimestamp is a PTP/TAI-derived timestamp with whole seconds and a
// nanosecond fraction. It converts to the 8-byte TAI form (4 bytes
// big-endian seconds, 4 bytes big-endian fraction-of-second) via ToTAI, and
// to the flat nanoseconds-since-epoch form carried in the ASDU timestamp
// field via NanosSinceEpoch.
type PTPTimestamp struct {
	Seconds     uint32
	Nanoseconds uint32
	valid       bool
}

// NewPTPTimestamp builds a timestamp from seconds and nanoseconds, which
// must be less than 1e9; an out-of-range nanosecond value produces an
// invalid timestamp rather than an error, matching the original's
// tolerant construction.
func NewPTPTimestamp(seconds uint32, nanoseconds uint32) PTPTimestamp {
	return PTPTimestamp{Seconds: seconds, Nanoseconds: nanoseconds, valid: nanoseconds < 1_000_000_000}
}

// NowPTP returns the current wall-clock time as a PTPTimestamp.
func NowPTP() PTPTimestamp {
	now := time.Now()
	return PTPTimestamp{Seconds: uint32(now.Unix()), Nanoseconds: uint32(now.Nanosecond()), valid: true}
}

// IsValid reports whether the timestamp's nanosecond field is within range.
func (t PTPTimestamp) IsValid() bool {
	return t.valid
}

// AsTime converts the timestamp to a time.Time in UTC.
func (t PTPTimestamp) AsTime() time.Time {
	return time.Unix(int64(t.Seconds), int64(t.Nanoseconds)).UTC()
}

// ToTAI encodes the timestamp into the 8-byte wire form: 4 bytes big-endian
// seconds followed by 4 bytes big-endian fraction-of-second, where
// fraction = (nanoseconds << 32) / 1e9.
func (t PTPTimestamp) ToTAI() [8]byte {
	var out [8]byte
	out[0] = byte(t.Seconds >> 24)
	out[1] = byte(t.Seconds >> 16)
	out[2] = byte(t.Seconds >> 8)
	out[3] = byte(t.Seconds)

	fraction := uint32((uint64(t.Nanoseconds) << 32) / 1_000_000_000)
	out[4] = byte(fraction >> 24)
	out[5] = byte(fraction >> 16)
	out[6] = byte(fraction >> 8)
	out[7] = byte(fraction)
	return out
}

// NanosSinceEpoch returns the timestamp as a single uint64 count of
// nanoseconds since the Unix epoch, the wire form used by the ASDU
// timestamp field (distinct from the TAI seconds+fraction form used
// elsewhere on the wire).
func (t PTPTimestamp) NanosSinceEpoch() uint64 {
	return uint64(t.Seconds)*1_000_000_000 + uint64(t.Nanoseconds)
}

// PTPFromNanosSinceEpoch is the inverse of NanosSinceEpoch.
func PTPFromNanosSinceEpoch(ns uint64) PTPTimestamp {
	return PTPTimestamp{
		Seconds:     uint32(ns / 1_000_000_000),
		Nanoseconds: uint32(ns % 1_000_000_000),
		valid:       true,
	}
}

// PTPFromTAI decodes the 8-byte wire form produced by ToTAI. It returns
// ok=false if the decoded nanosecond value would be out of range.
func PTPFromTAI(raw [8]byte) (t PTPTimestamp, ok bool) {
	seconds := uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3])
	fraction := uint32(raw[4])<<24 | uint32(raw[5])<<16 | uint32(raw[6])<<8 | uint32(raw[7])
	nanoseconds := uint32((uint64(fraction) * 1_000_000_000) >> 32)
	if nanoseconds >= 1_000_000_000 {
		return PTPTimestamp{}, false
	}
	return PTPTimestamp{Seconds: seconds, Nanoseconds: nanoseconds, valid: true}, true
}
