package sv92

import (
	"fmt"
)

// MACAddress is a 6-byte Ethernet hardware address.
type MACAddress [6]byte

// ParseMAC parses a colon-separated hex MAC address such as "01:0C:CD:04:00:01".
func ParseMAC(s string) (MACAddress, error) {
	var b [6]byte
	n, err := fmt.Sscanf(s, "%02x:%02x:%02x:%02x:%02x:%02x",
		&b[0], &b[1], &b[2], &b[3], &b[4], &b[5])
	if err != nil || n != 6 {
		return MACAddress{}, fmt.Errorf("%w: %q", ErrInvalidMAC, s)
	}
	return MACAddress(b), nil
}

// String renders the MAC address in canonical uppercase colon-separated form.
func (m MACAddress) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", m[0], m[1], m[2], m[3], m[4], m[5])
}

// IsMulticast reports whether the low bit of the first octet is set.
func (m MACAddress) IsMulticast() bool {
	return m[0]&0x01 != 0
}

// IsBroadcast reports whether all six octets are 0xFF.
func (m MACAddress) IsBroadcast() bool {
	for _, b := range m {
		if b != 0xFF {
			return false
		}
	}
	return true
}

// IsZero reports whether all six octets are zero.
func (m MACAddress) IsZero() bool {
	return m == MACAddress{}
}

// Bytes returns a copy of the address as a slice, convenient for buffer writes.
func (m MACAddress) Bytes() []byte {
	b := make([]byte, 6)
	copy(b, m[:])
	return b
}

// SVMulticastBase returns the first five octets of the conventional SV
// multicast range, 01:0C:CD:04:00:xx; callers fill in the last octet per
// published stream.
func SVMulticastBase() MACAddress {
	return MACAddress{0x01, 0x0C, 0xCD, 0x04, 0x00, 0x00}
}

// SVMulticastAddress returns the SV multicast address for the given
// low-order octet, e.g. SVMulticastAddress(0x01) == 01:0C:CD:04:00:01.
func SVMulticastAddress(lowOctet byte) MACAddress {
	mac := SVMulticastBase()
	mac[5] = lowOctet
	return mac
}
