// Package link implements the link-layer socket contract described by the
// core: opening a raw Ethernet socket bound to an interface, sending
// frames to a destination MAC, and running a promiscuous capture loop that
// delivers raw frames to a callback until stopped.
//
// This is the one OS dependency of the core (sv92.Publisher/sv92.Subscriber
// consume the sv92.Sender/sv92.Receiver interfaces, which this package's
// Sender/Receiver types satisfy structurally). The Linux implementation
// (socket_linux.go) uses AF_PACKET raw sockets, grounded on
// NetworkSender.cpp/NetworkReceiver.cpp's ioctl/socket sequence. Other
// platforms get the stub in socket_unsupported.go so the module still
// builds without raw-socket capability.
package link

import (
	"errors"
	"net"
)

// ErrUnsupportedPlatform is returned by Open/OpenPromiscuous on platforms
// with no raw-socket implementation wired in.
var ErrUnsupportedPlatform = errors.New("link: raw link-layer sockets are not supported on this platform")

// ErrNoInterfaceAvailable is returned when no interface name was given and
// no up, non-loopback interface could be found to default to.
var ErrNoInterfaceAvailable = errors.New("link: no up, non-loopback interface available")

// FirstUpInterface returns the name of the first non-loopback interface
// reporting the "up" flag, for use when the caller leaves the interface
// name empty. Grounded on NetworkReceiver.cpp's getFirstEthernetInterface.
func FirstUpInterface() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		return iface.Name, nil
	}
	return "", ErrNoInterfaceAvailable
}

// ListUpInterfaces returns the names of all up, non-loopback interfaces.
func ListUpInterfaces() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ifaces))
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		names = append(names, iface.Name)
	}
	return names, nil
}

// resolveInterfaceName returns name unchanged if non-empty, otherwise
// FirstUpInterface()'s result.
func resolveInterfaceName(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	return FirstUpInterface()
}
