//go:build linux

package link

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/substation-sv/sv92"
)

// ethPAll mirrors ETH_P_ALL from linux/if_ether.h: every frame on the wire,
// filtering by EtherType happens above this package in the decoder.
const ethPAll = 0x0003

func htons(v uint16) uint16 {
	return (v<<8)&0xff00 | (v >> 8 & 0x00ff)
}

// openRawSocket opens an AF_PACKET/SOCK_RAW socket bound to the named
// interface, following NetworkSender.cpp's socket/ioctl(SIOCGIFINDEX)/bind
// sequence. The fd is put in non-blocking mode and wrapped in an *os.File so
// Stop can unblock a pending Read via SetReadDeadline.
func openRawSocket(ifaceName string) (*os.File, int, net.HardwareAddr, error) {
	name, err := resolveInterfaceName(ifaceName)
	if err != nil {
		return nil, 0, nil, err
	}

	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("link: lookup interface %q: %w", name, err)
	}

	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(htons(ethPAll)))
	if err != nil {
		return nil, 0, nil, fmt.Errorf("link: open raw socket: %w", err)
	}

	sa := &unix.SockaddrLinklayer{Protocol: htons(ethPAll), Ifindex: iface.Index}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, 0, nil, fmt.Errorf("link: bind to %q: %w", name, err)
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, 0, nil, fmt.Errorf("link: set nonblocking: %w", err)
	}

	return os.NewFile(uintptr(fd), "sv92-link:"+name), iface.Index, iface.HardwareAddr, nil
}

// setPromiscuous toggles IFF_PROMISC on the named interface via a throwaway
// control socket, grounded on NetworkReceiver.cpp's ioctl(SIOCGIFFLAGS) /
// ioctl(SIOCSIFFLAGS) pair.
func setPromiscuous(ifaceName string, enable bool) error {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return fmt.Errorf("link: open control socket: %w", err)
	}
	defer unix.Close(fd)

	ifr, err := unix.NewIfreq(ifaceName)
	if err != nil {
		return fmt.Errorf("link: build ifreq for %q: %w", ifaceName, err)
	}
	if err := unix.IoctlIfreq(fd, unix.SIOCGIFFLAGS, ifr); err != nil {
		return fmt.Errorf("link: get flags for %q: %w", ifaceName, err)
	}

	flags := ifr.Uint16()
	if enable {
		flags |= unix.IFF_PROMISC
	} else {
		flags &^= unix.IFF_PROMISC
	}
	ifr.SetUint16(flags)

	if err := unix.IoctlIfreq(fd, unix.SIOCSIFFLAGS, ifr); err != nil {
		return fmt.Errorf("link: set flags for %q: %w", ifaceName, err)
	}
	return nil
}

// Sender transmits frames on a raw AF_PACKET socket bound to one interface.
// It satisfies the root package's Sender interface.
type Sender struct {
	mu      sync.Mutex
	file    *os.File
	ifindex int
	srcMAC  sv92.MACAddress
	closed  bool
}

// Open binds a Sender to ifaceName, or the first up non-loopback interface
// if ifaceName is empty.
func Open(ifaceName string) (*Sender, error) {
	f, idx, hw, err := openRawSocket(ifaceName)
	if err != nil {
		return nil, err
	}
	var mac sv92.MACAddress
	copy(mac[:], hw)
	return &Sender{file: f, ifindex: idx, srcMAC: mac}, nil
}

// SourceMAC returns the interface's hardware address.
func (s *Sender) SourceMAC() sv92.MACAddress {
	return s.srcMAC
}

// Send transmits frame to dest via sendto(2), addressing by Ethernet MAC
// rather than any higher-layer address.
func (s *Sender) Send(frame []byte, dest sv92.MACAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return sv92.ErrStopped
	}

	sa := &unix.SockaddrLinklayer{Protocol: htons(ethPAll), Ifindex: s.ifindex, Halen: 6}
	copy(sa.Addr[:6], dest[:])

	if err := unix.Sendto(int(s.file.Fd()), frame, 0, sa); err != nil {
		return fmt.Errorf("link: sendto: %w", err)
	}
	return nil
}

// Close releases the underlying socket.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

// Receiver runs a promiscuous capture loop on a raw AF_PACKET socket,
// delivering every frame seen on the wire to a callback until Stop is
// called. It satisfies the root package's Receiver interface.
type Receiver struct {
	mu        sync.Mutex
	file      *os.File
	ifaceName string
	promisc   bool
	stopCh    chan struct{}
	stopped   bool
	wg        sync.WaitGroup
}

// OpenPromiscuous binds a Receiver to ifaceName (or the first up
// non-loopback interface if empty) and enables promiscuous mode so frames
// not addressed to this host's MAC are still delivered.
func OpenPromiscuous(ifaceName string) (*Receiver, error) {
	name, err := resolveInterfaceName(ifaceName)
	if err != nil {
		return nil, err
	}
	if err := setPromiscuous(name, true); err != nil {
		return nil, err
	}

	f, _, _, err := openRawSocket(name)
	if err != nil {
		_ = setPromiscuous(name, false)
		return nil, err
	}

	return &Receiver{file: f, ifaceName: name, promisc: true, stopCh: make(chan struct{})}, nil
}

// Start launches the capture loop. callback is invoked once per frame read
// off the wire, in order, from a single goroutine owned by this Receiver.
func (r *Receiver) Start(callback func(raw []byte)) error {
	r.wg.Add(1)
	go r.readLoop(callback)
	return nil
}

func (r *Receiver) readLoop(callback func(raw []byte)) {
	defer r.wg.Done()
	buf := make([]byte, 65536)
	for {
		select {
		case <-r.stopCh:
			return
		default:
		}

		n, err := r.file.Read(buf)
		if err != nil {
			select {
			case <-r.stopCh:
				return
			default:
			}
			_lg.Warnf("link: read on %s: %v", r.ifaceName, err)
			continue
		}

		frame := make([]byte, n)
		copy(frame, buf[:n])
		callback(frame)
	}
}

// Stop ends the capture loop and waits for it to exit. Calling Stop more
// than once is a no-op.
func (r *Receiver) Stop() error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	close(r.stopCh)
	r.mu.Unlock()

	_ = r.file.SetReadDeadline(time.Now())
	r.wg.Wait()
	return nil
}

// Close stops the capture loop, turns promiscuous mode off on the
// interface, and releases the socket. Promiscuous mode is cleared even if
// it was already on before OpenPromiscuous.
func (r *Receiver) Close() error {
	_ = r.Stop()
	if r.promisc {
		_ = setPromiscuous(r.ifaceName, false)
	}
	return r.file.Close()
}
