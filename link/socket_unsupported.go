//go:build !linux

package link

import "github.com/substation-sv/sv92"

// Sender is the non-Linux stub: no raw-socket backend is wired in, so every
// method reports ErrUnsupportedPlatform.
type Sender struct{}

// Open always fails on platforms without a raw-socket implementation.
func Open(ifaceName string) (*Sender, error) {
	return nil, ErrUnsupportedPlatform
}

func (s *Sender) SourceMAC() sv92.MACAddress { return sv92.MACAddress{} }

func (s *Sender) Send(frame []byte, dest sv92.MACAddress) error { return ErrUnsupportedPlatform }

func (s *Sender) Close() error { return nil }

// Receiver is the non-Linux stub counterpart to Sender.
type Receiver struct{}

// OpenPromiscuous always fails on platforms without a raw-socket implementation.
func OpenPromiscuous(ifaceName string) (*Receiver, error) {
	return nil, ErrUnsupportedPlatform
}

func (r *Receiver) Start(callback func(raw []byte)) error { return ErrUnsupportedPlatform }

func (r *Receiver) Stop() error { return nil }

func (r *Receiver) Close() error { return nil }
