package sv92

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Receiver is the link-layer socket contract's read side: a promiscuous
// capture handle that runs its own capture thread and delivers raw frames
// to a callback until Stop is called.
type Receiver interface {
	Start(callback func(raw []byte)) error
	Stop() error
	Close() error
}

// Collector is the default frame sink installed when a Subscriber has no
// user-supplied handler: a thread-safe ordered sequence of decoded frames
// that Drain transfers out and clears atomically.
type Collector struct {
	mu     sync.Mutex
	frames []*DecodedFrame
}

func (c *Collector) collect(f *DecodedFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
}

// Drain returns all collected frames and clears the collector.
func (c *Collector) Drain() []*DecodedFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.frames
	c.frames = nil
	return out
}

// SubscriberOption configures a Subscriber at construction.
type SubscriberOption func(*Subscriber)

// WithHandler installs a user callback; without one, decoded frames land
// in the subscriber's default Collector instead.
func WithHandler(h SubscriberHandler) SubscriberOption {
	return func(s *Subscriber) { s.handler = h }
}

// WithDataType sets the analog value width/interpretation used to decode
// every frame this subscriber receives, overriding the INT32 default.
func WithDataType(dt DataType) SubscriberOption {
	return func(s *Subscriber) { s.dataType = dt }
}

// Subscriber wraps a Receiver: for every raw frame it runs the decoder and
// either invokes the registered handler or appends to the default
// Collector. Decode failures are counted, never raised — the capture loop
// is never aborted by a malformed or non-SV frame.
type Subscriber struct {
	receiver  Receiver
	handler   SubscriberHandler
	collector *Collector
	dataType  DataType

	nonSVCount     atomic.Uint64
	malformedCount atomic.Uint64
	stopped        atomic.Bool
}

// NewSubscriber returns a Subscriber reading through receiver.
func NewSubscriber(receiver Receiver, opts ...SubscriberOption) *Subscriber {
	s := &Subscriber{
		receiver:  receiver,
		collector: &Collector{},
		dataType:  DataTypeInt32,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins capture; onFrame is invoked from the receiver's capture
// thread for every raw link-layer payload it sees.
func (s *Subscriber) Start() error {
	if s.stopped.Load() {
		return ErrStopped
	}
	return s.receiver.Start(s.onFrame)
}

func (s *Subscriber) onFrame(raw []byte) {
	frame, err := DecodeWithDataType(raw, s.dataType)
	if err != nil {
		if errors.Is(err, ErrNotSV) {
			s.nonSVCount.Add(1)
			return
		}
		s.malformedCount.Add(1)
		if s.handler != nil {
			if herr := s.handler.MalformedFrameHandler(raw, err); herr != nil {
				_lg.Warnf("sv92: malformed frame handler: %v", herr)
			}
		}
		return
	}

	if s.handler != nil {
		if herr := s.handler.SampledValueHandler(frame); herr != nil {
			_lg.Warnf("sv92: sampled value handler: %v", herr)
		}
		return
	}
	s.collector.collect(frame)
}

// Drain returns and clears the default collector's buffered frames. It is
// meaningless if a handler was installed via WithHandler.
func (s *Subscriber) Drain() []*DecodedFrame {
	return s.collector.Drain()
}

// NonSVFrameCount returns the number of received frames rejected for not
// carrying the SV EtherType.
func (s *Subscriber) NonSVFrameCount() uint64 {
	return s.nonSVCount.Load()
}

// MalformedFrameCount returns the number of received frames that failed to
// decode for any reason other than a non-SV EtherType (too short for an
// Ethernet header, numASDUs out of range, or an invalid ASDU).
func (s *Subscriber) MalformedFrameCount() uint64 {
	return s.malformedCount.Load()
}

// Stop idempotently stops capture.
func (s *Subscriber) Stop() error {
	if s.stopped.Swap(true) {
		return nil
	}
	return s.receiver.Stop()
}

// Close releases the subscriber's receiver.
func (s *Subscriber) Close() error {
	return s.receiver.Close()
}
