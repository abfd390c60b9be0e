package sv92

import "sync"

// Sender is the link-layer socket contract's write side: the one OS
// dependency of the publisher path. Implementations (see sv92/link) own a
// raw socket bound to an egress interface; Send must not be called
// concurrently on the same Sender, matching the single-thread-use
// discipline described in the concurrency model.
type Sender interface {
	Send(frame []byte, dest MACAddress) error
	SourceMAC() MACAddress
	Close() error
}

// Publisher builds and emits ASDUs for a set of SVCBs at whatever cadence
// the caller drives it. It does not run its own timer loop in the core;
// UpdateSampledValue is the atomic emit operation, safe to call from any
// goroutine since it serializes access to both the per-SVCB sample counter
// and the sender.
type Publisher struct {
	mu       sync.Mutex
	sender   Sender
	counters map[string]uint16
	warned   map[string]bool
}

// NewPublisher returns a Publisher that emits frames through sender.
func NewPublisher(sender Sender) *Publisher {
	return &Publisher{sender: sender, counters: make(map[string]uint16), warned: make(map[string]bool)}
}

// SeedCounter sets the last-emitted sample counter for svcbName so the next
// UpdateSampledValue call produces smpCnt == value. Used to exercise the
// wraparound boundary (e.g. seeding 0xFFFE to observe 0xFFFE, 0xFFFF,
// 0x0000 on the next three calls).
func (p *Publisher) SeedCounter(svcbName string, value uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counters[svcbName] = value - 1
}

// UpdateSampledValue builds an ASDU from svcb and values, encodes it, and
// sends it through the publisher's sender. smpCnt is the previous value
// for this SVCB plus one, wrapping at 2^16 via uint16 overflow.
func (p *Publisher) UpdateSampledValue(svcb *SampledValueControlBlock, values [8]AnalogValue) (*ASDU, error) {
	if err := svcb.Validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	smpSynch := svcb.SmpSynch
	var gmIdentity *[8]byte
	if smpSynch == SmpSynchGlobal {
		if svcb.GMIdentity == nil {
			if !p.warned[svcb.Name] {
				_lg.Infof("sv92: svcb %q wants Global sync but has no grandmaster identity wired in, downgrading to Local", svcb.Name)
				p.warned[svcb.Name] = true
			}
			smpSynch = SmpSynchLocal
		} else {
			gmIdentity = svcb.GMIdentity
		}
	}

	next := p.counters[svcb.Name] + 1
	asdu := &ASDU{
		SVID:       svcb.DataSetName,
		SmpCnt:     next,
		ConfRev:    svcb.ConfRev,
		SmpSynch:   smpSynch,
		GMIdentity: gmIdentity,
		DataSet:    values,
		Timestamp:  NowPTP(),
	}
	if err := asdu.Validate(); err != nil {
		_lg.Warnf("sv92: dropping emit for svcb %q: %v", svcb.Name, err)
		return nil, err
	}
	p.counters[svcb.Name] = next

	frame, err := Encode(svcb, asdu, p.sender.SourceMAC())
	if err != nil {
		return nil, err
	}
	if err := p.sender.Send(frame, svcb.MulticastAddress); err != nil {
		_lg.Errorf("sv92: send for svcb %q failed: %v", svcb.Name, err)
		return nil, err
	}
	return asdu, nil
}

// Close releases the publisher's sender.
func (p *Publisher) Close() error {
	return p.sender.Close()
}
