package sv92

import "testing"

type fakeSender struct {
	src   MACAddress
	sent  [][]byte
	dests []MACAddress
}

func (f *fakeSender) Send(frame []byte, dest MACAddress) error {
	f.sent = append(f.sent, frame)
	f.dests = append(f.dests, dest)
	return nil
}
func (f *fakeSender) SourceMAC() MACAddress { return f.src }
func (f *fakeSender) Close() error          { return nil }

func testValues() [8]AnalogValue {
	var v [8]AnalogValue
	for i := range v {
		v[i] = NewInt32Value(int32(i), NewQuality(0))
	}
	return v
}

// TestPublisher_SampleCounterWrap checks the sample counter wrap property:
// starting from 0xFFFE, consecutive emits produce 0xFFFE, 0xFFFF, 0x0000, 0x0001.
func TestPublisher_SampleCounterWrap(t *testing.T) {
	sender := &fakeSender{src: MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}}
	pub := NewPublisher(sender)
	svcb := NewSampledValueControlBlock("SV01", SVMulticastAddress(0x01))

	pub.SeedCounter("SV01", 0xFFFE)

	want := []uint16{0xFFFE, 0xFFFF, 0x0000, 0x0001}
	for i, w := range want {
		asdu, err := pub.UpdateSampledValue(svcb, testValues())
		if err != nil {
			t.Fatalf("UpdateSampledValue() #%d error = %v", i, err)
		}
		if asdu.SmpCnt != w {
			t.Errorf("UpdateSampledValue() #%d smpCnt = %#x, want %#x", i, asdu.SmpCnt, w)
		}
	}
}

func TestPublisher_GlobalSyncWithoutGMIdentityDowngradesToLocal(t *testing.T) {
	sender := &fakeSender{src: MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}}
	pub := NewPublisher(sender)
	svcb := NewSampledValueControlBlock("SV01", SVMulticastAddress(0x01))
	svcb.SmpSynch = SmpSynchGlobal

	asdu, err := pub.UpdateSampledValue(svcb, testValues())
	if err != nil {
		t.Fatalf("UpdateSampledValue() error = %v", err)
	}
	if asdu.SmpSynch != SmpSynchLocal {
		t.Errorf("SmpSynch = %v, want Local (downgraded)", asdu.SmpSynch)
	}
}

func TestPublisher_InvalidSVCBRejected(t *testing.T) {
	sender := &fakeSender{src: MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}}
	pub := NewPublisher(sender)
	svcb := NewSampledValueControlBlock("", SVMulticastAddress(0x01)) // empty name invalid

	if _, err := pub.UpdateSampledValue(svcb, testValues()); err == nil {
		t.Errorf("UpdateSampledValue() error = nil, want error for invalid SVCB")
	}
	if len(sender.sent) != 0 {
		t.Errorf("sender.sent = %d frames, want 0", len(sender.sent))
	}
}
