package sv92

import "testing"

func scenario1ASDU() *ASDU {
	q := NewQuality(0)
	var dataSet [8]AnalogValue
	for i := range dataSet {
		dataSet[i] = NewInt32Value(1000, q)
	}
	return &ASDU{
		SVID:      "SV01",
		SmpCnt:    7,
		ConfRev:   1,
		SmpSynch:  SmpSynchLocal,
		DataSet:   dataSet,
		Timestamp: PTPFromNanosSinceEpoch(1700000000000000000),
	}
}

func scenario1SVCB() *SampledValueControlBlock {
	svcb := NewSampledValueControlBlock("SV01", SVMulticastAddress(0x01))
	svcb.SmpSynch = SmpSynchLocal
	svcb.DataType = DataTypeInt32
	return svcb
}

// TestEncode_MinimalASDU checks scenario 1 of the end-to-end test vectors:
// encoding one minimal ASDU with no VLAN and no grandmaster identity.
func TestEncode_MinimalASDU(t *testing.T) {
	srcMAC := MACAddress{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	frame, err := Encode(scenario1SVCB(), scenario1ASDU(), srcMAC)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	wantDst := SVMulticastAddress(0x01)
	for i := 0; i < 6; i++ {
		if frame[i] != wantDst[i] {
			t.Fatalf("dst MAC byte %d = %#x, want %#x", i, frame[i], wantDst[i])
		}
		if frame[6+i] != srcMAC[i] {
			t.Fatalf("src MAC byte %d = %#x, want %#x", i, frame[6+i], srcMAC[i])
		}
	}

	if frame[12] != 0x88 || frame[13] != 0xBA {
		t.Fatalf("EtherType = % X, want 88 BA", frame[12:14])
	}
	if frame[14] != 0x40 || frame[15] != 0x00 {
		t.Fatalf("APPID = % X, want 40 00", frame[14:16])
	}
	// Reserved1 / Reserved2 (no simulate bit).
	if frame[18] != 0x00 || frame[19] != 0x00 {
		t.Fatalf("Reserved1 = % X, want 00 00", frame[18:20])
	}
	if frame[20] != 0x00 || frame[21] != 0x00 {
		t.Fatalf("Reserved2 = % X, want 00 00", frame[20:22])
	}
	if frame[22] != 0x01 {
		t.Fatalf("numASDUs = %#x, want 01", frame[22])
	}

	svIDField := frame[23:87]
	if string(svIDField[:4]) != "SV01" {
		t.Fatalf("svID = %q, want prefix SV01", svIDField[:4])
	}
	for i := 4; i < 64; i++ {
		if svIDField[i] != 0 {
			t.Fatalf("svID padding byte %d = %#x, want 0", i, svIDField[i])
		}
	}

	if frame[87] != 0x00 || frame[88] != 0x07 {
		t.Fatalf("smpCnt = % X, want 00 07", frame[87:89])
	}
	if frame[89] != 0x00 || frame[90] != 0x00 || frame[91] != 0x00 || frame[92] != 0x01 {
		t.Fatalf("confRev = % X, want 00 00 00 01", frame[89:93])
	}
	if frame[93] != 0x01 {
		t.Fatalf("smpSynch = %#x, want 01 (Local)", frame[93])
	}

	dataSetStart := 94
	for i := 0; i < 8; i++ {
		off := dataSetStart + i*8
		value := frame[off : off+4]
		quality := frame[off+4 : off+8]
		if value[0] != 0x00 || value[1] != 0x00 || value[2] != 0x03 || value[3] != 0xE8 {
			t.Fatalf("dataSet[%d] value = % X, want 00 00 03 E8", i, value)
		}
		for _, b := range quality {
			if b != 0 {
				t.Fatalf("dataSet[%d] quality = % X, want all zero", i, quality)
			}
		}
	}

	decoded, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.ASDU.Timestamp.NanosSinceEpoch() != 1700000000000000000 {
		t.Errorf("decoded timestamp = %d, want 1700000000000000000", decoded.ASDU.Timestamp.NanosSinceEpoch())
	}
}

// TestDecode_RejectsNonSVFrame checks scenario 2: a frame carrying the IPv4
// EtherType is not an SV frame.
func TestDecode_RejectsNonSVFrame(t *testing.T) {
	frame := make([]byte, 20)
	frame[12], frame[13] = 0x08, 0x00 // IPv4
	_, err := Decode(frame)
	if err != ErrNotSV {
		t.Fatalf("Decode() error = %v, want ErrNotSV", err)
	}
}

// TestEncodeDecode_VLANTransparency checks scenario 3: a VLAN-tagged frame
// decodes to the same ASDU as the untagged scenario 1 frame.
func TestEncodeDecode_VLANTransparency(t *testing.T) {
	srcMAC := MACAddress{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}

	plainSVCB := scenario1SVCB()
	plainFrame, err := Encode(plainSVCB, scenario1ASDU(), srcMAC)
	if err != nil {
		t.Fatalf("Encode() plain error = %v", err)
	}
	plainDecoded, err := Decode(plainFrame)
	if err != nil {
		t.Fatalf("Decode() plain error = %v", err)
	}

	vlanSVCB := scenario1SVCB()
	vlanSVCB.VLANID = 1
	vlanSVCB.UserPriority = 4
	vlanFrame, err := Encode(vlanSVCB, scenario1ASDU(), srcMAC)
	if err != nil {
		t.Fatalf("Encode() vlan error = %v", err)
	}
	if vlanFrame[12] != 0x81 || vlanFrame[13] != 0x00 {
		t.Fatalf("VLAN TPID = % X, want 81 00", vlanFrame[12:14])
	}
	if vlanFrame[14] != 0x80 || vlanFrame[15] != 0x01 {
		t.Fatalf("TCI = % X, want 80 01 (priority 4, vlan 1)", vlanFrame[14:16])
	}

	vlanDecoded, err := Decode(vlanFrame)
	if err != nil {
		t.Fatalf("Decode() vlan error = %v", err)
	}

	if vlanDecoded.ASDU.SVID != plainDecoded.ASDU.SVID {
		t.Errorf("SVID = %q, want %q", vlanDecoded.ASDU.SVID, plainDecoded.ASDU.SVID)
	}
	if vlanDecoded.ASDU.SmpCnt != plainDecoded.ASDU.SmpCnt {
		t.Errorf("SmpCnt = %d, want %d", vlanDecoded.ASDU.SmpCnt, plainDecoded.ASDU.SmpCnt)
	}
	if vlanDecoded.VLANID != 1 || vlanDecoded.Priority != 4 {
		t.Errorf("VLANID/Priority = %d/%d, want 1/4", vlanDecoded.VLANID, vlanDecoded.Priority)
	}
}

// TestCodecRoundTrip checks the codec round-trip property: decoding an
// encoded ASDU yields the same observable fields.
func TestCodecRoundTrip(t *testing.T) {
	svcb := scenario1SVCB()
	asdu := scenario1ASDU()
	srcMAC := MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}

	frame, err := Encode(svcb, asdu, srcMAC)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := decoded.ASDU
	if got.SVID != asdu.SVID {
		t.Errorf("SVID = %q, want %q", got.SVID, asdu.SVID)
	}
	if got.SmpCnt != asdu.SmpCnt {
		t.Errorf("SmpCnt = %d, want %d", got.SmpCnt, asdu.SmpCnt)
	}
	if got.ConfRev != asdu.ConfRev {
		t.Errorf("ConfRev = %d, want %d", got.ConfRev, asdu.ConfRev)
	}
	if got.SmpSynch != asdu.SmpSynch {
		t.Errorf("SmpSynch = %v, want %v", got.SmpSynch, asdu.SmpSynch)
	}
	for i := range got.DataSet {
		if got.DataSet[i].AsInt64() != asdu.DataSet[i].AsInt64() {
			t.Errorf("DataSet[%d] = %d, want %d", i, got.DataSet[i].AsInt64(), asdu.DataSet[i].AsInt64())
		}
		if got.DataSet[i].Quality != asdu.DataSet[i].Quality {
			t.Errorf("DataSet[%d].Quality = %v, want %v", i, got.DataSet[i].Quality, asdu.DataSet[i].Quality)
		}
	}
	if got.Timestamp.NanosSinceEpoch() != asdu.Timestamp.NanosSinceEpoch() {
		t.Errorf("Timestamp = %d, want %d", got.Timestamp.NanosSinceEpoch(), asdu.Timestamp.NanosSinceEpoch())
	}
}
