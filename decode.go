package sv92

import (
	"fmt"
	"strings"
)

// DecodedFrame is the outcome of successfully decoding an Ethernet frame
// as an SV PDU: the first ASDU in the frame plus the link-layer framing
// details a subscriber might want to inspect (VLAN tag, simulate bit).
type DecodedFrame struct {
	ASDU     *ASDU
	AppID    uint16
	Length   uint16
	VLANID   uint16
	Priority uint8
	Simulate bool
	NumASDUs uint8
}

// Decode parses raw Ethernet frame bytes as an SV PDU, decoding the dataSet
// with the default INT32 width ("if configuration is not known, default to
// int32" per the component design).
func Decode(frame []byte) (*DecodedFrame, error) {
	return DecodeWithDataType(frame, DataTypeInt32)
}

// DecodeWithDataType parses raw Ethernet frame bytes as an SV PDU, reading
// each dataSet entry's 4-byte value with the given data type. Callers that
// know the publishing SVCB's configured data type should pass it here;
// it's what makes the codec round-trip property in the testable-properties
// section hold for non-INT32 streams.
func DecodeWithDataType(frame []byte, dt DataType) (*DecodedFrame, error) {
	if len(frame) < 14 {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooShort, len(frame))
	}

	r := NewBufferReader(frame)
	r.Skip(12)

	etherType := r.ReadUint16()
	var vlanID uint16
	var priority uint8
	if etherType == vlanTPID {
		tci := r.ReadUint16()
		priority = uint8(tci >> 13)
		vlanID = tci & 0x0FFF
		etherType = r.ReadUint16()
	}
	if etherType != svEtherType {
		return nil, ErrNotSV
	}

	appID := r.ReadUint16()
	length := r.ReadUint16()
	reserved1 := r.ReadUint16()
	simulate := reserved1&0x8000 != 0
	_ = r.ReadUint16() // Reserved2

	numASDUs := r.ReadUint8()
	if numASDUs < 1 || numASDUs > 8 {
		return nil, fmt.Errorf("%w: numASDUs %d out of [1,8]", ErrMalformedFrame, numASDUs)
	}

	svID := strings.TrimRight(r.ReadFixedString(64), " ")
	smpCnt := r.ReadUint16()
	confRev := r.ReadUint32()
	smpSynch, recognized := parseSmpSynch(r.ReadUint8())
	if !recognized {
		_lg.Warnf("sv92: frame %q carries unrecognized smpSynch byte, downgrading to None", svID)
	}

	var gmIdentity *[8]byte
	if smpSynch == SmpSynchGlobal {
		raw := r.ReadBytes(8)
		if len(raw) == 8 {
			var arr [8]byte
			copy(arr[:], raw)
			gmIdentity = &arr
		}
	}

	var dataSet [8]AnalogValue
	for i := range dataSet {
		dataSet[i] = readAnalogValue(r, dt)
	}

	var ts PTPTimestamp
	if r.Remaining() >= 8 {
		ts = PTPFromNanosSinceEpoch(r.ReadUint64())
	} else {
		ts = NowPTP()
	}

	asdu := &ASDU{
		SVID:       svID,
		SmpCnt:     smpCnt,
		ConfRev:    confRev,
		SmpSynch:   smpSynch,
		GMIdentity: gmIdentity,
		DataSet:    dataSet,
		Timestamp:  ts,
	}
	if err := asdu.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	return &DecodedFrame{
		ASDU:     asdu,
		AppID:    appID,
		Length:   length,
		VLANID:   vlanID,
		Priority: priority,
		Simulate: simulate,
		NumASDUs: numASDUs,
	}, nil
}
