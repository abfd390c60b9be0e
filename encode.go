package sv92

// vlanTPID is the 802.1Q tag protocol identifier.
const vlanTPID = 0x8100

// svEtherType is the EtherType reserved for IEC 61850-9-2 Sampled Values.
const svEtherType = 0x88BA

// Encode serializes svcb+asdu into a single Ethernet frame, following the
// layout in the wire format component design. srcMAC is supplied by the
// caller (the link sender knows its own interface's hardware address) so
// that Encode stays a pure function of its inputs, suitable for round-trip
// testing without a live socket.
func Encode(svcb *SampledValueControlBlock, asdu *ASDU, srcMAC MACAddress) ([]byte, error) {
	if err := svcb.Validate(); err != nil {
		return nil, err
	}
	if err := asdu.Validate(); err != nil {
		return nil, err
	}

	w := NewBufferWriter(128)
	w.WriteBytes(svcb.MulticastAddress.Bytes())
	w.WriteBytes(srcMAC.Bytes())

	if svcb.VLANID > 0 {
		w.WriteUint16(vlanTPID)
		tci := uint16(svcb.UserPriority&0x7)<<13 | (svcb.VLANID & 0x0FFF)
		w.WriteUint16(tci)
	}

	w.WriteUint16(svEtherType)
	w.WriteUint16(svcb.AppID)
	lengthPos := w.Reserve(2)
	bodyStart := w.Len()

	var reserved1 uint16
	if svcb.Simulate {
		reserved1 |= 1 << 15
	}
	w.WriteUint16(reserved1)
	w.WriteUint16(0) // Reserved2

	w.WriteUint8(1) // numASDUs: this encoder always emits a single ASDU, per
	// the open question in the design notes allowing either choice.

	w.WriteFixedString(asdu.SVID, 64)
	w.WriteUint16(asdu.SmpCnt)
	w.WriteUint32(asdu.ConfRev)
	w.WriteUint8(uint8(asdu.SmpSynch))

	if asdu.SmpSynch == SmpSynchGlobal && asdu.GMIdentity != nil {
		w.WriteBytes(asdu.GMIdentity[:])
	}

	for _, v := range asdu.DataSet {
		v.writeTo(w)
		w.WriteUint32(v.Quality.Raw())
	}

	w.WriteUint64(asdu.Timestamp.NanosSinceEpoch())

	w.WriteUint16At(lengthPos, uint16(w.Len()-bodyStart))
	return w.Bytes(), nil
}
