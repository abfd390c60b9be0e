package sv92

import "fmt"

// SamplesPerPeriod is the number of samples published per 50 Hz power
// cycle, constrained by the protocol to one of two standard rates.
type SamplesPerPeriod int

const (
	SamplesPerPeriod80  SamplesPerPeriod = 80
	SamplesPerPeriod256 SamplesPerPeriod = 256
)

// SignalFrequency is the nominal power system frequency, encoded as
// Hz * 10 per the protocol's integer field (e.g. 500 == 50.0 Hz).
type SignalFrequency int

const (
	SignalFrequency16_7Hz SignalFrequency = 167
	SignalFrequency25Hz   SignalFrequency = 250
	SignalFrequency50Hz   SignalFrequency = 500
	SignalFrequency60Hz   SignalFrequency = 600
)

const (
	DefaultAppID          uint16           = 0x4000
	DefaultSampleRateHz   uint32           = 4000
	DefaultCurrentScaling uint32           = 1000
	DefaultVoltageScaling uint32           = 100
	DefaultUserPriority   uint8            = 4
	DefaultConfRev        uint32           = 1
	DefaultSamplesPerCyc  SamplesPerPeriod = SamplesPerPeriod80
	DefaultSignalFreq     SignalFrequency  = SignalFrequency50Hz
)

// SampledValueControlBlock (SVCB) is the configuration record for one SV
// stream: everything the encoder and publisher need that isn't carried on
// each individual ASDU.
type SampledValueControlBlock struct {
	Name               string
	MulticastAddress   MACAddress
	AppID              uint16
	SampleRateHz       uint32
	DataSetName        string
	ConfRev            uint32
	SmpSynch           SmpSynch
	VLANID             uint16 // 0 disables the 802.1Q tag
	UserPriority       uint8  // 1..7
	Simulate           bool
	GMIdentity         *[8]byte
	SamplesPerPeriod   SamplesPerPeriod
	SignalFrequency    SignalFrequency
	DataType           DataType
	CurrentScalingFact uint32
	VoltageScalingFact uint32
}

// NewSampledValueControlBlock returns an SVCB with the defaults documented
// in the configuration section: AppID 0x4000, 4000 Hz, 80 samples/cycle,
// 50 Hz, priority 4, confRev 1, INT32 data, scaling 1000/100.
func NewSampledValueControlBlock(name string, multicast MACAddress) *SampledValueControlBlock {
	return &SampledValueControlBlock{
		Name:               name,
		MulticastAddress:   multicast,
		AppID:              DefaultAppID,
		SampleRateHz:       DefaultSampleRateHz,
		DataSetName:        name,
		ConfRev:            DefaultConfRev,
		SmpSynch:           SmpSynchNone,
		UserPriority:       DefaultUserPriority,
		SamplesPerPeriod:   DefaultSamplesPerCyc,
		SignalFrequency:    DefaultSignalFreq,
		DataType:           DataTypeInt32,
		CurrentScalingFact: DefaultCurrentScaling,
		VoltageScalingFact: DefaultVoltageScaling,
	}
}

// Validate checks the invariants a factory would enforce before letting an
// SVCB reach the encoder or publisher.
func (c *SampledValueControlBlock) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidSVCB)
	}
	if c.MulticastAddress.IsZero() {
		return fmt.Errorf("%w: multicast address is zero", ErrInvalidSVCB)
	}
	if c.AppID < 0x4000 || c.AppID > 0x7FFF {
		return fmt.Errorf("%w: appID %#x out of range [0x4000, 0x7FFF]", ErrInvalidSVCB, c.AppID)
	}
	if c.VLANID > 0x0FFF {
		return fmt.Errorf("%w: vlanID %#x exceeds 12 bits", ErrInvalidSVCB, c.VLANID)
	}
	if c.UserPriority == 0 || c.UserPriority > 7 {
		return fmt.Errorf("%w: userPriority %d out of range [1,7]", ErrInvalidSVCB, c.UserPriority)
	}
	if c.SamplesPerPeriod != SamplesPerPeriod80 && c.SamplesPerPeriod != SamplesPerPeriod256 {
		return fmt.Errorf("%w: samplesPerPeriod %d not one of {80,256}", ErrInvalidSVCB, c.SamplesPerPeriod)
	}
	return nil
}
