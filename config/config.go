// Package config loads YAML deployment configuration — SVCB definitions,
// protection settings, breaker ratings, and the historian sink — into the
// typed values the rest of the module consumes, grounded on
// sohooo-droneops-sim's internal/config.Load shape. Unlike that package this
// one validates by calling each domain type's own Validate/Build method
// rather than compiling a separate schema language against the document.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/substation-sv/sv92"
	"github.com/substation-sv/sv92/breaker"
	"github.com/substation-sv/sv92/protection"
)

// SVCBConfig is the YAML shape for one Sampled Value Control Block.
type SVCBConfig struct {
	Name                string `yaml:"name"`
	MulticastAddress    string `yaml:"multicast_address"`
	AppID               string `yaml:"app_id"`
	SampleRateHz        int    `yaml:"sample_rate_hz"`
	DataSetName         string `yaml:"data_set_name"`
	ConfRev             uint32 `yaml:"conf_rev"`
	SmpSynch            string `yaml:"smp_synch"`
	VLANID              uint16 `yaml:"vlan_id"`
	UserPriority        uint8  `yaml:"user_priority"`
	Simulate            bool   `yaml:"simulate"`
	SamplesPerPeriod    int    `yaml:"samples_per_period"`
	SignalFrequency     int    `yaml:"signal_frequency"`
	DataType            string `yaml:"data_type"`
	CurrentScalingFact  int    `yaml:"current_scaling_fact"`
	VoltageScalingFact  int    `yaml:"voltage_scaling_fact"`
}

// Build turns the YAML shape into a validated SampledValueControlBlock.
func (c SVCBConfig) Build() (*sv92.SampledValueControlBlock, error) {
	mac, err := sv92.ParseMAC(c.MulticastAddress)
	if err != nil {
		return nil, fmt.Errorf("config: svcb %q: %w", c.Name, err)
	}

	svcb := sv92.NewSampledValueControlBlock(c.Name, mac)

	if c.AppID != "" {
		appID, err := strconv.ParseUint(c.AppID, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("config: svcb %q: app_id: %w", c.Name, err)
		}
		svcb.AppID = uint16(appID)
	}
	if c.SampleRateHz != 0 {
		svcb.SampleRateHz = uint32(c.SampleRateHz)
	}
	if c.DataSetName != "" {
		svcb.DataSetName = c.DataSetName
	}
	if c.ConfRev != 0 {
		svcb.ConfRev = c.ConfRev
	}
	if c.SmpSynch != "" {
		synch, err := parseSmpSynchName(c.SmpSynch)
		if err != nil {
			return nil, fmt.Errorf("config: svcb %q: %w", c.Name, err)
		}
		svcb.SmpSynch = synch
	}
	svcb.VLANID = c.VLANID
	if c.UserPriority != 0 {
		svcb.UserPriority = c.UserPriority
	}
	svcb.Simulate = c.Simulate
	if c.SamplesPerPeriod != 0 {
		svcb.SamplesPerPeriod = sv92.SamplesPerPeriod(c.SamplesPerPeriod)
	}
	if c.SignalFrequency != 0 {
		svcb.SignalFrequency = sv92.SignalFrequency(c.SignalFrequency)
	}
	if c.DataType != "" {
		dt, err := parseDataTypeName(c.DataType)
		if err != nil {
			return nil, fmt.Errorf("config: svcb %q: %w", c.Name, err)
		}
		svcb.DataType = dt
	}
	if c.CurrentScalingFact != 0 {
		svcb.CurrentScalingFact = uint32(c.CurrentScalingFact)
	}
	if c.VoltageScalingFact != 0 {
		svcb.VoltageScalingFact = uint32(c.VoltageScalingFact)
	}

	if err := svcb.Validate(); err != nil {
		return nil, fmt.Errorf("config: svcb %q: %w", c.Name, err)
	}
	return svcb, nil
}

func parseSmpSynchName(s string) (sv92.SmpSynch, error) {
	switch strings.ToLower(s) {
	case "none":
		return sv92.SmpSynchNone, nil
	case "local":
		return sv92.SmpSynchLocal, nil
	case "global":
		return sv92.SmpSynchGlobal, nil
	default:
		return 0, fmt.Errorf("unrecognized smp_synch %q", s)
	}
}

func parseDataTypeName(s string) (sv92.DataType, error) {
	switch strings.ToLower(s) {
	case "int32":
		return sv92.DataTypeInt32, nil
	case "uint32":
		return sv92.DataTypeUint32, nil
	case "float32":
		return sv92.DataTypeFloat32, nil
	default:
		return 0, fmt.Errorf("unrecognized data_type %q", s)
	}
}

// DistanceZoneConfig is the YAML shape for one DistanceZone.
type DistanceZoneConfig struct {
	ReachOhm float64 `yaml:"reach_ohm"`
	AngleRad float64 `yaml:"angle_rad"`
	DelayMS  int     `yaml:"delay_ms"`
	Enabled  bool    `yaml:"enabled"`
}

func (c DistanceZoneConfig) build() protection.DistanceZone {
	return protection.DistanceZone{
		ReachOhm: c.ReachOhm,
		AngleRad: c.AngleRad,
		Delay:    msToDuration(c.DelayMS),
		Enabled:  c.Enabled,
	}
}

// DistanceProtectionConfig is the YAML shape for a DistanceProtection
// engine's settings.
type DistanceProtectionConfig struct {
	Zone1             DistanceZoneConfig `yaml:"zone1"`
	Zone2             DistanceZoneConfig `yaml:"zone2"`
	Zone3             DistanceZoneConfig `yaml:"zone3"`
	VoltageThresholdV float64            `yaml:"voltage_threshold_v"`
	CurrentThresholdA float64            `yaml:"current_threshold_a"`
	DirectionForward  bool               `yaml:"direction_forward"`
}

// Build turns the YAML shape into validated DistanceProtectionSettings.
func (c DistanceProtectionConfig) Build() (protection.DistanceProtectionSettings, error) {
	settings := protection.DistanceProtectionSettings{
		Zone1:             c.Zone1.build(),
		Zone2:             c.Zone2.build(),
		Zone3:             c.Zone3.build(),
		VoltageThresholdV: c.VoltageThresholdV,
		CurrentThresholdA: c.CurrentThresholdA,
		DirectionForward:  c.DirectionForward,
	}
	if !settings.Valid() {
		return settings, fmt.Errorf("config: %w", protection.ErrInvalidSettings)
	}
	return settings, nil
}

// DifferentialProtectionConfig is the YAML shape for a
// DifferentialProtection engine's settings.
type DifferentialProtectionConfig struct {
	SlopePercent            float64 `yaml:"slope_percent"`
	MinOperatingCurrentA    float64 `yaml:"min_operating_current_a"`
	MinRestraintCurrentA    float64 `yaml:"min_restraint_current_a"`
	InstantaneousThresholdA float64 `yaml:"instantaneous_threshold_a"`
	Enabled                 bool    `yaml:"enabled"`
}

// Build turns the YAML shape into validated DifferentialProtectionSettings.
func (c DifferentialProtectionConfig) Build() (protection.DifferentialProtectionSettings, error) {
	settings := protection.DifferentialProtectionSettings{
		SlopePercent:            c.SlopePercent,
		MinOperatingCurrentA:    c.MinOperatingCurrentA,
		MinRestraintCurrentA:    c.MinRestraintCurrentA,
		InstantaneousThresholdA: c.InstantaneousThresholdA,
		Enabled:                 c.Enabled,
	}
	if !settings.Valid() {
		return settings, fmt.Errorf("config: %w", protection.ErrInvalidSettings)
	}
	return settings, nil
}

// BreakerConfig is the YAML shape for a breaker.Definition.
type BreakerConfig struct {
	OpenTimeMS                int     `yaml:"open_time_ms"`
	CloseTimeMS               int     `yaml:"close_time_ms"`
	ResistanceOhm             float64 `yaml:"resistance_ohm"`
	MaxCurrentA               float64 `yaml:"max_current_a"`
	VoltageRatingV            float64 `yaml:"voltage_rating_v"`
	PowerRatingW              float64 `yaml:"power_rating_w"`
	ArcDurationMS             int     `yaml:"arc_duration_ms"`
	ContactGapMM              float64 `yaml:"contact_gap_mm"`
	DielectricStrengthKVPerMM float64 `yaml:"dielectric_strength_kv_per_mm"`
}

// Build turns the YAML shape into a validated breaker.Definition.
func (c BreakerConfig) Build() (breaker.Definition, error) {
	def := breaker.Definition{
		OpenTime:                  msToDuration(c.OpenTimeMS),
		CloseTime:                 msToDuration(c.CloseTimeMS),
		ResistanceOhm:             c.ResistanceOhm,
		MaxCurrentA:               c.MaxCurrentA,
		VoltageRatingV:            c.VoltageRatingV,
		PowerRatingW:              c.PowerRatingW,
		ArcDuration:               msToDuration(c.ArcDurationMS),
		ContactGapMM:              c.ContactGapMM,
		DielectricStrengthKVPerMM: c.DielectricStrengthKVPerMM,
	}
	if err := def.Validate(); err != nil {
		return def, fmt.Errorf("config: %w", err)
	}
	return def, nil
}

// HistorianConfig is the YAML shape for the GreptimeDB historian sink.
type HistorianConfig struct {
	Endpoint string `yaml:"endpoint"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
}

// Config is the root deployment configuration document.
type Config struct {
	ModelName              string                        `yaml:"model_name"`
	Interface               string                        `yaml:"interface"`
	SVCBs                   []SVCBConfig                  `yaml:"svcbs"`
	DistanceProtection      *DistanceProtectionConfig      `yaml:"distance_protection"`
	DifferentialProtection  *DifferentialProtectionConfig  `yaml:"differential_protection"`
	Breaker                 *BreakerConfig                 `yaml:"breaker"`
	Historian               *HistorianConfig               `yaml:"historian"`
}

// Load reads and parses the YAML document at path. It does not build or
// validate the nested domain objects — call each section's Build method for
// that, so a caller that only needs SVCBs never pays for breaker/protection
// validation errors in an unrelated section of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	return &cfg, nil
}

// BuildSVCBs builds and validates every SVCB section in the document.
func (c *Config) BuildSVCBs() ([]*sv92.SampledValueControlBlock, error) {
	svcbs := make([]*sv92.SampledValueControlBlock, 0, len(c.SVCBs))
	for _, sc := range c.SVCBs {
		svcb, err := sc.Build()
		if err != nil {
			return nil, err
		}
		svcbs = append(svcbs, svcb)
	}
	return svcbs, nil
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

