package config

import (
	"fmt"

	"github.com/coldbox-daq/wibscope/daq"
	"github.com/coldbox-daq/wibscope/wire"
)

// Config represents a wibscope configuration file. The device section
// mirrors the legacy femb0.json layout so existing files keep working;
// the record and archive sections are optional local features.
type Config struct {
	// Cold selects the cryogenic tuning of the front end.
	Cold bool `yaml:"cold"`
	// EnabledFEMBs has exactly one entry per FEMB.
	EnabledFEMBs []bool `yaml:"enabled_fembs"`
	// FEMBConfigs has exactly one entry per FEMB, in FEMB order.
	FEMBConfigs []FEMBConfig `yaml:"femb_configs"`

	Record  RecordConfig  `yaml:"record,omitempty"`
	Archive ArchiveConfig `yaml:"archive,omitempty"`
}

// FEMBConfig holds the numeric tuning fields of one front-end board.
// Field names follow the wib_server schema.
type FEMBConfig struct {
	TestCap  bool   `yaml:"test_cap"`
	Gain     uint32 `yaml:"gain"`
	PeakTime uint32 `yaml:"peak_time"`
	Baseline uint32 `yaml:"baseline"`
	PulseDAC uint32 `yaml:"pulse_dac"`

	Leak     uint32 `yaml:"leak"`
	Leak10X  bool   `yaml:"leak_10x"`
	ACCouple bool   `yaml:"ac_couple"`
	Buffer   uint32 `yaml:"buffer"`

	StrobeSkip   uint32 `yaml:"strobe_skip"`
	StrobeDelay  uint32 `yaml:"strobe_delay"`
	StrobeLength uint32 `yaml:"strobe_length"`
}

// RecordConfig controls parquet snapshot recording.
type RecordConfig struct {
	// Dir is where snapshot files are written. Empty disables
	// recording unless a flag overrides it.
	Dir string `yaml:"dir"`
}

// ArchiveConfig controls S3 upload of recorded snapshots.
type ArchiveConfig struct {
	// Bucket is the S3 bucket name; empty disables archiving.
	Bucket string `yaml:"bucket"`
	// Prefix is the key prefix within the bucket.
	Prefix string `yaml:"prefix"`
	// Region is the AWS region (default credential chain if empty).
	Region string `yaml:"region"`
	// Endpoint is a custom S3 endpoint for S3-compatible stores.
	Endpoint string `yaml:"endpoint"`
	// PathStyle forces path-style addressing, required by most
	// S3-compatible providers.
	PathStyle bool `yaml:"path_style"`
}

// Validate checks the fixed shape of the device section: exactly one
// enabled flag and one tuning record per FEMB.
func (c *Config) Validate() error {
	if len(c.EnabledFEMBs) != daq.NumFEMBs {
		return fmt.Errorf("enabled_fembs has %d entries, want %d", len(c.EnabledFEMBs), daq.NumFEMBs)
	}
	if len(c.FEMBConfigs) != daq.NumFEMBs {
		return fmt.Errorf("femb_configs has %d entries, want %d", len(c.FEMBConfigs), daq.NumFEMBs)
	}
	return nil
}

// ToWire builds the ConfigureWIB request carried by the envelope. The
// result always has one populated FEMB record per front-end board,
// with the enabled flag folded in from EnabledFEMBs.
func (c *Config) ToWire() *wire.ConfigureWIB {
	req := &wire.ConfigureWIB{
		Cold:  c.Cold,
		FEMBs: make([]wire.FEMBConf, daq.NumFEMBs),
	}
	for i := 0; i < daq.NumFEMBs; i++ {
		fc := c.FEMBConfigs[i]
		req.FEMBs[i] = wire.FEMBConf{
			Enabled: c.EnabledFEMBs[i],

			TestCap:  fc.TestCap,
			Gain:     fc.Gain,
			PeakTime: fc.PeakTime,
			Baseline: fc.Baseline,
			PulseDAC: fc.PulseDAC,

			Leak:     fc.Leak,
			Leak10X:  fc.Leak10X,
			ACCouple: fc.ACCouple,
			Buffer:   fc.Buffer,

			StrobeSkip:   fc.StrobeSkip,
			StrobeDelay:  fc.StrobeDelay,
			StrobeLength: fc.StrobeLength,
		}
	}
	return req
}
