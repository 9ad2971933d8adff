package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coldbox-daq/wibscope/daq"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wibscope.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

const validYAML = `cold: false
enabled_fembs: [true, false, false, false]
femb_configs:
  - {test_cap: true, gain: 2, peak_time: 3, baseline: 0, pulse_dac: 0,
     leak: 0, leak_10x: false, ac_couple: false, buffer: 0,
     strobe_skip: 255, strobe_delay: 255, strobe_length: 255}
  - {gain: 2, peak_time: 3}
  - {gain: 2, peak_time: 3}
  - {gain: 2, peak_time: 3}
`

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Cold {
		t.Error("Cold = true, want false")
	}
	if !cfg.EnabledFEMBs[0] || cfg.EnabledFEMBs[1] {
		t.Errorf("EnabledFEMBs = %v, want [true false false false]", cfg.EnabledFEMBs)
	}
	if cfg.FEMBConfigs[0].StrobeSkip != 255 {
		t.Errorf("StrobeSkip = %d, want 255", cfg.FEMBConfigs[0].StrobeSkip)
	}
	if !cfg.FEMBConfigs[0].TestCap {
		t.Error("TestCap = false, want true")
	}
}

func TestLoad_LegacyJSON(t *testing.T) {
	// JSON is a YAML subset; femb0.json-style files load unchanged.
	json := `{
  "cold": true,
  "enabled_fembs": [true, true, true, true],
  "femb_configs": [
    {"test_cap": false, "gain": 1, "peak_time": 2, "baseline": 1, "pulse_dac": 10,
     "leak": 0, "leak_10x": true, "ac_couple": true, "buffer": 1,
     "strobe_skip": 255, "strobe_delay": 255, "strobe_length": 255},
    {"gain": 1}, {"gain": 1}, {"gain": 1}
  ]
}`
	cfg, err := Load(writeTemp(t, json))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Cold {
		t.Error("Cold = false, want true")
	}
	if cfg.FEMBConfigs[0].PulseDAC != 10 {
		t.Errorf("PulseDAC = %d, want 10", cfg.FEMBConfigs[0].PulseDAC)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not-found error", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeTemp(t, "cold: [unterminated"))
	if err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_WrongFEMBCount(t *testing.T) {
	yaml := `cold: false
enabled_fembs: [true, false]
femb_configs:
  - {gain: 2}
  - {gain: 2}
`
	_, err := Load(writeTemp(t, yaml))
	if err == nil || !strings.Contains(err.Error(), "enabled_fembs") {
		t.Errorf("err = %v, want enabled_fembs shape error", err)
	}
}

func TestToWire(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	req := cfg.ToWire()
	if req.Cold != cfg.Cold {
		t.Errorf("Cold = %v, want %v", req.Cold, cfg.Cold)
	}
	if len(req.FEMBs) != daq.NumFEMBs {
		t.Fatalf("len(FEMBs) = %d, want %d", len(req.FEMBs), daq.NumFEMBs)
	}
	if !req.FEMBs[0].Enabled || req.FEMBs[1].Enabled {
		t.Error("enabled flags not folded into FEMB records")
	}
	if req.FEMBs[0].Gain != 2 || req.FEMBs[0].StrobeLength != 255 {
		t.Errorf("FEMBs[0] = %+v, want gain 2 and strobe_length 255", req.FEMBs[0])
	}
	if !req.FEMBs[0].TestCap {
		t.Error("TestCap not carried into wire record")
	}
}
