package archive

import "testing"

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing bucket")
	}

	cfg.Bucket = "wib-snapshots"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestConfig_Key(t *testing.T) {
	for _, tc := range []struct {
		prefix, name, want string
	}{
		{"", "wibscope_x.parquet", "wibscope_x.parquet"},
		{"coldbox", "wibscope_x.parquet", "coldbox/wibscope_x.parquet"},
		{"coldbox/run7/", "wibscope_x.parquet", "coldbox/run7/wibscope_x.parquet"},
	} {
		cfg := Config{Bucket: "b", Prefix: tc.prefix}
		if got := cfg.Key(tc.name); got != tc.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tc.prefix, tc.name, got, tc.want)
		}
	}
}
