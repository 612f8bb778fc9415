package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gortc/core"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Backend != "sim" {
		t.Errorf("backend default: got %q, want sim", cfg.Backend)
	}
	if cfg.ClockSource != "lsi" || cfg.Source() != core.SourceLSI {
		t.Errorf("clock source default: got %q", cfg.ClockSource)
	}
	if cfg.HourFormat != 24 || cfg.Format() != core.Hour24 {
		t.Errorf("hour format default: got %d", cfg.HourFormat)
	}
	if cfg.Serial.Baud != 115200 || cfg.Serial.ReadTimeout != 100 {
		t.Errorf("serial defaults: got %+v", cfg.Serial)
	}
	if _, ok := cfg.CorePrescaler(); ok {
		t.Error("no prescaler section must mean no override")
	}
}

func TestParseFull(t *testing.T) {
	cfg, err := Parse([]byte(`
backend: serial
clock_source: lse
hour_format: 12
serial:
  device: /dev/ttyACM0
  baud: 250000
  read_timeout: 50
prescaler:
  layout: single
  async: 127
  sync: 255
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Backend != "serial" || cfg.Serial.Device != "/dev/ttyACM0" || cfg.Serial.Baud != 250000 {
		t.Errorf("serial section: got %+v", cfg.Serial)
	}
	if cfg.Source() != core.SourceLSE {
		t.Errorf("clock source: got %v", cfg.Source())
	}
	if cfg.Format() != core.Hour12 {
		t.Errorf("hour format: got %v", cfg.Format())
	}
	ps, ok := cfg.CorePrescaler()
	if !ok {
		t.Fatal("prescaler override missing")
	}
	want := core.Prescaler{Layout: core.PrescalerSingle, Async: 127, Sync: 255}
	if ps != want {
		t.Errorf("prescaler: got %+v, want %+v", ps, want)
	}
}

func TestParsePrescalerLayoutDefault(t *testing.T) {
	cfg, err := Parse([]byte("prescaler:\n  async: 1\n  sync: 2\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ps, ok := cfg.CorePrescaler()
	if !ok || ps.Layout != core.PrescalerDual {
		t.Errorf("layout default: got %+v ok=%v, want dual", ps, ok)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"bad backend", "backend: spi\n", "unknown backend"},
		{"bad source", "clock_source: msi\n", "unknown clock source"},
		{"bad format", "hour_format: 13\n", "hour format"},
		{"serial without device", "backend: serial\n", "device path"},
		{"bad layout", "prescaler:\n  layout: triple\n", "prescaler layout"},
		{"not yaml", ":\n:::\n", "parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("invalid config accepted")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtc.yaml")
	if err := os.WriteFile(path, []byte("backend: i2c\ni2c:\n  bus: /dev/i2c-1\n  address: 0x68\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != "i2c" || cfg.I2C.Bus != "/dev/i2c-1" || cfg.I2C.Address != 0x68 {
		t.Errorf("got %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file must fail")
	}
}
