package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ginjaninja78/coordconv/internal/types"
)

func TestDefault(t *testing.T) {
	want := &Config{
		Input: InputConfig{
			Projection: "R",
			XColumn:    1,
			YColumn:    2,
			Delimiter:  ";",
			Encoding:   "utf-8",
		},
		Output: OutputConfig{
			Projection: "S",
			Delimiter:  ";",
			Encoding:   "utf-8",
		},
		Log: LogConfig{Level: "warn"},
	}
	if diff := cmp.Diff(want, Default()); diff != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.yaml")
	data := `
input:
  projection: W
  x_column: 3
  y_column: 4
  label_column: 1
  encoding: iso8859-1
output:
  projection: rt90
  delimiter: ","
  crlf: true
append: true
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := &Config{
		Input: InputConfig{
			Projection:  "W",
			XColumn:     3,
			YColumn:     4,
			LabelColumn: 1,
			Delimiter:   ";",
			Encoding:    "iso8859-1",
		},
		Output: OutputConfig{
			Projection: "rt90",
			Delimiter:  ",",
			Encoding:   "utf-8",
			CRLF:       true,
		},
		Append: true,
		Log:    LogConfig{Level: "debug"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPicksUpDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile(DefaultConfigFile, []byte("output:\n  projection: W\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Projection != "W" {
		t.Errorf("Output.Projection = %q, want W", cfg.Output.Projection)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, types.ErrConfiguration) {
		t.Errorf("missing file err = %v, want ErrConfiguration", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("input: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, types.ErrConfiguration) {
		t.Errorf("bad yaml err = %v, want ErrConfiguration", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("COORDCONV_INPUT_PROJECTION", "S")
	t.Setenv("COORDCONV_INPUT_Y_COLUMN", "5")
	t.Setenv("COORDCONV_OUTPUT_ENCODING", "latin1")
	t.Setenv("COORDCONV_APPEND", "true")
	t.Setenv("COORDCONV_LOG_LEVEL", "")

	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Input.Projection != "S" || cfg.Input.YColumn != 5 || cfg.Output.Encoding != "latin1" || !cfg.Append {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("empty variable overrode Log.Level: %q", cfg.Log.Level)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("COORDCONV_INPUT_X_COLUMN", "first")
	if err := ApplyEnv(Default()); !errors.Is(err, types.ErrConfiguration) {
		t.Errorf("err = %v, want ErrConfiguration", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("COORDCONV_OUTPUT_PROJECTION=W\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Registered so the variable is removed again after the test.
	t.Setenv("COORDCONV_OUTPUT_PROJECTION", "")
	os.Unsetenv("COORDCONV_OUTPUT_PROJECTION")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Projection != "W" {
		t.Errorf("Output.Projection = %q, want W", cfg.Output.Projection)
	}
}
