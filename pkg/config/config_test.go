package config

import (
	"testing"

	"github.com/spf13/afero"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.LineLength != 88 {
		t.Errorf("LineLength = %d, want 88", cfg.LineLength)
	}
	if !cfg.DocstringTrailingLine {
		t.Error("DocstringTrailingLine should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoadTomlFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := "line_length = 100\npreserve_adornments = true\nextend_exclude = [\"build\"]\n"
	if err := afero.WriteFile(fs, "/proj/rstfmt.toml", []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, found, err := Load(fs, "/proj/rstfmt.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !found {
		t.Fatal("Load() found = false")
	}
	if cfg.LineLength != 100 {
		t.Errorf("LineLength = %d, want 100", cfg.LineLength)
	}
	if !cfg.PreserveAdornments {
		t.Error("PreserveAdornments not loaded")
	}
	// Unset keys keep their defaults.
	if !cfg.DocstringTrailingLine {
		t.Error("DocstringTrailingLine default lost on load")
	}
	patterns := cfg.ExcludePatterns()
	if patterns[len(patterns)-1] != "build" {
		t.Errorf("ExcludePatterns() = %v, want extend_exclude appended", patterns)
	}
}

func TestLoadPyprojectWithTable(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := "[tool.rstfmt]\nline_length = 72\n"
	if err := afero.WriteFile(fs, "/proj/pyproject.toml", []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, found, err := Load(fs, "/proj/pyproject.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !found {
		t.Fatal("tool.rstfmt table not recognized")
	}
	if cfg.LineLength != 72 {
		t.Errorf("LineLength = %d, want 72", cfg.LineLength)
	}
}

func TestLoadPyprojectWithoutTable(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := "[tool.other]\nname = \"x\"\n"
	if err := afero.WriteFile(fs, "/proj/pyproject.toml", []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	_, found, err := Load(fs, "/proj/pyproject.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if found {
		t.Error("pyproject without tool.rstfmt reported as config")
	}
}

func TestLoadInvalidToml(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/rstfmt.toml", []byte("line_length = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(fs, "/rstfmt.toml"); err == nil {
		t.Error("invalid TOML did not fail")
	}
}

func TestLoadRejectsTinyWidth(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/rstfmt.toml", []byte("line_length = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(fs, "/rstfmt.toml"); err == nil {
		t.Error("line_length = 1 accepted")
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/repo/rstfmt.toml", []byte("line_length = 79"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fs.MkdirAll("/repo/docs/deep", 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(fs, "/repo/docs/deep")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if cfg.LineLength != 79 {
		t.Errorf("LineLength = %d, want 79 from ancestor config", cfg.LineLength)
	}
	if cfg.Path != "/repo/rstfmt.toml" {
		t.Errorf("Path = %q", cfg.Path)
	}
}

func TestDiscoverNearestWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/repo/rstfmt.toml", []byte("line_length = 79"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/repo/docs/.rstfmt.toml", []byte("line_length = 120"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Discover(fs, "/repo/docs")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if cfg.LineLength != 120 {
		t.Errorf("LineLength = %d, want nearest config to win", cfg.LineLength)
	}
}

func TestDiscoverFallsBackToDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/empty", 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Discover(fs, "/empty")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if cfg.Path != "" || cfg.LineLength != 88 {
		t.Errorf("Discover() = %+v, want defaults", cfg)
	}
}

func TestFingerprintCoversOutputSettings(t *testing.T) {
	a := Default()
	b := Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal configs fingerprint differently")
	}
	b.LineLength = 72
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("width change not reflected in fingerprint")
	}
	c := Default()
	c.PreserveAdornments = true
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("adornment setting not reflected in fingerprint")
	}
}
