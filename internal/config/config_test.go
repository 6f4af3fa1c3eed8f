package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.View.MinZoom != 0.1 || cfg.View.MaxZoom != 10.0 || cfg.View.ZoomStep != 1.25 {
		t.Errorf("Unexpected view defaults: %+v", cfg.View)
	}
	if cfg.Blink.IntervalMS != 500 {
		t.Errorf("Expected blink interval 500ms, got %d", cfg.Blink.IntervalMS)
	}
	if cfg.Export.GapPixels != 10 {
		t.Errorf("Expected export gap 10, got %d", cfg.Export.GapPixels)
	}
	if cfg.Overlay.Opacity != 0.5 {
		t.Errorf("Expected overlay opacity 0.5, got %v", cfg.Overlay.Opacity)
	}
	if cfg.Resample.TargetDPI != 500 {
		t.Errorf("Expected target 500 dpi, got %v", cfg.Resample.TargetDPI)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.View.MaxZoom != 10.0 {
		t.Errorf("Expected defaults, got %+v", cfg.View)
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[blink]\ninterval_ms = 250\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Blink.IntervalMS != 250 {
		t.Errorf("Expected override 250, got %d", cfg.Blink.IntervalMS)
	}
	if cfg.View.ZoomStep != 1.25 {
		t.Errorf("Expected untouched default, got %v", cfg.View.ZoomStep)
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[view\nbroken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("Expected error for malformed file")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Overlay.Opacity = 0.75
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Overlay.Opacity != 0.75 {
		t.Errorf("Expected 0.75 after round trip, got %v", loaded.Overlay.Opacity)
	}
}
