package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Mode != "camera" {
		t.Errorf("expected default mode camera, got %q", cfg.Mode)
	}
	if cfg.Audio.SendRate != 16000 || cfg.Audio.ReceiveRate != 24000 {
		t.Errorf("unexpected default rates: %d/%d", cfg.Audio.SendRate, cfg.Audio.ReceiveRate)
	}
	if cfg.Audio.ChunkSize != 1024 {
		t.Errorf("expected chunk size 1024, got %d", cfg.Audio.ChunkSize)
	}
	if cfg.Session.Voice != "Zephyr" {
		t.Errorf("expected default voice Zephyr, got %q", cfg.Session.Voice)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	cfg.Mode = "screen"
	cfg.CameraIndex = 2
	if err := cfg.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "magic-mirror", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Mode != "screen" || loaded.CameraIndex != 2 {
		t.Fatalf("round trip lost values: mode=%q index=%d", loaded.Mode, loaded.CameraIndex)
	}
}

func TestAPIKeyPrecedence(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("GOOGLE_API_KEY", "goog")
	if got := APIKey(); got != "gem" {
		t.Fatalf("expected GEMINI_API_KEY to win, got %q", got)
	}

	t.Setenv("GEMINI_API_KEY", "")
	if got := APIKey(); got != "goog" {
		t.Fatalf("expected GOOGLE_API_KEY fallback, got %q", got)
	}
}
