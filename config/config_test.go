package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	s, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Port != 8080 {
		t.Errorf("Port = %d, want 8080", s.Port)
	}
	if s.TickRate != 60 {
		t.Errorf("TickRate = %d, want 60", s.TickRate)
	}
	if s.Log.Level != "info" || s.Log.Pretty {
		t.Errorf("Log = %+v, want info without pretty", s.Log)
	}
	if s.Telemetry.Dir != "" {
		t.Errorf("Telemetry.Dir = %q, want disabled", s.Telemetry.Dir)
	}
	if s.Sim.FocusRadius != 60 || s.Sim.Seed != 1 {
		t.Errorf("Sim = %+v", s.Sim)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := "port: 9000\nlog:\n  level: debug\nsim:\n  focusRadius: 80\n  seed: 42\ntelemetry:\n  dir: ./runs\n"
	if err := os.WriteFile(filepath.Join(dir, "solpilot.yaml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Port != 9000 {
		t.Errorf("Port = %d, want 9000", s.Port)
	}
	if s.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", s.Log.Level)
	}
	if s.Sim.FocusRadius != 80 || s.Sim.Seed != 42 {
		t.Errorf("Sim = %+v, want focus 80 seed 42", s.Sim)
	}
	if s.Telemetry.Dir != "./runs" {
		t.Errorf("Telemetry.Dir = %q", s.Telemetry.Dir)
	}
	// Unset keys keep their defaults
	if s.TickRate != 60 {
		t.Errorf("TickRate = %d, want default 60", s.TickRate)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("SOLPILOT_PORT", "7070")
	t.Setenv("SOLPILOT_LOG_PRETTY", "true")

	s, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Port != 7070 {
		t.Errorf("Port = %d, want 7070 from env", s.Port)
	}
	if !s.Log.Pretty {
		t.Error("Log.Pretty should be set from env")
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "solpilot.yaml"), []byte("port: [unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected an error for a malformed config file")
	}
}

func TestLoadRejectsBadTickRate(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "solpilot.yaml"), []byte("tickRate: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected an error for a zero tick rate")
	}
}
