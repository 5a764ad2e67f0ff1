package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewTelemetryDisabled(t *testing.T) {
	tel, err := NewTelemetry("")
	if err != nil {
		t.Fatalf("NewTelemetry: %v", err)
	}
	if tel != nil {
		t.Fatal("expected nil telemetry for empty dir")
	}
	// nil receivers are no-ops
	if err := tel.Write([]ControlRecord{{Tick: 1}}); err != nil {
		t.Errorf("Write on nil: %v", err)
	}
	if err := tel.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestTelemetryHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	tel, err := NewTelemetry(dir)
	if err != nil {
		t.Fatalf("NewTelemetry: %v", err)
	}

	if err := tel.Write([]ControlRecord{{Tick: 1, Ship: 1, Pilot: "a", Thrust: true}}); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := tel.Write(nil); err != nil {
		t.Fatalf("empty Write: %v", err)
	}
	if err := tel.Write([]ControlRecord{{Tick: 2, Ship: 1, Pilot: "a"}, {Tick: 2, Ship: 2, Pilot: "b", Far: true}}); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if err := tel.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "controls.csv"))
	if err != nil {
		t.Fatalf("reading controls.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header plus 3 records:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "tick,time,ship,pilot,far,") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "tick,") != 1 {
		t.Error("header written more than once")
	}
}
