package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// ControlRecord is one pilot decision as written to controls.csv.
type ControlRecord struct {
	Tick          int64   `csv:"tick"`
	Time          float64 `csv:"time"`
	Ship          uint32  `csv:"ship"`
	Pilot         string  `csv:"pilot"`
	Far           bool    `csv:"far"`
	PosX          float64 `csv:"pos_x"`
	PosY          float64 `csv:"pos_y"`
	Angle         float64 `csv:"angle"`
	Thrust        bool    `csv:"thrust"`
	TurnLeft      bool    `csv:"turn_left"`
	TurnRight     bool    `csv:"turn_right"`
	FirePrimary   bool    `csv:"fire_primary"`
	FireSecondary bool    `csv:"fire_secondary"`
	UseAbility    bool    `csv:"use_ability"`
}

// Telemetry appends every pilot decision to a CSV file. A nil *Telemetry
// discards all records.
type Telemetry struct {
	file          *os.File
	headerWritten bool
}

// NewTelemetry creates dir and opens controls.csv inside it. Returns nil if
// dir is empty (telemetry disabled).
func NewTelemetry(dir string) (*Telemetry, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "controls.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating controls.csv: %w", err)
	}
	return &Telemetry{file: f}, nil
}

// Write appends one tick worth of records.
func (t *Telemetry) Write(records []ControlRecord) error {
	if t == nil || len(records) == 0 {
		return nil
	}

	if !t.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, t.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		t.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, t.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (t *Telemetry) Close() error {
	if t == nil {
		return nil
	}
	return t.file.Close()
}
