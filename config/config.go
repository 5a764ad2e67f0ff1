// Package config loads runtime settings and scenario documents.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings are the runtime options of the sandbox host.
type Settings struct {
	Port      int             `mapstructure:"port"`
	TickRate  int             `mapstructure:"tickRate"`
	Scenario  string          `mapstructure:"scenario"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
	Sim       SimConfig       `mapstructure:"sim"`
}

// TelemetryConfig holds decision recording settings.
type TelemetryConfig struct {
	Dir string `mapstructure:"dir"` // Empty disables recording
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// SimConfig holds simulation tuning.
type SimConfig struct {
	FocusRadius float64 `mapstructure:"focusRadius"`
	Seed        int64   `mapstructure:"seed"`
}

// Load reads configuration from solpilot.yaml in configDir, the SOLPILOT_*
// environment and the built-in defaults, in decreasing priority. A missing
// file is not an error.
func Load(configDir string) (Settings, error) {
	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("tickRate", 60)
	viper.SetDefault("scenario", "")

	viper.SetDefault("telemetry.dir", "")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.pretty", false)

	viper.SetDefault("sim.focusRadius", 60.0)
	viper.SetDefault("sim.seed", 1)

	viper.SetEnvPrefix("SOLPILOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("solpilot")
	viper.SetConfigType("yaml")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if s.TickRate <= 0 {
		return Settings{}, fmt.Errorf("tickRate must be positive, got %d", s.TickRate)
	}
	return s, nil
}
