package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session"`
	Server  ServerConfig  `toml:"server"`
	Source  SourceConfig  `toml:"source"`
	UI      UIConfig      `toml:"ui"`
}

// SessionConfig maps the session parameters.
type SessionConfig struct {
	ErrorMargin *float64 `toml:"error-margin"`
	Difficulty  *float64 `toml:"difficulty"`
	Repetitions *int     `toml:"repetitions"`
	Dwell       *string  `toml:"dwell"`
}

// ServerConfig maps the HTTP dashboard settings.
type ServerConfig struct {
	Addr      *string `toml:"addr"`
	StaticDir *string `toml:"static-dir"`
}

// SourceConfig maps the frame source settings.
type SourceConfig struct {
	Bridge     *string  `toml:"bridge"`
	BridgeArgs []string `toml:"bridge-args"`
	Replay     *string  `toml:"replay"`
	Camera     *int     `toml:"camera"`

	Smoothing          *float64 `toml:"smoothing"`
	Correction         *float64 `toml:"correction"`
	Prediction         *float64 `toml:"prediction"`
	JitterRadius       *float64 `toml:"jitter-radius"`
	MaxDeviationRadius *float64 `toml:"max-deviation-radius"`
}

// UIConfig maps presentation settings.
type UIConfig struct {
	Lang     *string `toml:"lang"`
	Tray     *bool   `toml:"tray"`
	LogLevel *string `toml:"log-level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays the file values onto s, clamping as Set would.
func (c SessionConfig) Apply(s *Session) error {
	if c.ErrorMargin != nil {
		s.SetErrorMargin(*c.ErrorMargin)
	}
	if c.Difficulty != nil {
		s.SetDifficultyFactor(*c.Difficulty)
	}
	if c.Repetitions != nil {
		s.SetTargetRepetitions(*c.Repetitions)
	}
	if c.Dwell != nil {
		d, err := time.ParseDuration(*c.Dwell)
		if err != nil {
			return fmt.Errorf("session.dwell: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("session.dwell must be positive, got %s", d)
		}
		s.DwellDuration = d
	}
	return nil
}
