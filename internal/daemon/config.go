// Package daemon manages the Prody daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	Data       DataConfig       `toml:"data"`
	Engagement EngagementConfig `toml:"engagement"`
	Telemetry  TelemetryConfig  `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DataConfig controls where state lives.
type DataConfig struct {
	Dir string `toml:"dir"`
}

// EngagementConfig tunes XP caps and reward amounts.
type EngagementConfig struct {
	WisdomDailyCap     int64 `toml:"wisdom_daily_cap"`
	ReflectionDailyCap int64 `toml:"reflection_daily_cap"`
	DisciplineDailyCap int64 `toml:"discipline_daily_cap"`
	BloomXP            int64 `toml:"bloom_xp"`
	BloomTokens        int64 `toml:"bloom_tokens"`
	JournalXP          int64 `toml:"journal_xp"`
	MessageTokens      int64 `toml:"message_tokens"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 7381,
		},
		Data: DataConfig{
			Dir: prodyHome(),
		},
		Engagement: EngagementConfig{
			WisdomDailyCap:     500,
			ReflectionDailyCap: 500,
			DisciplineDailyCap: 300,
			BloomXP:            75,
			BloomTokens:        10,
			JournalXP:          50,
			MessageTokens:      5,
		},
		Telemetry: TelemetryConfig{
			Prometheus: false,
		},
	}
}

// LoadConfig reads config from ~/.prody/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(prodyHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Data.Dir == "" {
		cfg.Data.Dir = prodyHome()
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.prody/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(prodyHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// prodyHome returns the Prody data directory.
func prodyHome() string {
	if env := os.Getenv("PRODY_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".prody")
}

// ProdyHome is exported for use by other packages.
func ProdyHome() string {
	return prodyHome()
}
