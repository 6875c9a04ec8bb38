package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gloomdelve/server/internal/constants"
)

// BattleDefaults are applied to battles that do not override them.
type BattleDefaults struct {
	MaxTurns             int `json:"max_turns"`
	ActionTimeoutSeconds int `json:"action_timeout_seconds"`
}

// Config is the server configuration, loaded from a JSON file at startup.
type Config struct {
	ServerAddress string `json:"server_address"`
	DatabasePath  string `json:"database_path"`
	GameDataPath  string `json:"game_data_path"`

	Battle BattleDefaults `json:"battle"`

	// TimeoutScanSeconds is the interval of the background scanner that
	// auto-resolves battles whose action deadline has passed.
	TimeoutScanSeconds int `json:"timeout_scan_seconds"`
}

// Load reads the configuration from the path in GLOOMDELVE_CONFIG, falling
// back to the default path, applies defaults and validates the result.
func Load() (*Config, error) {
	path := os.Getenv(constants.EnvConfigPath)
	if path == "" {
		path = constants.DefaultConfigPath
	}
	return LoadFile(path)
}

// LoadFile reads and validates one configuration file.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ServerAddress == "" {
		c.ServerAddress = ":8080"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = os.Getenv(constants.EnvDBPath)
	}
	if c.DatabasePath == "" {
		c.DatabasePath = constants.DefaultDBPath
	}
	if c.Battle.MaxTurns == 0 {
		c.Battle.MaxTurns = 50
	}
	if c.Battle.ActionTimeoutSeconds == 0 {
		c.Battle.ActionTimeoutSeconds = 60
	}
	if c.TimeoutScanSeconds == 0 {
		c.TimeoutScanSeconds = 5
	}
}

func (c *Config) validate() error {
	if c.GameDataPath == "" {
		return fmt.Errorf("config: game_data_path is required")
	}
	if c.Battle.MaxTurns < 0 {
		return fmt.Errorf("config: max_turns must not be negative")
	}
	if c.Battle.ActionTimeoutSeconds < 0 {
		return fmt.Errorf("config: action_timeout_seconds must not be negative")
	}
	if c.TimeoutScanSeconds < 1 {
		return fmt.Errorf("config: timeout_scan_seconds must be at least 1")
	}
	return nil
}
