package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ServerConfig is the env-backed process configuration
type ServerConfig struct {
	Addr      string  `env:"CREEPS_ADDR" envDefault:":8080"`
	DBPath    string  `env:"CREEPS_DB" envDefault:"creeps.db"`
	PublicURL string  `env:"CREEPS_PUBLIC_URL" envDefault:"http://localhost:8080"`
	MaxRooms  int     `env:"CREEPS_MAX_ROOMS" envDefault:"100"`
	ScreenW   float64 `env:"CREEPS_SCREEN_W" envDefault:"480"`
	ScreenH   float64 `env:"CREEPS_SCREEN_H" envDefault:"720"`
}

// LoadServerConfig reads configuration from the environment
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// GameConfig holds the per-room simulation parameters
type GameConfig struct {
	ScreenWidth  float64
	ScreenHeight float64
	MobMinSpeed  float64
	MobMaxSpeed  float64
	SpawnMargin  float64 // how far outside the screen the spawn path runs
}

// DefaultGameConfig returns the stock playfield
func DefaultGameConfig() GameConfig {
	return GameConfig{
		ScreenWidth:  480,
		ScreenHeight: 720,
		MobMinSpeed:  MobMinSpeed,
		MobMaxSpeed:  MobMaxSpeed,
		SpawnMargin:  40,
	}
}

// GameConfigFor derives a room config from the server config
func GameConfigFor(sc ServerConfig) GameConfig {
	cfg := DefaultGameConfig()
	if sc.ScreenW > 0 {
		cfg.ScreenWidth = sc.ScreenW
	}
	if sc.ScreenH > 0 {
		cfg.ScreenHeight = sc.ScreenH
	}
	return cfg
}

// Validate rejects configurations that would violate simulation
// preconditions. An inverted speed range would make the uniform speed draw
// meaningless, so it is refused up front rather than guarded per spawn.
func (c GameConfig) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("config: screen size must be positive, got %gx%g", c.ScreenWidth, c.ScreenHeight)
	}
	if c.MobMinSpeed <= 0 {
		return fmt.Errorf("config: mob min speed must be positive, got %g", c.MobMinSpeed)
	}
	if c.MobMinSpeed > c.MobMaxSpeed {
		return fmt.Errorf("config: mob speed range inverted: [%g, %g]", c.MobMinSpeed, c.MobMaxSpeed)
	}
	if c.SpawnMargin < 0 {
		return fmt.Errorf("config: spawn margin must not be negative, got %g", c.SpawnMargin)
	}
	return nil
}
