package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agerasev/playsim/internal/scene"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 10.0
	DefaultMaxDt    = 0.04

	DefaultBallCount  = 8
	DefaultBoxSize    = 10.0
	DefaultBallRadius = 1.0

	DefaultGravityY   = 4.0
	DefaultStiffness  = 4.0
	DefaultHillHeight = 8.0
	DefaultHillSpread = 0.002
	DefaultTerrainExt = 64.0
)

type Config struct {
	Scene    string  `yaml:"scene"`
	Solver   string  `yaml:"solver"`
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	MaxDt    float64 `yaml:"max_dt"`
	Seed     int64   `yaml:"seed"`

	FreeFall FreeFallConfig      `yaml:"free_fall"`
	Spring   SpringConfig        `yaml:"spring"`
	Balls    BallsConfig         `yaml:"balls"`
	Terrain  TerrainConfig       `yaml:"terrain"`
	Vehicle  scene.VehicleConfig `yaml:"vehicle"`
}

type FreeFallConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	VX       float64 `yaml:"vx"`
	VY       float64 `yaml:"vy"`
	GravityX float64 `yaml:"gravity_x"`
	GravityY float64 `yaml:"gravity_y"`
}

type SpringConfig struct {
	Stiffness float64 `yaml:"stiffness"`
	Pos       float64 `yaml:"pos"`
	Vel       float64 `yaml:"vel"`
}

type BallsConfig struct {
	Count     int     `yaml:"count"`
	BoxWidth  float64 `yaml:"box_width"`
	BoxHeight float64 `yaml:"box_height"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
}

type TerrainConfig struct {
	HillHeight float64 `yaml:"hill_height"`
	HillSpread float64 `yaml:"hill_spread"`
	Extent     float64 `yaml:"extent"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:    "freefall",
		Solver:   "rk4",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		MaxDt:    DefaultMaxDt,
		FreeFall: FreeFallConfig{
			GravityY: DefaultGravityY,
		},
		Spring: SpringConfig{
			Stiffness: DefaultStiffness,
			Pos:       1.0,
		},
		Balls: BallsConfig{
			Count:     DefaultBallCount,
			BoxWidth:  DefaultBoxSize,
			BoxHeight: DefaultBoxSize,
			MinRadius: 0.5 * DefaultBallRadius,
			MaxRadius: 1.5 * DefaultBallRadius,
		},
		Terrain: TerrainConfig{
			HillHeight: DefaultHillHeight,
			HillSpread: DefaultHillSpread,
			Extent:     DefaultTerrainExt,
		},
		Vehicle: scene.DefaultVehicleConfig(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
