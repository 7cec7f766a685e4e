package config

import "github.com/agerasev/playsim/internal/scene"

var Presets = map[string]map[string]*Config{
	"freefall": {
		"drop": {
			Scene: "freefall", Solver: "rk4", Dt: 0.04, Duration: 1.0, MaxDt: 0.04,
			FreeFall: FreeFallConfig{GravityY: 4.0},
		},
		"throw": {
			Scene: "freefall", Solver: "rk4", Dt: 0.04, Duration: 5.0, MaxDt: 0.04,
			FreeFall: FreeFallConfig{VX: 3.0, VY: -4.0, GravityY: 4.0},
		},
	},
	"spring": {
		"slow": {
			Scene: "spring", Solver: "rk4", Dt: 0.02, Duration: 20.0, MaxDt: 0.04,
			Spring: SpringConfig{Stiffness: 1.0, Pos: 1.0},
		},
		"stiff": {
			Scene: "spring", Solver: "rk4", Dt: 0.005, Duration: 10.0, MaxDt: 0.04,
			Spring: SpringConfig{Stiffness: 100.0, Pos: 1.0},
		},
		"euler": {
			Scene: "spring", Solver: "euler", Dt: 0.02, Duration: 20.0, MaxDt: 0.04,
			Spring: SpringConfig{Stiffness: 1.0, Pos: 1.0},
		},
	},
	"balls": {
		"few": {
			Scene: "balls", Solver: "rk4", Dt: 0.02, Duration: 20.0, MaxDt: 0.04, Seed: 1,
			Balls: BallsConfig{Count: 4, BoxWidth: 10, BoxHeight: 10, MinRadius: 0.5, MaxRadius: 1.5},
		},
		"crowded": {
			Scene: "balls", Solver: "rk4", Dt: 0.01, Duration: 20.0, MaxDt: 0.04, Seed: 1,
			Balls: BallsConfig{Count: 24, BoxWidth: 12, BoxHeight: 12, MinRadius: 0.4, MaxRadius: 1.0},
		},
	},
	"drive": {
		"hill": {
			Scene: "drive", Solver: "rk4", Dt: 0.02, Duration: 30.0, MaxDt: 0.04,
			Terrain: TerrainConfig{HillHeight: 8.0, HillSpread: 0.002, Extent: 64.0},
			Vehicle: scene.DefaultVehicleConfig(),
		},
		"flat": {
			Scene: "drive", Solver: "rk4", Dt: 0.02, Duration: 30.0, MaxDt: 0.04,
			Terrain: TerrainConfig{Extent: 64.0},
			Vehicle: scene.DefaultVehicleConfig(),
		},
	},
}

func GetPreset(sceneName, preset string) *Config {
	scenePresets, ok := Presets[sceneName]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(sceneName string) []string {
	scenePresets, ok := Presets[sceneName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	return names
}
