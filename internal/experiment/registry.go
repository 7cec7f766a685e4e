package experiment

import (
	"fmt"
	"math/rand"

	"github.com/agerasev/playsim/internal/algebra"
	"github.com/agerasev/playsim/internal/config"
	"github.com/agerasev/playsim/internal/metrics"
	"github.com/agerasev/playsim/internal/phys"
	"github.com/agerasev/playsim/internal/scene"
	"github.com/agerasev/playsim/internal/sim"
)

// SceneFactory builds a fresh scene from a config. Scenes are stateful, so
// every run gets a new one.
type SceneFactory func(cfg *config.Config) sim.Scene

type Registry struct {
	scenes  map[string]SceneFactory
	solvers map[string]func() phys.Solver
}

func NewRegistry() *Registry {
	r := &Registry{
		scenes:  make(map[string]SceneFactory),
		solvers: make(map[string]func() phys.Solver),
	}

	r.scenes["freefall"] = func(cfg *config.Config) sim.Scene {
		ff := cfg.FreeFall
		return scene.NewFreeFall(
			algebra.Vec2{X: ff.X, Y: ff.Y},
			algebra.Vec2{X: ff.VX, Y: ff.VY},
			algebra.Vec2{X: ff.GravityX, Y: ff.GravityY},
		)
	}
	r.scenes["spring"] = func(cfg *config.Config) sim.Scene {
		sp := cfg.Spring
		return scene.NewOscillator(sp.Stiffness, sp.Pos, sp.Vel)
	}
	r.scenes["balls"] = func(cfg *config.Config) sim.Scene {
		b := cfg.Balls
		rng := rand.New(rand.NewSource(cfg.Seed))
		return scene.NewBalls(rng, b.Count,
			algebra.Vec2{X: b.BoxWidth / 2, Y: b.BoxHeight / 2},
			b.MinRadius, b.MaxRadius)
	}
	r.scenes["drive"] = func(cfg *config.Config) sim.Scene {
		t := cfg.Terrain
		var terrain *scene.Terrain
		if t.HillHeight != 0 {
			terrain = scene.NewHillTerrain(t.HillHeight, t.HillSpread, t.Extent)
		} else {
			terrain = scene.FlatTerrain(t.Extent)
		}
		return scene.NewDrive(terrain, cfg.Vehicle)
	}

	r.solvers["rk4"] = func() phys.Solver { return phys.NewRK4() }
	r.solvers["euler"] = func() phys.Solver { return phys.NewEuler() }

	return r
}

func (r *Registry) GetScene(name string, cfg *config.Config) (sim.Scene, error) {
	fn, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) GetSolver(name string) (phys.Solver, error) {
	fn, ok := r.solvers[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	return names
}

func (r *Registry) ListSolvers() []string {
	names := make([]string, 0, len(r.solvers))
	for name := range r.solvers {
		names = append(names, name)
	}
	return names
}

// DefaultMetrics are attached to every run. Energy metrics are added only
// when the scene reports energy.
func (r *Registry) DefaultMetrics(sc sim.Scene) []sim.Metric {
	ms := []sim.Metric{
		metrics.NewStability(1e4),
	}
	if e, ok := sc.(sim.Energetic); ok {
		ms = append(ms, metrics.NewEnergy(e), metrics.NewEnergyDrift(e))
	}
	return ms
}
