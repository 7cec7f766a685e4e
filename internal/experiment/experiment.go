package experiment

import (
	"context"
	"fmt"

	"github.com/agerasev/playsim/internal/config"
	"github.com/agerasev/playsim/internal/sim"
)

// Experiment bundles a configured scene and runner into one runnable unit.
type Experiment struct {
	cfg    *config.Config
	scene  sim.Scene
	runner *sim.Runner
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup resolves the scene and solver through the registry and attaches the
// default metrics.
func (e *Experiment) Setup(reg *Registry) error {
	sc, err := reg.GetScene(e.cfg.Scene, e.cfg)
	if err != nil {
		return err
	}
	solver, err := reg.GetSolver(e.cfg.Solver)
	if err != nil {
		return err
	}

	e.scene = sc
	e.runner = sim.NewRunner(solver)
	for _, m := range reg.DefaultMetrics(sc) {
		e.runner.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		MaxDt:         e.cfg.MaxDt,
		ValidateState: true,
		Seed:          e.cfg.Seed,
	}

	return e.runner.Run(ctx, e.scene, simCfg)
}

// Scene returns the live scene, for observers and renderers.
func (e *Experiment) Scene() sim.Scene { return e.scene }

// Runner returns the underlying runner for adding observers
func (e *Experiment) Runner() *sim.Runner { return e.runner }
