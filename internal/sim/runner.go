package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/agerasev/playsim/internal/phys"
)

// Runner steps a Scene with a solver, recording states and feeding metrics
// and observers. The runner owns the dt clamp: the solver itself trusts
// whatever step it is given.
type Runner struct {
	solver    phys.Solver
	metrics   []Metric
	observers []Observer
}

func NewRunner(solver phys.Solver) *Runner {
	return &Runner{solver: solver}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

func clampDt(dt, maxDt float64) float64 {
	if maxDt > 0 && dt > maxDt {
		return maxDt
	}
	return dt
}

func sampleValid(s []float64) bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func sceneEnergy(scene Scene) (float64, bool) {
	if e, ok := scene.(Energetic); ok {
		return e.Energy(), true
	}
	return 0, false
}

// Run advances the scene in place for cfg.Duration and returns the recorded
// trajectory. The scene is mutated; callers wanting a fresh start build a
// fresh scene.
func (r *Runner) Run(ctx context.Context, scene Scene, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	dt := clampDt(cfg.Dt, cfg.MaxDt)
	steps := int(cfg.Duration / dt)

	result := &Result{
		Labels:  scene.Labels(),
		States:  make([][]float64, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	result.States = append(result.States, scene.Sample())
	result.Times = append(result.Times, t)

	initialEnergy, hasEnergy := sceneEnergy(scene)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sample := scene.Sample()
		for _, m := range r.metrics {
			m.Observe(sample, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(sample, t)
		}

		r.solver.SolveStep(scene, dt)
		t += dt
		result.StepsTaken++

		sample = scene.Sample()
		if cfg.ValidateState && !sampleValid(sample) {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		result.States = append(result.States, sample)
		result.Times = append(result.Times, t)
	}

	if hasEnergy {
		finalEnergy, _ := sceneEnergy(scene)
		if initialEnergy != 0 {
			result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps the scene until the duration elapses or the callback
// returns false. Used by the live view, which renders between steps.
func (r *Runner) RunWithCallback(ctx context.Context, scene Scene, cfg Config, callback func(sample []float64, t float64) bool) error {
	if err := r.validateConfig(cfg); err != nil {
		return err
	}

	dt := clampDt(cfg.Dt, cfg.MaxDt)
	t := 0.0

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(scene.Sample(), t) {
			return nil
		}

		r.solver.SolveStep(scene, dt)
		t += dt

		if cfg.ValidateState && !sampleValid(scene.Sample()) {
			return fmt.Errorf("invalid state at t=%.4f", t)
		}
	}

	return nil
}
