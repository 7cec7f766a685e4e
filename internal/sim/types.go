package sim

import (
	"fmt"

	"github.com/agerasev/playsim/internal/phys"
)

// Sampler exposes a flat numeric view of a scene's state for recording,
// metrics and plotting. Labels names the sample columns; both slices keep
// the same length and order for the lifetime of the scene.
type Sampler interface {
	Sample() []float64
	Labels() []string
}

// Scene is what the runner drives: a solvable system with an observable
// state.
type Scene interface {
	phys.System
	Sampler
}

// Energetic scenes report total mechanical energy; the runner uses it to
// compute drift.
type Energetic interface {
	Energy() float64
}

// Metric accumulates a scalar over a run from the sampled states.
type Metric interface {
	Name() string
	Observe(sample []float64, t float64)
	Value() float64
	Reset()
}

// Observer receives every recorded state.
type Observer interface {
	OnStep(sample []float64, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
	// MaxDt caps the effective step. Oversized frame times are clamped,
	// not rejected; beyond this the solver goes visibly wrong.
	MaxDt         float64
	ValidateState bool
	Seed          int64
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.02,
		Duration:      10.0,
		MaxDt:         0.04,
		ValidateState: true,
	}
}

type Result struct {
	Labels      []string
	States      [][]float64
	Times       []float64
	Metrics     map[string]float64
	StepsTaken  int
	EnergyDrift float64
	Errors      []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("t=%.4f step=%d: %s", e.Time, e.Step, e.Message)
}
