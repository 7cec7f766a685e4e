package metrics

import (
	"math"

	"github.com/agerasev/playsim/internal/sim"
)

// Energy averages a scene's total mechanical energy over the run.
type Energy struct {
	name        string
	source      sim.Energetic
	samples     int
	totalEnergy float64
}

func NewEnergy(source sim.Energetic) *Energy {
	return &Energy{
		name:   "energy",
		source: source,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(sample []float64, t float64) {
	e.totalEnergy += e.source.Energy()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the worst relative deviation from the initial energy.
type EnergyDrift struct {
	name          string
	source        sim.Energetic
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(source sim.Energetic) *EnergyDrift {
	return &EnergyDrift{
		name:   "energy_drift",
		source: source,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sample []float64, t float64) {
	energy := e.source.Energy()

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
