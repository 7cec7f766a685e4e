package scene

import (
	"math"

	"github.com/agerasev/playsim/internal/algebra"
	"github.com/agerasev/playsim/internal/phys"
)

// Oscillator is an undamped scalar harmonic oscillator: x'' = -k x.
// It has a closed-form solution, which makes it the reference system for
// solver accuracy comparisons.
type Oscillator struct {
	Stiffness float64

	Pos phys.Var[algebra.Scalar, algebra.Scalar]
	Vel phys.Var[algebra.Scalar, algebra.Scalar]
}

func NewOscillator(stiffness, pos, vel float64) *Oscillator {
	return &Oscillator{
		Stiffness: stiffness,
		Pos:       phys.NewVar[algebra.Scalar, algebra.Scalar](algebra.Scalar(pos)),
		Vel:       phys.NewVar[algebra.Scalar, algebra.Scalar](algebra.Scalar(vel)),
	}
}

func (o *Oscillator) ComputeDerivs() {
	o.Pos.AddDeriv(o.Vel.Value())
	o.Vel.AddDeriv(o.Pos.Value().Scale(-o.Stiffness))
}

func (o *Oscillator) VisitVars(v phys.Visitor) {
	v.Visit(&o.Pos)
	v.Visit(&o.Vel)
}

func (o *Oscillator) Sample() []float64 {
	return []float64{float64(o.Pos.Value()), float64(o.Vel.Value())}
}

func (o *Oscillator) Labels() []string { return []string{"x", "v"} }

// Exact returns the analytic state at time t for initial state (x0, v0).
func (o *Oscillator) Exact(x0, v0, t float64) (float64, float64) {
	w := math.Sqrt(o.Stiffness)
	x := x0*math.Cos(w*t) + v0/w*math.Sin(w*t)
	v := -x0*w*math.Sin(w*t) + v0*math.Cos(w*t)
	return x, v
}

// Energy is the conserved Hamiltonian (unit mass).
func (o *Oscillator) Energy() float64 {
	x, v := float64(o.Pos.Value()), float64(o.Vel.Value())
	return 0.5*v*v + 0.5*o.Stiffness*x*x
}
