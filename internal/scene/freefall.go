package scene

import (
	"github.com/agerasev/playsim/internal/algebra"
	"github.com/agerasev/playsim/internal/phys"
)

// FreeFall is a single point mass under constant acceleration. The simplest
// possible system: two cells, no forces beyond gravity.
type FreeFall struct {
	Gravity algebra.Vec2

	Pos phys.Var[algebra.Vec2, algebra.Vec2]
	Vel phys.Var[algebra.Vec2, algebra.Vec2]
}

func NewFreeFall(pos, vel, gravity algebra.Vec2) *FreeFall {
	return &FreeFall{
		Gravity: gravity,
		Pos:     phys.NewVar[algebra.Vec2, algebra.Vec2](pos),
		Vel:     phys.NewVar[algebra.Vec2, algebra.Vec2](vel),
	}
}

func (f *FreeFall) ComputeDerivs() {
	f.Pos.AddDeriv(f.Vel.Value())
	f.Vel.AddDeriv(f.Gravity)
}

func (f *FreeFall) VisitVars(v phys.Visitor) {
	v.Visit(&f.Pos)
	v.Visit(&f.Vel)
}

func (f *FreeFall) Sample() []float64 {
	p, vel := f.Pos.Value(), f.Vel.Value()
	return []float64{p.X, p.Y, vel.X, vel.Y}
}

func (f *FreeFall) Labels() []string {
	return []string{"x", "y", "vx", "vy"}
}
