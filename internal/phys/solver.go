package phys

// Cell is the solver-facing view of a Var, independent of its parameter
// type. Only Vars implement it.
type Cell interface {
	rk4Stage(stage int, dt float64)
	advance(dt float64)
}

// Visitor is applied uniformly to every Var of a System during one stage.
type Visitor interface {
	Visit(c Cell)
}

// System is a simulated aggregate: zero or more Vars plus the logic to
// recompute their derivatives from the current state.
type System interface {
	// ComputeDerivs recomputes every Var's derivative contribution from
	// scratch for the current (possibly mid-stage) state. It must be
	// idempotent across repeated calls within one step: contributions
	// accumulate via AddDeriv during a single call, but a call must not
	// depend on how many times it ran before.
	ComputeDerivs()
	// VisitVars applies the visitor to every Var owned directly or
	// transitively by this system, exactly once per Var per call.
	VisitVars(v Visitor)
}

// Solver advances a System's full state by a time step dt.
type Solver interface {
	SolveStep(s System, dt float64)
}

// RK4 is the classical 4th-order Runge-Kutta solver. It is stateless; all
// per-step storage lives inside the Vars.
//
// dt is used as given: callers clamp frame time upstream, and non-finite
// derivatives propagate silently. The solver performs only arithmetic and
// cannot fail.
type RK4 struct{}

func NewRK4() RK4 { return RK4{} }

type rk4Step struct {
	stage int
	dt    float64
}

func (r *rk4Step) Visit(c Cell) { c.rk4Stage(r.stage, r.dt) }

func (RK4) SolveStep(s System, dt float64) {
	for stage := 0; stage < 4; stage++ {
		s.ComputeDerivs()
		s.VisitVars(&rk4Step{stage: stage, dt: dt})
	}
}

// Euler is the first-order explicit solver: one derivative pass, one
// advance. Cheaper and far less accurate than RK4; kept for comparisons.
type Euler struct{}

func NewEuler() Euler { return Euler{} }

type eulerStep struct {
	dt float64
}

func (e *eulerStep) Visit(c Cell) { c.advance(e.dt) }

func (Euler) SolveStep(s System, dt float64) {
	s.ComputeDerivs()
	s.VisitVars(&eulerStep{dt: dt})
}
