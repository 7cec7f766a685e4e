package phys

// Delta constrains derivative types: a linear space whose zero value is the
// neutral element.
type Delta[D any] interface {
	Add(D) D
	Scale(float64) D
}

// Param constrains state quantities: a value advanced by a derivative over
// dt. Linear quantities implement Step as scaled addition; rotations compose
// with the rotation swept by the derivative.
//
// Step must be deterministic and depend only on (value, derivative, dt).
type Param[P any, D Delta[D]] interface {
	Step(d D, dt float64) P
}

// Var is a single simulation state cell: the current (value, derivative)
// pair plus a staged pair retained between solver stages. Vars are created
// once per simulated quantity and never reallocated while stepping.
//
// The zero value holds the zero value of P with a zero derivative.
type Var[P Param[P, D], D Delta[D]] struct {
	val, base  P
	deriv, sum D
}

// NewVar builds a cell from an initial value; the derivative starts neutral.
func NewVar[P Param[P, D], D Delta[D]](value P) Var[P, D] {
	return Var[P, D]{val: value, base: value}
}

func (v *Var[P, D]) Value() P { return v.val }

func (v *Var[P, D]) Set(value P) { v.val = value }

func (v *Var[P, D]) Deriv() D { return v.deriv }

// AddDeriv accumulates one derivative contribution. Force computations may
// call it any number of times per stage; contributions sum.
func (v *Var[P, D]) AddDeriv(d D) { v.deriv = v.deriv.Add(d) }

// rk4Stage applies one RK4 stage update to this cell. Stage 0 snapshots the
// (value, derivative) pair into the staged slots and advances a provisional
// half step; stages 1 and 2 fold the freshly recomputed derivative into the
// staged sum with weight 2 and advance new provisional values from the
// staged base; stage 3 folds the final derivative with weight 1 and applies
// the classical (1,2,2,1)/6 weighted update via a single dt/6 step from the
// base. The live accumulator is reset after every stage so the next
// derivative pass starts clean.
func (v *Var[P, D]) rk4Stage(stage int, dt float64) {
	switch stage {
	case 0:
		v.base, v.sum = v.val, v.deriv
		v.val = v.base.Step(v.deriv, dt/2)
	case 1:
		v.sum = v.sum.Add(v.deriv.Scale(2))
		v.val = v.base.Step(v.deriv, dt/2)
	case 2:
		v.sum = v.sum.Add(v.deriv.Scale(2))
		v.val = v.base.Step(v.deriv, dt)
	case 3:
		v.sum = v.sum.Add(v.deriv)
		v.val = v.base.Step(v.sum, dt/6)
	}
	var zero D
	v.deriv = zero
}

// advance applies a plain first-order update and clears the accumulator.
func (v *Var[P, D]) advance(dt float64) {
	v.val = v.val.Step(v.deriv, dt)
	var zero D
	v.deriv = zero
}
