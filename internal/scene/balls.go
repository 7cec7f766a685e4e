package scene

import (
	"fmt"
	"math/rand"

	"github.com/agerasev/playsim/internal/algebra"
	"github.com/agerasev/playsim/internal/phys"
)

// Ball-pit force coefficients.
const (
	// MassFactor converts ball area to mass.
	MassFactor = 1.0
	// InertiaFactor converts mass*r^2 to moment of inertia.
	InertiaFactor = 0.2

	// BallGravity is the downward acceleration (+Y is down).
	BallGravity = 4.0
	// airFriction is the velocity-proportional drag coefficient.
	airFriction = 0.01

	// elasticity of ball surfaces.
	elasticity = 100.0
	// contactDamping along the contact normal.
	contactDamping = 0.2
	// contactFriction tangential to the contact.
	contactFriction = 0.5
	// attractDamping of the pointer-drag spring.
	attractDamping = 4.0
)

// Body is a planar rigid body: four state cells (position, velocity,
// rotation, angular speed) plus mass properties.
type Body struct {
	Mass    float64
	Inertia float64

	Pos  phys.Var[algebra.Vec2, algebra.Vec2]
	Vel  phys.Var[algebra.Vec2, algebra.Vec2]
	Rot  phys.Var[algebra.Rot2, algebra.Angular2]
	Spin phys.Var[algebra.Angular2, algebra.Angular2]
}

// VelAt is the velocity of the world-space point p on this body.
func (b *Body) VelAt(p algebra.Vec2) algebra.Vec2 {
	return b.Vel.Value().Add(b.Spin.Value().VelAt(p.Sub(b.Pos.Value())))
}

// Push applies a pure central elastic force for the given deformation,
// damped by the body's own velocity. Used for deep overlaps where a contact
// point is meaningless.
func (b *Body) Push(def algebra.Vec2) {
	total := def.Scale(elasticity).Sub(b.Vel.Value().Scale(attractDamping))
	b.Vel.AddDeriv(total.Scale(1 / b.Mass))
}

// Contact applies a surface contact force: directed deformation def at world
// point pos moving with velocity vel. The reaction combines an elastic term
// along the deformation, damping along the normal and liquid friction
// across it; the off-center component becomes torque.
func (b *Body) Contact(def, pos, vel algebra.Vec2) {
	relPos := pos.Sub(b.Pos.Value())
	norm := def.Normalize()

	elastic := def.Scale(elasticity)
	relVel := b.Vel.Value().Sub(vel)
	damp := elastic.Scale(-contactDamping * relVel.Dot(norm))
	slip := b.Vel.Value().Add(b.Spin.Value().VelAt(relPos)).Sub(vel).Dot(norm.Perp())
	frict := elastic.Perp().Scale(-contactFriction * slip)
	total := elastic.Add(damp).Add(frict)

	b.Vel.AddDeriv(total.Scale(1 / b.Mass))
	b.Spin.AddDeriv(algebra.Torque2(relPos, total).Scale(1 / b.Inertia))
}

// Attract pins the body-local point local to the world-space target with a
// damped elastic spring.
func (b *Body) Attract(target, local algebra.Vec2) {
	arm := b.Rot.Value().Apply(local)
	relPos := target.Sub(b.Pos.Value().Add(arm))
	vel := b.Vel.Value().Add(b.Spin.Value().VelAt(arm))

	total := relPos.Scale(elasticity).Sub(vel.Scale(attractDamping))

	b.Vel.AddDeriv(total.Scale(1 / b.Mass))
	b.Spin.AddDeriv(algebra.Torque2(arm, total).Scale(1 / b.Inertia))
}

// Ball is a circular body.
type Ball struct {
	Radius float64
	Body
}

func NewBall(radius float64, pos algebra.Vec2) *Ball {
	mass := MassFactor * radius * radius
	return &Ball{
		Radius: radius,
		Body: Body{
			Mass:    mass,
			Inertia: InertiaFactor * mass * radius * radius,
			Pos:     phys.NewVar[algebra.Vec2, algebra.Vec2](pos),
			Rot:     phys.NewVar[algebra.Rot2, algebra.Angular2](algebra.Rot2{}),
		},
	}
}

type drag struct {
	index  int
	target algebra.Vec2
	local  algebra.Vec2
}

// Balls is the 2D ball pit: circular rigid bodies inside a box of half
// extents Size, under gravity, bouncing off the walls and each other.
type Balls struct {
	Size  algebra.Vec2
	Items []*Ball

	drag *drag
}

// NewBalls fills the box with count random balls. Initial overlaps are
// allowed; the contact forces separate them within a few steps.
func NewBalls(rng *rand.Rand, count int, size algebra.Vec2, minRadius, maxRadius float64) *Balls {
	w := &Balls{Size: size}
	for i := 0; i < count; i++ {
		r := minRadius + (maxRadius-minRadius)*rng.Float64()
		pos := algebra.Vec2{
			X: (2*rng.Float64() - 1) * (size.X - r),
			Y: (2*rng.Float64() - 1) * (size.Y - r),
		}
		w.Items = append(w.Items, NewBall(r, pos))
	}
	return w
}

// SetDrag attaches the drag spring to the ball at index, pinning its local
// point to the world-space target. Replaces any previous drag.
func (w *Balls) SetDrag(index int, target, local algebra.Vec2) {
	w.drag = &drag{index: index, target: target, local: local}
}

// MoveDrag retargets an active drag; no-op when none is active.
func (w *Balls) MoveDrag(target algebra.Vec2) {
	if w.drag != nil {
		w.drag.target = target
	}
}

func (w *Balls) ClearDrag() { w.drag = nil }

func (w *Balls) contactWall(b *Ball, offset float64, norm algebra.Vec2) {
	pos := b.Pos.Value()
	dist := pos.Dot(norm) + offset
	if dist >= b.Radius {
		return
	}
	if dist > 0 {
		poc := pos.Reject(norm).Sub(norm.Scale(offset))
		b.Contact(norm.Scale(b.Radius-dist), poc, algebra.Vec2{})
	} else {
		b.Push(norm.Scale(b.Radius))
	}
}

func (w *Balls) ComputeDerivs() {
	for _, b := range w.Items {
		b.Pos.AddDeriv(b.Vel.Value())
		b.Rot.AddDeriv(b.Spin.Value())

		b.Vel.AddDeriv(algebra.Vec2{Y: BallGravity})

		// Air resistance, linear and angular.
		b.Vel.AddDeriv(b.Vel.Value().Scale(-airFriction * b.Radius / b.Mass))
		b.Spin.AddDeriv(b.Spin.Value().Scale(-airFriction * b.Radius / b.Inertia))

		w.contactWall(b, w.Size.X, algebra.Vec2{X: 1})
		w.contactWall(b, w.Size.X, algebra.Vec2{X: -1})
		w.contactWall(b, w.Size.Y, algebra.Vec2{Y: 1})
		w.contactWall(b, w.Size.Y, algebra.Vec2{Y: -1})
	}

	for i := 1; i < len(w.Items); i++ {
		for j := 0; j < i; j++ {
			w.contactPair(w.Items[j], w.Items[i])
		}
	}

	if d := w.drag; d != nil && d.index < len(w.Items) {
		w.Items[d.index].Attract(d.target, d.local)
	}
}

func (w *Balls) contactPair(a, b *Ball) {
	relPos := b.Pos.Value().Sub(a.Pos.Value())
	dist := relPos.Length()
	sumRadius := a.Radius + b.Radius
	if dist >= sumRadius {
		return
	}
	dir := relPos.Normalize()
	dev := (sumRadius - dist) / 2
	minRadius := a.Radius
	if b.Radius < minRadius {
		minRadius = b.Radius
	}
	if 2*dev < minRadius {
		poc := a.Pos.Value().Add(dir.Scale(a.Radius - dev))
		a.Contact(dir.Scale(-dev), poc, b.VelAt(poc))
		b.Contact(dir.Scale(dev), poc, a.VelAt(poc))
	} else {
		// Centers nearly coincide; contact geometry is degenerate.
		a.Push(dir.Scale(-minRadius))
		b.Push(dir.Scale(minRadius))
	}
}

func (w *Balls) VisitVars(v phys.Visitor) {
	for _, b := range w.Items {
		v.Visit(&b.Pos)
		v.Visit(&b.Vel)
		v.Visit(&b.Rot)
		v.Visit(&b.Spin)
	}
}

func (w *Balls) Sample() []float64 {
	out := make([]float64, 0, 4*len(w.Items))
	for _, b := range w.Items {
		p, vel := b.Pos.Value(), b.Vel.Value()
		out = append(out, p.X, p.Y, vel.X, vel.Y)
	}
	return out
}

func (w *Balls) Labels() []string {
	out := make([]string, 0, 4*len(w.Items))
	for i := range w.Items {
		out = append(out,
			fmt.Sprintf("b%d.x", i), fmt.Sprintf("b%d.y", i),
			fmt.Sprintf("b%d.vx", i), fmt.Sprintf("b%d.vy", i))
	}
	return out
}

// Energy is the total mechanical energy: kinetic, rotational and potential
// relative to the bottom wall (+Y is down).
func (w *Balls) Energy() float64 {
	total := 0.0
	for _, b := range w.Items {
		v := b.Vel.Value()
		spin := float64(b.Spin.Value())
		total += 0.5 * b.Mass * v.LengthSq()
		total += 0.5 * b.Inertia * spin * spin
		total += b.Mass * BallGravity * (w.Size.Y - b.Pos.Value().Y)
	}
	return total
}
