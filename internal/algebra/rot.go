package algebra

import "math"

// Angular2 is a planar angular velocity (rad/s, counterclockwise positive).
// It is a linear quantity and serves as the derivative type of Rot2.
type Angular2 float64

func (w Angular2) Add(o Angular2) Angular2              { return w + o }
func (w Angular2) Scale(k float64) Angular2             { return w * Angular2(k) }
func (w Angular2) Step(d Angular2, dt float64) Angular2 { return w + d*Angular2(dt) }

// Rot converts an accumulated angle into a rotation.
func (w Angular2) Rot() Rot2 { return Rot2{float64(w)} }

// VelAt is the linear velocity of a point at lever arm r under this
// angular velocity.
func (w Angular2) VelAt(r Vec2) Vec2 { return r.Perp().Scale(float64(w)) }

// Torque2 is the planar torque of force f applied at lever arm r.
func Torque2(r, f Vec2) Angular2 { return Angular2(r.PerpDot(f)) }

// Rot2 is a planar rotation. The zero value is the identity.
type Rot2 struct {
	angle float64
}

// RotFromAngle builds a rotation from an angle in radians.
func RotFromAngle(a float64) Rot2 { return Rot2{a} }

// Angle in radians, wrapped to [0, 2*pi).
func (r Rot2) Angle() float64 {
	a := math.Mod(r.angle, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Chain composes two rotations. Planar rotations commute.
func (r Rot2) Chain(o Rot2) Rot2 { return Rot2{r.angle + o.angle} }

// Apply rotates a vector.
func (r Rot2) Apply(v Vec2) Vec2 {
	s, c := math.Sincos(r.angle)
	return Vec2{c*v.X - s*v.Y, s*v.X + c*v.Y}
}

// Step composes the current rotation with the rotation swept by the
// angular velocity over dt. Rotations advance multiplicatively, never by
// adding representation components.
func (r Rot2) Step(w Angular2, dt float64) Rot2 {
	return r.Chain(w.Scale(dt).Rot())
}

// Angular3 is a 3D angular velocity vector (world frame). It is a linear
// quantity and serves as the derivative type of Rot3.
type Angular3 struct {
	X, Y, Z float64
}

func (w Angular3) Add(o Angular3) Angular3  { return Angular3{w.X + o.X, w.Y + o.Y, w.Z + o.Z} }
func (w Angular3) Scale(k float64) Angular3 { return Angular3{w.X * k, w.Y * k, w.Z * k} }
func (w Angular3) Step(d Angular3, dt float64) Angular3 {
	return w.Add(d.Scale(dt))
}

func (w Angular3) Vec() Vec3 { return Vec3{w.X, w.Y, w.Z} }

// VelAt is the linear velocity of a point at lever arm r under this
// angular velocity.
func (w Angular3) VelAt(r Vec3) Vec3 { return w.Vec().Cross(r) }

// Rotation is the rotation swept by this angular velocity over dt
// (axis-angle exponential).
func (w Angular3) Rotation(dt float64) Rot3 {
	axis := w.Vec()
	angle := axis.Length() * dt
	if angle < 1e-12 {
		return Rot3Identity()
	}
	return RotFromAxisAngle(axis.Normalize(), angle)
}

// Torque3 is the torque of force f applied at lever arm r.
func Torque3(r, f Vec3) Angular3 {
	t := r.Cross(f)
	return Angular3{t.X, t.Y, t.Z}
}

// Rot3 is a 3D rotation stored as a unit quaternion.
type Rot3 struct {
	W, X, Y, Z float64
}

func Rot3Identity() Rot3 { return Rot3{W: 1} }

// RotFromAxisAngle builds a rotation of the given angle around a unit axis.
func RotFromAxisAngle(axis Vec3, angle float64) Rot3 {
	s, c := math.Sincos(angle / 2)
	return Rot3{W: c, X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s}
}

// Chain composes rotations: applying r.Chain(o) rotates first by o, then by r.
func (r Rot3) Chain(o Rot3) Rot3 {
	return Rot3{
		W: r.W*o.W - r.X*o.X - r.Y*o.Y - r.Z*o.Z,
		X: r.W*o.X + r.X*o.W + r.Y*o.Z - r.Z*o.Y,
		Y: r.W*o.Y - r.X*o.Z + r.Y*o.W + r.Z*o.X,
		Z: r.W*o.Z + r.X*o.Y - r.Y*o.X + r.Z*o.W,
	}
}

// Inverse of a unit quaternion is its conjugate.
func (r Rot3) Inverse() Rot3 { return Rot3{W: r.W, X: -r.X, Y: -r.Y, Z: -r.Z} }

func (r Rot3) Norm() float64 {
	return math.Sqrt(r.W*r.W + r.X*r.X + r.Y*r.Y + r.Z*r.Z)
}

// Normalize rescales to unit length; degenerate input yields the identity.
func (r Rot3) Normalize() Rot3 {
	n := r.Norm()
	if n < 1e-12 {
		return Rot3Identity()
	}
	return Rot3{r.W / n, r.X / n, r.Y / n, r.Z / n}
}

// Apply rotates a vector: q v q^-1.
func (r Rot3) Apply(v Vec3) Vec3 {
	// Rodrigues form: v + 2w(u x v) + 2(u x (u x v)) with u the vector part.
	u := Vec3{r.X, r.Y, r.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(r.W)).Add(u.Cross(t))
}

// Step composes the rotation swept by the world-frame angular velocity over
// dt with the current rotation, then renormalizes so repeated stepping never
// drifts off the unit sphere.
func (r Rot3) Step(w Angular3, dt float64) Rot3 {
	return w.Rotation(dt).Chain(r).Normalize()
}
