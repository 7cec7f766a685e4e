package algebra

import "math"

// Scalar is a float64 state quantity usable as both a value and its own
// derivative.
type Scalar float64

func (s Scalar) Add(o Scalar) Scalar              { return s + o }
func (s Scalar) Scale(k float64) Scalar           { return s * Scalar(k) }
func (s Scalar) Step(d Scalar, dt float64) Scalar { return s + d*Scalar(dt) }

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Neg() Vec2            { return Vec2{-v.X, -v.Y} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Perp returns v rotated 90 degrees counterclockwise.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// PerpDot is the 2D cross product: v.Perp().Dot(o).
func (v Vec2) PerpDot(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

func (v Vec2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Length() float64   { return math.Sqrt(v.LengthSq()) }

// Normalize returns the unit vector, or the zero vector for degenerate input.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l < 1e-12 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Reject removes the component of v parallel to the unit vector n.
func (v Vec2) Reject(n Vec2) Vec2 {
	return v.Sub(n.Scale(v.Dot(n)))
}

func (v Vec2) Step(d Vec2, dt float64) Vec2 { return v.Add(d.Scale(dt)) }

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }
func (v Vec3) Neg() Vec3            { return Vec3{-v.X, -v.Y, -v.Z} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSq() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v Vec3) Length() float64   { return math.Sqrt(v.LengthSq()) }

// Normalize returns the unit vector, or the zero vector for degenerate input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// XY drops the Z component.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

func (v Vec3) Step(d Vec3, dt float64) Vec3 { return v.Add(d.Scale(dt)) }
