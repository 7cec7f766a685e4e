package scene

import (
	"github.com/agerasev/playsim/internal/algebra"
)

// HeightMap gives terrain elevation (Z, up) at a horizontal position.
type HeightMap func(p algebra.Vec2) float64

// Terrain is a static height field. It owns no state cells; it only shapes
// the forces on whatever rolls over it.
type Terrain struct {
	height HeightMap
	// Extent is the half-size of the playable area, used by renderers.
	Extent float64
}

func NewTerrain(height HeightMap, extent float64) *Terrain {
	return &Terrain{height: height, Extent: extent}
}

// NewHillTerrain builds the default bowl-with-a-hill landscape: a single
// smooth bump of the given height that flattens out toward the edges.
func NewHillTerrain(hillHeight, spread, extent float64) *Terrain {
	return NewTerrain(func(p algebra.Vec2) float64 {
		return hillHeight * (1.0 - 1.0/(1.0+spread*p.LengthSq()))
	}, extent)
}

// FlatTerrain is a zero-elevation plane.
func FlatTerrain(extent float64) *Terrain {
	return NewTerrain(func(algebra.Vec2) float64 { return 0 }, extent)
}

func (t *Terrain) HeightAt(p algebra.Vec2) float64 {
	return t.height(p)
}

// normalDelta is the finite-difference step for surface normals.
const normalDelta = 1e-4

// NormalAt is the unit surface normal at the horizontal position p,
// estimated by central differences of the height field.
func (t *Terrain) NormalAt(p algebra.Vec2) algebra.Vec3 {
	dx := (t.height(algebra.Vec2{X: p.X + normalDelta, Y: p.Y}) -
		t.height(algebra.Vec2{X: p.X - normalDelta, Y: p.Y})) / (2 * normalDelta)
	dy := (t.height(algebra.Vec2{X: p.X, Y: p.Y + normalDelta}) -
		t.height(algebra.Vec2{X: p.X, Y: p.Y - normalDelta})) / (2 * normalDelta)
	return algebra.Vec3{X: -dx, Y: -dy, Z: 1}.Normalize()
}

// SurfacePoint lifts a horizontal position onto the terrain surface.
func (t *Terrain) SurfacePoint(p algebra.Vec2) algebra.Vec3 {
	return algebra.Vec3{X: p.X, Y: p.Y, Z: t.height(p)}
}
