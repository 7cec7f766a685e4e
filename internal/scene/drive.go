package scene

import (
	"github.com/agerasev/playsim/internal/algebra"
	"github.com/agerasev/playsim/internal/phys"
)

// Drive couples a Vehicle with the Terrain it rolls over. The terrain is
// static, so the composite's state is exactly the vehicle's.
type Drive struct {
	Terrain *Terrain
	Vehicle *Vehicle
}

// NewDrive places the vehicle above the terrain origin, dropped from
// slightly over the local surface height.
func NewDrive(t *Terrain, cfg VehicleConfig) *Drive {
	start := algebra.Vec3{
		Z: t.HeightAt(algebra.Vec2{}) + cfg.Wheel.Radius + 2.0,
	}
	return &Drive{Terrain: t, Vehicle: NewVehicle(cfg, start)}
}

func (d *Drive) ComputeDerivs() {
	d.Vehicle.ComputeBasicDerivs()
	d.Vehicle.InteractWithTerrain(d.Terrain)
}

func (d *Drive) VisitVars(v phys.Visitor) {
	d.Vehicle.VisitVars(v)
}

func (d *Drive) Sample() []float64 { return d.Vehicle.Sample() }
func (d *Drive) Labels() []string  { return d.Vehicle.Labels() }
func (d *Drive) Energy() float64   { return d.Vehicle.Energy() }
