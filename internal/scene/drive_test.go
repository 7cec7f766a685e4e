package scene_test

import (
	"math"
	"testing"

	"github.com/agerasev/playsim/internal/algebra"
	"github.com/agerasev/playsim/internal/phys"
	"github.com/agerasev/playsim/internal/scene"
)

func TestFlatTerrain(t *testing.T) {
	terr := scene.FlatTerrain(64)
	if h := terr.HeightAt(algebra.Vec2{X: 3, Y: -7}); h != 0 {
		t.Errorf("height = %v, want 0", h)
	}
	n := terr.NormalAt(algebra.Vec2{X: 3, Y: -7})
	if math.Abs(n.Z-1) > 1e-9 || math.Abs(n.X) > 1e-9 || math.Abs(n.Y) > 1e-9 {
		t.Errorf("normal = %+v, want +z", n)
	}
}

func TestHillTerrainShape(t *testing.T) {
	terr := scene.NewHillTerrain(8.0, 0.002, 64)

	if h := terr.HeightAt(algebra.Vec2{}); h != 0 {
		t.Errorf("height at center = %v, want 0", h)
	}
	// Height grows away from the center and saturates below the cap.
	h1 := terr.HeightAt(algebra.Vec2{X: 10})
	h2 := terr.HeightAt(algebra.Vec2{X: 30})
	if !(0 < h1 && h1 < h2 && h2 < 8.0) {
		t.Errorf("heights not monotone toward the rim: h(10)=%v h(30)=%v", h1, h2)
	}

	// On the +X slope the surface tilts back toward the center.
	n := terr.NormalAt(algebra.Vec2{X: 10})
	if n.X >= 0 || n.Z <= 0 {
		t.Errorf("normal on +x slope = %+v, want -x tilt with +z up", n)
	}
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("normal not unit: %v", n.Length())
	}
}

func TestDriveVisitsEightCells(t *testing.T) {
	d := scene.NewDrive(scene.FlatTerrain(64), scene.DefaultVehicleConfig())
	v := &countingVisitor{}
	d.VisitVars(v)
	if v.cells != 8 {
		t.Errorf("visited %d cells, want 8", v.cells)
	}
}

func TestVehicleSettlesOnFlatGround(t *testing.T) {
	d := scene.NewDrive(scene.FlatTerrain(64), scene.DefaultVehicleConfig())
	solver := phys.NewRK4()

	for i := 0; i < 2000; i++ {
		solver.SolveStep(d, 0.01)
	}

	v := d.Vehicle
	if speed := v.Vel.Value().Length(); speed > 0.2 {
		t.Errorf("vehicle still moving at %v", speed)
	}

	// At rest the tires carry the weight: the body floats between wheel
	// contact and full compression.
	z := v.Pos.Value().Z
	mountZ := -v.Config.Mounts[0].Z
	maxZ := mountZ + v.Config.Wheel.Radius
	if z <= 0 || z > maxZ+0.1 {
		t.Errorf("ride height = %v, want in (0, %v]", z, maxZ)
	}

	// The body stays level.
	up := v.Rot.Value().Apply(algebra.Vec3{Z: 1})
	if up.Z < 0.99 {
		t.Errorf("body tilted: up = %+v", up)
	}
}

func TestVehicleAcceleratesForward(t *testing.T) {
	d := scene.NewDrive(scene.FlatTerrain(64), scene.DefaultVehicleConfig())
	solver := phys.NewRK4()

	// Let it settle first.
	for i := 0; i < 1000; i++ {
		solver.SolveStep(d, 0.01)
	}

	d.Vehicle.Accelerate(1.0)
	for i := 0; i < 1000; i++ {
		solver.SolveStep(d, 0.01)
	}

	vel := d.Vehicle.Vel.Value()
	if vel.X < 0.5 {
		t.Errorf("forward speed = %v, want motion along +x", vel.X)
	}
	// Rear wheels spin in the rolling direction.
	if spin := float64(d.Vehicle.Wheels[2].Spin.Value()); spin <= 0 {
		t.Errorf("rear wheel spin = %v, want positive", spin)
	}
}

func TestVehicleBrakesToAStop(t *testing.T) {
	d := scene.NewDrive(scene.FlatTerrain(64), scene.DefaultVehicleConfig())
	solver := phys.NewRK4()

	for i := 0; i < 1000; i++ {
		solver.SolveStep(d, 0.01)
	}
	d.Vehicle.Accelerate(1.0)
	for i := 0; i < 1000; i++ {
		solver.SolveStep(d, 0.01)
	}

	d.Vehicle.ResetControls()
	d.Vehicle.Brake(1.0)
	for i := 0; i < 2000; i++ {
		solver.SolveStep(d, 0.01)
	}

	if speed := d.Vehicle.Vel.Value().Length(); speed > 0.3 {
		t.Errorf("speed after braking = %v", speed)
	}
}

func TestVehicleRotationStaysUnit(t *testing.T) {
	d := scene.NewDrive(scene.NewHillTerrain(8.0, 0.002, 64), scene.DefaultVehicleConfig())
	solver := phys.NewRK4()

	d.Vehicle.Accelerate(1.0)
	d.Vehicle.Steer(0.5)
	for i := 0; i < 5000; i++ {
		solver.SolveStep(d, 0.01)
	}

	if n := d.Vehicle.Rot.Value().Norm(); math.Abs(n-1) > 1e-9 {
		t.Errorf("quaternion norm = %v after long drive", n)
	}
}

func TestDriveSampleShape(t *testing.T) {
	d := scene.NewDrive(scene.FlatTerrain(64), scene.DefaultVehicleConfig())
	if got, want := len(d.Sample()), len(d.Labels()); got != want || got != 6 {
		t.Errorf("sample/labels = %d/%d, want 6/6", got, want)
	}
}
