package scene

import (
	"math"

	"github.com/agerasev/playsim/internal/algebra"
	"github.com/agerasev/playsim/internal/phys"
)

// DriveGravity is the downward acceleration in the driving scene (Z up).
const DriveGravity = 9.8

// WheelConfig describes one wheel. Hardness holds the linear and quadratic
// coefficients of the tire's compression response.
type WheelConfig struct {
	Radius   float64    `yaml:"radius"`
	Width    float64    `yaml:"width"`
	Mass     float64    `yaml:"mass"`
	Inertia  float64    `yaml:"inertia"`
	Hardness [2]float64 `yaml:"hardness"`
	Damping  float64    `yaml:"damping"`
}

// VehicleConfig describes the rigid body and its four wheels. Inertia is the
// diagonal of the body-frame inertia tensor. Mounts are the wheel centers in
// the body frame, ordered front-left, front-right, rear-left, rear-right.
type VehicleConfig struct {
	Mass    float64         `yaml:"mass"`
	Inertia algebra.Vec3    `yaml:"inertia"`
	Wheel   WheelConfig     `yaml:"wheel"`
	Mounts  [4]algebra.Vec3 `yaml:"mounts"`

	LinearDrag  float64 `yaml:"linear_drag"`
	AngularDrag float64 `yaml:"angular_drag"`

	// Longitudinal and lateral tire friction per unit of normal load.
	GripLong float64 `yaml:"grip_long"`
	GripLat  float64 `yaml:"grip_lat"`

	// Torque applied per unit of throttle and spin damping per unit of
	// brake input.
	DriveTorque float64 `yaml:"drive_torque"`
	BrakeDamp   float64 `yaml:"brake_damp"`
	// Maximum steering angle of the front wheels, radians.
	MaxSteer float64 `yaml:"max_steer"`
}

func DefaultVehicleConfig() VehicleConfig {
	return VehicleConfig{
		Mass:    10.0,
		Inertia: algebra.Vec3{X: 12.0, Y: 30.0, Z: 36.0},
		Wheel: WheelConfig{
			Radius:   0.8,
			Width:    0.5,
			Mass:     1.0,
			Inertia:  0.4,
			Hardness: [2]float64{400.0, 4000.0},
			Damping:  8.0,
		},
		Mounts: [4]algebra.Vec3{
			{X: 1.6, Y: 1.0, Z: -0.5},
			{X: 1.6, Y: -1.0, Z: -0.5},
			{X: -1.6, Y: 1.0, Z: -0.5},
			{X: -1.6, Y: -1.0, Z: -0.5},
		},
		LinearDrag:  0.2,
		AngularDrag: 0.5,
		GripLong:    2.0,
		GripLat:     4.0,
		DriveTorque: 16.0,
		BrakeDamp:   20.0,
		MaxSteer:    0.5,
	}
}

// Wheel is one wheel's live state: its spin about the axle plus the current
// control inputs routed to it.
type Wheel struct {
	Mount algebra.Vec3
	// Steer is the yaw of the wheel relative to the body, radians.
	Steer float64
	// Throttle and Brake are the control inputs for this frame, [0, 1]
	// for brake and [-1, 1] for throttle.
	Throttle float64
	Brake    float64

	Spin phys.Var[algebra.Angular2, algebra.Angular2]
}

// Vehicle is a rigid body on four sprung wheels, driving over a Terrain.
// Eight state cells: position, velocity, rotation, angular velocity, and
// one spin per wheel.
type Vehicle struct {
	Config VehicleConfig

	Pos  phys.Var[algebra.Vec3, algebra.Vec3]
	Vel  phys.Var[algebra.Vec3, algebra.Vec3]
	Rot  phys.Var[algebra.Rot3, algebra.Angular3]
	Spin phys.Var[algebra.Angular3, algebra.Angular3]

	Wheels [4]*Wheel
}

func NewVehicle(cfg VehicleConfig, pos algebra.Vec3) *Vehicle {
	v := &Vehicle{
		Config: cfg,
		Pos:    phys.NewVar[algebra.Vec3, algebra.Vec3](pos),
		Rot:    phys.NewVar[algebra.Rot3, algebra.Angular3](algebra.Rot3Identity()),
	}
	for i := range v.Wheels {
		v.Wheels[i] = &Wheel{Mount: cfg.Mounts[i]}
	}
	return v
}

// ResetControls clears all control inputs. Call once per frame before
// feeding the current input state.
func (v *Vehicle) ResetControls() {
	for _, w := range v.Wheels {
		w.Steer = 0
		w.Throttle = 0
		w.Brake = 0
	}
}

// Accelerate applies throttle in [-1, 1] to the rear wheels. Negative
// values reverse.
func (v *Vehicle) Accelerate(throttle float64) {
	v.Wheels[2].Throttle = throttle
	v.Wheels[3].Throttle = throttle
}

// Brake applies braking in [0, 1] to all wheels.
func (v *Vehicle) Brake(amount float64) {
	for _, w := range v.Wheels {
		w.Brake = amount
	}
}

// Steer turns the front wheels; dir in [-1, 1] maps to [-MaxSteer, MaxSteer].
func (v *Vehicle) Steer(dir float64) {
	angle := dir * v.Config.MaxSteer
	v.Wheels[0].Steer = angle
	v.Wheels[1].Steer = angle
}

// angularAccel converts a world-frame torque into a world-frame angular
// acceleration through the diagonal body-frame inertia tensor.
func (v *Vehicle) angularAccel(torque algebra.Angular3) algebra.Angular3 {
	rot := v.Rot.Value()
	body := rot.Inverse().Apply(torque.Vec())
	body = algebra.Vec3{
		X: body.X / v.Config.Inertia.X,
		Y: body.Y / v.Config.Inertia.Y,
		Z: body.Z / v.Config.Inertia.Z,
	}
	world := rot.Apply(body)
	return algebra.Angular3{X: world.X, Y: world.Y, Z: world.Z}
}

// applyForce accumulates a world-frame force acting at the world point pos.
func (v *Vehicle) applyForce(force, pos algebra.Vec3) {
	v.Vel.AddDeriv(force.Scale(1 / v.Config.Mass))
	arm := pos.Sub(v.Pos.Value())
	v.Spin.AddDeriv(v.angularAccel(algebra.Torque3(arm, force)))
}

// ComputeBasicDerivs accumulates the terrain-independent derivatives:
// kinematics, gravity, aerodynamic drag and wheel drive torque.
func (v *Vehicle) ComputeBasicDerivs() {
	v.Pos.AddDeriv(v.Vel.Value())
	v.Rot.AddDeriv(v.Spin.Value())

	v.Vel.AddDeriv(algebra.Vec3{Z: -DriveGravity})
	v.Vel.AddDeriv(v.Vel.Value().Scale(-v.Config.LinearDrag / v.Config.Mass))
	v.Spin.AddDeriv(v.Spin.Value().Scale(-v.Config.AngularDrag))

	for _, w := range v.Wheels {
		w.Spin.AddDeriv(algebra.Angular2(w.Throttle * v.Config.DriveTorque / v.Config.Wheel.Inertia))
		w.Spin.AddDeriv(w.Spin.Value().Scale(-w.Brake * v.Config.BrakeDamp))
	}
}

// wheelCenter is the wheel's axle position in world space.
func (v *Vehicle) wheelCenter(w *Wheel) algebra.Vec3 {
	return v.Pos.Value().Add(v.Rot.Value().Apply(w.Mount))
}

// wheelForward is the wheel's rolling direction in world space, before
// projecting onto the contact plane.
func (v *Vehicle) wheelForward(w *Wheel) algebra.Vec3 {
	sin, cos := math.Sincos(w.Steer)
	return v.Rot.Value().Apply(algebra.Vec3{X: cos, Y: sin})
}

// InteractWithTerrain accumulates the tire contact forces against the given
// terrain: compression spring, damping along the normal, longitudinal
// traction coupled to wheel spin and lateral grip.
func (v *Vehicle) InteractWithTerrain(t *Terrain) {
	cfg := v.Config.Wheel
	for _, w := range v.Wheels {
		center := v.wheelCenter(w)
		surface := t.SurfacePoint(center.XY())
		norm := t.NormalAt(center.XY())

		dist := center.Sub(surface).Dot(norm)
		dev := cfg.Radius - dist
		if dev <= 0 {
			continue
		}

		contact := center.Sub(norm.Scale(dist))
		arm := contact.Sub(v.Pos.Value())
		cvel := v.Vel.Value().Add(v.Spin.Value().VelAt(arm))

		// Normal load: compression spring plus damping. The tire never
		// pulls, so the load is clamped at zero.
		load := cfg.Hardness[0]*dev + cfg.Hardness[1]*dev*dev
		load -= cfg.Damping * cvel.Dot(norm)
		if load <= 0 {
			continue
		}
		force := norm.Scale(load)

		// Project the rolling direction onto the contact plane.
		fwd := v.wheelForward(w)
		fwd = fwd.Sub(norm.Scale(fwd.Dot(norm)))
		if fwd.LengthSq() < 1e-12 {
			v.applyForce(force, contact)
			continue
		}
		fwd = fwd.Normalize()
		lat := norm.Cross(fwd)

		// Longitudinal slip between tread and ground drives traction
		// and its reaction torque on the wheel.
		tread := float64(w.Spin.Value()) * cfg.Radius
		slip := cvel.Dot(fwd) - tread
		longF := -v.Config.GripLong * load * math.Tanh(slip)
		force = force.Add(fwd.Scale(longF))
		// The same contact force reacts on the wheel about its axle.
		w.Spin.AddDeriv(algebra.Angular2(-longF * cfg.Radius / cfg.Inertia))

		// Lateral grip resists sideways sliding.
		force = force.Add(lat.Scale(-v.Config.GripLat * load * math.Tanh(cvel.Dot(lat))))

		v.applyForce(force, contact)
	}
}

func (v *Vehicle) VisitVars(vis phys.Visitor) {
	vis.Visit(&v.Pos)
	vis.Visit(&v.Vel)
	vis.Visit(&v.Rot)
	vis.Visit(&v.Spin)
	for _, w := range v.Wheels {
		vis.Visit(&w.Spin)
	}
}

func (v *Vehicle) Sample() []float64 {
	p, vel := v.Pos.Value(), v.Vel.Value()
	return []float64{p.X, p.Y, p.Z, vel.X, vel.Y, vel.Z}
}

func (v *Vehicle) Labels() []string {
	return []string{"x", "y", "z", "vx", "vy", "vz"}
}

// Energy is the body's mechanical energy plus the wheels' rotational energy.
// Tire compression energy is ignored.
func (v *Vehicle) Energy() float64 {
	vel := v.Vel.Value()
	total := 0.5 * v.Config.Mass * vel.LengthSq()
	total += v.Config.Mass * DriveGravity * v.Pos.Value().Z

	spin := v.Rot.Value().Inverse().Apply(v.Spin.Value().Vec())
	total += 0.5 * (v.Config.Inertia.X*spin.X*spin.X +
		v.Config.Inertia.Y*spin.Y*spin.Y +
		v.Config.Inertia.Z*spin.Z*spin.Z)

	for _, w := range v.Wheels {
		s := float64(w.Spin.Value())
		total += 0.5 * v.Config.Wheel.Inertia * s * s
	}
	return total
}
