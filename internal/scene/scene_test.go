package scene_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/agerasev/playsim/internal/algebra"
	"github.com/agerasev/playsim/internal/phys"
	"github.com/agerasev/playsim/internal/scene"
)

type countingVisitor struct{ cells int }

func (c *countingVisitor) Visit(phys.Cell) { c.cells++ }

func TestFreeFallTrajectory(t *testing.T) {
	ff := scene.NewFreeFall(algebra.Vec2{}, algebra.Vec2{}, algebra.Vec2{Y: 4.0})
	solver := phys.NewRK4()

	for i := 0; i < 25; i++ {
		solver.SolveStep(ff, 0.04)
	}

	// y = g t^2 / 2 = 2, vy = g t = 4 at t = 1.
	s := ff.Sample()
	if math.Abs(s[1]-2.0) > 0.02 {
		t.Errorf("y = %v, want 2.0 within 1%%", s[1])
	}
	if math.Abs(s[3]-4.0) > 0.04 {
		t.Errorf("vy = %v, want 4.0 within 1%%", s[3])
	}
}

func TestFreeFallVisitsTwoCells(t *testing.T) {
	ff := scene.NewFreeFall(algebra.Vec2{}, algebra.Vec2{}, algebra.Vec2{Y: 4.0})
	v := &countingVisitor{}
	ff.VisitVars(v)
	if v.cells != 2 {
		t.Errorf("visited %d cells, want 2", v.cells)
	}
}

func TestOscillatorMatchesAnalyticSolution(t *testing.T) {
	osc := scene.NewOscillator(4.0, 1.0, 0.0)
	solver := phys.NewRK4()

	dt := 0.01
	steps := 500
	for i := 0; i < steps; i++ {
		solver.SolveStep(osc, dt)
	}

	x, v := osc.Exact(1.0, 0.0, float64(steps)*dt)
	s := osc.Sample()
	if math.Abs(s[0]-x) > 1e-6 {
		t.Errorf("x = %v, want %v", s[0], x)
	}
	if math.Abs(s[1]-v) > 1e-6 {
		t.Errorf("v = %v, want %v", s[1], v)
	}
}

func newTestBalls(count int) *scene.Balls {
	rng := rand.New(rand.NewSource(7))
	return scene.NewBalls(rng, count, algebra.Vec2{X: 8, Y: 6}, 0.4, 1.0)
}

func TestBallsVisitsFourCellsPerBall(t *testing.T) {
	for _, count := range []int{1, 5, 12} {
		w := newTestBalls(count)
		v := &countingVisitor{}
		w.VisitVars(v)
		if v.cells != 4*count {
			t.Errorf("count=%d: visited %d cells, want %d", count, v.cells, 4*count)
		}
	}
}

func TestBallsDerivativesAccumulate(t *testing.T) {
	once := newTestBalls(6)
	twice := newTestBalls(6)

	once.ComputeDerivs()
	twice.ComputeDerivs()
	twice.ComputeDerivs()

	for i := range once.Items {
		d1 := once.Items[i].Vel.Deriv()
		d2 := twice.Items[i].Vel.Deriv()
		if math.Abs(d2.X-2*d1.X) > 1e-9 || math.Abs(d2.Y-2*d1.Y) > 1e-9 {
			t.Errorf("ball %d: second pass deriv %+v, want double of %+v", i, d2, d1)
		}
	}
}

func TestBallsStayInBox(t *testing.T) {
	w := newTestBalls(10)
	solver := phys.NewRK4()

	for i := 0; i < 1000; i++ {
		solver.SolveStep(w, 0.02)
	}

	// Walls are springs, so allow a small overshoot.
	const slack = 0.5
	for i, b := range w.Items {
		p := b.Pos.Value()
		if math.Abs(p.X) > w.Size.X+slack || math.Abs(p.Y) > w.Size.Y+slack {
			t.Errorf("ball %d escaped: pos %+v, box %+v", i, p, w.Size)
		}
	}
}

func TestBallsSettleUnderGravity(t *testing.T) {
	w := newTestBalls(4)
	solver := phys.NewRK4()

	for i := 0; i < 3000; i++ {
		solver.SolveStep(w, 0.02)
	}

	// Contact damping and air friction bleed energy; everything ends up
	// resting near the bottom wall (+Y is down).
	for i, b := range w.Items {
		if v := b.Vel.Value().Length(); v > 1.0 {
			t.Errorf("ball %d still moving at %v after settling time", i, v)
		}
		if p := b.Pos.Value(); p.Y < 0 {
			t.Errorf("ball %d floated to the top half: %+v", i, p)
		}
	}
}

func TestBallsDragPullsTowardTarget(t *testing.T) {
	w := newTestBalls(3)
	target := algebra.Vec2{X: -5, Y: -3}
	w.SetDrag(0, target, algebra.Vec2{})

	solver := phys.NewRK4()
	for i := 0; i < 2000; i++ {
		solver.SolveStep(w, 0.02)
	}

	got := w.Items[0].Pos.Value()
	if got.Sub(target).Length() > 1.5 {
		t.Errorf("dragged ball at %+v, want near %+v", got, target)
	}

	w.ClearDrag()
	// After release the spring is gone; this must not panic and the ball
	// must fall again.
	for i := 0; i < 500; i++ {
		solver.SolveStep(w, 0.02)
	}
	if w.Items[0].Pos.Value().Y <= got.Y {
		t.Errorf("released ball did not fall: y=%v", w.Items[0].Pos.Value().Y)
	}
}

func TestBallsSampleShape(t *testing.T) {
	w := newTestBalls(5)
	if got := len(w.Sample()); got != 20 {
		t.Errorf("Sample len = %d, want 20", got)
	}
	if got := len(w.Labels()); got != 20 {
		t.Errorf("Labels len = %d, want 20", got)
	}
}
