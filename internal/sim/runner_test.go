package sim_test

import (
	"context"
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/agerasev/playsim/internal/algebra"
	"github.com/agerasev/playsim/internal/phys"
	"github.com/agerasev/playsim/internal/scene"
	"github.com/agerasev/playsim/internal/sim"
)

// blowup diverges to Inf in a handful of steps: x' = x^2, x(0) = 1.
type blowup struct {
	x phys.Var[algebra.Scalar, algebra.Scalar]
}

func newBlowup() *blowup {
	b := &blowup{}
	b.x = phys.NewVar[algebra.Scalar, algebra.Scalar](1)
	return b
}

func (b *blowup) ComputeDerivs() {
	x := b.x.Value()
	b.x.AddDeriv(x.Scale(float64(x)))
}

func (b *blowup) VisitVars(v phys.Visitor) { v.Visit(&b.x) }
func (b *blowup) Sample() []float64        { return []float64{float64(b.x.Value())} }
func (b *blowup) Labels() []string         { return []string{"x"} }

func newRand() *rand.Rand { return rand.New(rand.NewSource(42)) }

type countingObserver struct{ calls int }

func (c *countingObserver) OnStep([]float64, float64) { c.calls++ }

var _ = Describe("Runner", func() {
	var runner *sim.Runner

	BeforeEach(func() {
		runner = sim.NewRunner(phys.NewRK4())
	})

	Describe("Run", func() {
		It("rejects a non-positive dt", func() {
			cfg := sim.DefaultConfig()
			cfg.Dt = 0
			_, err := runner.Run(context.Background(), scene.NewOscillator(1, 1, 0), cfg)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-positive duration", func() {
			cfg := sim.DefaultConfig()
			cfg.Duration = -1
			_, err := runner.Run(context.Background(), scene.NewOscillator(1, 1, 0), cfg)
			Expect(err).To(HaveOccurred())
		})

		It("records the initial state and one state per step", func() {
			cfg := sim.Config{Dt: 0.01, Duration: 1.0, ValidateState: true}
			result, err := runner.Run(context.Background(), scene.NewOscillator(1, 1, 0), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(100))
			Expect(result.States).To(HaveLen(101))
			Expect(result.Times).To(HaveLen(101))
			Expect(result.Labels).To(Equal([]string{"x", "v"}))
		})

		It("clamps dt to MaxDt", func() {
			cfg := sim.Config{Dt: 0.5, Duration: 1.0, MaxDt: 0.04, ValidateState: true}
			result, err := runner.Run(context.Background(), scene.NewOscillator(1, 1, 0), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Times[1] - result.Times[0]).To(BeNumerically("~", 0.04, 1e-12))
			Expect(result.StepsTaken).To(Equal(25))
		})

		It("reproduces free fall to within one percent", func() {
			cfg := sim.Config{Dt: 0.04, Duration: 1.0, MaxDt: 0.04, ValidateState: true}
			ff := scene.NewFreeFall(algebra.Vec2{}, algebra.Vec2{}, algebra.Vec2{Y: 4.0})

			result, err := runner.Run(context.Background(), ff, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(25))

			final := result.States[len(result.States)-1]
			Expect(final[1]).To(BeNumerically("~", 2.0, 0.02))
			Expect(final[3]).To(BeNumerically("~", 4.0, 0.04))
		})

		It("stops and reports an error when the state diverges", func() {
			cfg := sim.Config{Dt: 0.5, Duration: 100.0, ValidateState: true}
			result, err := runner.Run(context.Background(), newBlowup(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).NotTo(BeEmpty())
			Expect(result.StepsTaken).To(BeNumerically("<", 200))
		})

		It("computes a small energy drift for a conservative scene", func() {
			cfg := sim.Config{Dt: 0.001, Duration: 5.0, ValidateState: true}
			result, err := runner.Run(context.Background(), scene.NewOscillator(4, 1, 0), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.EnergyDrift).To(BeNumerically("<", 1e-6))
		})

		It("feeds every recorded state to observers", func() {
			obs := &countingObserver{}
			runner.AddObserver(obs)
			cfg := sim.Config{Dt: 0.01, Duration: 1.0, ValidateState: true}
			result, err := runner.Run(context.Background(), scene.NewOscillator(1, 1, 0), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.calls).To(Equal(result.StepsTaken))
		})

		It("returns early on context cancellation", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()

			rng := scene.NewBalls(newRand(), 50, algebra.Vec2{X: 10, Y: 10}, 0.2, 0.6)
			cfg := sim.Config{Dt: 1e-5, Duration: 1e6, ValidateState: false}
			_, err := runner.Run(ctx, rng, cfg)
			Expect(err).To(MatchError(context.DeadlineExceeded))
		})
	})

	Describe("RunWithCallback", func() {
		It("stops when the callback returns false", func() {
			calls := 0
			cfg := sim.Config{Dt: 0.01, Duration: 10.0, ValidateState: true}
			err := runner.RunWithCallback(context.Background(), scene.NewOscillator(1, 1, 0), cfg,
				func(sample []float64, t float64) bool {
					calls++
					return calls < 10
				})
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(10))
		})

		It("matches the analytic oscillator at the end of the run", func() {
			osc := scene.NewOscillator(4, 1, 0)
			cfg := sim.Config{Dt: 0.001, Duration: 2.0, ValidateState: true}

			var lastT float64
			err := runner.RunWithCallback(context.Background(), osc, cfg,
				func(sample []float64, t float64) bool {
					lastT = t
					return true
				})
			Expect(err).NotTo(HaveOccurred())

			x, _ := osc.Exact(1, 0, lastT+cfg.Dt)
			Expect(float64(osc.Pos.Value())).To(BeNumerically("~", x, 1e-6))
			Expect(math.Abs(float64(osc.Pos.Value()))).To(BeNumerically("<=", 1.0+1e-9))
		})
	})
})
