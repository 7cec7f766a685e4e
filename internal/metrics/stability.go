package metrics

import "math"

// Stability is the fraction of samples whose components all stay below the
// threshold in absolute value. 1.0 means the run never escaped.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(sample []float64, t float64) {
	s.samples++
	for _, val := range sample {
		if math.Abs(val) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Extremum tracks the largest absolute value seen in one sample column.
type Extremum struct {
	name   string
	column int
	max    float64
}

func NewExtremum(name string, column int) *Extremum {
	return &Extremum{name: name, column: column}
}

func (e *Extremum) Name() string { return e.name }

func (e *Extremum) Observe(sample []float64, t float64) {
	if e.column < len(sample) {
		e.max = math.Max(e.max, math.Abs(sample[e.column]))
	}
}

func (e *Extremum) Value() float64 { return e.max }
func (e *Extremum) Reset()         { e.max = 0 }
