package analysis

import (
	"math"
	"testing"
)

func TestFFTConstantSignal(t *testing.T) {
	data := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	out := FFT(data)

	if got := real(out[0]); math.Abs(got-8) > 1e-9 {
		t.Errorf("DC bin = %v, want 8", got)
	}
	for i := 1; i < len(out); i++ {
		if mag := math.Hypot(real(out[i]), imag(out[i])); mag > 1e-9 {
			t.Errorf("bin %d magnitude = %v, want 0", i, mag)
		}
	}
}

func TestFFTPadsOddLength(t *testing.T) {
	data := make([]float64, 100)
	out := FFT(data)
	if len(out) != 128 {
		t.Errorf("len(FFT) = %d, want next power of two 128", len(out))
	}
}

func TestPowerSpectrumFindsSine(t *testing.T) {
	const (
		n  = 256
		dt = 0.01
	)
	// A frequency that lands on an exact bin: k / (n*dt).
	freq := 16.0 / (n * dt)
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * freq * float64(i) * dt)
	}

	got := DominantFrequency(data, dt)
	if math.Abs(got-freq) > 1e-9 {
		t.Errorf("DominantFrequency = %v, want %v", got, freq)
	}
}

func TestPowerSpectrumOscillatorPeriod(t *testing.T) {
	// x(t) = cos(w t) with w = 2*pi gives a 1 Hz peak.
	const (
		n  = 512
		dt = 1.0 / 64
	)
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Cos(2 * math.Pi * float64(i) * dt)
	}

	got := DominantFrequency(data, dt)
	if math.Abs(got-1.0) > 0.1 {
		t.Errorf("DominantFrequency = %v, want ~1.0", got)
	}
}
