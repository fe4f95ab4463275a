package inductance

import (
	"math"
	"testing"
)

func sample(f func(float64) float64, a, b float64, n int) ([]float64, float64) {
	h := (b - a) / float64(n-1)
	y := make([]float64, n)
	for i := range y {
		y[i] = f(a + float64(i)*h)
	}
	return y, h
}

func TestSimpsonExactForCubics(t *testing.T) {
	tests := []struct {
		name string
		f    func(float64) float64
		want float64
	}{
		{"constant", func(x float64) float64 { return 2 }, 2},
		{"linear", func(x float64) float64 { return x }, 0.5},
		{"quadratic", func(x float64) float64 { return x * x }, 1.0 / 3},
		{"cubic", func(x float64) float64 { return x * x * x }, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, h := sample(tt.f, 0, 1, 101) // even interval count
			got, err := Simpson(y, h)
			if err != nil {
				t.Fatalf("Simpson failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %g, want %g", got, tt.want)
			}
		})
	}
}

func TestSimpsonOddIntervals(t *testing.T) {
	// 100 samples = 99 intervals; the last one falls back to trapezoid.
	y, h := sample(math.Sin, 0, math.Pi, 100)
	got, err := Simpson(y, h)
	if err != nil {
		t.Fatalf("Simpson failed: %v", err)
	}
	if math.Abs(got-2) > 1e-4 {
		t.Errorf("integral of sin over [0,pi] = %g, want 2", got)
	}
}

func TestSimpsonTwoSamples(t *testing.T) {
	// Degenerates to a single trapezoid.
	got, err := Simpson([]float64{0, 1}, 1)
	if err != nil {
		t.Fatalf("Simpson failed: %v", err)
	}
	if math.Abs(got-0.5) > 1e-15 {
		t.Errorf("got %g, want 0.5", got)
	}
}

func TestSimpsonErrors(t *testing.T) {
	if _, err := Simpson([]float64{1}, 0.1); err == nil {
		t.Error("expected error for a single sample")
	}
	if _, err := Simpson([]float64{1, 2, 3}, 0); err == nil {
		t.Error("expected error for zero spacing")
	}
	if _, err := Simpson([]float64{1, 2, 3}, -1); err == nil {
		t.Error("expected error for negative spacing")
	}
}
