package inductance

import (
	"context"
	"math"
	"testing"

	"github.com/bgoddard/lilypad/internal/field"
	"github.com/bgoddard/lilypad/internal/geom"
)

func coilAt(t *testing.T, x, radius float64, points int) *geom.Coil {
	t.Helper()
	c, err := geom.NewCoil(geom.Vec3{X: x}, radius, points, geom.PlaneYZ)
	if err != nil {
		t.Fatalf("NewCoil failed: %v", err)
	}
	return c
}

func TestMutualMatchesDipoleLimit(t *testing.T) {
	// Far apart, two coaxial loops couple like dipoles:
	// M ~ mu0*pi*R1^2*R2^2 / (2*d^3).
	r1, r2, d := 0.2, 0.2, 2.0
	src := coilAt(t, 0, r1, 300)
	tgt := coilAt(t, d, r2, 300)

	m, err := Mutual(context.Background(), field.NewSolver(), src, tgt, 0.1)
	if err != nil {
		t.Fatalf("Mutual failed: %v", err)
	}

	want := field.Mu0 * math.Pi * r1 * r1 * r2 * r2 / (2 * d * d * d)
	if rel := math.Abs(m-want) / want; rel > 0.1 {
		t.Errorf("M = %g, dipole limit %g, rel err %g", m, want, rel)
	}
}

func TestMutualDecreasesWithDistance(t *testing.T) {
	src := coilAt(t, 0, 0.2, 200)
	solver := field.NewSolver()

	prev := math.Inf(1)
	for _, d := range []float64{0.5, 1.0, 1.5, 2.0} {
		tgt := coilAt(t, d, 0.2, 200)
		m, err := Mutual(context.Background(), solver, src, tgt, 0.1)
		if err != nil {
			t.Fatalf("Mutual at d=%g failed: %v", d, err)
		}
		if m <= 0 {
			t.Fatalf("M at d=%g should be positive, got %g", d, m)
		}
		if m >= prev {
			t.Errorf("M should fall with distance: M(%g)=%g, previous %g", d, m, prev)
		}
		prev = m
	}
}

func TestSelfInductance(t *testing.T) {
	// The reference 0.2 m / 500-point loop at dL=0.1 comes out near
	// 1.37 uH with the peak-truncated flux integral.
	coil := coilAt(t, 0, 0.2, 500)

	s, err := Self(context.Background(), field.NewSolver(), coil, 0.1)
	if err != nil {
		t.Fatalf("Self failed: %v", err)
	}

	if s < 1.1e-6 || s > 1.7e-6 {
		t.Errorf("self-inductance %g H outside expected band around 1.37 uH", s)
	}
}

func TestSelfExceedsDistantMutual(t *testing.T) {
	a := coilAt(t, 0, 0.2, 200)
	b := coilAt(t, 1.0, 0.2, 200)
	solver := field.NewSolver()

	s, err := Self(context.Background(), solver, a, 0.1)
	if err != nil {
		t.Fatalf("Self failed: %v", err)
	}
	m, err := Mutual(context.Background(), solver, a, b, 0.1)
	if err != nil {
		t.Fatalf("Mutual failed: %v", err)
	}

	if s <= m {
		t.Errorf("self (%g) should dominate mutual (%g)", s, m)
	}
}

func TestMutualZeroCurrent(t *testing.T) {
	src := coilAt(t, 0, 0.2, 100)
	tgt := coilAt(t, 1, 0.2, 100)
	src.Current = 0

	if _, err := Mutual(context.Background(), field.NewSolver(), src, tgt, 0.1); err == nil {
		t.Error("expected error for zero drive current")
	}
}
