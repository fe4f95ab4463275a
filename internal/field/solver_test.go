package field

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/bgoddard/lilypad/internal/geom"
)

func testLoop(t *testing.T, center geom.Vec3, radius float64) *geom.Coil {
	t.Helper()
	c, err := geom.NewCoil(center, radius, 500, geom.PlaneYZ)
	if err != nil {
		t.Fatalf("NewCoil failed: %v", err)
	}
	return c
}

func TestFieldAtLoopCenter(t *testing.T) {
	radius := 0.2
	loop := testLoop(t, geom.Vec3{}, radius)

	b, err := NewSolver().SolveOne(context.Background(), loop, geom.Vec3{}, 0.01)
	if err != nil {
		t.Fatalf("SolveOne failed: %v", err)
	}

	// Analytic field of a circular loop at its center: mu0*I/(2R).
	want := Mu0 / (2 * radius)
	got := b.Norm()
	if math.Abs(got-want)/want > 1e-3 {
		t.Errorf("|B| at center = %g, want %g (rel err %g)", got, want, math.Abs(got-want)/want)
	}
}

func TestFieldOnAxis(t *testing.T) {
	radius := 0.2
	loop := testLoop(t, geom.Vec3{}, radius)

	tests := []struct {
		name string
		x    float64
	}{
		{"near", 0.05},
		{"one radius", 0.2},
		{"far", 1.0},
	}

	solver := NewSolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := solver.SolveOne(context.Background(), loop, geom.Vec3{X: tt.x}, 0.005)
			if err != nil {
				t.Fatalf("SolveOne failed: %v", err)
			}

			// On-axis field: mu0*I*R^2 / (2*(R^2+x^2)^(3/2)).
			want := Mu0 * radius * radius / (2 * math.Pow(radius*radius+tt.x*tt.x, 1.5))
			got := b.Norm()
			if math.Abs(got-want)/want > 1e-3 {
				t.Errorf("|B| at x=%g: got %g, want %g", tt.x, got, want)
			}
		})
	}
}

func TestFieldScalesWithCurrent(t *testing.T) {
	loop := testLoop(t, geom.Vec3{}, 0.2)
	solver := NewSolver()

	b1, err := solver.SolveOne(context.Background(), loop, geom.Vec3{X: 0.1}, 0.01)
	if err != nil {
		t.Fatalf("SolveOne failed: %v", err)
	}

	loop.Current = complex(3, 0)
	b3, err := solver.SolveOne(context.Background(), loop, geom.Vec3{X: 0.1}, 0.01)
	if err != nil {
		t.Fatalf("SolveOne failed: %v", err)
	}

	if ratio := b3.Norm() / b1.Norm(); math.Abs(ratio-3) > 1e-9 {
		t.Errorf("field should scale linearly with current, ratio = %g", ratio)
	}
}

func TestSolveRejectsPointOnWire(t *testing.T) {
	loop := testLoop(t, geom.Vec3{}, 0.2)
	solver := NewSolver()
	solver.MinDistance = 0.5 // everything within half a meter counts as "on the wire"

	_, err := solver.SolveOne(context.Background(), loop, geom.Vec3{}, 0.01)
	if !errors.Is(err, ErrPointOnWire) {
		t.Fatalf("expected ErrPointOnWire, got %v", err)
	}

	var se *SolveError
	if !errors.As(err, &se) {
		t.Fatal("expected a *SolveError wrapper")
	}
	if se.PointIndex != 0 {
		t.Errorf("expected point index 0, got %d", se.PointIndex)
	}
}

func TestSolveEmptyPoints(t *testing.T) {
	loop := testLoop(t, geom.Vec3{}, 0.2)
	if _, err := NewSolver().Solve(context.Background(), loop, nil, 0.01); !errors.Is(err, ErrNoPoints) {
		t.Fatalf("expected ErrNoPoints, got %v", err)
	}
}

func TestSolveCanceledContext(t *testing.T) {
	loop := testLoop(t, geom.Vec3{}, 0.2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	points := make([]geom.Vec3, 64)
	for i := range points {
		points[i] = geom.Vec3{X: 0.1 + float64(i)*0.01}
	}

	_, err := NewSolver().Solve(ctx, loop, points, 0.01)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
