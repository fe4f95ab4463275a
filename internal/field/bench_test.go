package field

import (
	"context"
	"testing"

	"github.com/bgoddard/lilypad/internal/geom"
)

func benchLoop(b *testing.B) *geom.Coil {
	b.Helper()
	c, err := geom.NewCoil(geom.Vec3{}, 0.2, 500, geom.PlaneYZ)
	if err != nil {
		b.Fatalf("NewCoil failed: %v", err)
	}
	return c
}

func BenchmarkSolveAxis(b *testing.B) {
	loop := benchLoop(b)
	solver := NewSolver()

	points := make([]geom.Vec3, 100)
	for i := range points {
		points[i] = geom.Vec3{X: 0.05 + float64(i)*0.01}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := solver.Solve(context.Background(), loop, points, 0.01); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolveSerial(b *testing.B) {
	loop := benchLoop(b)
	solver := NewSolver()
	solver.Workers = 1

	points := make([]geom.Vec3, 100)
	for i := range points {
		points[i] = geom.Vec3{X: 0.05 + float64(i)*0.01}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := solver.Solve(context.Background(), loop, points, 0.01); err != nil {
			b.Fatal(err)
		}
	}
}
