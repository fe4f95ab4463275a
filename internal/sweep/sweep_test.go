package sweep

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/bgoddard/lilypad/internal/geom"
)

func smallLayout() Layout {
	// Coarse coils keep the test fast; accuracy is covered in the
	// inductance package.
	return Layout{Gap: 2.0, TxRadius: 0.2, Points: 80, DL: 0.1}
}

func TestNewValidation(t *testing.T) {
	radii := []float64{0.3}
	positions := []float64{0.5}

	tests := []struct {
		name      string
		layout    Layout
		radii     []float64
		positions []float64
	}{
		{"zero gap", Layout{Gap: 0, TxRadius: 0.2, Points: 80, DL: 0.1}, radii, positions},
		{"zero tx radius", Layout{Gap: 2, TxRadius: 0, Points: 80, DL: 0.1}, radii, positions},
		{"too few points", Layout{Gap: 2, TxRadius: 0.2, Points: 2, DL: 0.1}, radii, positions},
		{"zero dL", Layout{Gap: 2, TxRadius: 0.2, Points: 80, DL: 0}, radii, positions},
		{"empty radii", smallLayout(), nil, positions},
		{"empty positions", smallLayout(), radii, nil},
		{"position at tx", smallLayout(), radii, []float64{0}},
		{"position past rx", smallLayout(), radii, []float64{2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.layout, nil, tt.radii, tt.positions); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSweepRun(t *testing.T) {
	radii := []float64{0.25, 0.4}
	positions := []float64{0.3, 0.7}

	s, err := New(smallLayout(), nil, radii, positions)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.Size() != 4 {
		t.Fatalf("expected 4 cells, got %d", s.Size())
	}

	rows, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	for _, r := range rows {
		if math.Abs(r.Pos3-(2.0-r.Pos2)) > 1e-12 {
			t.Errorf("pos3 should mirror pos2 about the midplane: pos2=%g pos3=%g", r.Pos2, r.Pos3)
		}
		if r.M21 <= 0 || r.M32 <= 0 || r.S22 <= 0 {
			t.Errorf("inductances should be positive: %+v", r)
		}
		if r.Vout <= 0 {
			t.Errorf("vout should be positive: %+v", r)
		}
		if math.Abs(r.Power-r.Vout*r.Vout/50.0) > 1e-12 {
			t.Errorf("power inconsistent with vout: %+v", r)
		}
	}

	best, ok := Best(rows)
	if !ok {
		t.Fatal("Best should find a row")
	}
	for _, r := range rows {
		if r.Vout > best.Vout {
			t.Errorf("Best missed a better row: %g > %g", r.Vout, best.Vout)
		}
	}
}

func TestSweepProgressCallback(t *testing.T) {
	s, err := New(smallLayout(), nil, []float64{0.3}, []float64{0.5, 1.0})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var mu chan Row = make(chan Row, 2)
	rows, err := s.RunWithProgress(context.Background(), func(r Row) { mu <- r })
	if err != nil {
		t.Fatalf("RunWithProgress failed: %v", err)
	}
	close(mu)

	seen := 0
	for range mu {
		seen++
	}
	if seen != len(rows) {
		t.Errorf("callback saw %d rows, Run returned %d", seen, len(rows))
	}
}

func TestSweepCanceled(t *testing.T) {
	s, err := New(smallLayout(), nil, []float64{0.25, 0.3, 0.4}, []float64{0.3, 0.5, 0.7})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(rows) == s.Size() {
		t.Error("canceled run should not complete the whole grid")
	}
}

func TestBestEmpty(t *testing.T) {
	if _, ok := Best(nil); ok {
		t.Error("Best of no rows should report false")
	}
}

func TestGridSearchFindsMaximum(t *testing.T) {
	g := NewGridSearch(
		[]string{"x", "y"},
		[][]float64{geom.Linspace(0, 4, 5), geom.Linspace(-3, 1, 5)},
	)

	params, best, err := g.Search(context.Background(), func(p map[string]float64) (float64, error) {
		dx, dy := p["x"]-2, p["y"]+1
		return -(dx*dx + dy*dy), nil
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if params["x"] != 2 || params["y"] != -1 {
		t.Errorf("expected optimum at (2, -1), got (%g, %g)", params["x"], params["y"])
	}
	if best != 0 {
		t.Errorf("expected objective 0 at the optimum, got %g", best)
	}
}

func TestGridSearchSkipsFailedCells(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})

	params, best, err := g.Search(context.Background(), func(p map[string]float64) (float64, error) {
		if p["x"] == 3 {
			return 0, errors.New("boom")
		}
		return p["x"], nil
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if params["x"] != 2 || best != 2 {
		t.Errorf("expected best x=2 skipping the failing cell, got x=%g best=%g", params["x"], best)
	}
}
