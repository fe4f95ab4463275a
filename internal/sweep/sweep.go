// Package sweep searches lilypad coil placement and size for maximum
// delivered power. The transfer chain is coaxial along the x axis:
// transmitter at the origin, receiver at Gap, and two relay coils
// mirrored about the midplane sharing one radius, which halves the
// parameter space. Each grid cell solves the three independent
// inductances of the symmetric chain.
package sweep

import (
	"context"
	"fmt"
	"sync"

	"github.com/bgoddard/lilypad/internal/circuit"
	"github.com/bgoddard/lilypad/internal/field"
	"github.com/bgoddard/lilypad/internal/geom"
	"github.com/bgoddard/lilypad/internal/inductance"
)

// Layout fixes the geometry shared by every candidate arrangement.
type Layout struct {
	Gap      float64 // Tx-Rx separation along x, meters
	TxRadius float64 // transmitter/receiver loop radius
	Points   int     // polyline points per coil
	DL       float64 // wire discretization length
}

func DefaultLayout() Layout {
	return Layout{Gap: 2.0, TxRadius: 0.2, Points: 500, DL: 0.1}
}

func (l Layout) validate() error {
	if l.Gap <= 0 {
		return fmt.Errorf("sweep: gap must be positive, got %g", l.Gap)
	}
	if l.TxRadius <= 0 {
		return fmt.Errorf("sweep: tx radius must be positive, got %g", l.TxRadius)
	}
	if l.Points < 3 {
		return fmt.Errorf("sweep: need at least 3 coil points, got %d", l.Points)
	}
	if l.DL <= 0 {
		return fmt.Errorf("sweep: dL must be positive, got %g", l.DL)
	}
	return nil
}

// Row is the full record of one candidate arrangement.
type Row struct {
	Pos2   float64 `json:"pos2"`
	Pos3   float64 `json:"pos3"`
	Radius float64 `json:"radius"`
	M21    float64 `json:"m21"`
	M32    float64 `json:"m32"`
	S22    float64 `json:"s22"`
	K21    float64 `json:"k21"`
	K32    float64 `json:"k32"`
	Vout   float64 `json:"vout"`
	Power  float64 `json:"power"`
}

// Sweep runs the placement grid.
type Sweep struct {
	Layout    Layout
	Link      *circuit.Link
	Radii     []float64 // candidate lilypad radii
	Positions []float64 // candidate lilypad x positions
	Workers   int       // concurrent grid cells; zero means 4

	solver *field.Solver
}

// New builds a sweep over the given radius and position grids.
func New(layout Layout, link *circuit.Link, radii, positions []float64) (*Sweep, error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}
	if link == nil {
		link = circuit.NewLink()
	}
	if len(radii) == 0 || len(positions) == 0 {
		return nil, fmt.Errorf("sweep: empty parameter grid")
	}
	for _, p := range positions {
		if p <= 0 || p >= layout.Gap {
			return nil, fmt.Errorf("sweep: position %g outside the open interval (0, %g)", p, layout.Gap)
		}
	}
	return &Sweep{
		Layout:    layout,
		Link:      link,
		Radii:     radii,
		Positions: positions,
		solver:    field.NewSolver(),
	}, nil
}

// Size returns the number of grid cells.
func (s *Sweep) Size() int { return len(s.Radii) * len(s.Positions) }

// Run evaluates every grid cell and returns the rows in grid order.
// OnRow, if set via RunWithProgress, observes rows as they complete.
// Cancellation returns the error together with rows finished so far.
func (s *Sweep) Run(ctx context.Context) ([]Row, error) {
	return s.RunWithProgress(ctx, nil)
}

// RunWithProgress is Run with a per-row callback. The callback is
// invoked from worker goroutines; it must be safe for concurrent use.
func (s *Sweep) RunWithProgress(ctx context.Context, onRow func(Row)) ([]Row, error) {
	type cell struct {
		idx         int
		pos, radius float64
	}

	cells := make([]cell, 0, s.Size())
	for _, r := range s.Radii {
		for _, p := range s.Positions {
			cells = append(cells, cell{idx: len(cells), pos: p, radius: r})
		}
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(cells) {
		workers = len(cells)
	}

	rows := make([]Row, len(cells))
	done := make([]bool, len(cells))
	jobs := make(chan cell)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(idx int) {
			defer wg.Done()
			for c := range jobs {
				if errs[idx] != nil {
					continue // keep draining so the feeder never blocks
				}
				row, err := s.evaluate(ctx, c.pos, c.radius)
				if err != nil {
					errs[idx] = err
					continue
				}
				rows[c.idx] = row
				done[c.idx] = true
				if onRow != nil {
					onRow(row)
				}
			}
		}(w)
	}

feed:
	for _, c := range cells {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- c:
		}
	}
	close(jobs)
	wg.Wait()

	finished := make([]Row, 0, len(rows))
	for i, ok := range done {
		if ok {
			finished = append(finished, rows[i])
		}
	}

	if err := ctx.Err(); err != nil {
		return finished, err
	}
	for _, err := range errs {
		if err != nil {
			return finished, err
		}
	}
	return finished, nil
}

// evaluate solves one arrangement: lilypads at pos and Gap-pos with the
// shared radius. The three inductances are solved concurrently, the way
// the chain symmetry leaves only m21, m32 and s22 independent.
func (s *Sweep) evaluate(ctx context.Context, pos, radius float64) (Row, error) {
	tx, err := geom.NewCoil(geom.Vec3{}, s.Layout.TxRadius, s.Layout.Points, geom.PlaneYZ)
	if err != nil {
		return Row{}, err
	}
	pad2, err := geom.NewCoil(geom.Vec3{X: pos}, radius, s.Layout.Points, geom.PlaneYZ)
	if err != nil {
		return Row{}, err
	}
	pad3, err := geom.NewCoil(geom.Vec3{X: s.Layout.Gap - pos}, radius, s.Layout.Points, geom.PlaneYZ)
	if err != nil {
		return Row{}, err
	}

	var (
		m21, m32, s22 float64
		wg            sync.WaitGroup
		solveErrs     [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		m21, solveErrs[0] = inductance.Mutual(ctx, s.solver, tx, pad2, s.Layout.DL)
	}()
	go func() {
		defer wg.Done()
		m32, solveErrs[1] = inductance.Mutual(ctx, s.solver, pad2, pad3, s.Layout.DL)
	}()
	go func() {
		defer wg.Done()
		s22, solveErrs[2] = inductance.Self(ctx, s.solver, pad2, s.Layout.DL)
	}()
	wg.Wait()

	for _, err := range solveErrs {
		if err != nil {
			return Row{}, fmt.Errorf("sweep: pos=%g radius=%g: %w", pos, radius, err)
		}
	}

	c, err := s.Link.Evaluate(m21, m32, s22)
	if err != nil {
		return Row{}, fmt.Errorf("sweep: pos=%g radius=%g: %w", pos, radius, err)
	}

	return Row{
		Pos2:   pos,
		Pos3:   s.Layout.Gap - pos,
		Radius: radius,
		M21:    m21,
		M32:    m32,
		S22:    s22,
		K21:    c.K21,
		K32:    c.K32,
		Vout:   c.Vout,
		Power:  c.Power,
	}, nil
}

// Best returns the row with the highest output voltage, or false when
// rows is empty.
func Best(rows []Row) (Row, bool) {
	if len(rows) == 0 {
		return Row{}, false
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if r.Vout > best.Vout {
			best = r
		}
	}
	return best, true
}
