// Package inductance derives self- and mutual inductance of coil pairs
// from the solved magnetic field. The flux through a target loop is
// integrated over concentric rings along a radius of the loop,
//
//	flux = integral 2*pi*r * |B(r)| dr,  L = flux / |I|,
//
// with |B| sampled on the target's radial line and integrated with the
// composite Simpson rule.
package inductance

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/bgoddard/lilypad/internal/field"
	"github.com/bgoddard/lilypad/internal/geom"
)

// Mutual computes the mutual inductance between a source coil driving
// the field and a target coil collecting the flux, in henries. The
// source wire is discretized at length dL.
func Mutual(ctx context.Context, solver *field.Solver, src, tgt *geom.Coil, dL float64) (float64, error) {
	return integrate(ctx, solver, src, tgt, dL, false)
}

// Self computes the self-inductance of a coil. The radial field
// profile diverges at the wire, so integration is truncated at the
// peak |B| sample, which stands in for the finite wire width.
func Self(ctx context.Context, solver *field.Solver, coil *geom.Coil, dL float64) (float64, error) {
	return integrate(ctx, solver, coil, coil, dL, true)
}

func integrate(ctx context.Context, solver *field.Solver, src, tgt *geom.Coil, dL float64, truncate bool) (float64, error) {
	current := cmplx.Abs(src.Current)
	if current == 0 {
		return 0, fmt.Errorf("inductance: source coil carries no current")
	}

	points, radii := tgt.RadialLine(tgt.Points)
	bs, err := solver.Solve(ctx, src, points, dL)
	if err != nil {
		return 0, fmt.Errorf("inductance: field solve failed: %w", err)
	}

	norms := make([]float64, len(bs))
	for i, b := range bs {
		norms[i] = b.Norm()
	}

	if truncate {
		peak := argmax(norms)
		norms = norms[:peak+1]
		radii = radii[:peak+1]
	}

	integrand := make([]float64, len(norms))
	for i := range norms {
		integrand[i] = 2 * math.Pi * radii[i] * norms[i]
	}

	h := tgt.Radius / float64(tgt.Points-1)
	flux, err := Simpson(integrand, h)
	if err != nil {
		return 0, err
	}

	return flux / current, nil
}

func argmax(xs []float64) int {
	best, idx := math.Inf(-1), 0
	for i, x := range xs {
		if x > best {
			best, idx = x, i
		}
	}
	return idx
}
