// Package field computes magnetic fields of discretized wire loops via
// the Biot-Savart law. Each wire segment is subdivided into pieces no
// longer than dL and every piece contributes
//
//	dB = mu0/(4*pi) * I * (dl x r) / |r|^3
//
// evaluated at the piece midpoint. Currents are phasors, so the field
// components are complex; the instantaneous amplitude is the norm.
package field

import (
	"context"
	"math"
	"math/cmplx"

	"github.com/bgoddard/lilypad/internal/geom"
)

// Mu0 is the vacuum permeability in H/m.
const Mu0 = 4 * math.Pi * 1e-7

// BVec is a complex-valued magnetic field vector in tesla.
type BVec struct {
	X, Y, Z complex128
}

func (b BVec) Add(o BVec) BVec {
	return BVec{b.X + o.X, b.Y + o.Y, b.Z + o.Z}
}

// Norm returns the field amplitude sqrt(|Bx|^2+|By|^2+|Bz|^2).
func (b BVec) Norm() float64 {
	ax, ay, az := cmplx.Abs(b.X), cmplx.Abs(b.Y), cmplx.Abs(b.Z)
	return math.Sqrt(ax*ax + ay*ay + az*az)
}

// Solver evaluates the field of a wire at sets of points.
type Solver struct {
	// MinDistance rejects evaluation points closer than this to any
	// sub-segment midpoint instead of blowing up the 1/r^3 kernel.
	MinDistance float64

	// Workers bounds the fan-out over evaluation points. Zero means
	// one worker per CPU.
	Workers int
}

func NewSolver() *Solver {
	return &Solver{MinDistance: 1e-9}
}

type subSegment struct {
	mid geom.Vec3
	dl  geom.Vec3
}

// Solve returns the field of wire at each point, with the wire
// discretized at length dL. Points are evaluated in parallel.
func (s *Solver) Solve(ctx context.Context, wire *geom.Coil, points []geom.Vec3, dL float64) ([]BVec, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	subs, err := s.subdivide(wire, dL)
	if err != nil {
		return nil, err
	}

	scale := wire.Current * complex(Mu0/(4*math.Pi), 0)
	minR3 := s.MinDistance * s.MinDistance * s.MinDistance

	out := make([]BVec, len(points))
	err = parallelFor(ctx, len(points), 16, s.Workers, func(start, end int) error {
		for p := start; p < end; p++ {
			b, err := fieldAt(subs, points[p], scale, minR3)
			if err != nil {
				return &SolveError{PointIndex: p, Point: points[p], Wrapped: err}
			}
			out[p] = b
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SolveOne evaluates the field at a single point.
func (s *Solver) SolveOne(ctx context.Context, wire *geom.Coil, point geom.Vec3, dL float64) (BVec, error) {
	bs, err := s.Solve(ctx, wire, []geom.Vec3{point}, dL)
	if err != nil {
		return BVec{}, err
	}
	return bs[0], nil
}

func (s *Solver) subdivide(wire *geom.Coil, dL float64) ([]subSegment, error) {
	segs := wire.Segments()
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}

	subs := make([]subSegment, 0, len(segs))
	for _, seg := range segs {
		chain, err := geom.Discretize(seg, dL)
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(chain)-1; i++ {
			subs = append(subs, subSegment{
				mid: chain[i].Add(chain[i+1]).Scale(0.5),
				dl:  chain[i+1].Sub(chain[i]),
			})
		}
	}
	return subs, nil
}

func fieldAt(subs []subSegment, point geom.Vec3, scale complex128, minR3 float64) (BVec, error) {
	var b BVec
	for _, ss := range subs {
		r := point.Sub(ss.mid)
		rn := r.Norm()
		r3 := rn * rn * rn
		if r3 < minR3 {
			return BVec{}, ErrPointOnWire
		}
		cross := ss.dl.Cross(r)
		k := scale * complex(1/r3, 0)
		b.X += k * complex(cross.X, 0)
		b.Y += k * complex(cross.Y, 0)
		b.Z += k * complex(cross.Z, 0)
	}
	return b, nil
}
