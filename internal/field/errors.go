package field

import (
	"errors"
	"fmt"

	"github.com/bgoddard/lilypad/internal/geom"
)

// Domain errors for field evaluation.
var (
	// ErrPointOnWire indicates an evaluation point coincides with the wire.
	ErrPointOnWire = errors.New("field: evaluation point lies on the wire")

	// ErrNoPoints indicates an empty set of evaluation points.
	ErrNoPoints = errors.New("field: no evaluation points")

	// ErrNoSegments indicates the wire discretized to nothing.
	ErrNoSegments = errors.New("field: wire has no segments")
)

// SolveError wraps an error with the offending evaluation point.
type SolveError struct {
	PointIndex int
	Point      geom.Vec3
	Wrapped    error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("point %d (%g, %g, %g): %v",
		e.PointIndex, e.Point.X, e.Point.Y, e.Point.Z, e.Wrapped)
}

func (e *SolveError) Unwrap() error { return e.Wrapped }
