package geom

import (
	"fmt"
	"math"
)

// Plane names the coordinate plane a circular coil lies in.
type Plane string

const (
	PlaneXY Plane = "xy"
	PlaneXZ Plane = "xz"
	PlaneYZ Plane = "yz"
)

// Segment is a straight piece of wire between two vertices.
type Segment struct {
	A, B Vec3
}

func (s Segment) Length() float64 { return s.B.Sub(s.A).Norm() }

// Coil is a single-turn conductive loop, approximated as a closed
// polyline of Points vertices on a circle of Radius around Center.
// Current is the drive current phasor in amperes.
type Coil struct {
	Center  Vec3
	Radius  float64
	Points  int
	Plane   Plane
	Current complex128

	verts []Vec3
}

// NewCoil builds a coil in the given plane. A coaxial transfer chain
// along the x axis uses PlaneYZ coils, which is the default elsewhere.
func NewCoil(center Vec3, radius float64, points int, plane Plane) (*Coil, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("geom: radius must be positive, got %g", radius)
	}
	if points < 3 {
		return nil, fmt.Errorf("geom: need at least 3 points to close a loop, got %d", points)
	}
	switch plane {
	case PlaneXY, PlaneXZ, PlaneYZ:
	case "":
		plane = PlaneYZ
	default:
		return nil, fmt.Errorf("geom: unknown plane %q", plane)
	}

	c := &Coil{
		Center:  center,
		Radius:  radius,
		Points:  points,
		Plane:   plane,
		Current: complex(1, 0),
	}
	c.build()
	return c, nil
}

// build parameterizes the loop so the first and last vertex coincide,
// giving Points-1 straight segments.
func (c *Coil) build() {
	c.verts = make([]Vec3, c.Points)
	for i := 0; i < c.Points; i++ {
		t := 2 * math.Pi * float64(i) / float64(c.Points-1)
		s, co := c.Radius*math.Sin(t), c.Radius*math.Cos(t)
		switch c.Plane {
		case PlaneXY:
			c.verts[i] = Vec3{c.Center.X + s, c.Center.Y + co, c.Center.Z}
		case PlaneXZ:
			c.verts[i] = Vec3{c.Center.X + s, c.Center.Y, c.Center.Z + co}
		default: // yz
			c.verts[i] = Vec3{c.Center.X, c.Center.Y + s, c.Center.Z + co}
		}
	}
	c.verts[c.Points-1] = c.verts[0]
}

// Vertices returns the closed polyline of the loop.
func (c *Coil) Vertices() []Vec3 { return c.verts }

// Segments returns the consecutive wire segments of the loop.
func (c *Coil) Segments() []Segment {
	segs := make([]Segment, len(c.verts)-1)
	for i := range segs {
		segs[i] = Segment{A: c.verts[i], B: c.verts[i+1]}
	}
	return segs
}

// RadialDirection returns the in-plane unit vector along which the
// loop is parameterized at t=0. Flux integration samples the field
// along this radius.
func (c *Coil) RadialDirection() Vec3 {
	switch c.Plane {
	case PlaneXY:
		return Vec3{Y: 1}
	case PlaneXZ:
		return Vec3{Z: 1}
	default:
		return Vec3{Z: 1}
	}
}

// RadialLine returns n sample points from the center out to the wire,
// together with their radii. Used as the integration support for flux.
func (c *Coil) RadialLine(n int) ([]Vec3, []float64) {
	radii := Linspace(0, c.Radius, n)
	dir := c.RadialDirection()
	pts := make([]Vec3, n)
	for i, r := range radii {
		pts[i] = c.Center.Add(dir.Scale(r))
	}
	return pts, radii
}

// Discretize splits a segment into sub-segments no longer than dL and
// returns the chain of points including both endpoints. A remainder
// shorter than dL is kept as a final piece; a segment already shorter
// than dL is returned whole.
func Discretize(seg Segment, dL float64) ([]Vec3, error) {
	if dL <= 0 {
		return nil, fmt.Errorf("geom: dL must be positive, got %g", dL)
	}
	u := seg.B.Sub(seg.A)
	length := u.Norm()
	if length == 0 {
		return nil, fmt.Errorf("geom: zero-length segment")
	}
	if length <= dL {
		return []Vec3{seg.A, seg.B}, nil
	}

	n := int(math.Floor(length / dL))
	step := u.Scale(dL / length)

	chain := make([]Vec3, 0, n+2)
	chain = append(chain, seg.A)
	for i := 1; i <= n; i++ {
		chain = append(chain, seg.A.Add(step.Scale(float64(i))))
	}
	if float64(n) != length/dL {
		chain = append(chain, seg.B)
	}
	return chain, nil
}
