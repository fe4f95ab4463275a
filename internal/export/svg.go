package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bgoddard/lilypad/internal/sweep"
)

// Point is one sample of a 2D curve.
type Point struct {
	X, Y float64
}

// CurveSVG renders a polyline through the points, auto-scaled with 10%
// padding. Returns an empty string for fewer than two points.
func CurveSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// VoutCurve reduces sweep rows to the best vout per position, sorted
// by position, ready for CurveSVG or terminal plotting.
func VoutCurve(rows []sweep.Row) []Point {
	bestAt := make(map[float64]float64)
	for _, r := range rows {
		if v, ok := bestAt[r.Pos2]; !ok || r.Vout > v {
			bestAt[r.Pos2] = r.Vout
		}
	}

	points := make([]Point, 0, len(bestAt))
	for x, y := range bestAt {
		points = append(points, Point{X: x, Y: y})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].X < points[j].X })
	return points
}

// LayoutSVG draws the four-coil chain side-on: the x axis runs left to
// right, each coil is a vertical bar of height 2R at its position.
func LayoutSVG(gap, txRadius float64, best sweep.Row, width, height int) string {
	maxR := txRadius
	if best.Radius > maxR {
		maxR = best.Radius
	}

	margin := 0.05 * float64(width)
	scaleX := (float64(width) - 2*margin) / gap
	scaleY := (float64(height)/2 - margin) / maxR
	midY := float64(height) / 2

	bar := func(x, r float64, color string) string {
		px := margin + x*scaleX
		return fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="3"/>
`, px, midY-r*scaleY, px, midY+r*scaleY, color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333333" stroke-width="1"/>
`, width, height, width, height, margin, midY, float64(width)-margin, midY))

	sb.WriteString(bar(0, txRadius, "#00cccc"))
	sb.WriteString(bar(best.Pos2, best.Radius, "#00ff00"))
	sb.WriteString(bar(best.Pos3, best.Radius, "#00ff00"))
	sb.WriteString(bar(gap, txRadius, "#00cccc"))

	sb.WriteString("</svg>")
	return sb.String()
}
