package inductance

import "fmt"

// Simpson integrates uniformly spaced samples y with spacing h using
// the composite Simpson rule. An odd interval count is handled by
// integrating the final interval with the trapezoid rule.
func Simpson(y []float64, h float64) (float64, error) {
	if len(y) < 2 {
		return 0, fmt.Errorf("inductance: need at least 2 samples, got %d", len(y))
	}
	if h <= 0 {
		return 0, fmt.Errorf("inductance: sample spacing must be positive, got %g", h)
	}

	n := len(y) - 1 // interval count
	total := 0.0

	if n%2 == 1 {
		total += h * (y[n-1] + y[n]) / 2
		n--
	}
	if n == 0 {
		return total, nil
	}

	sum := y[0] + y[n]
	for i := 1; i < n; i += 2 {
		sum += 4 * y[i]
	}
	for i := 2; i < n; i += 2 {
		sum += 2 * y[i]
	}
	total += h * sum / 3

	return total, nil
}
