package sweep

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// Scale selects how a parameter is sampled.
type Scale int

const (
	ScaleLinear Scale = iota
	ScaleLog
)

// ParamSpec bounds one search parameter.
type ParamSpec struct {
	Name  string
	Min   float64
	Max   float64
	Scale Scale
}

// Range is an inclusive acceptance interval on the objective.
type Range struct {
	Min float64
	Max float64
}

func (r Range) contains(x float64) bool { return r.Min <= x && x <= r.Max }

// Sample records one random draw and its objective value.
type Sample struct {
	Values    map[string]float64
	Objective float64
	OK        bool
}

// RandomSearch draws parameters uniformly (linear or log scale) and
// classifies each draw by whether the objective lands in Accept.
// Saved samples are capped at MaxKeep each way; the search itself
// keeps running once the slots fill.
type RandomSearch struct {
	Params   []ParamSpec
	Accept   Range
	MaxIters int64
	MaxKeep  int
	Seed     int64
}

// RandomResult summarizes a finished (or canceled) random search.
type RandomResult struct {
	OK     []Sample
	NG     []Sample
	Best   Sample
	Iters  int64
	OKHits int64
	NGHits int64
}

// OKRatio returns the fraction of accepted draws.
func (r *RandomResult) OKRatio() float64 {
	if r.Iters == 0 {
		return 0
	}
	return float64(r.OKHits) / float64(r.Iters)
}

// Run samples until MaxIters draws or cancellation. A canceled run
// returns the partial result together with the context error.
func (s *RandomSearch) Run(ctx context.Context, objective func(map[string]float64) (float64, error)) (*RandomResult, error) {
	seen := make(map[string]bool, len(s.Params))
	for _, p := range s.Params {
		if seen[p.Name] {
			return nil, fmt.Errorf("sweep: duplicate param name %q", p.Name)
		}
		seen[p.Name] = true
	}

	rng := rand.New(rand.NewSource(s.Seed))
	res := &RandomResult{
		OK:   make([]Sample, 0, s.MaxKeep),
		NG:   make([]Sample, 0, s.MaxKeep),
		Best: Sample{Objective: math.Inf(-1)},
	}

	for res.Iters < s.MaxIters {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		vals := make(map[string]float64, len(s.Params))
		for _, p := range s.Params {
			v, err := sampleOne(rng, p)
			if err != nil {
				return res, err
			}
			vals[p.Name] = v
		}

		y, err := objective(vals)
		if err != nil {
			return res, err
		}

		ok := !math.IsNaN(y) && !math.IsInf(y, 0) && s.Accept.contains(y)
		sample := Sample{Values: vals, Objective: y, OK: ok}

		if ok {
			res.OKHits++
			if s.MaxKeep > 0 && len(res.OK) < s.MaxKeep {
				res.OK = append(res.OK, sample)
			}
			if y > res.Best.Objective {
				res.Best = sample
			}
		} else {
			res.NGHits++
			if s.MaxKeep > 0 && len(res.NG) < s.MaxKeep {
				res.NG = append(res.NG, sample)
			}
		}

		res.Iters++
	}

	return res, nil
}

func sampleOne(rng *rand.Rand, p ParamSpec) (float64, error) {
	if p.Max < p.Min {
		return 0, fmt.Errorf("sweep: param %s: max < min", p.Name)
	}
	switch p.Scale {
	case ScaleLinear:
		return p.Min + rng.Float64()*(p.Max-p.Min), nil
	case ScaleLog:
		if p.Min <= 0 || p.Max <= 0 {
			return 0, fmt.Errorf("sweep: param %s: log sampling requires positive bounds (got min=%g max=%g)", p.Name, p.Min, p.Max)
		}
		lnMin, lnMax := math.Log(p.Min), math.Log(p.Max)
		return math.Exp(lnMin + rng.Float64()*(lnMax-lnMin)), nil
	default:
		return 0, fmt.Errorf("sweep: param %s: unknown scale %d", p.Name, p.Scale)
	}
}
