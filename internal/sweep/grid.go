package sweep

import (
	"context"
	"math"
)

// GridSearch exhaustively evaluates the cross product of named
// parameter ranges, keeping the parameter set that maximizes the
// objective. Evaluation failures skip the cell rather than abort.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search walks the grid and returns the best parameters and objective.
func (g *GridSearch) Search(
	ctx context.Context,
	objective func(params map[string]float64) (float64, error),
) (map[string]float64, float64, error) {

	best := math.Inf(-1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), objective, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective func(map[string]float64) (float64, error),
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.paramNames) {
		val, err := objective(current)
		if err != nil {
			return
		}
		if val > *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, objective, best, bestParams)
	}
}
