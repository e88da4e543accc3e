// Package matrixgame solves the zero-sum metagame between strategies,
// given the payoff of each pairing.
package matrixgame

import (
	"math"
	"math/rand"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// FictitiousPlay approximates a Nash equilibrium of the zero-sum matrix
// game in which payoffs[i][j] is won by the row player from the column
// player when row strategy i meets column strategy j. With probability
// mixingLambda each side plays a uniformly random strategy instead of
// its best response.
//
// It returns the empirical frequency of each strategy of both players.
func FictitiousPlay(payoffs [][]float64, nIter int, mixingLambda float64, rng *rand.Rand) ([]float64, []float64, error) {
	if len(payoffs) == 0 || len(payoffs[0]) == 0 {
		return nil, nil, errors.New("empty payoff matrix")
	}

	for i, row := range payoffs {
		if len(row) != len(payoffs[0]) {
			return nil, nil, errors.Errorf("row %d has %d entries, expected %d", i, len(row), len(payoffs[0]))
		}
	}

	rowCounts := make([]float64, len(payoffs))
	colCounts := make([]float64, len(payoffs[0]))
	for i := 1; i <= nIter; i++ {
		var rowSelected int
		if rng.Float64() < mixingLambda {
			rowSelected = rng.Intn(len(rowCounts))
		} else {
			rowSelected = rowBestResponse(payoffs, colCounts, rng)
		}

		var colSelected int
		if rng.Float64() < mixingLambda {
			colSelected = rng.Intn(len(colCounts))
		} else {
			colSelected = colBestResponse(payoffs, rowCounts, rng)
		}

		rowCounts[rowSelected]++
		colCounts[colSelected]++

		if nIter >= 10 && i%(nIter/10) == 0 {
			glog.Infof("After %d iterations, row weights: %v", i, normalize(rowCounts))
			glog.Infof("After %d iterations, column weights: %v", i, normalize(colCounts))
		}
	}

	return normalize(rowCounts), normalize(colCounts), nil
}

func rowBestResponse(payoffs [][]float64, colCounts []float64, rng *rand.Rand) int {
	utilities := make([]float64, len(payoffs))
	for i, row := range payoffs {
		utilities[i] = floats.Dot(row, colCounts)
	}

	return argMax(utilities, rng)
}

func colBestResponse(payoffs [][]float64, rowCounts []float64, rng *rand.Rand) int {
	utilities := make([]float64, len(payoffs[0]))
	for i, c := range rowCounts {
		floats.AddScaled(utilities, -c, payoffs[i])
	}

	return argMax(utilities, rng)
}

func normalize(counts []float64) []float64 {
	result := append([]float64(nil), counts...)
	if total := floats.Sum(result); total > 0 {
		floats.Scale(1/total, result)
	}

	return result
}

// argMax returns the index of the largest value, breaking ties uniformly
// at random.
func argMax(vs []float64, rng *rand.Rand) int {
	best := math.Inf(-1)
	bestIdx := 0
	nTied := 0
	for i, v := range vs {
		if v > best {
			best = v
			bestIdx = i
			nTied = 1
		} else if v == best {
			nTied++
			if rng.Intn(nTied) == 0 {
				bestIdx = i
			}
		}
	}

	return bestIdx
}
