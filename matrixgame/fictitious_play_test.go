package matrixgame

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFictitiousPlay_RockPaperScissors(t *testing.T) {
	payoffs := [][]float64{
		{0, -1, 1}, // Row plays rock.
		{1, 0, -1}, // Row plays paper.
		{-1, 1, 0}, // Row plays scissors.
	}

	rng := rand.New(rand.NewSource(1))
	p0, p1, err := FictitiousPlay(payoffs, 30000, 0, rng)
	require.NoError(t, err)
	t.Logf("Row equilibrium policy: %v", p0)
	t.Logf("Column equilibrium policy: %v", p1)
	for i := range p0 {
		assert.InDelta(t, 1.0/3, p0[i], 0.1)
		assert.InDelta(t, 1.0/3, p1[i], 0.1)
	}
}

func TestFictitiousPlay_DominantStrategy(t *testing.T) {
	// Lying dominates telling the truth against a trusting opponent.
	payoffs := [][]float64{
		{0, 1},
		{2, 3},
	}

	rng := rand.New(rand.NewSource(2))
	p0, p1, err := FictitiousPlay(payoffs, 1000, 0, rng)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p0[1], 0.01)
	assert.InDelta(t, 1.0, p1[0], 0.01)
}

func TestFictitiousPlay_InvalidMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	_, _, err := FictitiousPlay(nil, 10, 0, rng)
	assert.Error(t, err)

	_, _, err = FictitiousPlay([][]float64{{1, 2}, {3}}, 10, 0, rng)
	assert.Error(t, err)
}

func TestArgMax(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	assert.Equal(t, 2, argMax([]float64{1, 2, 5, 3}, rng))

	seen := make(map[int]bool)
	for i := 0; i < 100; i++ {
		seen[argMax([]float64{1, 4, 4}, rng)] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, seen)
}
