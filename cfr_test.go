package bluffing_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/bluffing"
	"github.com/timpalpant/bluffing/games/pennies"
	"github.com/timpalpant/bluffing/games/rps"
)

func TestTrainer_MatchingPennies(t *testing.T) {
	testCases := []struct {
		name  string
		game  *pennies.Game
		heads float64
	}{
		{"standard", pennies.Standard(), 0.5},
		// Player 0 is indifferent iff 2q - (1-q) = -q + (1-q), i.e. q = 0.4,
		// and likewise for player 1.
		{"asymmetric", pennies.New([2][2]float64{{2, -1}, {-1, 1}}), 0.4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trainer := bluffing.NewTrainer(tc.game, bluffing.NewInfoSetStore())
			_, err := trainer.Run(50000)
			require.NoError(t, err)
			assert.Equal(t, 50000, trainer.Iterations())
			assert.Equal(t, 2, trainer.InfoSets().Len())

			for _, key := range trainer.InfoSets().Keys() {
				is, err := trainer.InfoSets().Lookup(key)
				require.NoError(t, err)
				avg := is.AverageStrategy()
				assert.InDelta(t, tc.heads, avg[0], 0.03, "info set %s: %v", key, avg)
				assert.InDelta(t, 1.0, avg[0]+avg[1], 1e-9)
			}
		})
	}
}

func TestTrainer_ExpectedValueOfFairGame(t *testing.T) {
	trainer := bluffing.NewTrainer(pennies.Standard(), bluffing.NewInfoSetStore())
	ev, err := trainer.Run(100)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, ev[0], 1e-9)
	assert.InDelta(t, 0.0, ev[0]+ev[1], 1e-9)
}

func TestTrainer_BestMoves(t *testing.T) {
	// Heads dominates for player 0 and tails for player 1.
	game := pennies.New([2][2]float64{{2, 1}, {1, 0}})
	trainer := bluffing.NewTrainer(game, bluffing.NewInfoSetStore())
	_, err := trainer.Run(100)
	require.NoError(t, err)

	root := game.InitialStates()[0].State
	best, err := trainer.BestMoves(root, 0)
	require.NoError(t, err)
	assert.Equal(t, []bluffing.Move{pennies.Heads}, best)

	state := play(game, root, bluffing.CombinedMove{pennies.Heads, pennies.Pass})
	best, err = trainer.BestMoves(state, 1)
	require.NoError(t, err)
	assert.Equal(t, []bluffing.Move{pennies.Tails}, best)
}

func TestTrainer_InfoSetsHideUnseenMoves(t *testing.T) {
	trainer := bluffing.NewTrainer(rps.New(), bluffing.NewInfoSetStore())
	_, err := trainer.Run(1)
	require.NoError(t, err)

	// One claim decision, a throw after each of three claims, and a
	// response to each claim that cannot tell player 0's throws apart.
	assert.Equal(t, 7, trainer.InfoSets().Len())
	assert.Contains(t, trainer.InfoSets().Keys(), "t2/c1/s-1")
}

func TestTrainer_UnknownInfoSet(t *testing.T) {
	game := rps.New()
	trainer := bluffing.NewTrainer(game, bluffing.NewInfoSetStore())
	_, err := trainer.BestMoves(game.InitialStates()[0].State, 0)
	require.ErrorIs(t, err, bluffing.ErrUnknownInfoSet)
}

func TestCFRPlayer(t *testing.T) {
	game := pennies.Standard()
	rng := rand.New(rand.NewSource(7))
	trainer := bluffing.NewTrainer(game, bluffing.NewInfoSetStore())
	players := []bluffing.Player{
		bluffing.NewCFRPlayer(trainer, 1000, rng),
		bluffing.NewCFRPlayer(trainer, 1000, rng),
	}

	result, err := bluffing.Battle(game, players, 200, rng)
	require.NoError(t, err)
	assert.Equal(t, 1000, trainer.Iterations())
	assert.Equal(t, 200, result.Runs())
}

func BenchmarkTrainer_Iterate(b *testing.B) {
	trainer := bluffing.NewTrainer(rps.New(), bluffing.NewInfoSetStore())
	for i := 0; i < b.N; i++ {
		if _, err := trainer.Iterate(); err != nil {
			b.Fatal(err)
		}
	}
}
