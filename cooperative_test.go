package bluffing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/bluffing"
	"github.com/timpalpant/bluffing/games/rps"
	"github.com/timpalpant/bluffing/games/sexes"
	"github.com/timpalpant/bluffing/games/spies"
)

func TestIsCooperative(t *testing.T) {
	testCases := []struct {
		name     string
		game     bluffing.Game
		player   int
		moves    []bluffing.CombinedMove
		expected bool
	}{
		{"spies/sender", spies.New(), 0, nil, true},
		{"spies/receiver", spies.New(), 1, []bluffing.CombinedMove{{spies.ClaimRed, spies.Pass}}, true},
		{"sexes/announcer", sexes.New(), 0, nil, true},
		{"sexes/listener", sexes.New(), 1, []bluffing.CombinedMove{
			{sexes.AnnounceTheatre, sexes.Pass},
			{sexes.Theatre, sexes.Pass},
		}, true},
		{"rps/claimant", rps.New(), 0, nil, false},
		{"rps/responder", rps.New(), 1, []bluffing.CombinedMove{{rps.ClaimRock, rps.Pass}}, false},
		{"rps/after throw", rps.New(), 0, []bluffing.CombinedMove{
			{rps.ClaimRock, rps.Pass},
			{rps.Paper, rps.Pass},
		}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var states []bluffing.GameState
			for _, is := range tc.game.InitialStates() {
				states = append(states, play(tc.game, is.State, tc.moves...))
			}

			bs, err := bluffing.BeliefsAt(tc.game, states[0], tc.player)
			require.NoError(t, err)
			cooperative, err := bluffing.IsCooperative(tc.game, bs, tc.player)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cooperative)
		})
	}
}

func TestIsCooperative_IsDeterministic(t *testing.T) {
	game := spies.New()
	bs := bluffing.NewBeliefState(game.InitialStates())
	for i := 0; i < 3; i++ {
		cooperative, err := bluffing.IsCooperative(game, bs, 1)
		require.NoError(t, err)
		assert.True(t, cooperative)
	}
}

func TestIsCooperative_PivotIsPerState(t *testing.T) {
	// Player 1 has no choice in the first table, so the detector pivots
	// to player 0 there. In the second table, fixing player 0's row
	// leaves aligned outcomes for player 1, but fixing player 1's column
	// does not, so the answer depends on measuring player 1 again.
	solo := [][][2]float64{
		{{0, 0}},
		{{1, 1}},
	}
	joint := [][][2]float64{
		{{0, 0}, {1, 1}},
		{{1, 0}, {2, 1}},
	}
	game := newTableGame(solo, joint)
	deals := game.InitialStates()

	for _, order := range [][]bluffing.InitialState{
		{deals[0], deals[1]},
		{deals[1], deals[0]},
	} {
		cooperative, err := bluffing.IsCooperative(game, bluffing.NewBeliefState(order), 1)
		require.NoError(t, err)
		assert.True(t, cooperative)
	}

	// Measured from player 0, the second table trades one side's gain
	// against the other's.
	cooperative, err := bluffing.IsCooperative(game, bluffing.NewBeliefState(deals[1:]), 0)
	require.NoError(t, err)
	assert.False(t, cooperative)
}
