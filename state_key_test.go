package bluffing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/bluffing"
	"github.com/timpalpant/bluffing/games/rps"
	"github.com/timpalpant/bluffing/games/spies"
)

func play(game bluffing.Game, state bluffing.GameState, moves ...bluffing.CombinedMove) bluffing.GameState {
	for _, cm := range moves {
		state = game.Next(state, cm)
	}

	return state
}

func TestKeyOf_SameHistorySameKey(t *testing.T) {
	game := rps.New()
	root := game.InitialStates()[0].State
	history := []bluffing.CombinedMove{
		{rps.ClaimRock, rps.Pass},
		{rps.Paper, rps.Pass},
	}

	a := play(game, root, history...)
	b := play(game, root, history...)
	assert.Equal(t, bluffing.KeyOf(a), bluffing.KeyOf(b))

	c := play(game, root, bluffing.CombinedMove{rps.ClaimRock, rps.Pass}, bluffing.CombinedMove{rps.Rock, rps.Pass})
	assert.NotEqual(t, bluffing.KeyOf(a), bluffing.KeyOf(c))
	assert.NotEqual(t, bluffing.KeyOf(root), bluffing.KeyOf(a))
}

func TestKeyOf_DistinguishesDeals(t *testing.T) {
	game := spies.New()
	cm := bluffing.CombinedMove{spies.ClaimRed, spies.Pass}
	red := game.Next(game.InitialStates()[spies.Red].State, cm)
	blue := game.Next(game.InitialStates()[spies.Blue].State, cm)
	assert.NotEqual(t, bluffing.KeyOf(red), bluffing.KeyOf(blue))
}

func TestTerminalDeterminism(t *testing.T) {
	game := rps.New()
	root := game.InitialStates()[0].State
	history := []bluffing.CombinedMove{
		{rps.ClaimScissors, rps.Pass},
		{rps.Paper, rps.Pass},
		{rps.Pass, rps.Rock},
	}

	a := play(game, root, history...)
	b := play(game, root, history...)
	require.True(t, a.IsTerminal())

	ua, err := a.Utilities()
	require.NoError(t, err)
	ub, err := b.Utilities()
	require.NoError(t, err)
	assert.Equal(t, ua, ub)
	assert.Equal(t, []float64{rps.Win, rps.Lose}, ua)
}

func TestUtilities_NotTerminal(t *testing.T) {
	game := rps.New()
	_, err := game.InitialStates()[0].State.Utilities()
	require.ErrorIs(t, err, bluffing.ErrNotTerminal)
}

func TestPath(t *testing.T) {
	game := spies.New()
	root := game.InitialStates()[spies.Blue].State
	state := play(game, root,
		bluffing.CombinedMove{spies.ClaimBlue, spies.Pass},
		bluffing.CombinedMove{spies.Pass, spies.CutBlue})

	path := bluffing.Path(game, state)
	require.Len(t, path, 3)
	for i, s := range path {
		assert.Equal(t, i, s.Turn())
	}
	assert.Equal(t, bluffing.KeyOf(state), bluffing.KeyOf(path[2]))
}
