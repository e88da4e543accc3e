package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, name := range Names() {
		game, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, game.Name())
		assert.NotEmpty(t, game.InitialStates())
		assert.NotEmpty(t, game.SpecialInitialStates())
	}

	_, err := New("chess")
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"cluedo", "pennies", "rps", "sexes", "spies"}, Names())
}
