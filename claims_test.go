package bluffing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/timpalpant/bluffing"
	"github.com/timpalpant/bluffing/games/rps"
	"github.com/timpalpant/bluffing/games/sexes"
	"github.com/timpalpant/bluffing/games/spies"
)

// visitAll calls f on every state reachable from the initial states of game.
func visitAll(game bluffing.Game, f func(bluffing.GameState)) {
	var visit func(s bluffing.GameState)
	visit = func(s bluffing.GameState) {
		f(s)
		if s.IsTerminal() {
			return
		}

		for _, m0 := range s.LegalMoves(0) {
			for _, m1 := range s.LegalMoves(1) {
				cm := bluffing.CombinedMove{m0, m1}
				if s.IsMovePossible(cm) {
					visit(game.Next(s, cm))
				}
			}
		}
	}

	for _, is := range game.InitialStates() {
		visit(is.State)
	}
}

func allMoves(game bluffing.Game) []bluffing.Move {
	seen := make(map[bluffing.Move]bool)
	var result []bluffing.Move
	visitAll(game, func(s bluffing.GameState) {
		for p := 0; p < game.NumPlayers(); p++ {
			for _, m := range s.LegalMoves(p) {
				if !seen[m] {
					seen[m] = true
					result = append(result, m)
				}
			}
		}
	})

	return result
}

func TestClaimDuality(t *testing.T) {
	for _, game := range []bluffing.Game{rps.New(), spies.New(), sexes.New()} {
		nClaims := 0
		for _, m := range allMoves(game) {
			claim, ok := game.IsClaim(m)
			if !ok {
				continue
			}

			nClaims++
			honest, lie := claim.Honest(), claim.Lie()
			visitAll(game, func(s bluffing.GameState) {
				settled, _ := claim.Subject(s)
				if !settled {
					assert.True(t, honest(s) && lie(s),
						"%s: unsettled claim %d should not constrain", game.Name(), claim.ID)
					return
				}

				assert.False(t, honest(s) && lie(s),
					"%s: claim %d and its lie both hold at %v", game.Name(), claim.ID, s.History())
				assert.True(t, honest(s) || lie(s),
					"%s: neither claim %d nor its lie hold at %v", game.Name(), claim.ID, s.History())
			})
		}

		assert.Greater(t, nClaims, 0, game.Name())
	}
}

func TestClaimIDsAreDistinct(t *testing.T) {
	ids := make(map[int]string)
	for _, game := range []bluffing.Game{rps.New(), spies.New(), sexes.New()} {
		for _, m := range allMoves(game) {
			if claim, ok := game.IsClaim(m); ok {
				other, dup := ids[claim.ID]
				assert.False(t, dup, "claim id %d used by %s and %s", claim.ID, other, game.Name())
				ids[claim.ID] = game.Name()
			}
		}
	}
}

func TestStance_Reading(t *testing.T) {
	game := spies.New()
	blue := game.InitialStates()[spies.Blue].State
	claim, ok := game.IsClaim(spies.ClaimBlue)
	assert.True(t, ok)
	assert.True(t, bluffing.Honest.Reading(claim)(blue))
	assert.False(t, bluffing.Deceptive.Reading(claim)(blue))
	assert.Equal(t, "Deceptive", bluffing.Deceptive.String())
}

func TestClaimLedger(t *testing.T) {
	var ledger bluffing.ClaimLedger
	yes := func(bluffing.GameState) bool { return true }
	no := func(bluffing.GameState) bool { return false }

	ledger.Send(yes)
	ledger.Receive(yes)
	ledger.Receive(no)
	assert.Len(t, ledger.Sent(), 1)
	assert.Len(t, ledger.Received(), 2)

	state := rps.New().InitialStates()[0].State
	assert.True(t, bluffing.AllHold(ledger.Sent(), state))
	assert.False(t, bluffing.AllHold(ledger.Received(), state))
	assert.True(t, bluffing.AllHold(nil, state))

	ledger.Reset()
	assert.Empty(t, ledger.Sent())
	assert.Empty(t, ledger.Received())
}
