package bluffing

import (
	"github.com/pkg/errors"
)

// IsCooperative reports whether the situation described by beliefs is
// cooperative for player: in every believed state, for every action of
// the opponent, no response of the player trades one side's utility
// against the other's. A single counter-example makes it adversarial.
//
// The result is never cached, since it depends on the full expansion
// of each believed sub-tree.
func IsCooperative(game Game, beliefs *BeliefState, player int) (bool, error) {
	if game.NumPlayers() != 2 {
		return false, errors.Errorf("cooperative detection requires 2 players, got %d", game.NumPlayers())
	}

	for _, b := range beliefs.Beliefs() {
		ok, err := isCooperativeState(game, b.State, player)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func isCooperativeState(game Game, state GameState, player int) (bool, error) {
	us, them := player, 1-player
	ourMoves := state.LegalMoves(us)
	if len(ourMoves) == 1 {
		// Pivot on the side that actually has a choice to make. The pivot
		// holds for this state only: every believed state starts again
		// from player, so the answer does not depend on belief order.
		us, them = them, us
		ourMoves = state.LegalMoves(us)
	}

	theirMoves := state.LegalMoves(them)
	if len(ourMoves) == 0 || len(theirMoves) == 0 {
		return false, errors.Wrapf(ErrNoLegalMoves, "turn %d", state.Turn())
	}

	for _, theirMove := range theirMoves {
		var outcomes [][]float64
		for _, ourMove := range ourMoves {
			cm := make(CombinedMove, 2)
			cm[us] = ourMove
			cm[them] = theirMove
			if !state.IsMovePossible(cm) {
				continue
			}

			next := game.Next(state, cm)
			if !next.IsTerminal() {
				ok, err := isCooperativeState(game, next, us)
				if err != nil || !ok {
					return false, err
				}

				continue
			}

			u, err := next.Utilities()
			if err != nil {
				return false, err
			}
			outcomes = append(outcomes, u)
		}

		if !aligned(outcomes, us, them) {
			return false, nil
		}
	}

	return true, nil
}

// aligned reports whether every pair of outcomes moves both players'
// utilities strictly in the same direction.
func aligned(outcomes [][]float64, us, them int) bool {
	for i := 0; i < len(outcomes); i++ {
		for j := i + 1; j < len(outcomes); j++ {
			a, b := outcomes[i], outcomes[j]
			bothUp := a[us] < b[us] && a[them] < b[them]
			bothDown := a[us] > b[us] && a[them] > b[them]
			if !bothUp && !bothDown {
				return false
			}
		}
	}

	return true
}
