package bluffing_test

import (
	"fmt"

	"github.com/timpalpant/bluffing"
)

// lockedGame is a one-turn game whose deals lock how high player 0 may
// play: in the deal locked at n only moves below n are possible, even
// though all of 0, 1 and 2 are legal.
type lockedGame struct {
	deals []bluffing.InitialState
}

func newLockedGame() *lockedGame {
	g := &lockedGame{}
	for lock := 0; lock < 3; lock++ {
		g.deals = append(g.deals, bluffing.InitialState{
			State:  &lockedState{lock: lock},
			Weight: 1,
			ID:     lock,
		})
	}

	return g
}

func (g *lockedGame) Name() string { return "locked" }

func (g *lockedGame) NumPlayers() int { return 2 }

func (g *lockedGame) InitialStates() []bluffing.InitialState { return g.deals }

func (g *lockedGame) SpecialInitialStates() []bluffing.InitialState { return g.deals }

func (g *lockedGame) PerceivedInitialStates(bluffing.GameState, int) []bluffing.InitialState {
	return g.deals
}

func (g *lockedGame) Root(state bluffing.GameState) bluffing.GameState {
	return g.deals[state.(*lockedState).lock].State
}

func (g *lockedGame) Next(state bluffing.GameState, cm bluffing.CombinedMove) bluffing.GameState {
	s := state.(*lockedState)
	return &lockedState{
		lock:    s.lock,
		history: append(append([]bluffing.CombinedMove(nil), s.history...), cm),
	}
}

func (g *lockedGame) Percepts(bluffing.GameState, bluffing.CombinedMove) []bluffing.Percept {
	anything := bluffing.Percept{Holds: func(bluffing.GameState) bool { return true }}
	return []bluffing.Percept{anything, anything}
}

func (g *lockedGame) IsClaim(bluffing.Move) (bluffing.Claim, bool) { return bluffing.Claim{}, false }

func (g *lockedGame) MoveString(m bluffing.Move) string { return fmt.Sprint(int(m)) }

type lockedState struct {
	lock    int
	history []bluffing.CombinedMove
}

func (s *lockedState) DealID() int { return s.lock }

func (s *lockedState) History() []bluffing.CombinedMove { return s.history }

func (s *lockedState) Turn() int { return len(s.history) }

func (s *lockedState) IsTerminal() bool { return s.Turn() > 0 }

func (s *lockedState) ActingPlayer() int { return 0 }

func (s *lockedState) LegalMoves(player int) []bluffing.Move {
	switch {
	case s.IsTerminal():
		return nil
	case player == 0:
		return []bluffing.Move{0, 1, 2}
	default:
		return []bluffing.Move{0}
	}
}

func (s *lockedState) Utilities() ([]float64, error) {
	if !s.IsTerminal() {
		return nil, bluffing.ErrNotTerminal
	}

	return []float64{float64(s.history[0][0]), 0}, nil
}

func (s *lockedState) Key(player int) string {
	return fmt.Sprintf("%d/%v", player, s.history)
}

func (s *lockedState) IsMovePossible(cm bluffing.CombinedMove) bool {
	return len(cm) == 2 && int(cm[0]) < s.lock && cm[1] == 0
}
