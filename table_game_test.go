package bluffing_test

import (
	"fmt"

	"github.com/timpalpant/bluffing"
)

// tableGame is a one-shot simultaneous game with one deal per payoff
// table. Player 0 picks a row and player 1 a column of the table.
type tableGame struct {
	deals []bluffing.InitialState
}

func newTableGame(tables ...[][][2]float64) *tableGame {
	g := &tableGame{}
	for id, table := range tables {
		g.deals = append(g.deals, bluffing.InitialState{
			State:  &tableState{id: id, table: table},
			Weight: 1,
			ID:     id,
		})
	}

	return g
}

func (g *tableGame) Name() string { return "table" }

func (g *tableGame) NumPlayers() int { return 2 }

func (g *tableGame) InitialStates() []bluffing.InitialState { return g.deals }

func (g *tableGame) SpecialInitialStates() []bluffing.InitialState { return g.deals }

func (g *tableGame) PerceivedInitialStates(bluffing.GameState, int) []bluffing.InitialState {
	return g.deals
}

func (g *tableGame) Root(state bluffing.GameState) bluffing.GameState {
	return g.deals[state.(*tableState).id].State
}

func (g *tableGame) Next(state bluffing.GameState, cm bluffing.CombinedMove) bluffing.GameState {
	s := *state.(*tableState)
	s.history = append(append([]bluffing.CombinedMove(nil), s.history...), cm)
	return &s
}

func (g *tableGame) Percepts(bluffing.GameState, bluffing.CombinedMove) []bluffing.Percept {
	anything := bluffing.Percept{Holds: func(bluffing.GameState) bool { return true }}
	return []bluffing.Percept{anything, anything}
}

func (g *tableGame) IsClaim(bluffing.Move) (bluffing.Claim, bool) { return bluffing.Claim{}, false }

func (g *tableGame) MoveString(m bluffing.Move) string { return fmt.Sprint(int(m)) }

type tableState struct {
	id      int
	table   [][][2]float64
	history []bluffing.CombinedMove
}

func (s *tableState) DealID() int { return s.id }

func (s *tableState) History() []bluffing.CombinedMove { return s.history }

func (s *tableState) Turn() int { return len(s.history) }

func (s *tableState) IsTerminal() bool { return s.Turn() > 0 }

func (s *tableState) ActingPlayer() int { return bluffing.NoActingPlayer }

func (s *tableState) LegalMoves(player int) []bluffing.Move {
	if s.IsTerminal() {
		return nil
	}

	n := len(s.table)
	if player == 1 {
		n = len(s.table[0])
	}

	moves := make([]bluffing.Move, n)
	for i := range moves {
		moves[i] = bluffing.Move(i)
	}

	return moves
}

func (s *tableState) Utilities() ([]float64, error) {
	if !s.IsTerminal() {
		return nil, bluffing.ErrNotTerminal
	}

	u := s.table[s.history[0][0]][s.history[0][1]]
	return u[:], nil
}

func (s *tableState) Key(player int) string {
	return fmt.Sprintf("%d/%d/%v", s.id, player, s.history)
}

func (s *tableState) IsMovePossible(cm bluffing.CombinedMove) bool {
	return len(cm) == 2 &&
		int(cm[0]) >= 0 && int(cm[0]) < len(s.table) &&
		int(cm[1]) >= 0 && int(cm[1]) < len(s.table[0])
}
