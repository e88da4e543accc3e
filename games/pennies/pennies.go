// Package pennies implements matching pennies as a two-turn game with
// hidden moves: player 0 picks a side, then player 1 picks a side
// without seeing it. The game is zero-sum.
package pennies

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/timpalpant/bluffing"
)

const (
	Heads bluffing.Move = iota
	Tails
	Pass
)

var moveStr = [...]string{
	"Heads",
	"Tails",
	"Pass",
}

const (
	dealID          = 1000
	perceptNothing  = 1100
	perceptGameOver = 1101
)

var (
	sides = []bluffing.Move{Heads, Tails}
	pass  = []bluffing.Move{Pass}
)

// Game implements bluffing.Game. Payoffs[i][j] is the utility of
// player 0 when it plays i and player 1 plays j.
type Game struct {
	payoffs [2][2]float64
	deal    *State
}

var _ bluffing.Game = &Game{}

func New(payoffs [2][2]float64) *Game {
	g := &Game{payoffs: payoffs}
	g.deal = &State{game: g, sides: [2]int{-1, -1}}
	return g
}

// Standard returns matching pennies in which player 0 wins on a match.
func Standard() *Game {
	return New([2][2]float64{{1, -1}, {-1, 1}})
}

func (g *Game) Name() string { return "pennies" }

func (g *Game) NumPlayers() int { return 2 }

func (g *Game) InitialStates() []bluffing.InitialState {
	return []bluffing.InitialState{{State: g.deal, Weight: 1, ID: dealID}}
}

func (g *Game) SpecialInitialStates() []bluffing.InitialState {
	return g.InitialStates()
}

func (g *Game) PerceivedInitialStates(bluffing.GameState, int) []bluffing.InitialState {
	return g.InitialStates()
}

func (g *Game) Root(bluffing.GameState) bluffing.GameState {
	return g.deal
}

func (g *Game) Next(state bluffing.GameState, cm bluffing.CombinedMove) bluffing.GameState {
	return state.(*State).apply(cm)
}

func (g *Game) Percepts(next bluffing.GameState, _ bluffing.CombinedMove) []bluffing.Percept {
	p := bluffing.Percept{
		ID:    perceptNothing,
		Holds: func(bluffing.GameState) bool { return true },
	}
	if next.IsTerminal() {
		p = bluffing.Percept{
			ID:    perceptGameOver,
			Holds: func(s bluffing.GameState) bool { return s.IsTerminal() },
		}
	}

	return []bluffing.Percept{p, p}
}

func (g *Game) IsClaim(bluffing.Move) (bluffing.Claim, bool) {
	return bluffing.Claim{}, false
}

func (g *Game) MoveString(m bluffing.Move) string {
	return moveStr[m]
}

// State implements bluffing.GameState.
type State struct {
	game    *Game
	history []bluffing.CombinedMove
	sides   [2]int
}

var _ bluffing.GameState = &State{}

func (s *State) apply(cm bluffing.CombinedMove) *State {
	if !s.IsMovePossible(cm) {
		panic(fmt.Errorf("illegal move %v at turn %d", cm, s.Turn()))
	}

	next := *s
	next.history = append(append([]bluffing.CombinedMove(nil), s.history...), cm)
	player := s.ActingPlayer()
	next.sides[player] = int(cm[player] - Heads)
	return &next
}

func (s *State) DealID() int { return dealID }

func (s *State) History() []bluffing.CombinedMove { return s.history }

func (s *State) Turn() int { return len(s.history) }

func (s *State) IsTerminal() bool { return s.Turn() >= 2 }

func (s *State) LegalMoves(player int) []bluffing.Move {
	if s.IsTerminal() {
		return nil
	} else if player == s.ActingPlayer() {
		return sides
	}

	return pass
}

func (s *State) ActingPlayer() int {
	if s.IsTerminal() {
		return bluffing.NoActingPlayer
	}

	return s.Turn()
}

func (s *State) Utilities() ([]float64, error) {
	if !s.IsTerminal() {
		return nil, errors.Wrapf(bluffing.ErrNotTerminal, "pennies turn %d", s.Turn())
	}

	u := s.game.payoffs[s.sides[0]][s.sides[1]]
	return []float64{u, -u}, nil
}

// Key reveals only the turn and the player's own side, since neither
// player sees the other's coin before deciding.
func (s *State) Key(player int) string {
	return fmt.Sprintf("t%d/s%d", s.Turn(), s.sides[player])
}

func (s *State) IsMovePossible(cm bluffing.CombinedMove) bool {
	return len(cm) == 2 &&
		lo.Contains(s.LegalMoves(0), cm[0]) &&
		lo.Contains(s.LegalMoves(1), cm[1])
}
