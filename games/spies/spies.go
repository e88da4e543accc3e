// Package spies implements a cooperative game of defusing a bomb.
//
// The colour of the wire to cut is dealt face up to player 0 only.
// Player 0 tells player 1 a colour, then player 1 cuts a wire. Both
// players win 100 if the right wire is cut, and nothing otherwise.
package spies

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/timpalpant/bluffing"
)

const (
	ClaimRed bluffing.Move = iota
	ClaimBlue
	Pass
	CutRed
	CutBlue
)

var moveStr = [...]string{
	"ClaimRed",
	"ClaimBlue",
	"Pass",
	"CutRed",
	"CutBlue",
}

// Wire colours.
const (
	Red = iota
	Blue
)

const Defused = 100.0

const (
	dealIDBase       = 400
	claimIDBase      = 600
	perceptNothing   = 500
	perceptGameOver  = 501
	perceptClaimBase = 510
	numTurns         = 2
)

var (
	claims = []bluffing.Move{ClaimRed, ClaimBlue}
	cuts   = []bluffing.Move{CutRed, CutBlue}
	pass   = []bluffing.Move{Pass}
)

// Game implements bluffing.Game.
type Game struct {
	deals []bluffing.InitialState
}

var _ bluffing.Game = &Game{}

func New() *Game {
	deals := make([]bluffing.InitialState, 2)
	for wire := Red; wire <= Blue; wire++ {
		deals[wire] = bluffing.InitialState{
			State:  &State{wire: wire, claim: -1, cut: -1},
			Weight: 1,
			ID:     dealIDBase + wire,
		}
	}

	return &Game{deals: deals}
}

func (g *Game) Name() string { return "spies" }

func (g *Game) NumPlayers() int { return 2 }

func (g *Game) InitialStates() []bluffing.InitialState {
	return g.deals
}

func (g *Game) SpecialInitialStates() []bluffing.InitialState {
	return g.deals
}

// PerceivedInitialStates returns the actual deal to player 0, who sees
// the wire, and every deal to player 1.
func (g *Game) PerceivedInitialStates(actual bluffing.GameState, player int) []bluffing.InitialState {
	if player == 0 {
		return g.deals[actual.(*State).wire : actual.(*State).wire+1]
	}

	return g.deals
}

func (g *Game) Root(state bluffing.GameState) bluffing.GameState {
	return g.deals[state.(*State).wire].State
}

func (g *Game) Next(state bluffing.GameState, cm bluffing.CombinedMove) bluffing.GameState {
	return state.(*State).apply(cm)
}

func (g *Game) Percepts(next bluffing.GameState, cm bluffing.CombinedMove) []bluffing.Percept {
	if next.IsTerminal() {
		gameOver := bluffing.Percept{
			ID:    perceptGameOver,
			Holds: func(s bluffing.GameState) bool { return s.IsTerminal() },
		}
		return []bluffing.Percept{gameOver, gameOver}
	}

	m := cm[0]
	return []bluffing.Percept{
		{
			ID:    perceptNothing,
			Holds: func(bluffing.GameState) bool { return true },
		},
		{
			ID:    perceptClaimBase + int(m-ClaimRed),
			Holds: func(s bluffing.GameState) bool { return s.History()[0][0] == m },
		},
	}
}

func (g *Game) IsClaim(m bluffing.Move) (bluffing.Claim, bool) {
	if m != ClaimRed && m != ClaimBlue {
		return bluffing.Claim{}, false
	}

	wire := int(m - ClaimRed)
	return bluffing.Claim{
		ID:        claimIDBase + wire,
		Receivers: []int{1},
		Subject: func(s bluffing.GameState) (bool, bool) {
			return true, s.(*State).wire == wire
		},
	}, true
}

func (g *Game) MoveString(m bluffing.Move) string {
	return moveStr[m]
}

// State implements bluffing.GameState.
type State struct {
	wire    int
	history []bluffing.CombinedMove
	claim   int
	cut     int
}

var _ bluffing.GameState = &State{}

func (s *State) apply(cm bluffing.CombinedMove) *State {
	if !s.IsMovePossible(cm) {
		panic(fmt.Errorf("illegal move %v at turn %d", cm, s.Turn()))
	}

	next := *s
	next.history = append(append([]bluffing.CombinedMove(nil), s.history...), cm)
	switch s.Turn() {
	case 0:
		next.claim = int(cm[0] - ClaimRed)
	case 1:
		next.cut = int(cm[1] - CutRed)
	}

	return &next
}

// Wire returns the colour of the wire that must be cut.
func (s *State) Wire() int { return s.wire }

// Cut returns the colour of the wire player 1 cut, or -1.
func (s *State) Cut() int { return s.cut }

func (s *State) DealID() int { return dealIDBase + s.wire }

func (s *State) History() []bluffing.CombinedMove { return s.history }

func (s *State) Turn() int { return len(s.history) }

func (s *State) IsTerminal() bool { return s.Turn() >= numTurns }

func (s *State) LegalMoves(player int) []bluffing.Move {
	switch {
	case s.Turn() == 0 && player == 0:
		return claims
	case s.Turn() == 1 && player == 1:
		return cuts
	case s.IsTerminal():
		return nil
	default:
		return pass
	}
}

func (s *State) ActingPlayer() int {
	if s.IsTerminal() {
		return bluffing.NoActingPlayer
	}

	return s.Turn()
}

func (s *State) Utilities() ([]float64, error) {
	if !s.IsTerminal() {
		return nil, errors.Wrapf(bluffing.ErrNotTerminal, "spies turn %d", s.Turn())
	}

	if s.cut == s.wire {
		return []float64{Defused, Defused}, nil
	}

	return []float64{0, 0}, nil
}

func (s *State) Key(player int) string {
	if player == 0 {
		return fmt.Sprintf("t%d/w%d/c%d", s.Turn(), s.wire, s.claim)
	}

	return fmt.Sprintf("t%d/c%d/x%d", s.Turn(), s.claim, s.cut)
}

func (s *State) IsMovePossible(cm bluffing.CombinedMove) bool {
	return len(cm) == 2 &&
		lo.Contains(s.LegalMoves(0), cm[0]) &&
		lo.Contains(s.LegalMoves(1), cm[1])
}
