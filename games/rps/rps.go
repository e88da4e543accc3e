// Package rps implements rock-paper-scissors with an announcement.
//
// Player 0 first claims the throw it is going to make. Player 0 then
// throws, and finally player 1 throws without seeing player 0's throw.
// Player 1 only learns the announcement, so a false claim can mislead
// it. A win is worth 100, a loss or tie 0.
package rps

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/timpalpant/bluffing"
)

const (
	ClaimRock bluffing.Move = iota
	ClaimPaper
	ClaimScissors
	Pass
	Rock
	Paper
	Scissors
)

var moveStr = [...]string{
	"ClaimRock",
	"ClaimPaper",
	"ClaimScissors",
	"Pass",
	"Rock",
	"Paper",
	"Scissors",
}

const (
	Win  = 100.0
	Lose = 0.0
	Tie  = 0.0
)

const (
	dealID             = 300
	claimIDBase        = 100
	perceptNothing     = 200
	perceptGameOver    = 201
	perceptNotGameOver = 202
	perceptClaimBase   = 210
	numTurns           = 3
)

var (
	claims = []bluffing.Move{ClaimRock, ClaimPaper, ClaimScissors}
	throws = []bluffing.Move{Rock, Paper, Scissors}
	pass   = []bluffing.Move{Pass}
)

// Beats returns the throw (0 rock, 1 paper, 2 scissors) that beats t.
func Beats(t int) int {
	return (t + 1) % 3
}

// Game implements bluffing.Game.
type Game struct {
	deal *State
}

var _ bluffing.Game = &Game{}

func New() *Game {
	return &Game{deal: newState()}
}

func (g *Game) Name() string { return "rps" }

func (g *Game) NumPlayers() int { return 2 }

func (g *Game) InitialStates() []bluffing.InitialState {
	return []bluffing.InitialState{{State: g.deal, Weight: 1, ID: dealID}}
}

func (g *Game) SpecialInitialStates() []bluffing.InitialState {
	return g.InitialStates()
}

func (g *Game) PerceivedInitialStates(actual bluffing.GameState, player int) []bluffing.InitialState {
	return g.InitialStates()
}

func (g *Game) Root(state bluffing.GameState) bluffing.GameState {
	return g.deal
}

func (g *Game) Next(state bluffing.GameState, cm bluffing.CombinedMove) bluffing.GameState {
	return state.(*State).apply(cm)
}

// Percepts reveals the announcement to player 1. Throws are never
// observed; both players only learn whether the game is over.
func (g *Game) Percepts(next bluffing.GameState, cm bluffing.CombinedMove) []bluffing.Percept {
	if next.Turn() == 1 {
		m := cm[0]
		return []bluffing.Percept{
			nothing(),
			{
				ID:    perceptClaimBase + int(m-ClaimRock),
				Holds: func(s bluffing.GameState) bool { return s.History()[0][0] == m },
			},
		}
	}

	terminal := next.IsTerminal()
	status := bluffing.Percept{
		ID:    lo.Ternary(terminal, perceptGameOver, perceptNotGameOver),
		Holds: func(s bluffing.GameState) bool { return s.IsTerminal() == terminal },
	}
	return []bluffing.Percept{status, status}
}

func nothing() bluffing.Percept {
	return bluffing.Percept{
		ID:    perceptNothing,
		Holds: func(bluffing.GameState) bool { return true },
	}
}

func (g *Game) IsClaim(m bluffing.Move) (bluffing.Claim, bool) {
	if m < ClaimRock || m > ClaimScissors {
		return bluffing.Claim{}, false
	}

	t := int(m - ClaimRock)
	return bluffing.Claim{
		ID:        claimIDBase + t,
		Receivers: []int{1},
		Subject: func(s bluffing.GameState) (bool, bool) {
			thrown := s.(*State).throws[0]
			return thrown >= 0, thrown == t
		},
	}, true
}

func (g *Game) MoveString(m bluffing.Move) string {
	return moveStr[m]
}

// State implements bluffing.GameState.
type State struct {
	history []bluffing.CombinedMove
	// claim is the throw announced by player 0, or -1.
	claim int
	// throws made by each player, or -1.
	throws [2]int
}

var _ bluffing.GameState = &State{}

func newState() *State {
	return &State{claim: -1, throws: [2]int{-1, -1}}
}

func (s *State) apply(cm bluffing.CombinedMove) *State {
	if !s.IsMovePossible(cm) {
		panic(fmt.Errorf("illegal move %v at turn %d", cm, s.Turn()))
	}

	next := *s
	next.history = make([]bluffing.CombinedMove, len(s.history)+1)
	copy(next.history, s.history)
	next.history[len(s.history)] = cm
	switch s.Turn() {
	case 0:
		next.claim = int(cm[0] - ClaimRock)
	case 1:
		next.throws[0] = int(cm[0] - Rock)
	case 2:
		next.throws[1] = int(cm[1] - Rock)
	}

	return &next
}

func (s *State) DealID() int { return dealID }

func (s *State) History() []bluffing.CombinedMove { return s.history }

func (s *State) Turn() int { return len(s.history) }

func (s *State) IsTerminal() bool { return s.Turn() >= numTurns }

func (s *State) LegalMoves(player int) []bluffing.Move {
	if s.IsTerminal() {
		return nil
	}

	if player != s.ActingPlayer() {
		return pass
	}

	if s.Turn() == 0 {
		return claims
	}

	return throws
}

func (s *State) ActingPlayer() int {
	switch s.Turn() {
	case 0, 1:
		return 0
	case 2:
		return 1
	default:
		return bluffing.NoActingPlayer
	}
}

func (s *State) Utilities() ([]float64, error) {
	if !s.IsTerminal() {
		return nil, errors.Wrapf(bluffing.ErrNotTerminal, "rps turn %d", s.Turn())
	}

	switch (s.throws[0] - s.throws[1] + 3) % 3 {
	case 1:
		return []float64{Win, Lose}, nil
	case 2:
		return []float64{Lose, Win}, nil
	default:
		return []float64{Tie, Tie}, nil
	}
}

// Key is the turn, the announcement and the player's own throw.
func (s *State) Key(player int) string {
	return fmt.Sprintf("t%d/c%d/s%d", s.Turn(), s.claim, s.throws[player])
}

func (s *State) IsMovePossible(cm bluffing.CombinedMove) bool {
	if len(cm) != 2 {
		return false
	}

	for p, m := range cm {
		if !lo.Contains(s.LegalMoves(p), m) {
			return false
		}
	}

	return true
}

// Throw returns the throw of player in s, or -1 if not yet made.
func (s *State) Throw(player int) int {
	return s.throws[player]
}
