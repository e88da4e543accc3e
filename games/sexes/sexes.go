// Package sexes implements the battle of the sexes with an announcement.
//
// Player 0 announces a venue, then picks one. Player 1 picks a venue
// without seeing player 0's pick. Meeting at the football pays
// (100, 50), at the theatre (50, 100), and missing each other (0, 0).
package sexes

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/timpalpant/bluffing"
)

const (
	AnnounceFootball bluffing.Move = iota
	AnnounceTheatre
	Pass
	Football
	Theatre
)

var moveStr = [...]string{
	"AnnounceFootball",
	"AnnounceTheatre",
	"Pass",
	"Football",
	"Theatre",
}

const (
	dealID          = 700
	claimIDBase     = 800
	perceptNothing  = 900
	perceptGameOver = 901
	perceptHeard    = 910
	numTurns        = 3
)

var payoffs = [2][2][]float64{
	{{100, 50}, {0, 0}},
	{{0, 0}, {50, 100}},
}

var (
	announcements = []bluffing.Move{AnnounceFootball, AnnounceTheatre}
	venues        = []bluffing.Move{Football, Theatre}
	pass          = []bluffing.Move{Pass}
)

// Game implements bluffing.Game.
type Game struct {
	deal *State
}

var _ bluffing.Game = &Game{}

func New() *Game {
	return &Game{deal: &State{announced: -1, venues: [2]int{-1, -1}}}
}

func (g *Game) Name() string { return "sexes" }

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

func (g *Game) Percepts(next bluffing.GameState, cm bluffing.CombinedMove) []bluffing.Percept {
	nothing := bluffing.Percept{
		ID:    perceptNothing,
		Holds: func(bluffing.GameState) bool { return true },
	}

	switch next.Turn() {
	case 1:
		m := cm[0]
		return []bluffing.Percept{nothing, {
			ID:    perceptHeard + int(m-AnnounceFootball),
			Holds: func(s bluffing.GameState) bool { return s.History()[0][0] == m },
		}}
	case 2:
		return []bluffing.Percept{nothing, nothing}
	default:
		gameOver := bluffing.Percept{
			ID:    perceptGameOver,
			Holds: func(s bluffing.GameState) bool { return s.IsTerminal() },
		}
		return []bluffing.Percept{gameOver, gameOver}
	}
}

func (g *Game) IsClaim(m bluffing.Move) (bluffing.Claim, bool) {
	if m != AnnounceFootball && m != AnnounceTheatre {
		return bluffing.Claim{}, false
	}

	venue := int(m - AnnounceFootball)
	return bluffing.Claim{
		ID:        claimIDBase + venue,
		Receivers: []int{1},
		Subject: func(s bluffing.GameState) (bool, bool) {
			picked := s.(*State).venues[0]
			return picked >= 0, picked == venue
		},
	}, true
}

func (g *Game) MoveString(m bluffing.Move) string {
	return moveStr[m]
}

// State implements bluffing.GameState.
type State struct {
	history   []bluffing.CombinedMove
	announced int
	venues    [2]int
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
		next.announced = int(cm[0] - AnnounceFootball)
	case 1:
		next.venues[0] = int(cm[0] - Football)
	case 2:
		next.venues[1] = int(cm[1] - Football)
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
		return announcements
	}

	return venues
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
		return nil, errors.Wrapf(bluffing.ErrNotTerminal, "sexes turn %d", s.Turn())
	}

	u := payoffs[s.venues[0]][s.venues[1]]
	return append([]float64(nil), u...), nil
}

func (s *State) Key(player int) string {
	if player == 0 {
		return fmt.Sprintf("t%d/a%d/v%d", s.Turn(), s.announced, s.venues[0])
	}

	return fmt.Sprintf("t%d/a%d/v%d", s.Turn(), s.announced, s.venues[1])
}

func (s *State) IsMovePossible(cm bluffing.CombinedMove) bool {
	return len(cm) == 2 &&
		lo.Contains(s.LegalMoves(0), cm[0]) &&
		lo.Contains(s.LegalMoves(1), cm[1])
}
