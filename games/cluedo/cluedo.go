// Package cluedo implements a two-player deduction game with five cards.
//
// One card is hidden in the envelope, and each player is dealt two of
// the remaining four. Play cycles through four phases: player 0 asks
// whether player 1 holds a card, then may guess the hidden card, then
// player 1 does the same. Both players see every move, but only the
// asker learns the answer. A correct guess wins 100 for the guesser, a
// wrong one 100 for the opponent, and nobody scores if the turn limit
// is reached first.
package cluedo

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/timpalpant/bluffing"
)

const NumCards = 5

// Moves: Ask+c asks about card c, Guess+c guesses that c is hidden.
const (
	Ask   bluffing.Move = 0
	Guess bluffing.Move = NumCards
	Pass  bluffing.Move = 2 * NumCards
)

const numMoves = int(Pass) + 1

// Envelope is the owner of the hidden card.
const Envelope = 2

const (
	Win  = 100.0
	Lose = 0.0
)

// DefaultMaxTurns is three full rounds of asking and guessing.
const DefaultMaxTurns = 12

const (
	dealIDBase  = 1000
	perceptBase = 1100
)

var pass = []bluffing.Move{Pass}

// Game implements bluffing.Game.
type Game struct {
	deals []bluffing.InitialState
}

var _ bluffing.Game = &Game{}

func New() *Game {
	return NewWithMaxTurns(DefaultMaxTurns)
}

// NewWithMaxTurns returns a game that ends without a winner after
// maxTurns turns.
func NewWithMaxTurns(maxTurns int) *Game {
	g := &Game{}
	for hidden := 0; hidden < NumCards; hidden++ {
		rest := make([]int, 0, NumCards-1)
		for c := 0; c < NumCards; c++ {
			if c != hidden {
				rest = append(rest, c)
			}
		}

		for j := 0; j < len(rest); j++ {
			for k := j + 1; k < len(rest); k++ {
				var owner [NumCards]int
				for _, c := range rest {
					owner[c] = 1
				}
				owner[hidden] = Envelope
				owner[rest[j]] = 0
				owner[rest[k]] = 0

				id := dealIDBase + len(g.deals)
				g.deals = append(g.deals, bluffing.InitialState{
					State:  &State{id: id, owner: owner, maxTurns: maxTurns},
					Weight: 1,
					ID:     id,
				})
			}
		}
	}

	return g
}

func (g *Game) Name() string { return "cluedo" }

func (g *Game) NumPlayers() int { return 2 }

func (g *Game) InitialStates() []bluffing.InitialState {
	return g.deals
}

func (g *Game) SpecialInitialStates() []bluffing.InitialState {
	return g.deals
}

// PerceivedInitialStates returns the deals in which player holds the
// same hand as in actual.
func (g *Game) PerceivedInitialStates(actual bluffing.GameState, player int) []bluffing.InitialState {
	hand := actual.(*State).Hand(player)
	return lo.Filter(g.deals, func(is bluffing.InitialState, _ int) bool {
		return slices.Equal(is.State.(*State).Hand(player), hand)
	})
}

func (g *Game) Root(state bluffing.GameState) bluffing.GameState {
	return g.deals[state.DealID()-dealIDBase].State
}

func (g *Game) Next(state bluffing.GameState, cm bluffing.CombinedMove) bluffing.GameState {
	return state.(*State).apply(cm)
}

// Percepts shows both moves to both players. A player who just asked
// about a card also learns whether the opponent holds it.
func (g *Game) Percepts(next bluffing.GameState, cm bluffing.CombinedMove) []bluffing.Percept {
	actual := next.(*State)
	percepts := make([]bluffing.Percept, 2)
	for p := range percepts {
		seen := append(bluffing.CombinedMove(nil), cm...)
		card, asked := asksAbout(cm[p])
		answer := asked && actual.owner[card] == 1-p

		id := perceptBase + 2*(numMoves*int(cm[0])+int(cm[1]))
		if answer {
			id++
		}

		opponent := 1 - p
		percepts[p] = bluffing.Percept{
			ID: id,
			Holds: func(s bluffing.GameState) bool {
				h := s.History()
				if len(h) == 0 || !slices.Equal(h[len(h)-1], seen) {
					return false
				}

				return !asked || (s.(*State).owner[card] == opponent) == answer
			},
		}
	}

	return percepts
}

func asksAbout(m bluffing.Move) (int, bool) {
	if m >= Ask && m < Guess {
		return int(m - Ask), true
	}

	return -1, false
}

func guesses(m bluffing.Move) (int, bool) {
	if m >= Guess && m < Pass {
		return int(m - Guess), true
	}

	return -1, false
}

func (g *Game) IsClaim(bluffing.Move) (bluffing.Claim, bool) {
	return bluffing.Claim{}, false
}

func (g *Game) MoveString(m bluffing.Move) string {
	if c, ok := asksAbout(m); ok {
		return fmt.Sprintf("Ask%d", c)
	}
	if c, ok := guesses(m); ok {
		return fmt.Sprintf("Guess%d", c)
	}

	return "Pass"
}

// State implements bluffing.GameState.
type State struct {
	id       int
	owner    [NumCards]int
	maxTurns int
	history  []bluffing.CombinedMove
	guessed  bool
}

var (
	_ bluffing.GameState = &State{}
	_ bluffing.Bluffer   = &State{}
)

func (s *State) apply(cm bluffing.CombinedMove) *State {
	if !s.IsMovePossible(cm) {
		panic(fmt.Errorf("illegal move %v at turn %d", cm, s.Turn()))
	}

	next := *s
	next.history = append(append([]bluffing.CombinedMove(nil), s.history...), cm)
	next.guessed = lo.SomeBy(cm, func(m bluffing.Move) bool {
		_, ok := guesses(m)
		return ok
	})

	return &next
}

// Hand returns the cards held by player, in increasing order.
func (s *State) Hand(player int) []int {
	var hand []int
	for c, owner := range s.owner {
		if owner == player {
			hand = append(hand, c)
		}
	}

	return hand
}

// Hidden returns the card in the envelope.
func (s *State) Hidden() int {
	return lo.IndexOf(s.owner[:], Envelope)
}

// phase is where player stands in the ask/guess cycle: 0 when it is
// its turn to ask, 1 when it may guess, 2 or 3 while the opponent plays.
func (s *State) phase(player int) int {
	return (s.Turn() + 2*player) % 4
}

func (s *State) DealID() int { return s.id }

func (s *State) History() []bluffing.CombinedMove { return s.history }

func (s *State) Turn() int { return len(s.history) }

func (s *State) IsTerminal() bool { return s.guessed || s.Turn() >= s.maxTurns }

func (s *State) ActingPlayer() int {
	if s.IsTerminal() {
		return bluffing.NoActingPlayer
	}

	return (s.Turn() % 4) / 2
}

func (s *State) LegalMoves(player int) []bluffing.Move {
	if s.IsTerminal() {
		return nil
	}

	switch s.phase(player) {
	case 0:
		return moveRange(Ask, Guess)
	case 1:
		return moveRange(Guess, Pass+1)
	default:
		return pass
	}
}

func moveRange(from, to bluffing.Move) []bluffing.Move {
	moves := make([]bluffing.Move, 0, to-from)
	for m := from; m < to; m++ {
		moves = append(moves, m)
	}

	return moves
}

// BluffingMoves asks only about cards the player holds itself, and
// never guesses.
func (s *State) BluffingMoves(player int) []bluffing.Move {
	if s.IsTerminal() {
		return nil
	}

	if s.phase(player) != 0 {
		return pass
	}

	return lo.Map(s.Hand(player), func(c int, _ int) bluffing.Move { return Ask + bluffing.Move(c) })
}

func (s *State) Utilities() ([]float64, error) {
	if !s.IsTerminal() {
		return nil, errors.Wrapf(bluffing.ErrNotTerminal, "cluedo turn %d", s.Turn())
	}

	u := []float64{Lose, Lose}
	if !s.guessed {
		return u, nil
	}

	for p, m := range s.history[len(s.history)-1] {
		if c, ok := guesses(m); ok {
			if c == s.Hidden() {
				u[p] = Win
			} else {
				u[1-p] = Win
			}
			break
		}
	}

	return u, nil
}

// Key is the player's hand, what it has learned from its own and the
// opponent's questions, and its phase.
func (s *State) Key(player int) string {
	opponent := 1 - player
	mineHeld, mineNot := s.asked(player, opponent)
	theirsHeld, theirsNot := s.asked(opponent, player)
	return fmt.Sprintf("%s-%s-%s-%s-%s-%d",
		cardString(s.Hand(player)),
		cardString(mineHeld), cardString(mineNot),
		cardString(theirsHeld), cardString(theirsNot),
		s.phase(player))
}

// asked splits the distinct cards asker has asked about by whether
// holder holds them.
func (s *State) asked(asker, holder int) (held, notHeld []int) {
	for _, cm := range s.history {
		c, ok := asksAbout(cm[asker])
		if !ok {
			continue
		}

		if s.owner[c] == holder {
			held = append(held, c)
		} else {
			notHeld = append(notHeld, c)
		}
	}

	return lo.Uniq(held), lo.Uniq(notHeld)
}

func cardString(cards []int) string {
	sorted := append([]int(nil), cards...)
	sort.Ints(sorted)
	var sb strings.Builder
	for _, c := range sorted {
		fmt.Fprint(&sb, c)
	}

	return sb.String()
}

func (s *State) IsMovePossible(cm bluffing.CombinedMove) bool {
	return len(cm) == 2 &&
		lo.Contains(s.LegalMoves(0), cm[0]) &&
		lo.Contains(s.LegalMoves(1), cm[1])
}
