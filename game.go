package bluffing

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Move is a single player's action for one turn. Its meaning is defined
// by the game; the engine only relies on its identity.
type Move int

// CombinedMove holds the moves of all players for one turn, indexed by player.
type CombinedMove []Move

// With returns a copy of cm with player's move replaced by m.
func (cm CombinedMove) With(player int, m Move) CombinedMove {
	result := make(CombinedMove, len(cm))
	copy(result, cm)
	result[player] = m
	return result
}

func (cm CombinedMove) String() string {
	parts := make([]string, len(cm))
	for i, m := range cm {
		parts[i] = fmt.Sprintf("%d", m)
	}

	return "(" + strings.Join(parts, ",") + ")"
}

// NoActingPlayer is returned by GameState.ActingPlayer during phases
// in which no single player has the move.
const NoActingPlayer = -1

// Predicate is a test over game states, used for percepts and claims.
type Predicate func(GameState) bool

// Percept is what one observer learns from a transition. Percepts with
// the same ID must describe the same observation.
type Percept struct {
	ID    int
	Holds Predicate
}

// GameState is an immutable node in the history of a game.
type GameState interface {
	// DealID is the ID of the InitialState this state descends from.
	DealID() int
	// History is the ordered list of combined moves since the deal.
	// Callers must not modify it.
	History() []CombinedMove
	Turn() int
	LegalMoves(player int) []Move
	IsTerminal() bool
	// ActingPlayer is the player making the decision this turn,
	// or NoActingPlayer.
	ActingPlayer() int
	// Utilities is defined only for terminal states. It returns an
	// error wrapping ErrNotTerminal otherwise.
	Utilities() ([]float64, error)
	// Key is the canonical information set key of the given player.
	// It may only depend on facts observable by that player.
	Key(player int) string
	// IsMovePossible reports whether cm is consistent with this state.
	IsMovePossible(cm CombinedMove) bool
}

// Bluffer is implemented by states that script a bluffing line of play,
// such as asking about cards the player already holds.
type Bluffer interface {
	BluffingMoves(player int) []Move
}

// InitialState is one possible resolution of the hidden information
// of a game, with an integer prior weight and a globally distinct ID.
type InitialState struct {
	State  GameState
	Weight int
	ID     int
}

// Game defines the rules of a game.
type Game interface {
	Name() string
	NumPlayers() int
	// InitialStates enumerates the deals strategies reason over.
	InitialStates() []InitialState
	// SpecialInitialStates enumerates the fully resolved deals from
	// which actual play is drawn.
	SpecialInitialStates() []InitialState
	// PerceivedInitialStates returns the deals player cannot distinguish
	// from the one actual descends from.
	PerceivedInitialStates(actual GameState, player int) []InitialState
	// Root returns the initial state that state descends from.
	Root(state GameState) GameState
	// Next returns the state after cm is played in state.
	Next(state GameState, cm CombinedMove) GameState
	// Percepts returns the observation of each player after cm
	// has been played, evaluated on the resulting state next.
	Percepts(next GameState, cm CombinedMove) []Percept
	// IsClaim reports whether m carries a claim.
	IsClaim(m Move) (Claim, bool)
	MoveString(m Move) string
}

var (
	ErrNotTerminal         = errors.New("utilities requested for non-terminal state")
	ErrNoLegalMoves        = errors.New("no legal moves")
	ErrUnknownInfoSet      = errors.New("information set was never visited in training")
	ErrEmptyBeliefState    = errors.New("filter eliminated every belief")
	ErrNoActingPlayer      = errors.New("state has no acting player")
	ErrActionCountMismatch = errors.New("information set action count changed")
)

// Path replays the history of state from its root and returns every
// state along the way, starting with the root and ending with state.
func Path(game Game, state GameState) []GameState {
	history := state.History()
	path := make([]GameState, 0, len(history)+1)
	current := game.Root(state)
	path = append(path, current)
	for _, cm := range history {
		current = game.Next(current, cm)
		path = append(path, current)
	}

	return path
}

// evaluationPoint returns the combined move in which every player plays
// its first legal move.
func evaluationPoint(state GameState, nPlayers int) (CombinedMove, error) {
	cm := make(CombinedMove, nPlayers)
	for p := range cm {
		legal := state.LegalMoves(p)
		if len(legal) == 0 {
			return nil, errors.Wrapf(ErrNoLegalMoves, "player %d at turn %d", p, state.Turn())
		}

		cm[p] = legal[0]
	}

	return cm, nil
}
