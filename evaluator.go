package bluffing

import (
	"expvar"
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

var nodesEvaluated = expvar.NewInt("nodes_evaluated")

// Utility sums within this tolerance of each other are considered tied.
const tieTolerance = 1e-9

// Enforcement selects when an Evaluator holds players to their claims.
type Enforcement uint8

const (
	// EnforceNever ignores claims entirely.
	EnforceNever Enforcement = iota
	// EnforceAlways prunes every branch that breaks a claim.
	EnforceAlways
	// EnforceCooperative prunes branches that break a claim only while
	// the game is detected to be cooperative.
	EnforceCooperative
)

var enforcementStr = [...]string{
	"Never",
	"Always",
	"Cooperative",
}

func (e Enforcement) String() string {
	return enforcementStr[e]
}

// Policy describes how a strategy treats claims.
type Policy struct {
	// Sent is the reading a strategy commits to when it makes a claim.
	Sent Stance
	// Received is the reading a strategy believes when it receives one.
	Received Stance

	Enforcement Enforcement
}

// Evaluator computes expected utilities by recursive search, assuming
// that opponents play uniformly at random and that the searching player
// plays its best moves. All results are memoized in the Arena.
type Evaluator struct {
	game   Game
	arena  *Arena
	policy Policy
}

func NewEvaluator(game Game, arena *Arena, policy Policy) *Evaluator {
	return &Evaluator{
		game:   game,
		arena:  arena,
		policy: policy,
	}
}

func (e *Evaluator) Policy() Policy {
	return e.policy
}

func (e *Evaluator) enforces(cooperative bool) bool {
	switch e.policy.Enforcement {
	case EnforceAlways:
		return true
	case EnforceCooperative:
		return cooperative
	default:
		return false
	}
}

// ExpectedUtilities returns the expected utility of each player if
// player plays move in state, given the claims player has sent and
// received so far.
//
// Results are memoized on (state, player, move) only: callers are
// expected to reach a state with the claims its history implies.
func (e *Evaluator) ExpectedUtilities(state GameState, player int, move Move,
	cooperative bool, sent, received []Predicate) ([]float64, error) {
	key := utilityKey{state: KeyOf(state), player: player, move: move}
	if u, ok := e.arena.utility(key, state); ok {
		return u, nil
	}

	nodesEvaluated.Add(1)
	n := e.game.NumPlayers()
	enforce := e.enforces(cooperative)
	ourClaims := sent
	if claim, ok := e.game.IsClaim(move); ok {
		ourClaims = withPredicate(sent, e.policy.Sent.Reading(claim))
	}

	if enforce && len(ourClaims) > 0 && !ourClaims[len(ourClaims)-1](state) {
		// No credit for value that is only reachable by breaking a promise.
		u := make([]float64, n)
		e.arena.putUtility(key, state, u)
		return u, nil
	}

	base, err := evaluationPoint(state, n)
	if err != nil {
		return nil, err
	}
	base[player] = move

	result := make([]float64, n)
	nOpponents := 0
	for opponent := 0; opponent < n; opponent++ {
		if opponent == player {
			continue
		}

		contribution := make([]float64, n)
		opponentMoves := state.LegalMoves(opponent)
		for _, om := range opponentMoves {
			theirClaims := received
			if claim, ok := e.game.IsClaim(om); ok {
				theirClaims = withPredicate(received, e.policy.Received.Reading(claim))
			}

			cm := base.With(opponent, om)
			if !state.IsMovePossible(cm) {
				continue
			}

			next := e.game.Next(state, cm)
			if enforce && !(AllHold(theirClaims, next) && AllHold(ourClaims, next)) {
				continue
			}

			u, err := e.continuation(next, player, ourClaims, theirClaims)
			if err != nil {
				return nil, err
			}
			floats.Add(contribution, u)
		}

		floats.Scale(1/float64(len(opponentMoves)), contribution)
		floats.Add(result, contribution)
		nOpponents++
	}

	if nOpponents > 1 {
		floats.Scale(1/float64(nOpponents), result)
	}

	e.arena.putUtility(key, state, result)
	return result, nil
}

// continuation returns the utilities of next if it is terminal, or the
// average expected utilities over player's best moves otherwise.
func (e *Evaluator) continuation(next GameState, player int, sent, received []Predicate) ([]float64, error) {
	if next.IsTerminal() {
		return next.Utilities()
	}

	legal := next.LegalMoves(player)
	best := legal
	if len(legal) > 1 {
		beliefs, err := e.BeliefsAt(next, player)
		if err != nil {
			return nil, err
		}

		best, err = e.BestMoves(legal, "", player, beliefs, sent, received)
		if err != nil {
			return nil, err
		}
	} else if len(legal) == 0 {
		return nil, errors.Wrapf(ErrNoLegalMoves, "player %d at turn %d", player, next.Turn())
	}

	cooperative := false
	if e.policy.Enforcement == EnforceCooperative {
		var err error
		cooperative, err = IsCooperative(e.game, &BeliefState{beliefs: []Belief{{State: next, Weight: 1}}}, player)
		if err != nil {
			return nil, err
		}
	}

	result := make([]float64, e.game.NumPlayers())
	for _, m := range best {
		u, err := e.ExpectedUtilities(next, player, m, cooperative, sent, received)
		if err != nil {
			return nil, err
		}
		floats.Add(result, u)
	}

	floats.Scale(1/float64(len(best)), result)
	return result, nil
}

// BestMoves returns every legal move that maximizes player's expected
// utility, weighted over beliefs. If historyKey is not empty the result
// is cached under it.
func (e *Evaluator) BestMoves(legal []Move, historyKey string, player int,
	beliefs *BeliefState, sent, received []Predicate) ([]Move, error) {
	if len(legal) == 0 {
		return nil, errors.Wrapf(ErrNoLegalMoves, "player %d", player)
	} else if len(legal) == 1 {
		return legal, nil
	}

	if historyKey != "" {
		if cached, ok := e.arena.bestMoveSet(historyKey); ok {
			return cached, nil
		}
	}

	cooperative := false
	if e.policy.Enforcement == EnforceCooperative {
		var err error
		cooperative, err = IsCooperative(e.game, beliefs, player)
		if err != nil {
			return nil, err
		}
	}

	var best []Move
	bestScore := math.Inf(-1)
	for _, m := range legal {
		score := 0.0
		for _, b := range beliefs.Beliefs() {
			u, err := e.ExpectedUtilities(b.State, player, m, cooperative, sent, received)
			if err != nil {
				return nil, err
			}
			score += b.Weight * u[player]
		}

		if scalar.EqualWithinAbsOrRel(score, bestScore, tieTolerance, tieTolerance) {
			best = append(best, m)
		} else if score > bestScore {
			best = []Move{m}
			bestScore = score
		}
	}

	glog.V(1).Infof("Player %d best moves %v of %v (cooperative: %v)", player, best, legal, cooperative)
	if historyKey != "" {
		e.arena.putBestMoveSet(historyKey, best)
	}

	return best, nil
}

// BeliefsAt returns what observer believes at state. Results are cached
// in the Arena.
func (e *Evaluator) BeliefsAt(state GameState, observer int) (*BeliefState, error) {
	key := beliefKey{state: KeyOf(state), observer: observer}
	if bs, ok := e.arena.beliefState(key, state); ok {
		return bs, nil
	}

	bs, err := BeliefsAt(e.game, state, observer)
	if err != nil {
		return nil, err
	}

	glog.V(2).Infof("Player %d holds %d beliefs at turn %d", observer, bs.Len(), state.Turn())
	e.arena.putBeliefState(key, state, bs)
	return bs, nil
}
