package bluffing

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// PriorScale multiplies the declared prior of each deal when a belief
// state is seeded, so that repeated even splits stay far from zero.
const PriorScale = 1000.0

// Belief is one possible world and its relative weight.
type Belief struct {
	State  GameState
	Weight float64
}

// BeliefState holds the weighted set of game states that one player
// cannot distinguish. Weights are relative and need not sum to one.
//
// A BeliefState is never modified after construction; Advance and
// Filter return new values, so belief states may be shared in caches.
type BeliefState struct {
	beliefs []Belief
}

// NewBeliefState seeds a belief state from the given deals,
// weighted by their declared priors.
func NewBeliefState(initial []InitialState) *BeliefState {
	beliefs := make([]Belief, len(initial))
	for i, is := range initial {
		beliefs[i] = Belief{
			State:  is.State,
			Weight: PriorScale * float64(is.Weight),
		}
	}

	return &BeliefState{beliefs: beliefs}
}

func (bs *BeliefState) Len() int {
	return len(bs.beliefs)
}

// Beliefs returns the weighted states. Callers must not modify it.
func (bs *BeliefState) Beliefs() []Belief {
	return bs.beliefs
}

func (bs *BeliefState) States() []GameState {
	return lo.Map(bs.beliefs, func(b Belief, _ int) GameState { return b.State })
}

func (bs *BeliefState) TotalWeight() float64 {
	return lo.SumBy(bs.beliefs, func(b Belief) float64 { return b.Weight })
}

// Advance propagates every belief through the given move of player.
// Every other player's move ranges over its legal moves in each state;
// combinations the state rejects are dropped, and each belief's weight
// is split evenly among its surviving successors.
func (bs *BeliefState) Advance(game Game, move Move, player int) (*BeliefState, error) {
	var result []Belief
	for _, b := range bs.beliefs {
		candidates, err := completions(b.State, game.NumPlayers(), player, move)
		if err != nil {
			return nil, err
		}

		possible := lo.Filter(candidates, func(cm CombinedMove, _ int) bool {
			return b.State.IsMovePossible(cm)
		})
		if len(possible) == 0 {
			glog.V(2).Infof("Belief at turn %d has no successor for move %d of player %d",
				b.State.Turn(), move, player)
			continue
		}

		w := b.Weight / float64(len(possible))
		for _, cm := range possible {
			result = append(result, Belief{
				State:  game.Next(b.State, cm),
				Weight: w,
			})
		}
	}

	return &BeliefState{beliefs: result}, nil
}

// Filter returns the beliefs in which pred holds. It is an error for
// the filter to eliminate every belief.
func (bs *BeliefState) Filter(pred Predicate) (*BeliefState, error) {
	result := lo.Filter(bs.beliefs, func(b Belief, _ int) bool {
		return pred(b.State)
	})

	if len(result) == 0 {
		return nil, errors.Wrapf(ErrEmptyBeliefState, "filtering %d beliefs", len(bs.beliefs))
	}

	return &BeliefState{beliefs: result}, nil
}

// FilterIfConsistent filters by all of preds, unless doing so would
// eliminate every belief. It reports whether the filter was applied.
func (bs *BeliefState) FilterIfConsistent(preds ...Predicate) (*BeliefState, bool) {
	result := lo.Filter(bs.beliefs, func(b Belief, _ int) bool {
		return AllHold(preds, b.State)
	})

	if len(result) == 0 {
		return bs, false
	}

	return &BeliefState{beliefs: result}, true
}

// BeliefsAt computes what observer believes at state, by replaying the
// history of state from the deals observer considers possible and
// applying only observer's own moves and percepts.
func BeliefsAt(game Game, state GameState, observer int) (*BeliefState, error) {
	path := Path(game, state)
	bs := NewBeliefState(game.PerceivedInitialStates(path[0], observer))
	for i, cm := range state.History() {
		var err error
		bs, err = bs.Advance(game, cm[observer], observer)
		if err != nil {
			return nil, err
		}

		percepts := game.Percepts(path[i+1], cm)
		bs, err = bs.Filter(percepts[observer].Holds)
		if err != nil {
			return nil, errors.Wrapf(err, "replaying turn %d for player %d", i, observer)
		}
	}

	return bs, nil
}

// completions enumerates every combined move in which player plays move
// and each other player plays one of its legal moves.
func completions(state GameState, nPlayers, player int, move Move) ([]CombinedMove, error) {
	result := []CombinedMove{make(CombinedMove, nPlayers)}
	for p := 0; p < nPlayers; p++ {
		if p == player {
			for _, cm := range result {
				cm[p] = move
			}

			continue
		}

		legal := state.LegalMoves(p)
		if len(legal) == 0 {
			return nil, errors.Wrapf(ErrNoLegalMoves, "player %d at turn %d", p, state.Turn())
		}

		next := make([]CombinedMove, 0, len(result)*len(legal))
		for _, cm := range result {
			for _, m := range legal {
				next = append(next, cm.With(p, m))
			}
		}
		result = next
	}

	return result, nil
}
