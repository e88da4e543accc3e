package bluffing

import (
	"expvar"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
)

var cfrNodesVisited = expvar.NewInt("cfr/nodes_visited")

// Trainer runs vanilla counterfactual regret minimization by full-tree
// self-play over every initial deal of a game. At each node only the
// acting player chooses; every other player is held to its first legal
// move.
type Trainer struct {
	game       Game
	infoSets   *InfoSetStore
	iterations int
}

func NewTrainer(game Game, infoSets *InfoSetStore) *Trainer {
	return &Trainer{
		game:     game,
		infoSets: infoSets,
	}
}

func (t *Trainer) InfoSets() *InfoSetStore {
	return t.infoSets
}

// Iterations returns the number of completed training passes.
func (t *Trainer) Iterations() int {
	return t.iterations
}

// Run performs n training passes and returns the mean expected utility
// of each player over the passes.
func (t *Trainer) Run(n int) ([]float64, error) {
	total := make([]float64, t.game.NumPlayers())
	for i := 1; i <= n; i++ {
		u, err := t.Iterate()
		if err != nil {
			return nil, errors.Wrapf(err, "iteration %d", t.iterations+1)
		}
		floats.Add(total, u)

		if n >= 10 && i%(n/10) == 0 {
			glog.Infof("[%s] CFR iteration %d: %d info sets, expected value %v",
				t.game.Name(), t.iterations, t.infoSets.Len(), u)
		}
	}

	if n > 0 {
		floats.Scale(1/float64(n), total)
	}

	return total, nil
}

// Iterate performs one pass over every initial deal, each with equal
// weight, then updates the strategy of every information set.
func (t *Trainer) Iterate() ([]float64, error) {
	deals := t.game.InitialStates()
	if len(deals) == 0 {
		return nil, errors.New("game has no initial states")
	}

	dealWeight := 1.0 / float64(len(deals))
	result := make([]float64, t.game.NumPlayers())
	for _, deal := range deals {
		reach := make([]float64, t.game.NumPlayers())
		for i := range reach {
			reach[i] = 1.0
		}

		u, err := t.walk(deal.State, reach, dealWeight)
		if err != nil {
			return nil, err
		}
		floats.AddScaled(result, dealWeight, u)
	}

	t.infoSets.NextStrategy()
	t.iterations++
	return result, nil
}

func (t *Trainer) walk(state GameState, reach []float64, dealWeight float64) ([]float64, error) {
	cfrNodesVisited.Add(1)
	if state.IsTerminal() {
		return state.Utilities()
	}

	player := state.ActingPlayer()
	if player == NoActingPlayer {
		return nil, errors.Wrapf(ErrNoActingPlayer, "turn %d", state.Turn())
	}

	base, err := evaluationPoint(state, t.game.NumPlayers())
	if err != nil {
		return nil, err
	}

	legal := state.LegalMoves(player)
	is, err := t.infoSets.GetOrCreate(state.Key(player), len(legal))
	if err != nil {
		return nil, err
	}
	is.addReach(reach[player] * dealWeight)

	strategy := is.strategy
	actionUtils := make([]float64, len(legal))
	nodeUtils := make([]float64, t.game.NumPlayers())
	for i, m := range legal {
		nextReach := append([]float64(nil), reach...)
		nextReach[player] *= strategy[i]
		cm := base.With(player, m)
		if !state.IsMovePossible(cm) {
			return nil, errors.Errorf("move %v is not possible at turn %d", cm, state.Turn())
		}

		u, err := t.walk(t.game.Next(state, cm), nextReach, dealWeight)
		if err != nil {
			return nil, err
		}

		actionUtils[i] = u[player]
		floats.AddScaled(nodeUtils, strategy[i], u)
	}

	otherReach := lo.Reduce(reach, func(acc float64, r float64, p int) float64 {
		if p == player {
			return acc
		}
		return acc * r
	}, 1.0)
	for i, u := range actionUtils {
		is.addRegret(i, (u-nodeUtils[player])*otherReach*dealWeight)
	}

	return nodeUtils, nil
}

// BestMoves returns the moves of player in state that have maximal
// probability in the current trained strategy.
func (t *Trainer) BestMoves(state GameState, player int) ([]Move, error) {
	legal := state.LegalMoves(player)
	if len(legal) == 0 {
		return nil, errors.Wrapf(ErrNoLegalMoves, "player %d at turn %d", player, state.Turn())
	}

	is, err := t.infoSets.Lookup(state.Key(player))
	if err != nil {
		return nil, err
	}

	if is.NumActions() != len(legal) {
		return nil, errors.Wrapf(ErrActionCountMismatch,
			"key %q has %d actions, got %d", is.Key(), is.NumActions(), len(legal))
	}

	return lo.Map(is.BestActions(), func(i int, _ int) Move { return legal[i] }), nil
}
