package bluffing

import (
	"math"
	"math/rand"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// PlayMatch plays one match between players, one per seat, and returns
// the terminal state reached.
func PlayMatch(game Game, players []Player, rng *rand.Rand) (GameState, error) {
	if len(players) != game.NumPlayers() {
		return nil, errors.Errorf("%s needs %d players, got %d", game.Name(), game.NumPlayers(), len(players))
	}

	deal, err := sampleDeal(game.SpecialInitialStates(), rng)
	if err != nil {
		return nil, err
	}

	state := deal.State
	for p, player := range players {
		if err := player.Start(game, p, game.PerceivedInitialStates(state, p)); err != nil {
			return nil, errors.Wrapf(err, "starting %s as player %d", player.Name(), p)
		}
	}

	for !state.IsTerminal() {
		cm := make(CombinedMove, len(players))
		for p, player := range players {
			m, err := player.RequestMove(state.LegalMoves(p))
			if err != nil {
				return nil, errors.Wrapf(err, "%s as player %d at turn %d", player.Name(), p, state.Turn())
			}
			cm[p] = m
		}

		if !state.IsMovePossible(cm) {
			return nil, errors.Errorf("move %v is not possible at turn %d", cm, state.Turn())
		}

		state = game.Next(state, cm)
		percepts := game.Percepts(state, cm)
		for p, player := range players {
			if err := player.ObservePercept(percepts[p]); err != nil {
				return nil, err
			}
		}

		claims := make([][]Claim, len(players))
		for _, m := range cm {
			if c, ok := game.IsClaim(m); ok {
				for _, r := range c.Receivers {
					claims[r] = append(claims[r], c)
				}
			}
		}
		for p, player := range players {
			if err := player.ReceiveClaims(claims[p]); err != nil {
				return nil, err
			}
		}
	}

	return state, nil
}

// sampleDeal selects one of deals with probability proportional to its weight.
func sampleDeal(deals []InitialState, rng *rand.Rand) (InitialState, error) {
	total := lo.SumBy(deals, func(d InitialState) int { return d.Weight })
	if total <= 0 {
		return InitialState{}, errors.New("no initial state with positive weight")
	}

	x := rng.Intn(total)
	for _, d := range deals {
		x -= d.Weight
		if x < 0 {
			return d, nil
		}
	}

	panic("unreachable")
}

// BattleResult summarizes a series of matches between the same players.
type BattleResult struct {
	Players []string
	// Utilities holds the utility of each player in each match.
	Utilities [][]float64
	// Wins counts the matches in which each player had the unique
	// highest utility. Every other match is a tie.
	Wins []int
	Ties int
}

func (br *BattleResult) Runs() int {
	return br.Ties + lo.Sum(br.Wins)
}

func (br *BattleResult) Mean(player int) float64 {
	return stat.Mean(br.Utilities[player], nil)
}

// StdErr returns the standard error of the mean utility of player.
func (br *BattleResult) StdErr(player int) float64 {
	_, std := stat.MeanStdDev(br.Utilities[player], nil)
	return std / math.Sqrt(float64(len(br.Utilities[player])))
}

func (br *BattleResult) WinRate(player int) float64 {
	return float64(br.Wins[player]) / float64(br.Runs())
}

func (br *BattleResult) record(u []float64) {
	for p := range u {
		br.Utilities[p] = append(br.Utilities[p], u[p])
	}

	winner := -1
	best := math.Inf(-1)
	for p, v := range u {
		if v > best {
			winner, best = p, v
		} else if v == best {
			winner = -1
		}
	}

	if winner >= 0 {
		br.Wins[winner]++
	} else {
		br.Ties++
	}
}

// Battle plays runs matches between players and tallies the results.
func Battle(game Game, players []Player, runs int, rng *rand.Rand) (*BattleResult, error) {
	n := game.NumPlayers()
	result := &BattleResult{
		Players:   lo.Map(players, func(p Player, _ int) string { return p.Name() }),
		Utilities: make([][]float64, n),
		Wins:      make([]int, n),
	}

	glog.Infof("[%s] Playing %d matches: %v", game.Name(), runs, result.Players)
	for i := 0; i < runs; i++ {
		final, err := PlayMatch(game, players, rng)
		if err != nil {
			return nil, errors.Wrapf(err, "match %d", i)
		}

		u, err := final.Utilities()
		if err != nil {
			return nil, err
		}
		result.record(u)
	}

	for p, name := range result.Players {
		glog.Infof("[%s] Player %d (%s): mean utility %.2f ± %.2f, won %d of %d",
			game.Name(), p, name, result.Mean(p), result.StdErr(p), result.Wins[p], runs)
	}

	return result, nil
}
