// Enumerate every state of a game reachable in actual play and report
// the size of each player's belief state.
package main

import (
	"flag"
	"fmt"

	"github.com/golang/glog"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/timpalpant/bluffing"
	"github.com/timpalpant/bluffing/config"
	"github.com/timpalpant/bluffing/games"
)

type turnStats struct {
	nStates       int
	nTerminal     int
	maxBeliefs    []int
	totalBeliefs  []int
	distinctInfos []map[string]struct{}
}

func main() {
	config.RegisterFlags(pflag.CommandLine)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	cfg, err := config.Load(pflag.CommandLine)
	if err != nil {
		glog.Fatal(err)
	}

	game, err := games.New(cfg.Game)
	if err != nil {
		glog.Fatal(err)
	}

	deals := game.SpecialInitialStates()
	glog.Infof("%s: %d initial deals, %d deals in actual play",
		game.Name(), len(game.InitialStates()), len(deals))

	var stats []*turnStats
	for _, deal := range deals {
		err := visit(game, deal.State, func(state bluffing.GameState) error {
			for len(stats) <= state.Turn() {
				stats = append(stats, newTurnStats(game.NumPlayers()))
			}

			return stats[state.Turn()].add(game, state)
		})
		if err != nil {
			glog.Fatal(err)
		}
	}

	data := pterm.TableData{{"Turn", "States", "Terminal", "Player", "Info sets", "Max beliefs", "Mean beliefs"}}
	for turn, ts := range stats {
		for p := range ts.maxBeliefs {
			data = append(data, []string{
				fmt.Sprintf("%d", turn),
				fmt.Sprintf("%d", ts.nStates),
				fmt.Sprintf("%d", ts.nTerminal),
				fmt.Sprintf("%d", p),
				fmt.Sprintf("%d", len(ts.distinctInfos[p])),
				fmt.Sprintf("%d", ts.maxBeliefs[p]),
				fmt.Sprintf("%.2f", float64(ts.totalBeliefs[p])/float64(ts.nStates)),
			})
		}
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		glog.Fatal(err)
	}
}

func newTurnStats(nPlayers int) *turnStats {
	ts := &turnStats{
		maxBeliefs:    make([]int, nPlayers),
		totalBeliefs:  make([]int, nPlayers),
		distinctInfos: make([]map[string]struct{}, nPlayers),
	}
	for p := range ts.distinctInfos {
		ts.distinctInfos[p] = make(map[string]struct{})
	}

	return ts
}

func (ts *turnStats) add(game bluffing.Game, state bluffing.GameState) error {
	ts.nStates++
	if state.IsTerminal() {
		ts.nTerminal++
	}

	for p := range ts.maxBeliefs {
		bs, err := bluffing.BeliefsAt(game, state, p)
		if err != nil {
			return err
		}

		ts.totalBeliefs[p] += bs.Len()
		if bs.Len() > ts.maxBeliefs[p] {
			ts.maxBeliefs[p] = bs.Len()
		}

		ts.distinctInfos[p][state.Key(p)] = struct{}{}
	}

	return nil
}

// visit calls cb on state and every state reachable from it.
func visit(game bluffing.Game, state bluffing.GameState, cb func(bluffing.GameState) error) error {
	if err := cb(state); err != nil {
		return err
	}

	if state.IsTerminal() {
		return nil
	}

	for _, cm := range combinedMoves(state, game.NumPlayers()) {
		if !state.IsMovePossible(cm) {
			continue
		}

		if err := visit(game, game.Next(state, cm), cb); err != nil {
			return err
		}
	}

	return nil
}

func combinedMoves(state bluffing.GameState, nPlayers int) []bluffing.CombinedMove {
	result := []bluffing.CombinedMove{make(bluffing.CombinedMove, nPlayers)}
	for p := 0; p < nPlayers; p++ {
		var next []bluffing.CombinedMove
		for _, cm := range result {
			for _, m := range state.LegalMoves(p) {
				next = append(next, cm.With(p, m))
			}
		}
		result = next
	}

	return result
}
