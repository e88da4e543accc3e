// Play every pair of strategies against each other and solve the
// resulting metagame.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/timpalpant/bluffing"
	"github.com/timpalpant/bluffing/config"
	"github.com/timpalpant/bluffing/games"
	"github.com/timpalpant/bluffing/matrixgame"
)

type pairing struct {
	seat0, seat1 int
	result       *bluffing.BattleResult
}

func main() {
	config.RegisterFlags(pflag.CommandLine)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	cfg, err := config.Load(pflag.CommandLine)
	if err != nil {
		glog.Fatal(err)
	}

	go http.ListenAndServe("localhost:4123", nil)

	game, err := games.New(cfg.Game)
	if err != nil {
		glog.Fatal(err)
	}

	if game.NumPlayers() != 2 {
		glog.Fatalf("%s has %d players, only 2-player games can be battled", game.Name(), game.NumPlayers())
	}

	glog.Infof("Battling %v on %s with seed %d", cfg.Strategies, game.Name(), cfg.Seed)
	var pairings []*pairing
	for i := range cfg.Strategies {
		for j := range cfg.Strategies {
			pairings = append(pairings, &pairing{seat0: i, seat1: j})
		}
	}

	var g errgroup.Group
	g.SetLimit(cfg.Parallelism)
	for idx, pr := range pairings {
		idx, pr := idx, pr
		g.Go(func() error {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(idx)))
			players, err := newPlayers(cfg, game, []string{cfg.Strategies[pr.seat0], cfg.Strategies[pr.seat1]}, rng)
			if err != nil {
				return err
			}

			pr.result, err = bluffing.Battle(game, players, cfg.Runs, rng)
			return errors.Wrapf(err, "%s vs. %s", cfg.Strategies[pr.seat0], cfg.Strategies[pr.seat1])
		})
	}

	if err := g.Wait(); err != nil {
		glog.Fatal(err)
	}

	printResults(pairings, cfg.Strategies)

	n := len(cfg.Strategies)
	payoffs := make([][]float64, n)
	for i := range payoffs {
		payoffs[i] = make([]float64, n)
	}
	for _, pr := range pairings {
		payoffs[pr.seat0][pr.seat1] = pr.result.Mean(0) - pr.result.Mean(1)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	p0, p1, err := matrixgame.FictitiousPlay(payoffs, cfg.MetaIterations, cfg.MetaMixing, rng)
	if err != nil {
		glog.Fatal(err)
	}

	printEquilibrium(cfg.Strategies, p0, p1)
}

func newPlayers(cfg *config.Config, game bluffing.Game, names []string, rng *rand.Rand) ([]bluffing.Player, error) {
	// CFR players in the same pairing share their training.
	var trainer *bluffing.Trainer
	players := make([]bluffing.Player, len(names))
	for i, name := range names {
		switch name {
		case "random":
			players[i] = bluffing.NewRandomPlayer(rng)
		case "cfr":
			if trainer == nil {
				trainer = bluffing.NewTrainer(game, bluffing.NewInfoSetStore())
			}
			players[i] = bluffing.NewCFRPlayer(trainer, cfg.CFRIterations, rng)
		default:
			kind, err := bluffing.ParseKind(name)
			if err != nil {
				return nil, err
			}

			arena, err := bluffing.NewArena(cfg.Arena)
			if err != nil {
				return nil, err
			}

			players[i] = bluffing.NewSearchPlayer(kind, arena, rng)
		}
	}

	return players, nil
}

func printResults(pairings []*pairing, strategies []string) {
	data := pterm.TableData{
		{"Player 0", "Player 1", "Mean 0", "Mean 1", "Wins 0", "Wins 1", "Ties"},
	}
	for _, pr := range pairings {
		br := pr.result
		data = append(data, []string{
			strategies[pr.seat0],
			strategies[pr.seat1],
			fmt.Sprintf("%.2f ± %.2f", br.Mean(0), br.StdErr(0)),
			fmt.Sprintf("%.2f ± %.2f", br.Mean(1), br.StdErr(1)),
			fmt.Sprintf("%.1f%%", 100*br.WinRate(0)),
			fmt.Sprintf("%.1f%%", 100*br.WinRate(1)),
			fmt.Sprintf("%d", br.Ties),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		glog.Error(err)
	}
}

func printEquilibrium(strategies []string, p0, p1 []float64) {
	data := pterm.TableData{{"Strategy", "Player 0", "Player 1"}}
	for i, name := range strategies {
		data = append(data, []string{name, fmt.Sprintf("%.3f", p0[i]), fmt.Sprintf("%.3f", p1[i])})
	}

	pterm.DefaultSection.Println("Metagame equilibrium")
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		glog.Error(err)
	}
}
