// Train a CFR strategy for one of the example games and print the
// average strategy of every information set.
package main

import (
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/golang/glog"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/timpalpant/bluffing"
	"github.com/timpalpant/bluffing/config"
	"github.com/timpalpant/bluffing/games"
)

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

	trainer := bluffing.NewTrainer(game, bluffing.NewInfoSetStore())
	start := time.Now()
	ev, err := trainer.Run(cfg.CFRIterations)
	if err != nil {
		glog.Fatal(err)
	}

	glog.Infof("Trained %d iterations in %v", trainer.Iterations(), time.Since(start))
	glog.Infof("Expected value is: %v", ev)

	store := trainer.InfoSets()
	data := pterm.TableData{{"Info set", "Reach", "Average strategy", "Average regret"}}
	for _, key := range store.Keys() {
		is, err := store.Lookup(key)
		if err != nil {
			glog.Fatal(err)
		}

		data = append(data, []string{
			key,
			fmt.Sprintf("%.3f", is.ReachProbability()),
			fmt.Sprintf("%.3f", is.AverageStrategy()),
			fmt.Sprintf("%.3f", is.AverageRegret()),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		glog.Fatal(err)
	}
}
