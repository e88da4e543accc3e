// Package games provides the example games by name.
package games

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/timpalpant/bluffing"
	"github.com/timpalpant/bluffing/games/cluedo"
	"github.com/timpalpant/bluffing/games/pennies"
	"github.com/timpalpant/bluffing/games/rps"
	"github.com/timpalpant/bluffing/games/sexes"
	"github.com/timpalpant/bluffing/games/spies"
)

var registry = map[string]func() bluffing.Game{
	"rps":     func() bluffing.Game { return rps.New() },
	"spies":   func() bluffing.Game { return spies.New() },
	"sexes":   func() bluffing.Game { return sexes.New() },
	"pennies": func() bluffing.Game { return pennies.Standard() },
	"cluedo":  func() bluffing.Game { return cluedo.New() },
}

// New returns a new instance of the named game.
func New(name string) (bluffing.Game, error) {
	newGame, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown game %q, expected one of %v", name, Names())
	}

	return newGame(), nil
}

func Names() []string {
	var names []string
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
