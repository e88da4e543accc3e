// Package config loads the settings of the command-line tools from
// flags, BLUFFING_* environment variables and an optional config file.
package config

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"lukechampine.com/frand"

	"github.com/timpalpant/bluffing"
)

const (
	FlagConfig            = "config"
	FlagGame              = "game"
	FlagStrategies        = "strategies"
	FlagRuns              = "runs"
	FlagSeed              = "seed"
	FlagCFRIterations     = "cfr-iterations"
	FlagParallelism       = "parallelism"
	FlagUtilityCacheSize  = "utility-cache-size"
	FlagBeliefCacheSize   = "belief-cache-size"
	FlagBestMoveCacheSize = "best-move-cache-size"
	FlagMetaIterations    = "meta-iterations"
	FlagMetaMixing        = "meta-mixing"
)

type Config struct {
	Game          string
	Strategies    []string
	Runs          int
	Seed          int64
	CFRIterations int
	Parallelism   int
	Arena         bluffing.ArenaConfig

	// Settings of the fictitious play solver for the metagame.
	MetaIterations int
	MetaMixing     float64
}

// RegisterFlags adds every setting to fs with its default value.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Config file (yaml, json or toml)")
	fs.String(FlagGame, "rps", "Game to play")
	fs.StringSlice(FlagStrategies, []string{"random", "honest", "liar", "belief-revision", "cooperative", "bluffing", "cfr"},
		"Strategies to battle")
	fs.Int(FlagRuns, 10000, "Number of matches per pairing")
	fs.Int64(FlagSeed, 0, "Random seed (0 to pick one at random)")
	fs.Int(FlagCFRIterations, 1000, "Number of CFR training iterations")
	fs.Int(FlagParallelism, 4, "Number of pairings to play concurrently")
	fs.Int(FlagUtilityCacheSize, bluffing.DefaultArenaConfig.UtilityCacheSize, "Maximum cached expected utilities per player")
	fs.Int(FlagBeliefCacheSize, bluffing.DefaultArenaConfig.BeliefCacheSize, "Maximum cached belief states per player")
	fs.Int(FlagBestMoveCacheSize, bluffing.DefaultArenaConfig.BestMoveCacheSize, "Maximum cached best moves per player")
	fs.Int(FlagMetaIterations, 100000, "Fictitious play iterations for the metagame")
	fs.Float64(FlagMetaMixing, 0.0, "Probability of a uniformly random response in fictitious play")
}

// Load reads the settings registered on fs. Environment variables take
// the form BLUFFING_CFR_ITERATIONS. Flags set explicitly take precedence
// over the environment, which takes precedence over the config file.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("bluffing")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}

	if path := v.GetString(FlagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	cfg := &Config{
		Game:          v.GetString(FlagGame),
		Strategies:    v.GetStringSlice(FlagStrategies),
		Runs:          v.GetInt(FlagRuns),
		Seed:          v.GetInt64(FlagSeed),
		CFRIterations: v.GetInt(FlagCFRIterations),
		Parallelism:   v.GetInt(FlagParallelism),
		Arena: bluffing.ArenaConfig{
			UtilityCacheSize:  v.GetInt(FlagUtilityCacheSize),
			BeliefCacheSize:   v.GetInt(FlagBeliefCacheSize),
			BestMoveCacheSize: v.GetInt(FlagBestMoveCacheSize),
		},
		MetaIterations: v.GetInt(FlagMetaIterations),
		MetaMixing:     v.GetFloat64(FlagMetaMixing),
	}

	if cfg.Seed == 0 {
		cfg.Seed = int64(frand.Uint64n(math.MaxInt64)) + 1
	}

	return cfg, cfg.Validate()
}

// Validate checks that every setting is within range.
func (c *Config) Validate() error {
	switch {
	case c.Runs <= 0:
		return errors.Errorf("%s must be positive, got %d", FlagRuns, c.Runs)
	case c.Parallelism <= 0:
		return errors.Errorf("%s must be positive, got %d", FlagParallelism, c.Parallelism)
	case c.CFRIterations < 0:
		return errors.Errorf("%s must not be negative, got %d", FlagCFRIterations, c.CFRIterations)
	case c.Arena.UtilityCacheSize <= 0 || c.Arena.BeliefCacheSize <= 0 || c.Arena.BestMoveCacheSize <= 0:
		return errors.Errorf("cache sizes must be positive, got %+v", c.Arena)
	case len(c.Strategies) == 0:
		return errors.Errorf("no %s given", FlagStrategies)
	case c.MetaMixing < 0 || c.MetaMixing > 1:
		return errors.Errorf("%s must be in [0, 1], got %v", FlagMetaMixing, c.MetaMixing)
	}

	return nil
}
