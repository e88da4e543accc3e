package bluffing

import (
	"expvar"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

var (
	cacheCollisions     = expvar.NewInt("cache_collisions")
	utilityCacheHits    = expvar.NewInt("utility_cache/hits")
	utilityCacheMisses  = expvar.NewInt("utility_cache/misses")
	beliefCacheHits     = expvar.NewInt("belief_cache/hits")
	beliefCacheMisses   = expvar.NewInt("belief_cache/misses")
	bestMoveCacheHits   = expvar.NewInt("best_move_cache/hits")
	bestMoveCacheMisses = expvar.NewInt("best_move_cache/misses")
)

// ArenaConfig sets the maximum number of entries of each cache in an Arena.
type ArenaConfig struct {
	UtilityCacheSize  int
	BeliefCacheSize   int
	BestMoveCacheSize int
}

var DefaultArenaConfig = ArenaConfig{
	UtilityCacheSize:  1 << 20,
	BeliefCacheSize:   1 << 16,
	BestMoveCacheSize: 1 << 16,
}

// Arena holds the memoization caches shared by every evaluation made
// from one search root, including nested belief re-simulations.
// An Arena is not safe for concurrent use.
type Arena struct {
	utilities *lru.Cache
	beliefs   *lru.Cache
	bestMoves *lru.Cache
}

type utilityKey struct {
	state  StateKey
	player int
	move   Move
}

type beliefKey struct {
	state    StateKey
	observer int
}

// entry remembers the state a cached value was computed for. Two states
// whose StateKeys collide are told apart by SameState on lookup, and
// the colliding lookup is treated as a miss.
type entry struct {
	state GameState
	value interface{}
}

func lookup(cache *lru.Cache, key interface{}, state GameState) (interface{}, bool) {
	v, ok := cache.Get(key)
	if !ok {
		return nil, false
	}

	e := v.(entry)
	if !SameState(e.state, state) {
		cacheCollisions.Add(1)
		return nil, false
	}

	return e.value, true
}

func NewArena(config ArenaConfig) (*Arena, error) {
	utilities, err := lru.New(config.UtilityCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "utility cache")
	}

	beliefs, err := lru.New(config.BeliefCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "belief cache")
	}

	bestMoves, err := lru.New(config.BestMoveCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "best move cache")
	}

	return &Arena{
		utilities: utilities,
		beliefs:   beliefs,
		bestMoves: bestMoves,
	}, nil
}

// MustNewArena is like NewArena but panics if the config is invalid.
func MustNewArena(config ArenaConfig) *Arena {
	a, err := NewArena(config)
	if err != nil {
		panic(err)
	}

	return a
}

func (a *Arena) utility(key utilityKey, state GameState) ([]float64, bool) {
	v, ok := lookup(a.utilities, key, state)
	if !ok {
		utilityCacheMisses.Add(1)
		return nil, false
	}

	utilityCacheHits.Add(1)
	return v.([]float64), true
}

func (a *Arena) putUtility(key utilityKey, state GameState, u []float64) {
	a.utilities.Add(key, entry{state: state, value: u})
}

func (a *Arena) beliefState(key beliefKey, state GameState) (*BeliefState, bool) {
	v, ok := lookup(a.beliefs, key, state)
	if !ok {
		beliefCacheMisses.Add(1)
		return nil, false
	}

	beliefCacheHits.Add(1)
	return v.(*BeliefState), true
}

func (a *Arena) putBeliefState(key beliefKey, state GameState, bs *BeliefState) {
	a.beliefs.Add(key, entry{state: state, value: bs})
}

func (a *Arena) bestMoveSet(historyKey string) ([]Move, bool) {
	v, ok := a.bestMoves.Get(historyKey)
	if !ok {
		bestMoveCacheMisses.Add(1)
		return nil, false
	}

	bestMoveCacheHits.Add(1)
	return v.([]Move), true
}

func (a *Arena) putBestMoveSet(historyKey string, moves []Move) {
	a.bestMoves.Add(historyKey, moves)
}

// Len returns the number of entries in each cache.
func (a *Arena) Len() (utilities, beliefs, bestMoves int) {
	return a.utilities.Len(), a.beliefs.Len(), a.bestMoves.Len()
}

// Purge empties every cache.
func (a *Arena) Purge() {
	a.utilities.Purge()
	a.beliefs.Purge()
	a.bestMoves.Purge()
}
