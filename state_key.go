package bluffing

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash"
)

// StateKey fingerprints a GameState by its deal and ordered move history.
// Derived fields of the state never enter the key.
type StateKey uint64

func KeyOf(state GameState) StateKey {
	history := state.History()
	n := 2
	for _, cm := range history {
		n += len(cm) + 1
	}

	buf := make([]byte, 0, 8*n)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(state.DealID()))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(history)))
	for _, cm := range history {
		// Length prefix so that histories with different arity never collide.
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(cm)))
		for _, m := range cm {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(m))
		}
	}

	return StateKey(xxhash.Sum64(buf))
}

// SameState reports whether a and b share a deal and a move history,
// which is everything KeyOf hashes.
func SameState(a, b GameState) bool {
	return a.DealID() == b.DealID() &&
		slices.EqualFunc(a.History(), b.History(), slices.Equal[CombinedMove])
}
