package bluffing

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// InfoSetStore holds the information sets created during training,
// keyed by canonical key.
type InfoSetStore struct {
	infoSets map[string]*InformationSet
}

func NewInfoSetStore() *InfoSetStore {
	return &InfoSetStore{
		infoSets: make(map[string]*InformationSet),
	}
}

// GetOrCreate returns the information set for key, creating it with
// nActions actions on first visit.
func (s *InfoSetStore) GetOrCreate(key string, nActions int) (*InformationSet, error) {
	is, ok := s.infoSets[key]
	if !ok {
		is = NewInformationSet(key, nActions)
		s.infoSets[key] = is
		return is, nil
	}

	if is.NumActions() != nActions {
		return nil, errors.Wrapf(ErrActionCountMismatch,
			"key %q has %d actions, got %d", key, is.NumActions(), nActions)
	}

	return is, nil
}

// Lookup returns the information set for key. There is no default for
// keys that were never visited.
func (s *InfoSetStore) Lookup(key string) (*InformationSet, error) {
	is, ok := s.infoSets[key]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownInfoSet, "key %q", key)
	}

	return is, nil
}

func (s *InfoSetStore) Len() int {
	return len(s.infoSets)
}

// Keys returns every key in sorted order.
func (s *InfoSetStore) Keys() []string {
	keys := lo.Keys(s.infoSets)
	sort.Strings(keys)
	return keys
}

// NextStrategy advances every information set to its next strategy.
func (s *InfoSetStore) NextStrategy() {
	for _, is := range s.infoSets {
		is.nextStrategy()
	}
}
