package work

import (
	"encoding/json"
	"sort"
)

// IDSet is a set of work ids. Sets are built once by the normalizer and
// shared between copies of a Work, so they must not be mutated afterwards.
type IDSet map[WorkID]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...WorkID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. A nil set contains nothing.
func (s IDSet) Has(id WorkID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id.
func (s IDSet) Add(id WorkID) {
	s[id] = struct{}{}
}

// Len returns the number of ids.
func (s IDSet) Len() int {
	return len(s)
}

// Sorted returns the ids in lexical order.
func (s IDSet) Sorted() []WorkID {
	ids := make([]WorkID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MarshalJSON encodes the set as a sorted array so output is stable.
func (s IDSet) MarshalJSON() ([]byte, error) {
	ids := s.Sorted()
	if ids == nil {
		ids = []WorkID{}
	}
	return json.Marshal(ids)
}

// UnmarshalJSON decodes an array of ids.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []WorkID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}
