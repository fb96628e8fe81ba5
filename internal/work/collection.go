package work

import "sort"

// Collection is an ordered mapping from work id to Work for one subject.
// Order is explicit: insertion order until SortByYear is called, after which
// works are year-descending with ties in their previous relative order.
type Collection struct {
	order []WorkID
	byID  map[WorkID]Work
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{byID: make(map[WorkID]Work)}
}

// CollectionOf builds a collection from works in the given order.
func CollectionOf(works ...Work) *Collection {
	c := NewCollection()
	for _, w := range works {
		c.Put(w)
	}
	return c
}

// Put stores w. A work with an existing id is replaced in place (last write
// wins) and keeps its position.
func (c *Collection) Put(w Work) {
	if _, exists := c.byID[w.ID]; !exists {
		c.order = append(c.order, w.ID)
	}
	c.byID[w.ID] = w
}

// Get returns the work with id.
func (c *Collection) Get(id WorkID) (Work, bool) {
	if c == nil {
		return Work{}, false
	}
	w, ok := c.byID[id]
	return w, ok
}

// Has reports whether id is in the collection.
func (c *Collection) Has(id WorkID) bool {
	if c == nil {
		return false
	}
	_, ok := c.byID[id]
	return ok
}

// Len returns the number of works. A nil collection is empty.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// IsEmpty reports whether the collection has no works.
func (c *Collection) IsEmpty() bool {
	return c.Len() == 0
}

// IDs returns the ids in collection order.
func (c *Collection) IDs() []WorkID {
	if c == nil {
		return nil
	}
	ids := make([]WorkID, len(c.order))
	copy(ids, c.order)
	return ids
}

// Works returns the works in collection order.
func (c *Collection) Works() []Work {
	if c == nil {
		return nil
	}
	works := make([]Work, 0, len(c.order))
	for _, id := range c.order {
		works = append(works, c.byID[id])
	}
	return works
}

// Each calls fn for every work in order.
func (c *Collection) Each(fn func(Work)) {
	if c == nil {
		return
	}
	for _, id := range c.order {
		fn(c.byID[id])
	}
}

// SortByYear orders works by year descending; a missing year sorts as 0.
// The sort is stable.
func (c *Collection) SortByYear() {
	sort.SliceStable(c.order, func(i, j int) bool {
		return c.byID[c.order[i]].YearOrZero() > c.byID[c.order[j]].YearOrZero()
	})
}

// Clone returns an independent copy with the same order.
func (c *Collection) Clone() *Collection {
	return c.Map(func(w Work) Work { return w })
}

// Map returns a new collection with fn applied to every work. fn must not
// change the id.
func (c *Collection) Map(fn func(Work) Work) *Collection {
	out := &Collection{
		order: make([]WorkID, 0, c.Len()),
		byID:  make(map[WorkID]Work, c.Len()),
	}
	c.Each(func(w Work) {
		mapped := fn(w)
		out.order = append(out.order, w.ID)
		out.byID[w.ID] = mapped
	})
	return out
}

// Filter returns the works, in order, that pass f.
func (c *Collection) Filter(f Filter) []Work {
	var works []Work
	c.Each(func(w Work) {
		if f.Matches(w) {
			works = append(works, w)
		}
	})
	return works
}
