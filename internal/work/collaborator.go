package work

import "sort"

// Collaborator is a person who co-authored at least one work with a subject.
type Collaborator struct {
	ID          AuthorID `json:"id"`
	Name        string   `json:"name"`
	Institution string   `json:"institution"`
	Count       int      `json:"collaboration_count"`
}

// CollaboratorIndex maps collaborator id to Collaborator for one subject,
// remembering first-seen order for tie-breaking.
type CollaboratorIndex struct {
	subject AuthorID
	order   []AuthorID
	byID    map[AuthorID]*Collaborator
}

// NewCollaboratorIndex returns an empty index that ignores subject's own id.
func NewCollaboratorIndex(subject AuthorID) *CollaboratorIndex {
	return &CollaboratorIndex{
		subject: subject,
		byID:    make(map[AuthorID]*Collaborator),
	}
}

// Subject returns the id this index excludes.
func (x *CollaboratorIndex) Subject() AuthorID {
	return x.subject
}

// Upsert records one more co-authored work with the given person. The first
// sighting fixes name and institution; later sightings only increment the
// count. Returns false when id is empty or is the subject.
func (x *CollaboratorIndex) Upsert(id AuthorID, name, institution string) bool {
	if id == "" || id.Equal(x.subject) {
		return false
	}
	if c, ok := x.byID[id]; ok {
		c.Count++
		return true
	}
	if institution == "" {
		institution = UnknownInstitution
	}
	x.byID[id] = &Collaborator{ID: id, Name: name, Institution: institution, Count: 1}
	x.order = append(x.order, id)
	return true
}

// Get returns a copy of the collaborator with id.
func (x *CollaboratorIndex) Get(id AuthorID) (Collaborator, bool) {
	if x == nil {
		return Collaborator{}, false
	}
	c, ok := x.byID[id]
	if !ok {
		return Collaborator{}, false
	}
	return *c, true
}

// Len returns the number of collaborators.
func (x *CollaboratorIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.order)
}

// Collaborators returns copies in first-seen order.
func (x *CollaboratorIndex) Collaborators() []Collaborator {
	if x == nil {
		return nil
	}
	out := make([]Collaborator, 0, len(x.order))
	for _, id := range x.order {
		out = append(out, *x.byID[id])
	}
	return out
}

// Top returns up to n collaborators by count descending, ties in first-seen
// order. n <= 0 returns all of them.
func (x *CollaboratorIndex) Top(n int) []Collaborator {
	all := x.Collaborators()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Count > all[j].Count
	})
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}
