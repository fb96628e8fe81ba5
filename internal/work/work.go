// Package work defines the core domain types for comparing two authors'
// publication lists.
package work

import "strings"

const (
	// UntitledTitle replaces titles that are empty after trimming.
	UntitledTitle = "Untitled"

	// UnknownVenue is used when a work has no resolvable source.
	UnknownVenue = "Unknown Venue"

	// UnknownInstitution is used when a person has no listed affiliation.
	UnknownInstitution = "Unknown Institution"

	// openAlexPrefix is stripped by ShortID.
	openAlexPrefix = "https://openalex.org/"
)

// WorkID identifies a work. OpenAlex ids are kept in their long URL form
// because referenced_works uses the same form.
type WorkID string

// AuthorID identifies a person (subject or collaborator).
type AuthorID string

// ShortID returns the id without the OpenAlex URL prefix.
func (id WorkID) ShortID() string {
	return strings.TrimPrefix(string(id), openAlexPrefix)
}

// ShortID returns the id without the OpenAlex URL prefix.
func (id AuthorID) ShortID() string {
	return strings.TrimPrefix(string(id), openAlexPrefix)
}

// Equal reports whether two author ids refer to the same person, ignoring
// the URL prefix.
func (id AuthorID) Equal(other AuthorID) bool {
	return id.ShortID() == other.ShortID()
}

// MatchFlags records how a work relates to the other subject's collection.
type MatchFlags struct {
	Citing  bool `json:"citing"`   // cites at least one work of the other subject
	CitedBy bool `json:"cited_by"` // cited by at least one work of the other subject
	Shared  bool `json:"shared"`   // appears in both collections (co-authored)
}

// Any reports whether any flag is set.
func (f MatchFlags) Any() bool {
	return f.Citing || f.CitedBy || f.Shared
}

// Work is one publication. Works are values: methods that change flags
// return a modified copy.
type Work struct {
	ID         WorkID     `json:"id"`
	Title      string     `json:"title"`
	Year       *int       `json:"year,omitempty"`
	References IDSet      `json:"references"`
	Venue      string     `json:"venue"`
	Link       string     `json:"link,omitempty"`
	Flags      MatchFlags `json:"flags"`
}

// YearOrZero returns the publication year, or 0 when unknown.
func (w Work) YearOrZero() int {
	if w.Year == nil {
		return 0
	}
	return *w.Year
}

// Cites reports whether w references id.
func (w Work) Cites(id WorkID) bool {
	return w.References.Has(id)
}

// WithFlags returns a copy of w carrying flags.
func (w Work) WithFlags(flags MatchFlags) Work {
	w.Flags = flags
	return w
}

// ClearFlags returns a copy of w with every match flag reset.
func (w Work) ClearFlags() Work {
	return w.WithFlags(MatchFlags{})
}

// MatchStats are the per-subject counts derived from one match pass.
type MatchStats struct {
	Citing  int `json:"citing"`
	CitedBy int `json:"cited_by"`
	Shared  int `json:"shared"`
	Total   int `json:"total"`
}

// Subject is a resolved author being compared.
type Subject struct {
	ID          AuthorID `json:"id"`
	DisplayName string   `json:"display_name"`
	Institution string   `json:"institution"`
}

// IntPtr returns a pointer to v. Handy for building works with a year.
func IntPtr(v int) *int {
	return &v
}
