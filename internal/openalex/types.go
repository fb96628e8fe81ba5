// Package openalex is a client for the OpenAlex scholarly graph API. It is the
// item source for collection building and resolves subject queries to authors.
package openalex

import "github.com/matsen/xcite/internal/work"

// Institution is an affiliation as reported by OpenAlex.
type Institution struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"display_name"`
}

// Author is the subset of the /authors/{id} entity that xcite uses.
type Author struct {
	ID                    string        `json:"id"`
	DisplayName           string        `json:"display_name"`
	WorksCount            int           `json:"works_count"`
	CitedByCount          int           `json:"cited_by_count"`
	LastKnownInstitutions []Institution `json:"last_known_institutions"`
	// Older snapshots of the API return a single institution.
	LastKnownInstitution *Institution `json:"last_known_institution"`
}

// InstitutionName returns the most recent affiliation, or "" if none is known.
func (a *Author) InstitutionName() string {
	if len(a.LastKnownInstitutions) > 0 && a.LastKnownInstitutions[0].DisplayName != "" {
		return a.LastKnownInstitutions[0].DisplayName
	}
	if a.LastKnownInstitution != nil {
		return a.LastKnownInstitution.DisplayName
	}
	return ""
}

// Subject converts the author into a comparison subject.
func (a *Author) Subject() *work.Subject {
	return newSubject(a.ID, a.DisplayName, a.InstitutionName())
}

// AuthorHit is one autocomplete suggestion. Hint is usually the institution.
type AuthorHit struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Hint         string `json:"hint"`
	WorksCount   int    `json:"works_count"`
	CitedByCount int    `json:"cited_by_count"`
}

// Subject converts the suggestion into a comparison subject.
func (h AuthorHit) Subject() *work.Subject {
	return newSubject(h.ID, h.DisplayName, h.Hint)
}

func newSubject(id, name, institution string) *work.Subject {
	if institution == "" {
		institution = work.UnknownInstitution
	}
	return &work.Subject{
		ID:          work.AuthorID(id),
		DisplayName: name,
		Institution: institution,
	}
}

// worksResponse is the envelope of GET /works.
type worksResponse struct {
	Meta struct {
		Count      int     `json:"count"`
		NextCursor *string `json:"next_cursor"`
	} `json:"meta"`
	Results []work.RawWork `json:"results"`
}

// autocompleteResponse is the envelope of GET /autocomplete/authors.
type autocompleteResponse struct {
	Results []AuthorHit `json:"results"`
}
