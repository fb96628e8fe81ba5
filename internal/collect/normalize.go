// Package collect builds one subject's deduplicated work collection and
// collaborator index from a paginated item source.
package collect

import (
	"strings"

	"github.com/matsen/xcite/internal/work"
)

// Verdict is the outcome of normalizing one raw work.
type Verdict int

const (
	Accepted  Verdict = iota
	Malformed         // missing id or title
	Duplicate         // id already seen in this build pass
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case Malformed:
		return "malformed"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Normalizer canonicalizes raw works for one collection-build pass. It
// remembers every accepted id so repeats are rejected. Not safe for
// concurrent use; each build gets its own.
type Normalizer struct {
	seen map[work.WorkID]bool
}

// NewNormalizer returns a Normalizer with an empty seen-set.
func NewNormalizer() *Normalizer {
	return &Normalizer{seen: make(map[work.WorkID]bool)}
}

// Normalize converts raw into a Work. The Work is only meaningful when the
// verdict is Accepted.
func (n *Normalizer) Normalize(raw work.RawWork) (work.Work, Verdict) {
	id := work.WorkID(strings.TrimSpace(raw.ID))
	if id == "" || raw.Title == nil {
		return work.Work{}, Malformed
	}
	if n.seen[id] {
		return work.Work{}, Duplicate
	}
	n.seen[id] = true

	title := strings.TrimSpace(*raw.Title)
	if title == "" {
		title = work.UntitledTitle
	}

	refs := make(work.IDSet, len(raw.ReferencedWorks))
	for _, r := range raw.ReferencedWorks {
		if r = strings.TrimSpace(r); r != "" {
			refs.Add(work.WorkID(r))
		}
	}

	return work.Work{
		ID:         id,
		Title:      title,
		Year:       copyInt(raw.PublicationYear),
		References: refs,
		Venue:      venueOf(raw.PrimaryLocation),
		Link:       linkOf(raw.PrimaryLocation),
	}, Accepted
}

func venueOf(loc *work.RawLocation) string {
	if loc == nil || loc.Source == nil || loc.Source.DisplayName == nil {
		return work.UnknownVenue
	}
	if v := strings.TrimSpace(*loc.Source.DisplayName); v != "" {
		return v
	}
	return work.UnknownVenue
}

func linkOf(loc *work.RawLocation) string {
	if loc == nil || loc.LandingPageURL == nil {
		return ""
	}
	return strings.TrimSpace(*loc.LandingPageURL)
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
