// Package author parses the free-text subject queries typed by the user.
package author

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinAutocompleteLength is the shortest name query worth sending to the
// autocomplete endpoint.
const MinAutocompleteLength = 2

// minIDLength is the shortest bare OpenAlex author id, e.g. "A5023888391".
const minIDLength = 11

// ErrQueryTooShort is returned by Validate for empty or one-letter names.
var ErrQueryTooShort = errors.New("author query too short")

// Kind says how a query should be resolved.
type Kind string

const (
	KindName Kind = "name"
	KindID   Kind = "id"
)

// Query represents a parsed subject query.
type Query struct {
	Kind  Kind
	Value string // bare id for KindID, trimmed text for KindName
}

// idPrefixes are the URL forms of an OpenAlex author id that are accepted.
var idPrefixes = []string{
	"https://openalex.org/",
	"http://openalex.org/",
	"https://api.openalex.org/authors/",
	"http://api.openalex.org/authors/",
	"openalex.org/",
}

// ParseQuery parses a subject query.
//
// Supported formats:
//   - "A5023888391"                       → id
//   - "https://openalex.org/A5023888391"  → id
//   - "Santo Fortunato"                   → name
//
// Anything that is not recognisably an author id is treated as a name.
func ParseQuery(input string) Query {
	input = strings.TrimSpace(input)
	if input == "" {
		return Query{Kind: KindName}
	}

	candidate := input
	for _, p := range idPrefixes {
		if len(candidate) > len(p) && strings.EqualFold(candidate[:len(p)], p) {
			candidate = candidate[len(p):]
			break
		}
	}
	if isAuthorID(candidate) {
		return Query{Kind: KindID, Value: strings.ToUpper(candidate[:1]) + candidate[1:]}
	}

	return Query{Kind: KindName, Value: strings.Join(strings.Fields(input), " ")}
}

// isAuthorID reports whether s looks like "A" followed by digits.
func isAuthorID(s string) bool {
	if len(s) < minIDLength || (s[0] != 'A' && s[0] != 'a') {
		return false
	}
	for _, r := range s[1:] {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Validate returns ErrQueryTooShort for name queries below
// MinAutocompleteLength. Id queries are always valid.
func (q Query) Validate() error {
	if q.Kind == KindID {
		return nil
	}
	if utf8.RuneCountInString(q.Value) < MinAutocompleteLength {
		return ErrQueryTooShort
	}
	return nil
}

// MatchesName reports whether a display name matches a name query, ignoring
// case and extra whitespace. Used to log when autocomplete picks someone
// other than the exact name typed.
func (q Query) MatchesName(displayName string) bool {
	return strings.EqualFold(q.Value, strings.Join(strings.Fields(displayName), " "))
}

func (q Query) String() string {
	return string(q.Kind) + ":" + q.Value
}
