package work

import "fmt"

// Filter selects works by their match flags.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterHighlighted Filter = "highlighted"
	FilterCiting      Filter = "citing"
	FilterCited       Filter = "cited"
	FilterShared      Filter = "shared"
)

// ValidFilters lists the supported filter values.
var ValidFilters = []Filter{FilterAll, FilterHighlighted, FilterCiting, FilterCited, FilterShared}

// ParseFilter validates a filter name. An empty name means FilterAll.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range ValidFilters {
		if Filter(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid filter %q (valid: %v)", s, ValidFilters)
}

// Matches reports whether w passes the filter.
func (f Filter) Matches(w Work) bool {
	switch f {
	case FilterHighlighted:
		return w.Flags.Any()
	case FilterCiting:
		return w.Flags.Citing
	case FilterCited:
		return w.Flags.CitedBy
	case FilterShared:
		return w.Flags.Shared
	default:
		return true
	}
}
