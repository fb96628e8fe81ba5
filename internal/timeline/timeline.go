// Package timeline buckets matched works by publication year.
package timeline

import (
	"sort"
	"time"

	"github.com/matsen/xcite/internal/work"
)

const (
	// MinYearExclusive is the earliest year that is never counted.
	MinYearExclusive = 1900

	// FutureSlack is how many years past the current one are still valid,
	// which admits works announced with a forthcoming publication year.
	FutureSlack = 5
)

// TrendPoint counts publications per year.
type TrendPoint struct {
	Year   int `json:"year"`
	A      int `json:"a"`
	B      int `json:"b"`
	Shared int `json:"shared"`
}

// RelationPoint counts relationship occurrences per year.
type RelationPoint struct {
	Year    int `json:"year"`
	Citing  int `json:"citing"`
	CitedBy int `json:"cited_by"`
	Shared  int `json:"shared"`
}

// Series holds both yearly views over the same sorted years.
type Series struct {
	Years     []int           `json:"years"`
	Trend     []TrendPoint    `json:"trend"`
	Relations []RelationPoint `json:"relations"`
}

// IsEmpty reports whether no year qualified.
func (s *Series) IsEmpty() bool {
	return len(s.Years) == 0
}

// Build aggregates a and b using the current calendar year.
func Build(a, b *work.Collection) *Series {
	return BuildFor(a, b, time.Now().Year())
}

// ValidYear reports whether year falls inside (1900, currentYear+5].
func ValidYear(year, currentYear int) bool {
	return year > MinYearExclusive && year <= currentYear+FutureSlack
}

// BuildFor aggregates matched collections a and b. Works without a year or
// with a year outside the valid window are left out of every series.
//
// Trend counts each side's works and the shared works once per id.
// Relations counts citing and cited-by flags on both sides; shared flags
// are counted from a only, since every shared work appears in both.
func BuildFor(a, b *work.Collection, currentYear int) *Series {
	trend := make(map[int]*TrendPoint)
	rel := make(map[int]*RelationPoint)

	trendAt := func(y int) *TrendPoint {
		if p, ok := trend[y]; ok {
			return p
		}
		p := &TrendPoint{Year: y}
		trend[y] = p
		return p
	}
	relAt := func(y int) *RelationPoint {
		if p, ok := rel[y]; ok {
			return p
		}
		p := &RelationPoint{Year: y}
		rel[y] = p
		return p
	}

	sharedSeen := make(map[work.WorkID]bool)
	visit := func(w work.Work, fromA bool) {
		if w.Year == nil || !ValidYear(*w.Year, currentYear) {
			return
		}
		y := *w.Year

		tp := trendAt(y)
		if fromA {
			tp.A++
		} else {
			tp.B++
		}
		if w.Flags.Shared && !sharedSeen[w.ID] {
			sharedSeen[w.ID] = true
			tp.Shared++
		}

		rp := relAt(y)
		if w.Flags.Citing {
			rp.Citing++
		}
		if w.Flags.CitedBy {
			rp.CitedBy++
		}
		if fromA && w.Flags.Shared {
			rp.Shared++
		}
	}

	a.Each(func(w work.Work) { visit(w, true) })
	b.Each(func(w work.Work) { visit(w, false) })

	years := make([]int, 0, len(trend))
	for y := range trend {
		years = append(years, y)
	}
	sort.Ints(years)

	s := &Series{
		Years:     years,
		Trend:     make([]TrendPoint, 0, len(years)),
		Relations: make([]RelationPoint, 0, len(years)),
	}
	for _, y := range years {
		s.Trend = append(s.Trend, *trendAt(y))
		s.Relations = append(s.Relations, *relAt(y))
	}
	return s
}
