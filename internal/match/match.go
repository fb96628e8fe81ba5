// Package match computes citation and co-authorship relationships between
// two subjects' work collections.
package match

import "github.com/matsen/xcite/internal/work"

// Result holds freshly built collections with flags set and the per-side
// counts. The input collections are never modified.
type Result struct {
	A      *work.Collection
	B      *work.Collection
	StatsA work.MatchStats
	StatsB work.MatchStats
}

// pair is a directed (citing, cited) relationship.
type pair struct {
	from, to work.WorkID
}

// Run matches every work of a against every work of b.
//
// A pair with equal ids is a shared work: flagged on both sides, counted once
// per id, and never considered for citation. For any other pair, a work
// whose references contain the other's id is citing and the other is cited.
// Both directions are checked independently and flags accumulate across
// pairs, so one work may be both citing and cited. Two works that cite each
// other count in both directions: each is citing and each is cited.
//
// Rather than visiting all |a|·|b| pairs, each reference set is probed
// against the opposite collection, which finds exactly the pairs that match.
// Run starts from cleared flags and keeps no state, so repeated calls on the
// same inputs give identical results.
func Run(a, b *work.Collection) Result {
	flagsA := make(map[work.WorkID]work.MatchFlags, a.Len())
	flagsB := make(map[work.WorkID]work.MatchFlags, b.Len())
	var statsA, statsB work.MatchStats

	sharedSeen := make(map[work.WorkID]bool)
	citingSeen := make(map[pair]bool) // a citing b
	citedSeen := make(map[pair]bool)  // b citing a

	a.Each(func(wa work.Work) {
		if b.Has(wa.ID) && !sharedSeen[wa.ID] {
			sharedSeen[wa.ID] = true
			setFlag(flagsA, wa.ID, func(f *work.MatchFlags) { f.Shared = true })
			setFlag(flagsB, wa.ID, func(f *work.MatchFlags) { f.Shared = true })
			statsA.Shared++
			statsB.Shared++
		}
	})

	// a citing b
	a.Each(func(wa work.Work) {
		for ref := range wa.References {
			if ref == wa.ID || !b.Has(ref) {
				continue
			}
			p := pair{from: wa.ID, to: ref}
			if citingSeen[p] {
				continue
			}
			citingSeen[p] = true
			setFlag(flagsA, wa.ID, func(f *work.MatchFlags) { f.Citing = true })
			setFlag(flagsB, ref, func(f *work.MatchFlags) { f.CitedBy = true })
			statsA.Citing++
			statsB.CitedBy++
		}
	})

	// b citing a
	b.Each(func(wb work.Work) {
		for ref := range wb.References {
			if ref == wb.ID || !a.Has(ref) {
				continue
			}
			p := pair{from: wb.ID, to: ref}
			if citedSeen[p] {
				continue
			}
			citedSeen[p] = true
			setFlag(flagsB, wb.ID, func(f *work.MatchFlags) { f.Citing = true })
			setFlag(flagsA, ref, func(f *work.MatchFlags) { f.CitedBy = true })
			statsB.Citing++
			statsA.CitedBy++
		}
	})

	statsA.Total = a.Len()
	statsB.Total = b.Len()

	return Result{
		A:      applyFlags(a, flagsA),
		B:      applyFlags(b, flagsB),
		StatsA: statsA,
		StatsB: statsB,
	}
}

func setFlag(m map[work.WorkID]work.MatchFlags, id work.WorkID, fn func(*work.MatchFlags)) {
	f := m[id]
	fn(&f)
	m[id] = f
}

// applyFlags copies c with every work's flags replaced by the computed ones
// (cleared when the work matched nothing).
func applyFlags(c *work.Collection, flags map[work.WorkID]work.MatchFlags) *work.Collection {
	if c == nil {
		return work.NewCollection()
	}
	return c.Map(func(w work.Work) work.Work {
		return w.WithFlags(flags[w.ID])
	})
}
