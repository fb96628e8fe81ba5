package main

import (
	"testing"

	"github.com/matsen/xcite/internal/match"
	"github.com/matsen/xcite/internal/session"
	"github.com/matsen/xcite/internal/timeline"
	"github.com/matsen/xcite/internal/work"
)

func testCollections() (*work.Collection, *work.Collection) {
	a := work.CollectionOf(
		work.Work{ID: "W1", Title: "a cites b", Year: work.IntPtr(2020), References: work.NewIDSet("W3")},
		work.Work{ID: "W2", Title: "shared", Year: work.IntPtr(2021)},
	)
	b := work.CollectionOf(
		work.Work{ID: "W2", Title: "shared", Year: work.IntPtr(2021)},
		work.Work{ID: "W3", Title: "cited by a", Year: work.IntPtr(2019)},
		work.Work{ID: "W4", Title: "unrelated", Year: work.IntPtr(2018)},
	)
	return a, b
}

func TestBuildCompareResponse_WithComparison(t *testing.T) {
	a, b := testCollections()
	m := match.Run(a, b)
	snap := &session.Snapshot{
		SessionID: "s1",
		A:         session.SlotView{Slot: session.SlotA, Status: session.StatusReady, Query: "alice", Works: a},
		B:         session.SlotView{Slot: session.SlotB, Status: session.StatusReady, Query: "bruno", Works: b},
		Comparison: &session.Comparison{
			Match:  m,
			Series: timeline.BuildFor(m.A, m.B, 2024),
		},
	}

	resp := buildCompareResponse(snap, work.FilterHighlighted, false)
	if resp.SessionID != "s1" || resp.A.Query != "alice" {
		t.Errorf("header = %+v", resp)
	}
	if resp.A.Match == nil || resp.A.Match.Citing != 1 || resp.A.Match.Shared != 1 {
		t.Errorf("A match stats = %+v", resp.A.Match)
	}
	if len(resp.A.Works) != 2 {
		t.Errorf("A highlighted = %d, want 2", len(resp.A.Works))
	}
	if len(resp.B.Works) != 2 {
		t.Errorf("B highlighted = %d, want 2 (W4 is unrelated)", len(resp.B.Works))
	}
	if resp.Shared != 1 {
		t.Errorf("shared = %d, want 1", resp.Shared)
	}
	if resp.Series != nil {
		t.Error("series should be omitted unless requested")
	}

	withSeries := buildCompareResponse(snap, work.FilterAll, true)
	if withSeries.Series == nil {
		t.Error("series requested but missing")
	}
}

func TestBuildCompareResponse_NoComparison(t *testing.T) {
	a, _ := testCollections()
	snap := &session.Snapshot{
		A: session.SlotView{Slot: session.SlotA, Status: session.StatusReady, Works: a},
		B: session.SlotView{Slot: session.SlotB, Status: session.StatusNotFound, Query: "nobody", Error: "not found"},
	}

	resp := buildCompareResponse(snap, work.FilterAll, true)
	if resp.A.Match != nil {
		t.Error("match stats need a comparison")
	}
	if len(resp.A.Works) != 2 {
		t.Errorf("A works = %d, want the raw 2", len(resp.A.Works))
	}
	if len(resp.B.Works) != 0 {
		t.Errorf("B works = %d, want 0", len(resp.B.Works))
	}
	if resp.B.Status != session.StatusNotFound || resp.B.Error == "" {
		t.Errorf("B side = %+v", resp.B)
	}
	if resp.Series != nil {
		t.Error("series needs a comparison")
	}
	if got := worksFor(snap, session.SlotA); got != a {
		t.Error("worksFor should return the raw collection without a comparison")
	}
}
