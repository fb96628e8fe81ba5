package work

import (
	"encoding/json"
	"testing"
)

func TestCollection_SortByYearStable(t *testing.T) {
	c := CollectionOf(
		Work{ID: "w1", Year: IntPtr(2019)},
		Work{ID: "w2"},
		Work{ID: "w3", Year: IntPtr(2021)},
		Work{ID: "w4", Year: IntPtr(2019)},
		Work{ID: "w5", Year: IntPtr(2021)},
	)
	c.SortByYear()

	want := []WorkID{"w3", "w5", "w1", "w4", "w2"}
	got := c.IDs()
	if len(got) != len(want) {
		t.Fatalf("got %d ids, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCollection_PutKeepsPosition(t *testing.T) {
	c := CollectionOf(
		Work{ID: "w1", Title: "first"},
		Work{ID: "w2", Title: "second"},
	)
	c.Put(Work{ID: "w1", Title: "replaced"})

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if ids := c.IDs(); ids[0] != "w1" {
		t.Errorf("first id = %q, want w1", ids[0])
	}
	w, ok := c.Get("w1")
	if !ok || w.Title != "replaced" {
		t.Errorf("Get(w1) = %+v, %v; want replaced title", w, ok)
	}
}

func TestCollection_MapDoesNotTouchSource(t *testing.T) {
	src := CollectionOf(Work{ID: "w1", Flags: MatchFlags{Citing: true}})
	cleared := src.Map(Work.ClearFlags)

	orig, _ := src.Get("w1")
	if !orig.Flags.Citing {
		t.Error("source work lost its flag")
	}
	got, _ := cleared.Get("w1")
	if got.Flags.Any() {
		t.Errorf("mapped work flags = %+v, want cleared", got.Flags)
	}
}

func TestNilCollection(t *testing.T) {
	var c *Collection
	if c.Len() != 0 || !c.IsEmpty() || c.Has("x") {
		t.Error("nil collection should behave as empty")
	}
	if c.Works() != nil {
		t.Error("nil collection Works() should be nil")
	}
}

func TestFilter(t *testing.T) {
	works := []Work{
		{ID: "plain"},
		{ID: "citing", Flags: MatchFlags{Citing: true}},
		{ID: "cited", Flags: MatchFlags{CitedBy: true}},
		{ID: "shared", Flags: MatchFlags{Shared: true}},
	}
	c := CollectionOf(works...)

	tests := []struct {
		filter Filter
		want   int
	}{
		{FilterAll, 4},
		{FilterHighlighted, 3},
		{FilterCiting, 1},
		{FilterCited, 1},
		{FilterShared, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			if got := len(c.Filter(tt.filter)); got != tt.want {
				t.Errorf("Filter(%s) returned %d works, want %d", tt.filter, got, tt.want)
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	if f, err := ParseFilter(""); err != nil || f != FilterAll {
		t.Errorf("ParseFilter(\"\") = %q, %v; want all", f, err)
	}
	if _, err := ParseFilter("coauthored"); err == nil {
		t.Error("ParseFilter(coauthored) should fail")
	}
	if f, err := ParseFilter("cited"); err != nil || f != FilterCited {
		t.Errorf("ParseFilter(cited) = %q, %v", f, err)
	}
}

func TestCollaboratorIndex_Upsert(t *testing.T) {
	x := NewCollaboratorIndex("https://openalex.org/A1")

	if x.Upsert("A1", "Self", "") {
		t.Error("subject (short form) should be excluded")
	}
	if x.Upsert("", "Nobody", "") {
		t.Error("empty id should be rejected")
	}

	x.Upsert("A2", "Ada", "")
	x.Upsert("A3", "Bob", "MIT")
	x.Upsert("A2", "Ada Renamed", "Oxford")

	if x.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", x.Len())
	}
	ada, _ := x.Get("A2")
	if ada.Count != 2 {
		t.Errorf("Ada count = %d, want 2", ada.Count)
	}
	if ada.Name != "Ada" || ada.Institution != UnknownInstitution {
		t.Errorf("Ada = %+v; first sighting should win", ada)
	}

	order := x.Collaborators()
	if order[0].ID != "A2" || order[1].ID != "A3" {
		t.Errorf("order = %v, want first-seen order", order)
	}
}

func TestIDSet_JSONRoundTripSorted(t *testing.T) {
	s := NewIDSet("w3", "w1", "w2")
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["w1","w2","w3"]` {
		t.Errorf("Marshal = %s", data)
	}

	var empty IDSet
	data, _ = json.Marshal(empty)
	if string(data) != `[]` {
		t.Errorf("Marshal(nil) = %s, want []", data)
	}
}

func TestShortID(t *testing.T) {
	if got := WorkID("https://openalex.org/W42").ShortID(); got != "W42" {
		t.Errorf("WorkID.ShortID() = %q", got)
	}
	if !AuthorID("https://openalex.org/A5").Equal("A5") {
		t.Error("long and short author ids should be equal")
	}
}

func TestCollaboratorIndex_Top(t *testing.T) {
	x := NewCollaboratorIndex("S")
	for _, id := range []AuthorID{"a", "b", "b", "c", "c", "d"} {
		x.Upsert(id, string(id), "")
	}

	var got []AuthorID
	for _, c := range x.Top(3) {
		got = append(got, c.ID)
	}
	want := []AuthorID{"b", "c", "a"}
	if len(got) != len(want) {
		t.Fatalf("Top(3) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Top(3) = %v, want %v", got, want)
			break
		}
	}
	if n := len(x.Top(0)); n != 4 {
		t.Errorf("Top(0) returned %d, want all 4", n)
	}
	var nilIdx *CollaboratorIndex
	if nilIdx.Top(5) != nil {
		t.Error("nil index should return nil")
	}
}
