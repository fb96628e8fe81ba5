package collect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matsen/xcite/internal/work"
)

// fakeSource serves a fixed list of pages, optionally failing at one of them.
type fakeSource struct {
	pages   []work.Page
	failAt  int // 1-based page index that errors; 0 means never
	calls   []string
	callsAt []time.Time
}

func (f *fakeSource) WorksPage(_ context.Context, _ work.AuthorID, cursor string) (*work.Page, error) {
	f.calls = append(f.calls, cursor)
	f.callsAt = append(f.callsAt, time.Now())
	n := len(f.calls)
	if f.failAt == n {
		return nil, errors.New("boom")
	}
	if n > len(f.pages) {
		return &work.Page{}, nil
	}
	p := f.pages[n-1]
	return &p, nil
}

func raw(id, title string, year int, refs ...string) work.RawWork {
	r := work.RawWork{ID: id, ReferencedWorks: refs}
	if title != "-" {
		r.Title = work.StrPtr(title)
	}
	if year != 0 {
		r.PublicationYear = work.IntPtr(year)
	}
	return r
}

func TestNormalize(t *testing.T) {
	venue := "  Nature  "
	blank := "   "
	tests := []struct {
		name        string
		raw         work.RawWork
		wantVerdict Verdict
		wantTitle   string
		wantVenue   string
		wantRefs    int
	}{
		{
			name:        "valid work",
			raw:         raw("W1", "  A Title ", 2020, "W2", "W3"),
			wantVerdict: Accepted,
			wantTitle:   "A Title",
			wantVenue:   work.UnknownVenue,
			wantRefs:    2,
		},
		{
			name:        "missing id",
			raw:         raw("", "Title", 2020),
			wantVerdict: Malformed,
		},
		{
			name:        "null title",
			raw:         raw("W1", "-", 2020),
			wantVerdict: Malformed,
		},
		{
			name:        "blank title becomes Untitled",
			raw:         raw("W1", "   ", 2020),
			wantVerdict: Accepted,
			wantTitle:   work.UntitledTitle,
			wantVenue:   work.UnknownVenue,
		},
		{
			name:        "blank references are dropped",
			raw:         raw("W1", "T", 0, "W2", "", "  ", "W2"),
			wantVerdict: Accepted,
			wantTitle:   "T",
			wantVenue:   work.UnknownVenue,
			wantRefs:    1,
		},
		{
			name: "venue is trimmed",
			raw: work.RawWork{
				ID:              "W1",
				Title:           work.StrPtr("T"),
				PrimaryLocation: &work.RawLocation{Source: &work.RawSource{DisplayName: &venue}},
			},
			wantVerdict: Accepted,
			wantTitle:   "T",
			wantVenue:   "Nature",
		},
		{
			name: "blank venue falls back",
			raw: work.RawWork{
				ID:              "W1",
				Title:           work.StrPtr("T"),
				PrimaryLocation: &work.RawLocation{Source: &work.RawSource{DisplayName: &blank}},
			},
			wantVerdict: Accepted,
			wantTitle:   "T",
			wantVenue:   work.UnknownVenue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, verdict := NewNormalizer().Normalize(tt.raw)
			if verdict != tt.wantVerdict {
				t.Fatalf("verdict = %v, want %v", verdict, tt.wantVerdict)
			}
			if verdict != Accepted {
				return
			}
			if w.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", w.Title, tt.wantTitle)
			}
			if w.Venue != tt.wantVenue {
				t.Errorf("Venue = %q, want %q", w.Venue, tt.wantVenue)
			}
			if w.References.Len() != tt.wantRefs {
				t.Errorf("References = %d, want %d", w.References.Len(), tt.wantRefs)
			}
			if w.References.Has("") {
				t.Error("References contains an empty id")
			}
		})
	}
}

func TestNormalize_Duplicate(t *testing.T) {
	n := NewNormalizer()
	if _, v := n.Normalize(raw("W1", "First", 2020)); v != Accepted {
		t.Fatalf("first = %v", v)
	}
	if _, v := n.Normalize(raw("W1", "Second", 2021)); v != Duplicate {
		t.Errorf("second = %v, want duplicate", v)
	}
	if _, v := n.Normalize(raw(" W1 ", "Padded", 2021)); v != Duplicate {
		t.Errorf("padded id = %v, want duplicate", v)
	}
}

func TestBuild_PaginatesAndDedups(t *testing.T) {
	src := &fakeSource{pages: []work.Page{
		{Works: []work.RawWork{raw("W1", "One", 2018), raw("W2", "Two", 2021)}, NextCursor: "c2"},
		{Works: []work.RawWork{raw("W1", "One again", 2018), raw("W3", "-", 2020), raw("W4", "Four", 0)}},
	}}

	res, err := NewBuilder(src, WithPageInterval(0)).Build(context.Background(), "A1")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := src.calls; len(got) != 2 || got[0] != work.FirstCursor || got[1] != "c2" {
		t.Errorf("cursors = %v, want [* c2]", got)
	}
	if res.Works.Len() != 3 {
		t.Errorf("collection size = %d, want 3", res.Works.Len())
	}
	want := BuildStats{Pages: 2, Raw: 5, Accepted: 3, Malformed: 1, Duplicates: 1}
	if res.Stats != want {
		t.Errorf("Stats = %+v, want %+v", res.Stats, want)
	}

	ids := res.Works.IDs()
	wantOrder := []work.WorkID{"W2", "W1", "W4"}
	for i := range wantOrder {
		if ids[i] != wantOrder[i] {
			t.Errorf("order[%d] = %q, want %q", i, ids[i], wantOrder[i])
		}
	}
}

func TestBuild_Collaborators(t *testing.T) {
	w1 := raw("W1", "One", 2020)
	w1.Authorships = []work.RawAuthorship{
		{Author: work.RawAuthor{ID: "https://openalex.org/A1", DisplayName: "Subject"}},
		{Author: work.RawAuthor{ID: "A2", DisplayName: "Ada"}, Institutions: []work.RawInstitution{{DisplayName: "Oxford"}, {DisplayName: "MIT"}}},
	}
	w2 := raw("W2", "Two", 2021)
	w2.Authorships = []work.RawAuthorship{
		{Author: work.RawAuthor{ID: "A2", DisplayName: "Ada"}},
		{Author: work.RawAuthor{ID: "A3", DisplayName: "Bob"}},
	}
	dup := w2

	src := &fakeSource{pages: []work.Page{{Works: []work.RawWork{w1, w2, dup}}}}
	res, err := NewBuilder(src, WithPageInterval(0)).Build(context.Background(), "A1")
	if err != nil {
		t.Fatal(err)
	}

	if res.Collaborators.Len() != 2 {
		t.Fatalf("collaborators = %d, want 2 (subject excluded)", res.Collaborators.Len())
	}
	ada, _ := res.Collaborators.Get("A2")
	if ada.Count != 2 {
		t.Errorf("Ada count = %d, want 2 (duplicate work not recounted)", ada.Count)
	}
	if ada.Institution != "Oxford" {
		t.Errorf("Ada institution = %q, want first affiliation", ada.Institution)
	}
	bob, _ := res.Collaborators.Get("A3")
	if bob.Institution != work.UnknownInstitution {
		t.Errorf("Bob institution = %q", bob.Institution)
	}
}

func TestBuild_FetchFailureKeepsPartial(t *testing.T) {
	src := &fakeSource{
		pages: []work.Page{
			{Works: []work.RawWork{raw("W1", "One", 2020)}, NextCursor: "c2"},
		},
		failAt: 2,
	}

	res, err := NewBuilder(src, WithPageInterval(0)).Build(context.Background(), "A1")
	if err == nil {
		t.Fatal("Build() should fail")
	}
	if !IsFetchFailure(err) {
		t.Errorf("error %v should be a fetch failure", err)
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Pages != 1 {
		t.Errorf("FetchError = %+v, want Pages=1", fe)
	}
	if res == nil || res.Works.Len() != 1 {
		t.Errorf("partial result should hold 1 work, got %v", res)
	}
}

func TestBuild_EmptyIsNotFailure(t *testing.T) {
	src := &fakeSource{pages: []work.Page{{}}}
	res, err := NewBuilder(src, WithPageInterval(0)).Build(context.Background(), "A1")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !res.Works.IsEmpty() {
		t.Error("expected empty collection")
	}
}

func TestBuild_RepeatedCursor(t *testing.T) {
	src := &fakeSource{pages: []work.Page{
		{NextCursor: "loop"},
		{NextCursor: "loop"},
	}}
	_, err := NewBuilder(src, WithPageInterval(0)).Build(context.Background(), "A1")
	if !IsFetchFailure(err) {
		t.Errorf("error = %v, want fetch failure", err)
	}
}

func TestBuild_PacesRequests(t *testing.T) {
	src := &fakeSource{pages: []work.Page{
		{NextCursor: "c2"},
		{NextCursor: "c3"},
		{},
	}}
	interval := 30 * time.Millisecond

	if _, err := NewBuilder(src, WithPageInterval(interval)).Build(context.Background(), "A1"); err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(src.callsAt); i++ {
		// Allow a little scheduler slack below the nominal interval.
		if gap := src.callsAt[i].Sub(src.callsAt[i-1]); gap < interval-5*time.Millisecond {
			t.Errorf("gap before page %d = %v, want >= %v", i+1, gap, interval)
		}
	}
}

func TestBuild_CancelledContext(t *testing.T) {
	src := &fakeSource{pages: []work.Page{{NextCursor: "c2"}, {}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(src, WithPageInterval(time.Hour)).Build(ctx, "A1")
	if !IsFetchFailure(err) {
		t.Errorf("error = %v, want fetch failure", err)
	}
}
