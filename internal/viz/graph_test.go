package viz

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/xcite/internal/work"
)

var (
	subjA = &work.Subject{ID: "A0", DisplayName: "Alice", Institution: "IU"}
	subjB = &work.Subject{ID: "B0", DisplayName: "Bruno", Institution: "KTH"}
)

type entry struct {
	id    string
	count int
}

// index builds a collaborator index where each entry appears count times.
func index(subject work.AuthorID, entries ...entry) *work.CollaboratorIndex {
	x := work.NewCollaboratorIndex(subject)
	for _, e := range entries {
		for i := 0; i < e.count; i++ {
			x.Upsert(work.AuthorID(e.id), "name-"+e.id, "")
		}
	}
	return x
}

func nodeByID(g *GraphData, id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

func TestBuildCollaboratorGraph_Groups(t *testing.T) {
	g := BuildCollaboratorGraph(GraphInput{
		SubjectA:    subjA,
		SubjectB:    subjB,
		IndexA:      index("A0", entry{"c1", 3}, entry{"both", 2}),
		IndexB:      index("B0", entry{"both", 5}, entry{"c2", 1}),
		SharedCount: 4,
	})

	tests := []struct {
		id        string
		wantGroup string
	}{
		{"A0", GroupSubjectA},
		{"B0", GroupSubjectB},
		{"c1", GroupCollaboratorA},
		{"c2", GroupCollaboratorB},
		{"both", GroupShared},
	}
	for _, tt := range tests {
		n, ok := nodeByID(g, tt.id)
		if !ok {
			t.Errorf("node %s missing", tt.id)
			continue
		}
		if n.Group != tt.wantGroup {
			t.Errorf("node %s group = %q, want %q", tt.id, n.Group, tt.wantGroup)
		}
	}

	if len(g.Nodes) != 5 {
		t.Errorf("got %d nodes, want 5 (shared collaborator emitted once)", len(g.Nodes))
	}
	both, _ := nodeByID(g, "both")
	if both.CountA != 2 || both.CountB != 5 {
		t.Errorf("shared node counts = %d/%d, want 2/5", both.CountA, both.CountB)
	}

	// 2 edges from A, 2 from B, 1 direct
	if len(g.Edges) != 5 {
		t.Fatalf("got %d edges, want 5", len(g.Edges))
	}
	last := g.Edges[len(g.Edges)-1]
	if last.Kind != EdgeCoauthor || last.Source != "A0" || last.Target != "B0" || last.Count != 4 {
		t.Errorf("direct edge = %+v", last)
	}
}

func TestBuildCollaboratorGraph_NoDirectEdgeWithoutSharedWorks(t *testing.T) {
	g := BuildCollaboratorGraph(GraphInput{SubjectA: subjA, SubjectB: subjB})
	if len(g.Edges) != 0 {
		t.Errorf("edges = %+v, want none", g.Edges)
	}
	if len(g.Nodes) != 2 {
		t.Errorf("nodes = %d, want the two subjects", len(g.Nodes))
	}
}

func TestBuildCollaboratorGraph_MissingSubject(t *testing.T) {
	g := BuildCollaboratorGraph(GraphInput{
		SubjectA:    subjA,
		IndexA:      index("A0", entry{"c1", 1}),
		IndexB:      index("B0", entry{"c2", 1}),
		SharedCount: 3,
	})
	if g.SubjectNodes() != 1 {
		t.Errorf("subject nodes = %d, want 1", g.SubjectNodes())
	}
	if _, ok := nodeByID(g, "c2"); ok {
		t.Error("collaborators of an absent subject should not be drawn")
	}
	for _, e := range g.Edges {
		if e.Kind == EdgeCoauthor {
			t.Error("direct edge needs both subjects")
		}
	}
}

func TestBuildCollaboratorGraph_OtherSubjectNotDuplicated(t *testing.T) {
	g := BuildCollaboratorGraph(GraphInput{
		SubjectA:    subjA,
		SubjectB:    subjB,
		IndexA:      index("A0", entry{"B0", 7}),
		IndexB:      index("B0", entry{"A0", 7}),
		SharedCount: 7,
	})
	if len(g.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(g.Nodes))
	}
	if len(g.Edges) != 1 || g.Edges[0].Kind != EdgeCoauthor {
		t.Errorf("edges = %+v, want only the direct edge", g.Edges)
	}
}

func TestBuildCollaboratorGraph_TopKBound(t *testing.T) {
	var ea, eb []entry
	for i := 0; i < 50; i++ {
		ea = append(ea, entry{fmt.Sprintf("a%d", i), i%7 + 1})
		eb = append(eb, entry{fmt.Sprintf("b%d", i), i%5 + 1})
	}
	g := BuildCollaboratorGraph(GraphInput{
		SubjectA: subjA,
		SubjectB: subjB,
		IndexA:   index("A0", ea...),
		IndexB:   index("B0", eb...),
	})

	if limit := 2*DefaultTopK + 2; len(g.Nodes) > limit {
		t.Errorf("got %d nodes, bound is %d", len(g.Nodes), limit)
	}
	if len(g.Edges) != 2*DefaultTopK {
		t.Errorf("got %d edges, want %d", len(g.Edges), 2*DefaultTopK)
	}
}

func TestTopCollaborators_TiesKeepInsertionOrder(t *testing.T) {
	x := index("A0", entry{"first", 2}, entry{"second", 3}, entry{"third", 2}, entry{"fourth", 1})
	got := topCollaborators(x, 3, "")

	var ids []string
	for _, c := range got {
		ids = append(ids, string(c.ID))
	}
	want := []string{"second", "first", "third"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("top = %v, want %v", ids, want)
	}
}

func TestClampWeight(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, MinEdgeWeight},
		{1, 1},
		{7, 7},
		{10, MaxEdgeWeight},
		{250, MaxEdgeWeight},
	}
	for _, tt := range tests {
		if got := clampWeight(tt.in); got != tt.want {
			t.Errorf("clampWeight(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBuildCollaboratorGraph_Deterministic(t *testing.T) {
	in := GraphInput{
		SubjectA:    subjA,
		SubjectB:    subjB,
		IndexA:      index("A0", entry{"c1", 2}, entry{"c2", 2}, entry{"both", 1}),
		IndexB:      index("B0", entry{"both", 1}, entry{"c3", 4}),
		SharedCount: 1,
	}
	first := BuildCollaboratorGraph(in)
	for i := 0; i < 5; i++ {
		if again := BuildCollaboratorGraph(in); !reflect.DeepEqual(first, again) {
			t.Fatal("graph differs between identical builds")
		}
	}
}

func TestGenerateHTML(t *testing.T) {
	g := BuildCollaboratorGraph(GraphInput{
		SubjectA:    subjA,
		SubjectB:    subjB,
		IndexA:      index("A0", entry{"c1", 2}),
		SharedCount: 1,
	})

	html, err := GenerateHTML(g, HTMLOptions{Layout: "circle", Title: "Alice vs Bruno"})
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	for _, want := range []string{"<title>Alice vs Bruno</title>", `"name-c1"`, `"coauthor"`, `"circle"`} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %s", want)
		}
	}

	if _, err := GenerateHTML(g, HTMLOptions{Layout: "spiral"}); err == nil {
		t.Error("invalid layout should fail")
	}
	if _, err := GenerateHTML(nil, DefaultOptions()); err == nil {
		t.Error("nil graph should fail")
	}

	empty, err := GenerateHTML(&GraphData{}, DefaultOptions())
	if err != nil || !strings.Contains(empty, "No graph data") {
		t.Errorf("empty graph page = %q, %v", empty, err)
	}
}
