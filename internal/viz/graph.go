package viz

import (
	"sort"

	"github.com/matsen/xcite/internal/work"
)

const (
	// DefaultTopK is how many collaborators per subject are drawn.
	DefaultTopK = 20

	// Edge weights are clamped into this range so the drawing stays legible
	// whatever the raw counts are.
	MinEdgeWeight = 1
	MaxEdgeWeight = 10

	subjectNodeSize      = 40
	collaboratorBaseSize = 10
	collaboratorSizeStep = 2
)

// GraphInput is everything BuildCollaboratorGraph needs.
type GraphInput struct {
	SubjectA, SubjectB *work.Subject
	IndexA, IndexB     *work.CollaboratorIndex
	SharedCount        int // works co-authored by both subjects
	TopK               int // 0 means DefaultTopK
}

// BuildCollaboratorGraph constructs the weighted collaborator graph: one node
// per present subject, the top-K collaborators of each subject, one edge per
// subject/collaborator pair, and a direct edge between the subjects when they
// share works. A collaborator in both top-K lists appears once in the shared
// group. The result depends only on the input.
func BuildCollaboratorGraph(in GraphInput) *GraphData {
	k := in.TopK
	if k <= 0 {
		k = DefaultTopK
	}

	var topA, topB []work.Collaborator
	if in.SubjectA != nil {
		topA = topCollaborators(in.IndexA, k, otherID(in.SubjectB))
	}
	if in.SubjectB != nil {
		topB = topCollaborators(in.IndexB, k, otherID(in.SubjectA))
	}

	inB := make(map[work.AuthorID]work.Collaborator, len(topB))
	for _, c := range topB {
		inB[c.ID] = c
	}
	inA := make(map[work.AuthorID]bool, len(topA))

	g := &GraphData{Nodes: []Node{}, Edges: []Edge{}}

	if in.SubjectA != nil {
		g.Nodes = append(g.Nodes, newSubjectNode(in.SubjectA, GroupSubjectA))
	}
	if in.SubjectB != nil {
		g.Nodes = append(g.Nodes, newSubjectNode(in.SubjectB, GroupSubjectB))
	}

	for _, c := range topA {
		inA[c.ID] = true
		node := newCollaboratorNode(c, GroupCollaboratorA)
		node.CountA = c.Count
		if cb, ok := inB[c.ID]; ok {
			node.Group = GroupShared
			node.CountB = cb.Count
			node.Size = collaboratorSize(max(c.Count, cb.Count))
		}
		g.Nodes = append(g.Nodes, node)
	}
	for _, c := range topB {
		if inA[c.ID] {
			continue
		}
		node := newCollaboratorNode(c, GroupCollaboratorB)
		node.CountB = c.Count
		g.Nodes = append(g.Nodes, node)
	}

	if in.SubjectA != nil {
		for _, c := range topA {
			g.Edges = append(g.Edges, newEdge(string(in.SubjectA.ID), string(c.ID), EdgeCollaboration, c.Count))
		}
	}
	if in.SubjectB != nil {
		for _, c := range topB {
			g.Edges = append(g.Edges, newEdge(string(in.SubjectB.ID), string(c.ID), EdgeCollaboration, c.Count))
		}
	}
	if in.SharedCount > 0 && in.SubjectA != nil && in.SubjectB != nil {
		g.Edges = append(g.Edges, newEdge(string(in.SubjectA.ID), string(in.SubjectB.ID), EdgeCoauthor, in.SharedCount))
	}

	return g
}

// topCollaborators returns up to k collaborators by count descending. The
// sort is stable over first-seen order, so ties keep that order. exclude
// (the other subject) is skipped since it already has its own node.
func topCollaborators(idx *work.CollaboratorIndex, k int, exclude work.AuthorID) []work.Collaborator {
	all := idx.Collaborators()
	candidates := all[:0]
	for _, c := range all {
		if exclude != "" && c.ID.Equal(exclude) {
			continue
		}
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Count > candidates[j].Count
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

func otherID(s *work.Subject) work.AuthorID {
	if s == nil {
		return ""
	}
	return s.ID
}

func newSubjectNode(s *work.Subject, group string) Node {
	return Node{
		ID:          string(s.ID),
		Group:       group,
		Label:       s.DisplayName,
		Institution: s.Institution,
		Size:        subjectNodeSize,
	}
}

func newCollaboratorNode(c work.Collaborator, group string) Node {
	return Node{
		ID:          string(c.ID),
		Group:       group,
		Label:       c.Name,
		Institution: c.Institution,
		Size:        collaboratorSize(c.Count),
	}
}

func newEdge(source, target, kind string, count int) Edge {
	return Edge{
		Source: source,
		Target: target,
		Kind:   kind,
		Weight: clampWeight(count),
		Count:  count,
	}
}

// clampWeight maps a raw count into [MinEdgeWeight, MaxEdgeWeight].
func clampWeight(count int) int {
	return min(max(count, MinEdgeWeight), MaxEdgeWeight)
}

func collaboratorSize(count int) int {
	return collaboratorBaseSize + collaboratorSizeStep*clampWeight(count)
}
