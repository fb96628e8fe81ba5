// Package viz builds and renders the collaborator graph of two subjects.
package viz

// Node groups. Subjects and collaborators are styled by group.
const (
	GroupSubjectA      = "subjectA"
	GroupSubjectB      = "subjectB"
	GroupCollaboratorA = "collaboratorA"
	GroupCollaboratorB = "collaboratorB"
	GroupShared        = "shared"
)

// Edge kinds.
const (
	EdgeCollaboration = "collaboration"
	EdgeCoauthor      = "coauthor" // direct link between the two subjects
)

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents a subject or collaborator in the graph.
type Node struct {
	ID    string `json:"id"`
	Group string `json:"group"`

	// Display
	Label       string `json:"label"`
	Institution string `json:"institution,omitempty"`
	Size        int    `json:"size"`

	// Collaboration counts with each subject (0 when not a collaborator of it)
	CountA int `json:"countA,omitempty"`
	CountB int `json:"countB,omitempty"`
}

// Edge links a subject to a collaborator, or the two subjects to each other.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
	Weight int    `json:"weight"` // clamped to [MinEdgeWeight, MaxEdgeWeight]
	Count  int    `json:"count"`  // raw collaboration count
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// SubjectNodes returns the number of subject nodes.
func (g *GraphData) SubjectNodes() int {
	n := 0
	for _, node := range g.Nodes {
		if node.Group == GroupSubjectA || node.Group == GroupSubjectB {
			n++
		}
	}
	return n
}
