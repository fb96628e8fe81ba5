// Package session holds two subject slots and keeps their comparison up to
// date as subjects are selected, refetched, or cleared.
package session

import (
	"fmt"
	"strings"

	"github.com/matsen/xcite/internal/collect"
	"github.com/matsen/xcite/internal/match"
	"github.com/matsen/xcite/internal/timeline"
	"github.com/matsen/xcite/internal/viz"
	"github.com/matsen/xcite/internal/work"
)

// Slot names one side of the comparison.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

func (s Slot) String() string {
	if s == SlotB {
		return "B"
	}
	return "A"
}

// ParseSlot accepts "a" or "b" in either case.
func ParseSlot(s string) (Slot, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return SlotA, nil
	case "B":
		return SlotB, nil
	}
	return 0, fmt.Errorf("invalid slot %q (valid: A, B)", s)
}

// Status is the lifecycle state of a slot.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusLoading  Status = "loading"
	StatusReady    Status = "ready"
	StatusFailed   Status = "failed"
	StatusNotFound Status = "not_found"
)

// SlotView is an immutable copy of one slot's state.
type SlotView struct {
	Slot       Slot               `json:"-"`
	Generation uint64             `json:"generation"`
	Status     Status             `json:"status"`
	Query      string             `json:"query,omitempty"`
	Subject    *work.Subject      `json:"subject,omitempty"`
	Stats      collect.BuildStats `json:"stats"`
	Error      string             `json:"error,omitempty"`

	Err           error                   `json:"-"`
	Works         *work.Collection        `json:"-"`
	Collaborators *work.CollaboratorIndex `json:"-"`
}

// HasWorks reports whether the slot holds a non-empty collection.
func (v SlotView) HasWorks() bool {
	return !v.Works.IsEmpty()
}

// Comparison is everything derived from one pair of slot generations.
type Comparison struct {
	GenerationA uint64
	GenerationB uint64
	Match       match.Result
	Series      *timeline.Series
	Graph       *viz.GraphData
}

// SharedCount is the number of works co-authored by both subjects.
func (c *Comparison) SharedCount() int {
	return c.Match.StatsA.Shared
}

// Snapshot is a consistent view of both slots and the latest comparison.
type Snapshot struct {
	SessionID  string
	A, B       SlotView
	Comparison *Comparison // nil until both slots hold works and matching is done
}

// Slot returns the view for s.
func (s *Snapshot) Slot(slot Slot) SlotView {
	if slot == SlotB {
		return s.B
	}
	return s.A
}
