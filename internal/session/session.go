package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matsen/xcite/internal/collect"
	"github.com/matsen/xcite/internal/logger"
	"github.com/matsen/xcite/internal/match"
	"github.com/matsen/xcite/internal/openalex"
	"github.com/matsen/xcite/internal/timeline"
	"github.com/matsen/xcite/internal/viz"
	"github.com/matsen/xcite/internal/work"
)

// ErrSuperseded is returned by Select when a later Select or Clear on the
// same slot made its result obsolete. Nothing was published.
var ErrSuperseded = errors.New("selection superseded")

// ErrClosed is returned once the session has been closed.
var ErrClosed = errors.New("session closed")

// Resolver maps a query to a subject.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*work.Subject, error)
}

// CollectionBuilder fetches one subject's works and collaborators.
type CollectionBuilder interface {
	Build(ctx context.Context, subject work.AuthorID) (*collect.Result, error)
}

type slotState struct {
	gen    uint64
	status Status
	query  string
	subj   *work.Subject
	result *collect.Result
	err    error
}

type matchRequest struct {
	genA, genB uint64
	a, b       slotState
}

// Session owns slots A and B and a single match worker.
type Session struct {
	id       string
	resolver Resolver
	builder  CollectionBuilder
	log      *logger.Logger
	topK     int

	mu         sync.Mutex
	slots      [2]slotState
	comparison *Comparison
	changed    chan struct{} // closed and replaced on every state change
	closed     bool

	requests chan matchRequest
	done     chan struct{}
	wg       sync.WaitGroup
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		s.log = logger.OrNop(l)
	}
}

// WithTopK sets how many collaborators per subject the graph shows.
func WithTopK(k int) Option {
	return func(s *Session) {
		s.topK = k
	}
}

// New creates a session and starts its match worker. Call Close when done.
func New(resolver Resolver, builder CollectionBuilder, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		resolver: resolver,
		builder:  builder,
		log:      logger.Nop(),
		topK:     viz.DefaultTopK,
		changed:  make(chan struct{}),
		requests: make(chan matchRequest, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.id)
	s.slots[SlotA].status = StatusIdle
	s.slots[SlotB].status = StatusIdle

	s.wg.Add(1)
	go s.matchWorker()
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Select resolves query into a subject for slot and builds its collection.
// The slot is emptied immediately; results are published only if no later
// Select or Clear touched the slot in the meantime, otherwise ErrSuperseded
// is returned. A failed fetch still publishes its partial collection.
func (s *Session) Select(ctx context.Context, slot Slot, query string) error {
	gen, err := s.begin(slot, query)
	if err != nil {
		return err
	}
	log := s.log.With("slot", slot.String(), "generation", gen)

	subj, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		status := StatusFailed
		if openalex.IsNotFound(err) {
			status = StatusNotFound
		}
		log.Warn("resolve failed", "query", query, "error", err)
		if !s.publish(slot, gen, func(st *slotState) {
			st.status = status
			st.err = err
		}) {
			return ErrSuperseded
		}
		return err
	}

	if !s.publish(slot, gen, func(st *slotState) { st.subj = subj }) {
		return ErrSuperseded
	}

	res, buildErr := s.builder.Build(ctx, subj.ID)
	if !s.publish(slot, gen, func(st *slotState) {
		st.result = res
		st.err = buildErr
		st.status = StatusReady
		if buildErr != nil {
			st.status = StatusFailed
		}
	}) {
		log.Debug("discarding stale collection", "subject", subj.ID.ShortID())
		return ErrSuperseded
	}
	if buildErr != nil {
		log.Warn("collection incomplete", "subject", subj.ID.ShortID(), "error", buildErr)
		return buildErr
	}
	return nil
}

// Clear empties slot and supersedes any Select in flight for it.
func (s *Session) Clear(slot Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &s.slots[slot]
	*st = slotState{gen: st.gen + 1, status: StatusIdle}
	s.comparison = nil
	s.broadcastLocked()
}

// begin starts a new generation for slot.
func (s *Session) begin(slot Slot, query string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	st := &s.slots[slot]
	*st = slotState{gen: st.gen + 1, status: StatusLoading, query: query}
	s.comparison = nil
	s.broadcastLocked()
	return st.gen, nil
}

// publish applies fn to slot if gen is still current and reports whether it
// did. Once both slots hold works a match request is queued.
func (s *Session) publish(slot Slot, gen uint64, fn func(*slotState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &s.slots[slot]
	if st.gen != gen {
		return false
	}
	fn(st)
	s.broadcastLocked()

	a, b := s.slots[SlotA], s.slots[SlotB]
	if hasWorks(a) && hasWorks(b) && !s.closed {
		s.enqueue(matchRequest{genA: a.gen, genB: b.gen, a: a, b: b})
	}
	return true
}

func hasWorks(st slotState) bool {
	return st.result != nil && !st.result.Works.IsEmpty() && st.status != StatusLoading
}

// enqueue hands req to the worker, replacing any request it has not picked
// up yet.
func (s *Session) enqueue(req matchRequest) {
	for {
		select {
		case s.requests <- req:
			return
		default:
		}
		select {
		case <-s.requests:
		default:
		}
	}
}

func (s *Session) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Session) matchWorker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case req := <-s.requests:
			s.runMatch(req)
		}
	}
}

func (s *Session) runMatch(req matchRequest) {
	if !s.current(req.genA, req.genB) {
		return
	}

	m := match.Run(req.a.result.Works, req.b.result.Works)
	series := timeline.Build(m.A, m.B)
	graph := viz.BuildCollaboratorGraph(viz.GraphInput{
		SubjectA:    req.a.subj,
		SubjectB:    req.b.subj,
		IndexA:      req.a.result.Collaborators,
		IndexB:      req.b.result.Collaborators,
		SharedCount: m.StatsA.Shared,
		TopK:        s.topK,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots[SlotA].gen != req.genA || s.slots[SlotB].gen != req.genB {
		s.log.Debug("discarding stale comparison", "genA", req.genA, "genB", req.genB)
		return
	}
	s.comparison = &Comparison{
		GenerationA: req.genA,
		GenerationB: req.genB,
		Match:       m,
		Series:      series,
		Graph:       graph,
	}
	s.broadcastLocked()
	s.log.Info("comparison ready",
		"shared", m.StatsA.Shared,
		"a_citing", m.StatsA.Citing,
		"b_citing", m.StatsB.Citing,
	)
}

func (s *Session) current(genA, genB uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[SlotA].gen == genA && s.slots[SlotB].gen == genB
}

// Snapshot returns a consistent view of both slots and the comparison.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() *Snapshot {
	return &Snapshot{
		SessionID:  s.id,
		A:          view(SlotA, s.slots[SlotA]),
		B:          view(SlotB, s.slots[SlotB]),
		Comparison: s.comparison,
	}
}

func view(slot Slot, st slotState) SlotView {
	v := SlotView{
		Slot:       slot,
		Generation: st.gen,
		Status:     st.status,
		Query:      st.query,
		Err:        st.err,
	}
	if st.subj != nil {
		subj := *st.subj
		v.Subject = &subj
	}
	if st.err != nil {
		v.Error = st.err.Error()
	}
	if st.result != nil {
		v.Works = st.result.Works
		v.Collaborators = st.result.Collaborators
		v.Stats = st.result.Stats
	}
	return v
}

// settledLocked reports whether no slot is loading and, when both slots
// hold works, their comparison has been published.
func (s *Session) settledLocked() bool {
	a, b := s.slots[SlotA], s.slots[SlotB]
	if a.status == StatusLoading || b.status == StatusLoading {
		return false
	}
	if hasWorks(a) && hasWorks(b) {
		return s.comparison != nil
	}
	return true
}

// Await blocks until both slots have settled and, if both hold works, the
// comparison for their current generations is available.
func (s *Session) Await(ctx context.Context) (*Snapshot, error) {
	for {
		s.mu.Lock()
		if s.settledLocked() {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, nil
		}
		if s.closed {
			s.mu.Unlock()
			return nil, ErrClosed
		}
		ch := s.changed
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return s.Snapshot(), ctx.Err()
		}
	}
}

// Compare selects queryA and queryB concurrently and waits for the result.
// Both selections run to completion; the snapshot is returned together with
// the first selection error, if any.
func (s *Session) Compare(ctx context.Context, queryA, queryB string) (*Snapshot, error) {
	var g errgroup.Group
	g.Go(func() error {
		if err := s.Select(ctx, SlotA, queryA); err != nil {
			return fmt.Errorf("subject A: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.Select(ctx, SlotB, queryB); err != nil {
			return fmt.Errorf("subject B: %w", err)
		}
		return nil
	})
	selErr := g.Wait()

	snap, err := s.Await(ctx)
	if selErr != nil {
		return snap, selErr
	}
	return snap, err
}

// Close stops the match worker. Pending comparisons are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.broadcastLocked()
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
}
