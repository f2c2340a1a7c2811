package analysis

import (
	"context"

	"golang.org/x/sync/semaphore"

	"loupe/internal/diag"
	"loupe/internal/sem"
	"loupe/internal/source"
)

// Session owns one file's analysis lifecycle: the current snapshot, the live
// overlay text, and the frontend handle. The frontend's recompilation calls
// are not safe for concurrent use on one session, so every query and every
// re-analysis acquires a single-slot semaphore first. Snapshots themselves
// are immutable and replaced wholesale by Reanalyze.
type Session struct {
	frontend Frontend
	reporter diag.Reporter
	trace    Tracef

	gate *semaphore.Weighted

	// Защищено gate.
	snap *Snapshot
	live []byte
}

func NewSession(path string, content []byte, sources *source.FileSet, fe Frontend, reporter diag.Reporter, trace Tracef) (*Session, error) {
	snap, err := NewSnapshot(path, content, sources, fe)
	if err != nil {
		return nil, err
	}
	return &Session{
		frontend: fe,
		reporter: reporter,
		trace:    trace,
		gate:     semaphore.NewWeighted(1),
		snap:     snap,
		live:     content,
	}, nil
}

// Update replaces the live overlay text. The snapshot stays as it was;
// queries reconcile against the new text until Reanalyze runs.
func (s *Session) Update(ctx context.Context, live []byte) error {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.gate.Release(1)
	s.live = live
	return nil
}

// Reanalyze runs a full pass over the current live text and installs the
// result as the new snapshot.
func (s *Session) Reanalyze(ctx context.Context) error {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.gate.Release(1)

	snap, err := NewSnapshot(s.snap.Path, s.live, s.snap.Sources, s.frontend)
	if err != nil {
		return err
	}
	s.snap = snap
	return nil
}

func (s *Session) TypeAt(ctx context.Context, cursor uint32) (sem.Type, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return sem.NoType, err
	}
	defer s.gate.Release(1)
	return s.analyzer().TypeAt(s.live, cursor)
}

func (s *Session) ReferenceAt(ctx context.Context, cursor uint32) (Reference, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return Reference{}, err
	}
	defer s.gate.Release(1)
	return s.analyzer().ReferenceAt(s.live, cursor)
}

func (s *Session) ScopeAt(ctx context.Context, cursor uint32) (sem.ScopeID, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return sem.NoScopeID, err
	}
	defer s.gate.Release(1)
	return s.analyzer().ScopeAt(s.live, cursor)
}

func (s *Session) DescribePosition(ctx context.Context, offset uint32) (string, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.gate.Release(1)
	return s.analyzer().DescribePosition(s.live, offset), nil
}

func (s *Session) LineBefore(ctx context.Context, cursor uint32) (string, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.gate.Release(1)
	return s.analyzer().LineBefore(s.live, cursor), nil
}

// Snapshot returns the current snapshot for read-only inspection.
func (s *Session) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.gate.Release(1)
	return s.snap, nil
}

// Live returns the current overlay text.
func (s *Session) Live(ctx context.Context) ([]byte, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.gate.Release(1)
	return s.live, nil
}

func (s *Session) analyzer() *Analyzer {
	return NewAnalyzer(s.snap, s.frontend, s.reporter, s.trace)
}
