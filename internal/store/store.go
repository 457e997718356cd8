// Package store holds the state shared between the sampler and the active
// presenter.
//
// The sampler is the only writer of snapshots. The presenter is the only
// writer of the mode and of the stop flag, and clears the dirty flag when it
// takes a snapshot.
package store

import (
	"sync"

	"codeberg.org/mutker/mysqlstatus/internal/model"
)

type Store struct {
	mu       sync.Mutex
	mode     model.Mode
	dirty    bool
	snapshot model.Snapshot
	seq      uint64

	updates  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func New(mode model.Mode) *Store {
	return &Store{
		mode:    mode,
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (s *Store) Mode() model.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mode
}

func (s *Store) SetMode(mode model.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
}

// Publish replaces the current snapshot and marks it unread. The snapshot's
// Seq is assigned here.
func (s *Store) Publish(snap model.Snapshot) {
	s.mu.Lock()
	s.seq++
	snap.Seq = s.seq
	s.snapshot = snap
	s.dirty = true
	s.mu.Unlock()

	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Take returns the unread snapshot and clears the dirty flag. It returns
// false if nothing was published since the last Take.
func (s *Store) Take() (model.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return model.Snapshot{}, false
	}
	s.dirty = false

	return s.snapshot, true
}

// Dirty reports whether an unread snapshot is pending.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dirty
}

// Updates receives a value after each Publish. Multiple publishes between
// reads coalesce into one wakeup.
func (s *Store) Updates() <-chan struct{} {
	return s.updates
}

// Stop sets the stop flag. Safe to call more than once.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

// Done is closed once Stop has been called.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

func (s *Store) Stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
