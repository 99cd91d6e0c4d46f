// Package syncer coalesces durable-write intents.
//
// Every mutation of the ledger enqueues an intent naming the dirty tables;
// intents arriving within a quiet window are merged and flushed as one
// write-through to the store, with a single retry on failure. Local state is
// authoritative: a failed flush is reported, never blocking.
package syncer

import (
	"context"
	"log"
	"sync"
	"time"
)

// Table names a logical table of the persistence collaborator.
type Table string

const (
	Flights Table = "flights"
	Miles   Table = "miles"
	Manual  Table = "manual"
	Profile Table = "profile"
)

// Intent is the set of tables dirtied by one or more mutations.
type Intent map[Table]bool

// merge folds another intent into i.
func (i Intent) merge(o Intent) {
	for t := range o {
		i[t] = true
	}
}

// Result is the outcome of one flush, delivered to the Results channel.
type Result struct {
	Tables  []Table
	Err     error // nil on success, the second attempt's error otherwise
	Retried bool
}

// Flusher writes the named dirty tables through to durable storage.
type Flusher func(Intent) error

// Syncer batches durable-write intents behind a quiet window.
type Syncer struct {
	flush  Flusher
	window time.Duration

	mu      sync.Mutex
	pending Intent
	kick    chan struct{}
	done    chan struct{}
	results chan Result
}

// New creates a syncer flushing through f after the given quiet window.
func New(f Flusher, window time.Duration) *Syncer {
	return &Syncer{
		flush:   f,
		window:  window,
		pending: make(Intent),
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		results: make(chan Result, 16),
	}
}

// Results delivers one Result per flush. The channel is buffered; a caller
// that does not drain it only loses notifications, never writes.
func (s *Syncer) Results() <-chan Result { return s.results }

// MarkDirty records that the named tables changed. A newer intent supersedes
// an unflushed older one rather than canceling it.
func (s *Syncer) MarkDirty(tables ...Table) {
	s.mu.Lock()
	for _, t := range tables {
		s.pending[t] = true
	}
	s.mu.Unlock()
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run drives the flush loop until ctx is canceled, then flushes whatever is
// still pending and returns.
func (s *Syncer) Run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			s.flushPending()
			return
		case <-s.kick:
			// quiet window: absorb further intents before flushing.
			timer := time.NewTimer(s.window)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.flushPending()
				return
			case <-timer.C:
				s.flushPending()
			}
		}
	}
}

// Wait blocks until Run returned.
func (s *Syncer) Wait() { <-s.done }

// flushPending takes the current intent and writes it through, retrying
// once.
func (s *Syncer) flushPending() {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return
	}
	intent := s.pending
	s.pending = make(Intent)
	s.mu.Unlock()

	result := Result{}
	for t := range intent {
		result.Tables = append(result.Tables, t)
	}

	err := s.flush(intent)
	if err != nil {
		log.Printf("saving failed, retrying once: %v", err)
		result.Retried = true
		err = s.flush(intent)
	}
	result.Err = err
	if err != nil {
		log.Printf("saving failed, local state stays authoritative: %v", err)
	}

	select {
	case s.results <- result:
	default:
	}
}
