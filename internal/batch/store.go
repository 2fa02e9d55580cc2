package batch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusAbandoned Status = "abandoned"
	StatusFailed    Status = "failed"
)

// Batch is a run being drained in the background, one record at a time.
type Batch struct {
	ID        uuid.UUID
	StartedAt time.Time
	Mismatch  *DimensionMismatch

	mu       sync.RWMutex
	status   Status
	progress Progress
	cards    []CardPair
	err      error

	cancel context.CancelFunc
	done   chan struct{}
}

type Snapshot struct {
	ID        string             `json:"id"`
	Status    Status             `json:"status"`
	Progress  Progress           `json:"progress"`
	StartedAt time.Time          `json:"started_at"`
	Warnings  int                `json:"warnings"`
	Mismatch  *DimensionMismatch `json:"mismatch,omitempty"`
	Error     string             `json:"error,omitempty"`
}

func (b *Batch) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := Snapshot{
		ID:        b.ID.String(),
		Status:    b.status,
		Progress:  b.progress,
		StartedAt: b.StartedAt,
		Mismatch:  b.Mismatch,
	}
	for _, c := range b.cards {
		s.Warnings += len(c.Warnings())
	}
	if b.err != nil {
		s.Error = b.err.Error()
	}
	return s
}

// Cards returns the pairs composed so far.
func (b *Batch) Cards() []CardPair {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]CardPair(nil), b.cards...)
}

// Wait blocks until the batch stops or ctx is done.
func (b *Batch) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		b.mu.RLock()
		defer b.mu.RUnlock()
		return b.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Batch) drain(ctx context.Context, run *Run) {
	defer close(b.done)
	for pair, err := range run.Cards(ctx, b.setProgress) {
		b.mu.Lock()
		if err != nil {
			b.status, b.err = StatusFailed, err
			b.mu.Unlock()
			return
		}
		b.cards = append(b.cards, pair)
		b.mu.Unlock()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.cards) < run.Total() {
		b.status = StatusAbandoned
		return
	}
	b.status = StatusDone
}

func (b *Batch) setProgress(p Progress) {
	b.mu.Lock()
	b.progress = p
	b.mu.Unlock()
}

// Store keeps the single active batch. Beginning a new one abandons the old.
type Store struct {
	mu      sync.Mutex
	current *Batch
}

func NewStore() *Store {
	return &Store{}
}

// Begin replaces the current batch with run and starts draining it.
func (s *Store) Begin(ctx context.Context, run *Run) *Batch {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b := &Batch{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		Mismatch:  run.Mismatch,
		status:    StatusRunning,
		progress:  Progress{Total: run.Total()},
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	s.mu.Lock()
	prev := s.current
	s.current = b
	s.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}
	go func() {
		defer cancel()
		b.drain(ctx, run)
	}()
	return b
}

// Current returns the active batch, if any.
func (s *Store) Current() (*Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != nil
}

// Discard abandons the active batch and forgets it.
func (s *Store) Discard() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()
	if prev != nil {
		prev.cancel()
	}
}
