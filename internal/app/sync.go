package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dponte/coletamap/internal/domain"
)

// Synchronizer keeps an in-memory snapshot of all property records. Updates
// are always wholesale: a change event schedules a full reload rather than
// applying deltas. When loads overlap, the last one to resolve wins.
type Synchronizer struct {
	client   *Client
	notifier Notifier
	logger   *slog.Logger

	mu         sync.Mutex
	snapshot   []*domain.Property
	loadSeq    uint64
	appliedSeq uint64
	observers  []func([]*domain.Property)
}

func NewSynchronizer(client *Client, notifier Notifier, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		client:   client,
		notifier: notifier,
		logger:   logger,
	}
}

// OnChange registers an observer called with a copy of every new snapshot.
func (s *Synchronizer) OnChange(fn func([]*domain.Property)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current record list.
func (s *Synchronizer) Snapshot() []*domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Property{}, s.snapshot...)
}

// LoadAll fetches every record and replaces the snapshot. On failure the
// stale snapshot is kept and a single notification is emitted.
func (s *Synchronizer) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	properties, err := s.client.ListProperties(ctx)
	if err != nil {
		s.logger.Error("failed to load records", "error", err)
		s.notifier.Notify("Não foi possível carregar os registros")
		return err
	}

	s.mu.Lock()
	if seq < s.appliedSeq {
		// A newer load already resolved; discard this result.
		s.mu.Unlock()
		return nil
	}
	s.appliedSeq = seq
	s.snapshot = properties
	observers := append([]func([]*domain.Property){}, s.observers...)
	copied := append([]*domain.Property{}, properties...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(copied)
	}
	return nil
}

// HandleChange reacts to one change-feed event by reloading wholesale.
func (s *Synchronizer) HandleChange(ctx context.Context) {
	// Errors already notified inside LoadAll.
	_ = s.LoadAll(ctx)
}
