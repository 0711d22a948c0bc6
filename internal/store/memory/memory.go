// Package memory is an in-process entry store, used for development and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"ledger/internal/core"
)

type Store struct {
	mu      sync.Mutex
	entries []core.LedgerEntry // insertion order
	owners  map[string]core.OwnerConfig
	newID   func() string
}

func New() *Store {
	return &Store{owners: map[string]core.OwnerConfig{}, newID: uuid.NewString}
}

// InsertBatch validates every entry before storing any of them.
func (s *Store) InsertBatch(ctx context.Context, entries []core.LedgerEntry) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.Unavailable("insert batch", err)
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(entries))
	for i, e := range entries {
		e.ID = s.newID()
		e.Installment = cloneInstallment(e.Installment)
		s.entries = append(s.entries, e)
		ids[i] = e.ID
	}
	return ids, nil
}

func (s *Store) InsertOne(ctx context.Context, e core.LedgerEntry) (string, error) {
	ids, err := s.InsertBatch(ctx, []core.LedgerEntry{e})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (s *Store) Get(_ context.Context, ownerID, id string) (core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(ownerID, id)
	if i < 0 {
		return core.LedgerEntry{}, &core.NotFoundError{ID: id}
	}
	return clone(s.entries[i]), nil
}

func (s *Store) UpdateOne(_ context.Context, ownerID, id string, patch core.EntryPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(ownerID, id)
	if i < 0 {
		return &core.NotFoundError{ID: id}
	}
	updated, err := core.ApplyPatch(s.entries[i], patch)
	if err != nil {
		return err
	}
	s.entries[i] = updated
	return nil
}

func (s *Store) DeleteOne(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(ownerID, id)
	if i < 0 {
		return &core.NotFoundError{ID: id}
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	return nil
}

func (s *Store) QueryRange(ctx context.Context, ownerID string, start, end core.Date) ([]core.LedgerEntry, error) {
	return s.QueryByPredicate(ctx, ownerID, core.Predicate{From: start, To: end})
}

func (s *Store) QueryByPredicate(ctx context.Context, ownerID string, p core.Predicate) ([]core.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.Unavailable("query", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LedgerEntry, 0)
	for _, e := range s.entries {
		if e.OwnerID == ownerID && p.Matches(e) {
			out = append(out, clone(e))
		}
	}
	slices.SortStableFunc(out, func(a, b core.LedgerEntry) int {
		return a.OccursOn.Compare(b.OccursOn)
	})
	return out, nil
}

func (s *Store) OwnerConfig(_ context.Context, ownerID string) (core.OwnerConfig, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.owners[ownerID]
	if !ok {
		return core.OwnerConfig{OwnerID: ownerID}, false, nil
	}
	cfg.Banks = slices.Clone(cfg.Banks)
	return cfg, true, nil
}

func (s *Store) SaveOwnerConfig(_ context.Context, cfg core.OwnerConfig) error {
	if cfg.OwnerID == "" {
		return core.ErrEmptyOwner
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg.Banks = slices.Clone(cfg.Banks)
	s.owners[cfg.OwnerID] = cfg
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Len is the number of stored entries across all owners.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) indexOf(ownerID, id string) int {
	return slices.IndexFunc(s.entries, func(e core.LedgerEntry) bool {
		return e.ID == id && e.OwnerID == ownerID
	})
}

func clone(e core.LedgerEntry) core.LedgerEntry {
	e.Installment = cloneInstallment(e.Installment)
	return e
}

func cloneInstallment(in *core.Installment) *core.Installment {
	if in == nil {
		return nil
	}
	c := *in
	return &c
}
