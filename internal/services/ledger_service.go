package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/installment"
	"ledger/internal/store"
)

const defaultRecentLimit = 10

// EventPublisher announces entry changes to downstream consumers.
type EventPublisher interface {
	PublishEntryEvent(ctx context.Context, ev amqp.EntryEvent) error
}

// Options configures a LedgerService. Zero values are valid.
type Options struct {
	Publisher      EventPublisher
	DashboardCache cache.Cache[Dashboard]
	// DefaultBanks seeds owners that have never saved a bank list.
	DefaultBanks []string
	RecentLimit  int
}

// LedgerService orchestrates entry writes and reads: validation and planning
// first, then the store, then change events and cache invalidation.
type LedgerService struct {
	entries      store.EntryStore
	owners       store.OwnerStore
	planner      *installment.Planner
	publisher    EventPublisher
	dashboards   cache.Cache[Dashboard]
	generations  generations
	defaultBanks []string
	recentLimit  int
	now          func() time.Time
}

func NewLedgerService(entries store.EntryStore, owners store.OwnerStore, opts Options) *LedgerService {
	recent := opts.RecentLimit
	if recent <= 0 {
		recent = defaultRecentLimit
	}
	return &LedgerService{
		entries:      entries,
		owners:       owners,
		planner:      installment.NewPlanner(),
		publisher:    opts.Publisher,
		dashboards:   opts.DashboardCache,
		defaultBanks: slices.Clone(opts.DefaultBanks),
		recentLimit:  recent,
		now:          time.Now,
	}
}

// IncomeRequest is a direct income submission.
type IncomeRequest struct {
	OwnerID     string
	Amount      core.Money
	Category    core.Category
	Bank        string
	Description string
	OccursOn    core.Date
}

// RecordPurchase plans p and stores all resulting entries atomically.
func (s *LedgerService) RecordPurchase(ctx context.Context, p installment.Purchase) ([]core.LedgerEntry, error) {
	if err := s.planner.Validate(p); err != nil {
		return nil, err
	}
	cfg, err := s.OwnerConfig(ctx, p.OwnerID)
	if err != nil {
		return nil, err
	}
	entries, err := s.planner.Plan(cfg, p)
	if err != nil {
		return nil, err
	}

	var ids []string
	if len(entries) == 1 {
		var id string
		id, err = s.entries.InsertOne(ctx, entries[0])
		ids = []string{id}
	} else {
		ids, err = s.entries.InsertBatch(ctx, entries)
	}
	if err != nil {
		return nil, fmt.Errorf("record purchase: %w", err)
	}
	for i := range entries {
		entries[i].ID = ids[i]
	}

	slog.DebugContext(ctx, "Purchase recorded",
		"owner_id", p.OwnerID,
		"entries", len(entries),
		"total_cents", sumCents(entries),
		"category", p.Category)

	s.afterWrite(ctx, amqp.EntryCreated, entries...)
	return entries, nil
}

// RecordIncome stores a single income entry.
func (s *LedgerService) RecordIncome(ctx context.Context, req IncomeRequest) (core.LedgerEntry, error) {
	e := core.LedgerEntry{
		OwnerID:       req.OwnerID,
		Kind:          core.KindIncome,
		Amount:        req.Amount,
		Category:      req.Category,
		Bank:          strings.TrimSpace(req.Bank),
		PaymentMethod: core.PaymentNotApplicable,
		Description:   strings.TrimSpace(req.Description),
		OccursOn:      req.OccursOn,
	}
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	cfg, err := s.OwnerConfig(ctx, req.OwnerID)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	if !cfg.HasBank(e.Bank) {
		return core.LedgerEntry{}, core.ErrUnknownBank
	}

	id, err := s.entries.InsertOne(ctx, e)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("record income: %w", err)
	}
	e.ID = id

	slog.DebugContext(ctx, "Income recorded", "owner_id", e.OwnerID, "entry_id", id, "amount_cents", e.Amount.Cents)
	s.afterWrite(ctx, amqp.EntryCreated, e)
	return e, nil
}

// EditEntry applies patch to an existing entry and returns the result.
func (s *LedgerService) EditEntry(ctx context.Context, ownerID, id string, patch core.EntryPatch) (core.LedgerEntry, error) {
	if err := patch.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	current, err := s.entries.Get(ctx, ownerID, id)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	if patch.Empty() {
		return current, nil
	}
	merged, err := core.ApplyPatch(current, patch)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	if merged.Bank != current.Bank {
		cfg, err := s.OwnerConfig(ctx, ownerID)
		if err != nil {
			return core.LedgerEntry{}, err
		}
		if !cfg.HasBank(merged.Bank) {
			return core.LedgerEntry{}, core.ErrUnknownBank
		}
	}

	if err := s.entries.UpdateOne(ctx, ownerID, id, patch); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("edit entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry updated", "owner_id", ownerID, "entry_id", id)
	s.afterWrite(ctx, amqp.EntryUpdated, merged)
	return merged, nil
}

// DeleteEntry removes one entry. Other installments of the same purchase
// are left alone.
func (s *LedgerService) DeleteEntry(ctx context.Context, ownerID, id string) error {
	// Read first so the event can carry the date the mirror needs.
	current, err := s.entries.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.entries.DeleteOne(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	slog.InfoContext(ctx, "Entry deleted", "owner_id", ownerID, "entry_id", id)
	s.afterWrite(ctx, amqp.EntryDeleted, current)
	return nil
}

// afterWrite publishes change events and drops cached dashboards. Neither
// step can fail the write that already happened.
func (s *LedgerService) afterWrite(ctx context.Context, t amqp.EventType, entries ...core.LedgerEntry) {
	if len(entries) == 0 {
		return
	}
	s.invalidateDashboards(entries[0].OwnerID)
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping entry events", "type", t)
		return
	}
	for _, e := range entries {
		if err := s.publisher.PublishEntryEvent(ctx, amqp.NewEntryEvent(t, e)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish entry event",
				"type", t,
				"entry_id", e.ID,
				"error", err)
		}
	}
}

func sumCents(entries []core.LedgerEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Amount.Cents
	}
	return total
}
