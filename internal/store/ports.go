// Package store declares the persistence ports of the ledger.
package store

import (
	"context"

	"ledger/internal/core"
)

type (
	// EntryStore persists ledger entries scoped by owner.
	//
	// Queries return entries ordered by OccursOn ascending, then by creation
	// order. Failures at the persistence boundary are reported as
	// core.StoreUnavailableError; unknown ids as core.NotFoundError.
	EntryStore interface {
		// InsertBatch writes all entries or none and returns their new ids
		// in input order.
		InsertBatch(ctx context.Context, entries []core.LedgerEntry) ([]string, error)
		InsertOne(ctx context.Context, e core.LedgerEntry) (string, error)
		Get(ctx context.Context, ownerID, id string) (core.LedgerEntry, error)
		UpdateOne(ctx context.Context, ownerID, id string, patch core.EntryPatch) error
		DeleteOne(ctx context.Context, ownerID, id string) error
		// QueryRange returns entries with start <= OccursOn <= end.
		QueryRange(ctx context.Context, ownerID string, start, end core.Date) ([]core.LedgerEntry, error)
		QueryByPredicate(ctx context.Context, ownerID string, p core.Predicate) ([]core.LedgerEntry, error)
	}

	// OwnerStore persists per-owner configuration.
	OwnerStore interface {
		// OwnerConfig returns the stored configuration, or found=false when
		// the owner has none yet.
		OwnerConfig(ctx context.Context, ownerID string) (cfg core.OwnerConfig, found bool, err error)
		SaveOwnerConfig(ctx context.Context, cfg core.OwnerConfig) error
	}

	// Pinger reports whether the backing store is reachable.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
