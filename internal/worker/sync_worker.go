package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/sheets"
)

// EntrySource is the read side of the entry store the worker needs.
type EntrySource interface {
	Get(ctx context.Context, ownerID, id string) (core.LedgerEntry, error)
	QueryRange(ctx context.Context, ownerID string, start, end core.Date) ([]core.LedgerEntry, error)
}

// SyncWorker mirrors ledger entries into a spreadsheet as change events
// arrive.
type SyncWorker struct {
	entries EntrySource
	mirror  sheets.EntryMirror
}

func NewSyncWorker(entries EntrySource, mirror sheets.EntryMirror) *SyncWorker {
	return &SyncWorker{entries: entries, mirror: mirror}
}

// HandleEntryEvent applies one change event to the mirror. A returned error
// asks the broker to redeliver.
func (w *SyncWorker) HandleEntryEvent(ctx context.Context, ev *amqp.EntryEvent) error {
	slog.InfoContext(ctx, "Processing entry event",
		"type", ev.Type,
		"owner_id", ev.OwnerID,
		"entry_id", ev.EntryID)

	switch ev.Type {
	case amqp.EntryCreated, amqp.EntryUpdated:
		return w.syncEntry(ctx, ev)
	case amqp.EntryDeleted:
		return w.deleteEntry(ctx, ev)
	default:
		slog.WarnContext(ctx, "Ignoring unknown entry event", "type", ev.Type)
		return nil
	}
}

func (w *SyncWorker) syncEntry(ctx context.Context, ev *amqp.EntryEvent) error {
	e, err := w.entries.Get(ctx, ev.OwnerID, ev.EntryID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted before we got here; the delete event cleans up.
		slog.WarnContext(ctx, "Entry no longer exists, skipping sync", "entry_id", ev.EntryID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}

	ref, err := w.mirror.Upsert(ctx, e)
	if err != nil {
		return fmt.Errorf("sync entry to sheets: %w", err)
	}
	slog.InfoContext(ctx, "Successfully synced entry",
		"entry_id", e.ID,
		"sheets_ref", ref,
		"amount_cents", e.Amount.Cents)
	return nil
}

func (w *SyncWorker) deleteEntry(ctx context.Context, ev *amqp.EntryEvent) error {
	d, err := core.ParseDate(ev.OccursOn)
	if err != nil {
		slog.ErrorContext(ctx, "Delete event without a usable date, dropping",
			"entry_id", ev.EntryID,
			"occurs_on", ev.OccursOn)
		return nil
	}
	if err := w.mirror.Delete(ctx, ev.EntryID, d.Year()); err != nil {
		return fmt.Errorf("delete entry from sheets: %w", err)
	}
	slog.InfoContext(ctx, "Successfully deleted entry from sheets", "entry_id", ev.EntryID, "year", d.Year())
	return nil
}

// Backfill mirrors every entry an owner has in year. It recovers from
// missed events or worker downtime and keeps going past single failures.
func (w *SyncWorker) Backfill(ctx context.Context, ownerID string, year int) error {
	period := core.YearRange(year)
	entries, err := w.entries.QueryRange(ctx, ownerID, period.Start, period.End)
	if err != nil {
		return fmt.Errorf("list entries for backfill: %w", err)
	}

	var synced, failed int
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := w.mirror.Upsert(ctx, e); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry during backfill", "entry_id", e.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Backfill completed",
		"owner_id", ownerID,
		"year", year,
		"total", len(entries),
		"synced", synced,
		"errors", failed)
	if failed > 0 {
		return fmt.Errorf("backfill: %d of %d entries failed", failed, len(entries))
	}
	return nil
}
