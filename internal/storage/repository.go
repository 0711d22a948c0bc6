// Package storage is the SQLite implementation of the ledger's entry and
// owner stores.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ledger/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db    *sql.DB
	newID func() string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection serializes batch
	// transactions instead of failing them with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, newID: uuid.NewString}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return core.Unavailable("ping", r.db.PingContext(ctx))
}

// InsertBatch writes all entries in one transaction.
func (r *SQLiteRepository) InsertBatch(ctx context.Context, entries []core.LedgerEntry) ([]string, error) {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, core.Unavailable("begin insert", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertEntrySQL)
	if err != nil {
		return nil, core.Unavailable("prepare insert", err)
	}
	defer stmt.Close()

	ids := make([]string, len(entries))
	for i, e := range entries {
		e.ID = r.newID()
		if _, err := stmt.ExecContext(ctx, entryArgs(e)...); err != nil {
			return nil, core.Unavailable("insert entry", err)
		}
		ids[i] = e.ID
	}

	if err := tx.Commit(); err != nil {
		return nil, core.Unavailable("commit insert", err)
	}

	slog.DebugContext(ctx, "Entries saved to SQLite", "count", len(ids))
	return ids, nil
}

func (r *SQLiteRepository) InsertOne(ctx context.Context, e core.LedgerEntry) (string, error) {
	ids, err := r.InsertBatch(ctx, []core.LedgerEntry{e})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (r *SQLiteRepository) Get(ctx context.Context, ownerID, id string) (core.LedgerEntry, error) {
	return getEntry(ctx, r.db, ownerID, id)
}

// UpdateOne applies patch inside a transaction so the read-merge-write is
// atomic and period_key is rewritten from the merged date.
func (r *SQLiteRepository) UpdateOne(ctx context.Context, ownerID, id string, patch core.EntryPatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Unavailable("begin update", err)
	}
	defer tx.Rollback()

	current, err := getEntry(ctx, tx, ownerID, id)
	if err != nil {
		return err
	}
	updated, err := core.ApplyPatch(current, patch)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, updateEntrySQL,
		string(updated.Kind),
		updated.Amount.Cents,
		string(updated.Category),
		updated.Bank,
		string(updated.PaymentMethod),
		updated.Description,
		updated.OccursOn.String(),
		updated.PeriodKey(),
		ownerID,
		id,
	); err != nil {
		return core.Unavailable("update entry", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Unavailable("commit update", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteOne(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, deleteEntrySQL, ownerID, id)
	if err != nil {
		return core.Unavailable("delete entry", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Unavailable("delete entry", err)
	}
	if n == 0 {
		return &core.NotFoundError{ID: id}
	}
	return nil
}

func (r *SQLiteRepository) QueryRange(ctx context.Context, ownerID string, start, end core.Date) ([]core.LedgerEntry, error) {
	return r.QueryByPredicate(ctx, ownerID, core.Predicate{From: start, To: end})
}

func (r *SQLiteRepository) QueryByPredicate(ctx context.Context, ownerID string, p core.Predicate) ([]core.LedgerEntry, error) {
	query, args := buildPredicateQuery(ownerID, p)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.Unavailable("query entries", err)
	}
	defer rows.Close()

	out := make([]core.LedgerEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, core.Unavailable("scan entry", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Unavailable("iterate entries", err)
	}
	return out, nil
}

func (r *SQLiteRepository) OwnerConfig(ctx context.Context, ownerID string) (core.OwnerConfig, bool, error) {
	cfg := core.OwnerConfig{OwnerID: ownerID}

	var exists int
	err := r.db.QueryRowContext(ctx, ownerExistsSQL, ownerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return cfg, false, nil
	}
	if err != nil {
		return cfg, false, core.Unavailable("read owner", err)
	}

	rows, err := r.db.QueryContext(ctx, listBanksSQL, ownerID)
	if err != nil {
		return cfg, false, core.Unavailable("list banks", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return cfg, false, core.Unavailable("scan bank", err)
		}
		cfg.Banks = append(cfg.Banks, name)
	}
	if err := rows.Err(); err != nil {
		return cfg, false, core.Unavailable("iterate banks", err)
	}
	return cfg, true, nil
}

// SaveOwnerConfig replaces the owner's bank list atomically.
func (r *SQLiteRepository) SaveOwnerConfig(ctx context.Context, cfg core.OwnerConfig) error {
	if strings.TrimSpace(cfg.OwnerID) == "" {
		return core.ErrEmptyOwner
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Unavailable("begin save owner", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertOwnerSQL, cfg.OwnerID); err != nil {
		return core.Unavailable("upsert owner", err)
	}
	if _, err := tx.ExecContext(ctx, clearBanksSQL, cfg.OwnerID); err != nil {
		return core.Unavailable("clear banks", err)
	}
	for i, name := range cfg.Banks {
		if _, err := tx.ExecContext(ctx, insertBankSQL, cfg.OwnerID, name, i); err != nil {
			return core.Unavailable("insert bank", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return core.Unavailable("commit save owner", err)
	}
	return nil
}
