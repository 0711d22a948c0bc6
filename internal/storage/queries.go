package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ledger/internal/core"
)

const entryColumns = `id, owner_id, kind, amount_cents, category, bank, payment_method,
	description, occurs_on, purchase_id, installment_index, installment_total`

const (
	insertEntrySQL = `INSERT INTO entries (id, owner_id, kind, amount_cents, category, bank,
	payment_method, description, occurs_on, period_key, purchase_id, installment_index, installment_total)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	getEntrySQL = `SELECT ` + entryColumns + ` FROM entries WHERE owner_id = ? AND id = ?`

	updateEntrySQL = `UPDATE entries SET kind = ?, amount_cents = ?, category = ?, bank = ?,
	payment_method = ?, description = ?, occurs_on = ?, period_key = ?, updated_at = CURRENT_TIMESTAMP
	WHERE owner_id = ? AND id = ?`

	deleteEntrySQL = `DELETE FROM entries WHERE owner_id = ? AND id = ?`

	ownerExistsSQL = `SELECT 1 FROM owners WHERE owner_id = ?`
	upsertOwnerSQL = `INSERT INTO owners (owner_id) VALUES (?) ON CONFLICT (owner_id) DO NOTHING`
	clearBanksSQL  = `DELETE FROM owner_banks WHERE owner_id = ?`
	insertBankSQL  = `INSERT INTO owner_banks (owner_id, name, position) VALUES (?, ?, ?)`
	listBanksSQL   = `SELECT name FROM owner_banks WHERE owner_id = ? ORDER BY position`
)

type scanner interface {
	Scan(dest ...any) error
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// entryArgs matches the column order of insertEntrySQL.
func entryArgs(e core.LedgerEntry) []any {
	var purchaseID sql.NullString
	var index, total sql.NullInt64
	if in := e.Installment; in != nil {
		purchaseID = sql.NullString{String: in.PurchaseID, Valid: true}
		index = sql.NullInt64{Int64: int64(in.Index), Valid: true}
		total = sql.NullInt64{Int64: int64(in.Total), Valid: true}
	}
	return []any{
		e.ID,
		e.OwnerID,
		string(e.Kind),
		e.Amount.Cents,
		string(e.Category),
		e.Bank,
		string(e.PaymentMethod),
		e.Description,
		e.OccursOn.String(),
		e.PeriodKey(),
		purchaseID,
		index,
		total,
	}
}

func scanEntry(s scanner) (core.LedgerEntry, error) {
	var (
		e                     core.LedgerEntry
		kind, cat, pm, occurs string
		purchaseID            sql.NullString
		index, total          sql.NullInt64
	)
	if err := s.Scan(&e.ID, &e.OwnerID, &kind, &e.Amount.Cents, &cat, &e.Bank, &pm,
		&e.Description, &occurs, &purchaseID, &index, &total); err != nil {
		return core.LedgerEntry{}, err
	}
	t, err := time.Parse(time.DateOnly, occurs)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("parse occurs_on: %w", err)
	}
	e.Kind = core.Kind(kind)
	e.Category = core.Category(cat)
	e.PaymentMethod = core.PaymentMethod(pm)
	e.OccursOn = core.Date{Time: t}
	if purchaseID.Valid {
		e.Installment = &core.Installment{
			PurchaseID: purchaseID.String,
			Index:      int(index.Int64),
			Total:      int(total.Int64),
		}
	}
	return e, nil
}

func getEntry(ctx context.Context, q queryer, ownerID, id string) (core.LedgerEntry, error) {
	e, err := scanEntry(q.QueryRowContext(ctx, getEntrySQL, ownerID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.LedgerEntry{}, &core.NotFoundError{ID: id}
	}
	if err != nil {
		return core.LedgerEntry{}, core.Unavailable("get entry", err)
	}
	return e, nil
}

// buildPredicateQuery pushes every set predicate field into the WHERE clause.
func buildPredicateQuery(ownerID string, p core.Predicate) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + ` FROM entries WHERE owner_id = ?`)
	args := []any{ownerID}

	if p.Kind != "" {
		sb.WriteString(` AND kind = ?`)
		args = append(args, string(p.Kind))
	}
	if len(p.Categories) > 0 {
		sb.WriteString(` AND category IN (?` + strings.Repeat(`, ?`, len(p.Categories)-1) + `)`)
		for _, c := range p.Categories {
			args = append(args, string(c))
		}
	}
	if p.Bank != "" {
		sb.WriteString(` AND bank = ?`)
		args = append(args, p.Bank)
	}
	if p.PaymentMethod != "" {
		sb.WriteString(` AND payment_method = ?`)
		args = append(args, string(p.PaymentMethod))
	}
	if !p.From.IsZero() {
		sb.WriteString(` AND occurs_on >= ?`)
		args = append(args, p.From.String())
	}
	if !p.To.IsZero() {
		sb.WriteString(` AND occurs_on <= ?`)
		args = append(args, p.To.String())
	}
	sb.WriteString(` ORDER BY occurs_on, seq`)
	return sb.String(), args
}
