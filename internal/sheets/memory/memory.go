// Package memory is an in-process spreadsheet mirror for development and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"ledger/internal/core"
	"ledger/internal/sheets"
)

var _ sheets.EntryMirror = (*Mirror)(nil)

type Mirror struct {
	mu    sync.Mutex
	years map[int][][]string
}

func New() *Mirror {
	return &Mirror{years: map[int][][]string{}}
}

// Upsert replaces the row holding e.ID or appends a new one.
func (m *Mirror) Upsert(_ context.Context, e core.LedgerEntry) (string, error) {
	if e.ID == "" {
		return "", core.Invalid("id", "must not be empty")
	}
	year := e.OccursOn.Year()
	row := sheets.Row(e)

	m.mu.Lock()
	defer m.mu.Unlock()
	// An edit can move an entry to another year.
	for y, rows := range m.years {
		if y == year {
			continue
		}
		m.years[y] = slices.DeleteFunc(rows, func(r []string) bool { return r[0] == e.ID })
	}
	rows := m.years[year]
	if i := indexOf(rows, e.ID); i >= 0 {
		rows[i] = row
		return fmt.Sprintf("mem:%d:%d", year, i+1), nil
	}
	m.years[year] = append(rows, row)
	return fmt.Sprintf("mem:%d:%d", year, len(m.years[year])), nil
}

func (m *Mirror) Delete(_ context.Context, id string, year int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.years[year] = slices.DeleteFunc(m.years[year], func(r []string) bool { return r[0] == id })
	return nil
}

// Rows returns a copy of the rows mirrored for year.
func (m *Mirror) Rows(year int) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.years[year]))
	for i, r := range m.years[year] {
		out[i] = slices.Clone(r)
	}
	return out
}

func indexOf(rows [][]string, id string) int {
	return slices.IndexFunc(rows, func(r []string) bool { return r[0] == id })
}
