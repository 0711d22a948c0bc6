package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"ledger/internal/core"
	"ledger/internal/query"
	"ledger/internal/report"
)

// Granularity selects the dashboard period.
type Granularity string

const (
	Monthly Granularity = "monthly"
	Annual  Granularity = "annual"
)

func (g Granularity) Valid() bool { return g == Monthly || g == Annual }

// Dashboard is the owner's overview for the period containing today.
type Dashboard struct {
	Granularity Granularity
	Period      core.Period
	Summary     report.PeriodSummary
	Yearly      report.YearlySeries
	Recent      []core.LedgerEntry
	Upcoming    []core.LedgerEntry
}

func dashboardKeyPrefix(ownerID string) string { return ownerID + "|" }

// generations counts writes per owner. A dashboard is only cached when no
// write happened between the start of its fetch and the Set.
type generations struct {
	mu   sync.Mutex
	byID map[string]uint64
}

func (g *generations) current(ownerID string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.byID[ownerID]
}

// bump advances the owner's generation and runs drop under the same lock
// that guards storeIf.
func (g *generations) bump(ownerID string, drop func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.byID == nil {
		g.byID = map[string]uint64{}
	}
	g.byID[ownerID]++
	drop()
}

// storeIf runs store only while the owner is still at gen.
func (g *generations) storeIf(ownerID string, gen uint64, store func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.byID[ownerID] != gen {
		return false
	}
	store()
	return true
}

func (s *LedgerService) invalidateDashboards(ownerID string) {
	s.generations.bump(ownerID, func() {
		if s.dashboards != nil {
			s.dashboards.DeletePrefix(dashboardKeyPrefix(ownerID))
		}
	})
}

// Dashboard aggregates the current month or year. The period, the yearly
// series and upcoming expenses are fetched concurrently.
func (s *LedgerService) Dashboard(ctx context.Context, ownerID string, g Granularity) (Dashboard, error) {
	if ownerID == "" {
		return Dashboard{}, core.ErrEmptyOwner
	}
	if !g.Valid() {
		return Dashboard{}, core.Invalid("period", "must be monthly or annual")
	}

	today := core.DateOf(s.now())
	key := fmt.Sprintf("%s%s|%s", dashboardKeyPrefix(ownerID), g, today)
	if s.dashboards != nil {
		if d, ok := s.dashboards.Get(key); ok {
			return d, nil
		}
	}
	gen := s.generations.current(ownerID)

	period := core.MonthPeriod(today)
	if g == Annual {
		period = core.YearPeriod(today)
	}
	year := core.YearPeriod(today)
	upcomingSpec := query.Spec{FutureOnly: true, Today: today}

	var periodEntries, yearEntries, upcoming []core.LedgerEntry
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		periodEntries, err = s.entries.QueryRange(egCtx, ownerID, period.Start, period.End)
		return err
	})
	if g == Monthly {
		eg.Go(func() error {
			var err error
			yearEntries, err = s.entries.QueryRange(egCtx, ownerID, year.Start, year.End)
			return err
		})
	}
	eg.Go(func() error {
		var err error
		upcoming, err = s.entries.QueryByPredicate(egCtx, ownerID, upcomingSpec.Predicate())
		return err
	})
	if err := eg.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard: %w", err)
	}
	if g == Annual {
		yearEntries = periodEntries
	}

	ordered := query.Collect(query.Filter(periodEntries, query.Spec{}))
	summary := report.Summarize(ordered)
	upcoming = query.Collect(query.Filter(upcoming, upcomingSpec))
	query.SortOldestFirst(upcoming)

	d := Dashboard{
		Granularity: g,
		Period:      period,
		Summary:     summary,
		Yearly:      report.SummarizeYearly(yearEntries),
		Recent:      summary.Recent(s.recentLimit),
		Upcoming:    upcoming,
	}
	if s.dashboards != nil {
		cached := s.generations.storeIf(ownerID, gen, func() { s.dashboards.Set(key, d) })
		if !cached {
			slog.DebugContext(ctx, "Entries changed during dashboard fetch, not caching", "owner_id", ownerID)
		}
	}
	return d, nil
}

// Statement lists the owner's entries matching spec, newest first. The
// predicate is pushed down to the store and re-applied in memory.
func (s *LedgerService) Statement(ctx context.Context, ownerID string, spec query.Spec) ([]core.LedgerEntry, error) {
	if ownerID == "" {
		return nil, core.ErrEmptyOwner
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Today.IsZero() {
		spec.Today = core.DateOf(s.now())
	}
	rows, err := s.entries.QueryByPredicate(ctx, ownerID, spec.Predicate())
	if err != nil {
		return nil, fmt.Errorf("load statement: %w", err)
	}
	return query.Collect(query.Filter(rows, spec)), nil
}

// Upcoming lists expenses due today or later, soonest first.
func (s *LedgerService) Upcoming(ctx context.Context, ownerID string) ([]core.LedgerEntry, error) {
	entries, err := s.Statement(ctx, ownerID, query.Spec{FutureOnly: true})
	if err != nil {
		return nil, err
	}
	query.SortOldestFirst(entries)
	return entries, nil
}
