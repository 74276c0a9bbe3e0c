// Package storage persists billing periods in a local sqlite database
// and answers the month and statistics queries over them.
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

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"evn/internal/core"
)

var (
	// ErrPeriodExists signals that a billing period for the same invoice
	// date has already been registered. The stored period is untouched.
	ErrPeriodExists = errors.New("billing period already registered")

	ErrMonthNotFound  = errors.New("no billing period for month")
	ErrMonthAmbiguous = errors.New("more than one billing period for month")
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SavePeriod writes the billing period and its five category totals in
// one transaction. A period for the same date aborts the whole write
// with ErrPeriodExists and no partial rows.
func (r *SQLiteRepository) SavePeriod(ctx context.Context, period core.BillingPeriod) error {
	if err := period.Validate(); err != nil {
		return fmt.Errorf("validate billing period: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	date := period.Date.String()

	if err := q.InsertBillingPeriod(ctx, date); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("billing period %s: %w", date, ErrPeriodExists)
		}
		return fmt.Errorf("insert billing period: %w", err)
	}

	for _, total := range period.Totals {
		err := q.InsertCategoryTotal(ctx, CategoryTotalRow{
			PeriodDate: date,
			Kind:       string(total.Kind),
			UnitCount:  total.Units,
			Net:        total.Net.String(),
			Gross:      total.Gross.String(),
		})
		if err != nil {
			return fmt.Errorf("insert category total %s: %w", total.Kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit billing period: %w", err)
	}

	slog.InfoContext(ctx, "Billing period saved",
		"date", date,
		"categories", len(period.Totals))
	return nil
}

// FindByMonth returns the single billing period whose date falls into
// the given year and month. Zero matches and multiple matches are both
// reported as errors, never resolved silently.
func (r *SQLiteRepository) FindByMonth(ctx context.Context, year, month int) (core.BillingPeriod, error) {
	prefix := fmt.Sprintf("%04d-%02d-%%", year, month)
	dates, err := r.queries.GetPeriodDatesByPrefix(ctx, prefix)
	if err != nil {
		return core.BillingPeriod{}, fmt.Errorf("query month %04d-%02d: %w", year, month, err)
	}
	switch len(dates) {
	case 0:
		return core.BillingPeriod{}, fmt.Errorf("month %04d-%02d: %w", year, month, ErrMonthNotFound)
	case 1:
		return r.loadPeriod(ctx, dates[0])
	default:
		return core.BillingPeriod{}, fmt.Errorf("month %04d-%02d: %w", year, month, ErrMonthAmbiguous)
	}
}

// ListAll returns every stored billing period ordered by ascending date.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.BillingPeriod, error) {
	dates, err := r.queries.GetPeriodDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list billing periods: %w", err)
	}

	periods := make([]core.BillingPeriod, 0, len(dates))
	for _, date := range dates {
		period, err := r.loadPeriod(ctx, date)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// ListDates returns the dates of all stored billing periods, ascending.
func (r *SQLiteRepository) ListDates(ctx context.Context) ([]core.Date, error) {
	raw, err := r.queries.GetPeriodDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list billing period dates: %w", err)
	}
	dates := make([]core.Date, 0, len(raw))
	for _, s := range raw {
		date, err := core.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", s, err)
		}
		dates = append(dates, date)
	}
	return dates, nil
}

// Aggregate is the cross-period reduction of one category kind. A Count
// of zero means no periods are stored; every other field is undefined
// then and callers must not read zeros out of it.
type Aggregate struct {
	Count      int64
	MinUnits   int64
	MaxUnits   int64
	AvgNet     decimal.Decimal
	AvgGross   decimal.Decimal
	UnitCounts []int64
}

// AggregateByKind reduces all stored totals of one kind. Count, min and
// max come from SQL; the cost averages are computed here so the currency
// math stays in decimals, and the raw unit counts are returned for the
// standard deviation.
func (r *SQLiteRepository) AggregateByKind(ctx context.Context, kind core.Kind) (Aggregate, error) {
	stats, err := r.queries.GetKindUnitStats(ctx, string(kind))
	if err != nil {
		return Aggregate{}, fmt.Errorf("aggregate %s: %w", kind, err)
	}

	agg := Aggregate{
		Count:    stats.Count,
		MinUnits: stats.MinUnits,
		MaxUnits: stats.MaxUnits,
	}
	if stats.Count == 0 {
		return agg, nil
	}

	rows, err := r.queries.GetKindRows(ctx, string(kind))
	if err != nil {
		return Aggregate{}, fmt.Errorf("aggregate %s rows: %w", kind, err)
	}

	var sumNet, sumGross decimal.Decimal
	for _, row := range rows {
		net, err := decimal.NewFromString(row.Net)
		if err != nil {
			return Aggregate{}, fmt.Errorf("stored net %q: %w", row.Net, err)
		}
		gross, err := decimal.NewFromString(row.Gross)
		if err != nil {
			return Aggregate{}, fmt.Errorf("stored gross %q: %w", row.Gross, err)
		}
		sumNet = sumNet.Add(net)
		sumGross = sumGross.Add(gross)
		agg.UnitCounts = append(agg.UnitCounts, row.UnitCount)
	}

	count := decimal.NewFromInt(int64(len(rows)))
	agg.AvgNet = sumNet.Div(count)
	agg.AvgGross = sumGross.Div(count)
	return agg, nil
}

func (r *SQLiteRepository) loadPeriod(ctx context.Context, date string) (core.BillingPeriod, error) {
	parsed, err := core.ParseDate(date)
	if err != nil {
		return core.BillingPeriod{}, fmt.Errorf("stored date %q: %w", date, err)
	}

	rows, err := r.queries.GetCategoryTotals(ctx, date)
	if err != nil {
		return core.BillingPeriod{}, fmt.Errorf("load totals for %s: %w", date, err)
	}

	byKind := make(map[core.Kind]core.CategoryTotal, len(rows))
	for _, row := range rows {
		kind, err := core.ParseKind(row.Kind)
		if err != nil {
			return core.BillingPeriod{}, fmt.Errorf("stored kind %q: %w", row.Kind, err)
		}
		net, err := decimal.NewFromString(row.Net)
		if err != nil {
			return core.BillingPeriod{}, fmt.Errorf("stored net %q: %w", row.Net, err)
		}
		gross, err := decimal.NewFromString(row.Gross)
		if err != nil {
			return core.BillingPeriod{}, fmt.Errorf("stored gross %q: %w", row.Gross, err)
		}
		byKind[kind] = core.CategoryTotal{
			Kind:  kind,
			Units: row.UnitCount,
			Net:   net,
			Gross: gross,
		}
	}

	period := core.BillingPeriod{Date: parsed}
	for _, kind := range core.Kinds {
		total := byKind[kind]
		total.Kind = kind
		period.Totals = append(period.Totals, total)
	}
	return period, nil
}

// isUniqueViolation classifies the driver error for a primary key
// conflict. The sqlite driver is imported blank, so the message text is
// matched instead of a driver error type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
