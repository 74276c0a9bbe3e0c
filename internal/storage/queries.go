package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same queries run
// inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// CategoryTotalRow mirrors one category_totals row. Amounts stay decimal
// strings at this layer; the repository converts them.
type CategoryTotalRow struct {
	PeriodDate string
	Kind       string
	UnitCount  int64
	Net        string
	Gross      string
}

const insertBillingPeriod = `
INSERT INTO billing_periods (date) VALUES (?)
`

func (q *Queries) InsertBillingPeriod(ctx context.Context, date string) error {
	_, err := q.db.ExecContext(ctx, insertBillingPeriod, date)
	return err
}

const insertCategoryTotal = `
INSERT INTO category_totals (period_date, kind, unit_count, net, gross)
VALUES (?, ?, ?, ?, ?)
`

func (q *Queries) InsertCategoryTotal(ctx context.Context, row CategoryTotalRow) error {
	_, err := q.db.ExecContext(ctx, insertCategoryTotal,
		row.PeriodDate, row.Kind, row.UnitCount, row.Net, row.Gross)
	return err
}

const getPeriodDates = `
SELECT date FROM billing_periods ORDER BY date ASC
`

func (q *Queries) GetPeriodDates(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getPeriodDates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

const getPeriodDatesByPrefix = `
SELECT date FROM billing_periods WHERE date LIKE ? ORDER BY date ASC
`

func (q *Queries) GetPeriodDatesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getPeriodDatesByPrefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

const getCategoryTotals = `
SELECT period_date, kind, unit_count, net, gross
FROM category_totals
WHERE period_date = ?
`

func (q *Queries) GetCategoryTotals(ctx context.Context, date string) ([]CategoryTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, getCategoryTotals, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotalRow
	for rows.Next() {
		var row CategoryTotalRow
		if err := rows.Scan(&row.PeriodDate, &row.Kind, &row.UnitCount, &row.Net, &row.Gross); err != nil {
			return nil, err
		}
		totals = append(totals, row)
	}
	return totals, rows.Err()
}

const getKindUnitStats = `
SELECT COUNT(*), COALESCE(MIN(unit_count), 0), COALESCE(MAX(unit_count), 0)
FROM category_totals
WHERE kind = ?
`

// KindUnitStats holds the SQL-side reduction over one kind's unit counts.
type KindUnitStats struct {
	Count    int64
	MinUnits int64
	MaxUnits int64
}

func (q *Queries) GetKindUnitStats(ctx context.Context, kind string) (KindUnitStats, error) {
	var stats KindUnitStats
	err := q.db.QueryRowContext(ctx, getKindUnitStats, kind).
		Scan(&stats.Count, &stats.MinUnits, &stats.MaxUnits)
	return stats, err
}

const getKindRows = `
SELECT period_date, kind, unit_count, net, gross
FROM category_totals
WHERE kind = ?
ORDER BY period_date ASC
`

func (q *Queries) GetKindRows(ctx context.Context, kind string) ([]CategoryTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, getKindRows, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotalRow
	for rows.Next() {
		var row CategoryTotalRow
		if err := rows.Scan(&row.PeriodDate, &row.Kind, &row.UnitCount, &row.Net, &row.Gross); err != nil {
			return nil, err
		}
		totals = append(totals, row)
	}
	return totals, rows.Err()
}
