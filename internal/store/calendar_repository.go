package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CalendarRepository loads exchange business days from the calendar table.
// It implements calendar.Source for deployments that maintain the trading
// calendar as database data instead of the builtin holiday rules.
type CalendarRepository struct {
	pool *pgxpool.Pool
}

// NewCalendarRepository creates a new calendar repository
func NewCalendarRepository(pool *pgxpool.Pool) *CalendarRepository {
	return &CalendarRepository{pool: pool}
}

// BusinessDays returns the business-open dates of an exchange in
// [start, end), ordered ascending.
func (r *CalendarRepository) BusinessDays(ctx context.Context, exchange string, start, end time.Time) ([]time.Time, error) {
	query := `
		SELECT business_date
		FROM ettj.business_days
		WHERE exchange = $1 AND business_date >= $2 AND business_date < $3
		ORDER BY business_date ASC
	`

	rows, err := r.pool.Query(ctx, query, exchange, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// SaveBusinessDays seeds the calendar table for an exchange.
func (r *CalendarRepository) SaveBusinessDays(ctx context.Context, exchange string, days []time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO ettj.business_days (exchange, business_date)
		VALUES ($1, $2)
		ON CONFLICT (exchange, business_date) DO NOTHING
	`

	for _, d := range days {
		if _, err := tx.Exec(ctx, query, exchange, d); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
