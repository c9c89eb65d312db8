package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Settlement is one persisted, enriched settlement row: the scraped bulletin
// fields plus the derived expiry date, day counts and annualized rate. Rate
// is nil for contracts at expiry (no business days left).
type Settlement struct {
	TradeDate        time.Time
	Commodity        string
	ContractCode     string
	PrevSettlePrice  float64
	SettlePrice      float64
	Variation        float64
	PerContractValue float64
	ExpiryDate       time.Time
	BusinessDays     int
	CalendarDays     int
	Rate             *float64
}

// SettlementRepository persists enriched settlement rows.
type SettlementRepository struct {
	pool *pgxpool.Pool
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

// SaveBatch upserts a batch of settlements in one transaction.
func (r *SettlementRepository) SaveBatch(ctx context.Context, settlements []*Settlement) error {
	if len(settlements) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO ettj.settlements (
			trade_date, commodity, contract_code,
			prev_settle_price, settle_price, variation, per_contract_value,
			expiry_date, business_days, calendar_days, rate
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (trade_date, commodity, contract_code)
		DO UPDATE SET
			prev_settle_price = EXCLUDED.prev_settle_price,
			settle_price = EXCLUDED.settle_price,
			variation = EXCLUDED.variation,
			per_contract_value = EXCLUDED.per_contract_value,
			expiry_date = EXCLUDED.expiry_date,
			business_days = EXCLUDED.business_days,
			calendar_days = EXCLUDED.calendar_days,
			rate = EXCLUDED.rate
	`

	for _, s := range settlements {
		if _, err := tx.Exec(ctx, query,
			s.TradeDate, s.Commodity, s.ContractCode,
			s.PrevSettlePrice, s.SettlePrice, s.Variation, s.PerContractValue,
			s.ExpiryDate, s.BusinessDays, s.CalendarDays, s.Rate,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetCurve returns the term structure of one commodity on one trade date,
// ordered by expiry.
func (r *SettlementRepository) GetCurve(ctx context.Context, commodity string, tradeDate time.Time) ([]*Settlement, error) {
	query := `
		SELECT trade_date, commodity, contract_code,
		       prev_settle_price, settle_price, variation, per_contract_value,
		       expiry_date, business_days, calendar_days, rate
		FROM ettj.settlements
		WHERE commodity = $1 AND trade_date = $2
		ORDER BY expiry_date ASC
	`

	rows, err := r.pool.Query(ctx, query, commodity, tradeDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSettlements(rows)
}

// GetByContract returns the settlement history of one contract, newest
// first.
func (r *SettlementRepository) GetByContract(ctx context.Context, commodity, contractCode string, limit int) ([]*Settlement, error) {
	query := `
		SELECT trade_date, commodity, contract_code,
		       prev_settle_price, settle_price, variation, per_contract_value,
		       expiry_date, business_days, calendar_days, rate
		FROM ettj.settlements
		WHERE commodity = $1 AND contract_code = $2
		ORDER BY trade_date DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, commodity, contractCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSettlements(rows)
}

// LatestTradeDate returns the most recent trade date with stored data for a
// commodity.
func (r *SettlementRepository) LatestTradeDate(ctx context.Context, commodity string) (time.Time, error) {
	query := `
		SELECT MAX(trade_date) FROM ettj.settlements WHERE commodity = $1
	`

	var latest time.Time
	if err := r.pool.QueryRow(ctx, query, commodity).Scan(&latest); err != nil {
		return time.Time{}, err
	}
	return latest, nil
}

func scanSettlements(rows pgx.Rows) ([]*Settlement, error) {
	var settlements []*Settlement
	for rows.Next() {
		var s Settlement
		if err := rows.Scan(
			&s.TradeDate, &s.Commodity, &s.ContractCode,
			&s.PrevSettlePrice, &s.SettlePrice, &s.Variation, &s.PerContractValue,
			&s.ExpiryDate, &s.BusinessDays, &s.CalendarDays, &s.Rate,
		); err != nil {
			return nil, err
		}
		settlements = append(settlements, &s)
	}
	return settlements, rows.Err()
}
