package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/b3data/ettj/internal/calendar"
	"github.com/b3data/ettj/internal/external/b3"
	"github.com/b3data/ettj/internal/futures"
	"github.com/b3data/ettj/internal/rates"
	"github.com/b3data/ettj/internal/store"
	"github.com/b3data/ettj/pkg/logger"
)

// Pipeline orchestrates one collection run: scrape the settlement bulletin,
// enrich the configured products with expiry dates and day counts, compute
// annualized rates and persist the result.
type Pipeline struct {
	b3Client   *b3.Client
	applicator *futures.Applicator
	repo       *store.SettlementRepository
	cal        *calendar.TradingCalendar
	logger     *logger.Logger
	products   map[string]futures.Convention
}

// New creates a Pipeline. The products map pairs a commodity code (DI1,
// DAP, ...) with its expiry-convention selector; an unrecognized selector is
// a configuration error and fails construction.
func New(
	b3Client *b3.Client,
	cal *calendar.TradingCalendar,
	repo *store.SettlementRepository,
	log *logger.Logger,
	products map[string]string,
	workers int,
) (*Pipeline, error) {
	resolved := make(map[string]futures.Convention, len(products))
	for code, selector := range products {
		conv, err := futures.ParseConvention(selector)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", code, err)
		}
		resolved[code] = conv
	}

	return &Pipeline{
		b3Client:   b3Client,
		applicator: futures.NewApplicator(cal, log).WithWorkers(workers),
		repo:       repo,
		cal:        cal,
		logger:     log.WithField("module", "pipeline"),
		products:   resolved,
	}, nil
}

// Result summarizes one collected trade date.
type Result struct {
	TradeDate time.Time
	Fetched   int
	Enriched  int
	Stored    int
	RowErrors []error
}

// CollectDate runs the pipeline for a single trading date. Row-level
// failures (bad maturity codes, horizon exhaustion) are accumulated in the
// result and never abort the remaining rows.
func (p *Pipeline) CollectDate(ctx context.Context, date time.Time) (*Result, error) {
	bulletin, err := p.b3Client.FetchSettlements(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch settlements: %w", err)
	}

	result := &Result{TradeDate: date, Fetched: len(bulletin)}

	var toStore []*store.Settlement
	for code, conv := range p.products {
		rows := filterProduct(bulletin, code)
		if len(rows) == 0 {
			p.logger.WithFields(map[string]interface{}{
				"product": code,
				"date":    date.Format("2006-01-02"),
			}).Warn("No bulletin rows for product")
			continue
		}

		enriched, rowErrs, err := p.enrichProduct(ctx, rows, conv)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", code, err)
		}

		for _, e := range rowErrs {
			result.RowErrors = append(result.RowErrors, fmt.Errorf("product %s: %w", code, e))
		}

		result.Enriched += len(enriched)
		toStore = append(toStore, enriched...)
	}

	if p.repo != nil && len(toStore) > 0 {
		if err := p.repo.SaveBatch(ctx, toStore); err != nil {
			return nil, fmt.Errorf("persist settlements: %w", err)
		}
		result.Stored = len(toStore)
	}

	p.logger.WithFields(map[string]interface{}{
		"date":       result.TradeDate.Format("2006-01-02"),
		"fetched":    result.Fetched,
		"enriched":   result.Enriched,
		"stored":     result.Stored,
		"row_errors": len(result.RowErrors),
	}).Info("Collection finished")

	return result, nil
}

// CollectRange runs the pipeline for every business day in [from, to].
// Days that fail wholesale are reported via the returned error list; the
// remaining days still run.
func (p *Pipeline) CollectRange(ctx context.Context, from, to time.Time, exclude []time.Time) ([]*Result, []error) {
	excluded := make(map[time.Time]struct{}, len(exclude))
	for _, d := range exclude {
		excluded[calendar.Midnight(d)] = struct{}{}
	}

	var (
		results []*Result
		errs    []error
	)

	day, ok := p.cal.NextBusinessDayOnOrAfter(from)
	for ok && !day.After(calendar.Midnight(to)) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			return results, errs
		}

		if _, skip := excluded[day]; !skip {
			res, err := p.CollectDate(ctx, day)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", day.Format("2006-01-02"), err))
			} else {
				results = append(results, res)
			}
		}

		day, ok = p.cal.FirstBusinessDayAfter(day)
	}

	return results, errs
}

// enrichProduct applies the expiry resolver and day counters to one
// product's bulletin rows and computes the annualized rate for rows with
// business days left.
func (p *Pipeline) enrichProduct(ctx context.Context, rows []b3.SettlementRow, conv futures.Convention) ([]*store.Settlement, []error, error) {
	contractRows := make([]futures.ContractRow, len(rows))
	for i, r := range rows {
		contractRows[i] = futures.ContractRow{
			TradeDate:    r.TradeDate,
			ContractCode: r.MaturityCode,
			SettlePrice:  r.SettlePrice,
		}
	}

	batch, err := p.applicator.Apply(ctx, contractRows, conv)
	if err != nil {
		return nil, nil, err
	}

	failed := make(map[int]struct{}, len(batch.Errors))
	rowErrs := make([]error, 0, len(batch.Errors))
	for _, re := range batch.Errors {
		failed[re.Index] = struct{}{}
		rowErrs = append(rowErrs, re)
	}

	var settlements []*store.Settlement
	for i, row := range batch.Rows {
		if _, bad := failed[i]; bad {
			continue
		}

		s := &store.Settlement{
			TradeDate:        rows[i].TradeDate,
			Commodity:        productCode(rows[i].Commodity),
			ContractCode:     row.ContractCode,
			PrevSettlePrice:  rows[i].PrevSettlePrice,
			SettlePrice:      rows[i].SettlePrice,
			Variation:        rows[i].Variation,
			PerContractValue: rows[i].PerContractValue,
			ExpiryDate:       row.ExpiryDate,
			BusinessDays:     row.BusinessDays,
			CalendarDays:     row.CalendarDays,
		}

		// Contracts at expiry have no rate, mirroring the du > 0 filter of
		// the rate formula.
		if row.BusinessDays > 0 {
			rate, err := rates.AnnualizedLocal(row.SettlePrice, row.BusinessDays)
			if err != nil {
				rowErrs = append(rowErrs, fmt.Errorf("row %d (%s): %w", i, row.ContractCode, err))
				continue
			}
			s.Rate = &rate
		}

		settlements = append(settlements, s)
	}

	return settlements, rowErrs, nil
}

// filterProduct selects the bulletin rows of one commodity code. Bulletin
// commodity cells read like "DI1 - DI de 1 dia", so rows match on the
// leading code token.
func filterProduct(rows []b3.SettlementRow, code string) []b3.SettlementRow {
	var out []b3.SettlementRow
	for _, r := range rows {
		if productCode(r.Commodity) == code {
			out = append(out, r)
		}
	}
	return out
}

// productCode extracts the leading commodity code from a bulletin commodity
// cell.
func productCode(commodity string) string {
	fields := strings.Fields(commodity)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// IsRowError reports whether err is a per-row failure rather than a batch
// failure.
func IsRowError(err error) bool {
	var rowErr futures.RowError
	if errors.As(err, &rowErr) {
		return true
	}
	var decodeErr *futures.DecodeError
	return errors.As(err, &decodeErr)
}
