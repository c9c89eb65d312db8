package b3

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/b3data/ettj/internal/calendar"
	"github.com/b3data/ettj/pkg/httputil"
	"github.com/b3data/ettj/pkg/logger"
)

// Client fetches the daily settlement-price bulletin (Ajustes do Pregão)
// from the B3 website. All B3 bulletin access goes through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new B3 bulletin client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "b3"),
		baseURL:    baseURL,
	}
}

// SettlementRow is one contract line of the settlement bulletin.
type SettlementRow struct {
	TradeDate        time.Time
	Commodity        string // e.g. "DI1 - DI de 1 dia"
	MaturityCode     string // e.g. "F24"
	PrevSettlePrice  float64
	SettlePrice      float64
	Variation        float64
	PerContractValue float64
}

// FetchSettlements downloads and parses the bulletin for one trading date.
// A zero date fetches the current bulletin; the trade date is then read off
// the page itself.
func (c *Client) FetchSettlements(ctx context.Context, date time.Time) ([]SettlementRow, error) {
	url := c.baseURL
	if !date.IsZero() {
		url = fmt.Sprintf("%s?txtData=%s", c.baseURL, date.Format("02/01/2006"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	rows, err := parseSettlementHTML(resp.Body, date)
	if err != nil {
		return nil, fmt.Errorf("parse bulletin for %s: %w", date.Format("2006-01-02"), err)
	}

	c.logger.WithFields(map[string]interface{}{
		"date":  date.Format("2006-01-02"),
		"count": len(rows),
	}).Debug("Fetched settlement bulletin")
	return rows, nil
}

// FetchSettlementsRange downloads the bulletin for every business day in
// [from, to], skipping excluded dates. Failed days are logged and skipped so
// one bad date does not lose the rest of the range.
func (c *Client) FetchSettlementsRange(ctx context.Context, cal *calendar.TradingCalendar, from, to time.Time, exclude []time.Time) ([]SettlementRow, error) {
	excluded := make(map[time.Time]struct{}, len(exclude))
	for _, d := range exclude {
		excluded[calendar.Midnight(d)] = struct{}{}
	}

	var all []SettlementRow
	day, ok := cal.NextBusinessDayOnOrAfter(from)
	for ok && !day.After(calendar.Midnight(to)) {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		if _, skip := excluded[day]; !skip {
			rows, err := c.FetchSettlements(ctx, day)
			if err != nil {
				c.logger.WithError(err).WithField("date", day.Format("2006-01-02")).Warn("Skipping settlement date")
			} else {
				all = append(all, rows...)
			}
		}

		day, ok = cal.FirstBusinessDayAfter(day)
	}

	return all, nil
}
