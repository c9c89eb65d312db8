package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b3data/ettj/internal/calendar"
	"github.com/b3data/ettj/internal/external/b3"
	"github.com/b3data/ettj/internal/futures"
	"github.com/b3data/ettj/pkg/config"
	"github.com/b3data/ettj/pkg/logger"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func testCalendar(t *testing.T) *calendar.TradingCalendar {
	t.Helper()

	var days []time.Time
	for d := date(2024, time.January, 1); !d.After(date(2024, time.December, 31)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		days = append(days, d)
	}

	cal, err := calendar.New("TEST", days)
	require.NoError(t, err)
	return cal
}

func TestNew_RejectsUnknownConvention(t *testing.T) {
	cal := testCalendar(t)

	_, err := New(nil, cal, nil, testLogger(), map[string]string{"DI1": "segunda_feira"}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, futures.ErrUnknownConvention)
}

func TestProductCode(t *testing.T) {
	assert.Equal(t, "DI1", productCode("DI1 - DI de 1 dia"))
	assert.Equal(t, "DAP", productCode("DAP - Cupom de DI x IPCA"))
	assert.Equal(t, "", productCode("   "))
}

func TestFilterProduct(t *testing.T) {
	rows := []b3.SettlementRow{
		{Commodity: "DI1 - DI de 1 dia", MaturityCode: "F24"},
		{Commodity: "DAP - Cupom de DI x IPCA", MaturityCode: "K25"},
		{Commodity: "DI1 - DI de 1 dia", MaturityCode: "G24"},
	}

	di1 := filterProduct(rows, "DI1")
	require.Len(t, di1, 2)
	assert.Equal(t, "F24", di1[0].MaturityCode)
	assert.Equal(t, "G24", di1[1].MaturityCode)

	assert.Empty(t, filterProduct(rows, "DOL"))
}

func TestEnrichProduct(t *testing.T) {
	cal := testCalendar(t)

	p, err := New(nil, cal, nil, testLogger(), map[string]string{"DI1": "prim_du"}, 1)
	require.NoError(t, err)

	tradeDate := date(2024, time.January, 2)
	rows := []b3.SettlementRow{
		{TradeDate: tradeDate, Commodity: "DI1 - DI de 1 dia", MaturityCode: "G24", SettlePrice: 99500},
		{TradeDate: tradeDate, Commodity: "DI1 - DI de 1 dia", MaturityCode: "B24", SettlePrice: 99000},
		{TradeDate: tradeDate, Commodity: "DI1 - DI de 1 dia", MaturityCode: "N24", SettlePrice: 97200},
	}

	settlements, rowErrs, err := p.enrichProduct(context.Background(), rows, futures.FirstBusinessDay)
	require.NoError(t, err)

	// The malformed code is reported but does not block its siblings
	require.Len(t, rowErrs, 1)
	require.Len(t, settlements, 2)

	first := settlements[0]
	assert.Equal(t, "DI1", first.Commodity)
	assert.Equal(t, "G24", first.ContractCode)
	assert.Equal(t, date(2024, time.February, 1), first.ExpiryDate)
	assert.Greater(t, first.BusinessDays, 0)
	assert.GreaterOrEqual(t, first.CalendarDays, first.BusinessDays)
	require.NotNil(t, first.Rate)
	assert.Greater(t, *first.Rate, 0.0)
}

func TestEnrichProduct_NoRateAtExpiry(t *testing.T) {
	cal := testCalendar(t)

	p, err := New(nil, cal, nil, testLogger(), map[string]string{"DI1": "prim_du"}, 1)
	require.NoError(t, err)

	// Trade date equals the expiry (first business day of January)
	tradeDate := date(2024, time.January, 1)
	rows := []b3.SettlementRow{
		{TradeDate: tradeDate, Commodity: "DI1 - DI de 1 dia", MaturityCode: "F24", SettlePrice: 100000},
	}

	settlements, rowErrs, err := p.enrichProduct(context.Background(), rows, futures.FirstBusinessDay)
	require.NoError(t, err)
	require.Empty(t, rowErrs)
	require.Len(t, settlements, 1)

	assert.Equal(t, 0, settlements[0].BusinessDays)
	assert.Nil(t, settlements[0].Rate)
}
