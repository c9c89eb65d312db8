package b3

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	pageDateRe   = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
)

// parseSettlementHTML extracts the settlement table (#tblDadosAjustes) from
// the bulletin page. The commodity column is merged across maturities on the
// page, so blank cells are forward-filled from the previous row. When date
// is zero the trade date is taken from the page header instead.
func parseSettlementHTML(r io.Reader, date time.Time) ([]SettlementRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	table := doc.Find("table#tblDadosAjustes")
	if table.Length() == 0 {
		return nil, fmt.Errorf("settlement table not found")
	}

	tradeDate := date
	if tradeDate.IsZero() {
		tradeDate, err = extractPageDate(doc)
		if err != nil {
			return nil, err
		}
	}

	var (
		rows          []SettlementRow
		lastCommodity string
		parseErr      error
	)

	table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return true // header or spacer row
		}

		commodity := cleanText(cells.Eq(0).Text())
		if commodity == "" {
			commodity = lastCommodity
		} else {
			lastCommodity = commodity
		}

		maturity := strings.ReplaceAll(cleanText(cells.Eq(1).Text()), " ", "")
		if maturity == "" {
			return true
		}

		prev, err := parseBRNumber(cells.Eq(2).Text())
		if err != nil {
			parseErr = fmt.Errorf("row %d: previous settle price: %w", i, err)
			return false
		}
		curr, err := parseBRNumber(cells.Eq(3).Text())
		if err != nil {
			parseErr = fmt.Errorf("row %d: settle price: %w", i, err)
			return false
		}
		variation, err := parseBRNumber(cells.Eq(4).Text())
		if err != nil {
			parseErr = fmt.Errorf("row %d: variation: %w", i, err)
			return false
		}
		perContract, err := parseBRNumber(cells.Eq(5).Text())
		if err != nil {
			parseErr = fmt.Errorf("row %d: per-contract value: %w", i, err)
			return false
		}

		rows = append(rows, SettlementRow{
			TradeDate:        tradeDate,
			Commodity:        commodity,
			MaturityCode:     maturity,
			PrevSettlePrice:  prev,
			SettlePrice:      curr,
			Variation:        variation,
			PerContractValue: perContract,
		})
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	// A published bulletin always carries at least a couple of contracts; an
	// empty table means a wrong or closed date.
	if len(rows) < 2 {
		return nil, fmt.Errorf("bulletin has %d data rows, check the date", len(rows))
	}

	return rows, nil
}

// extractPageDate reads the bulletin's reference date from the page header.
func extractPageDate(doc *goquery.Document) (time.Time, error) {
	var found time.Time
	doc.Find("td.TXT_Azul").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if m := pageDateRe.FindString(s.Text()); m != "" {
			if d, err := time.Parse("02/01/2006", m); err == nil {
				found = d
				return false
			}
		}
		return true
	})

	if found.IsZero() {
		return time.Time{}, fmt.Errorf("trade date not found on page")
	}
	return found, nil
}

// cleanText trims a cell and collapses internal runs of whitespace.
func cleanText(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// parseBRNumber parses Brazilian-formatted numbers: "." thousands separator
// and "," decimal separator, e.g. "99.372,63" -> 99372.63.
func parseBRNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed number %q", s)
	}
	return v, nil
}
