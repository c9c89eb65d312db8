package futures

import (
	"fmt"
	"time"
)

// monthCodes is the CME month-letter alphabet used in B3 ticker maturity
// codes such as F24 (January 2024).
var monthCodes = map[byte]time.Month{
	'F': time.January,
	'G': time.February,
	'H': time.March,
	'J': time.April,
	'K': time.May,
	'M': time.June,
	'N': time.July,
	'Q': time.August,
	'U': time.September,
	'V': time.October,
	'X': time.November,
	'Z': time.December,
}

// monthLetters is the inverse of monthCodes.
var monthLetters = func() map[time.Month]byte {
	m := make(map[time.Month]byte, len(monthCodes))
	for letter, month := range monthCodes {
		m[month] = letter
	}
	return m
}()

// DecodeCode decodes a contract maturity code <MonthLetter><YY> into its
// expiry month and four-digit year. The two-digit year is interpreted as
// 2000 + YY.
func DecodeCode(code string) (time.Month, int, error) {
	if len(code) != 3 {
		return 0, 0, &DecodeError{Code: code, Reason: "want one month letter and two year digits"}
	}

	month, ok := monthCodes[code[0]]
	if !ok {
		return 0, 0, &DecodeError{Code: code, Reason: fmt.Sprintf("unrecognized month letter %q", code[0])}
	}

	for i := 1; i < 3; i++ {
		if code[i] < '0' || code[i] > '9' {
			return 0, 0, &DecodeError{Code: code, Reason: "year suffix is not two digits"}
		}
	}
	year := 2000 + int(code[1]-'0')*10 + int(code[2]-'0')

	return month, year, nil
}

// EncodeCode renders a month and year as the compact maturity code, e.g.
// (June, 2024) -> "M24". Years outside 2000-2099 cannot be represented.
func EncodeCode(month time.Month, year int) (string, error) {
	letter, ok := monthLetters[month]
	if !ok {
		return "", fmt.Errorf("month %d has no contract letter", month)
	}
	if year < 2000 || year > 2099 {
		return "", fmt.Errorf("year %d not encodable as two digits", year)
	}
	return fmt.Sprintf("%c%02d", letter, year-2000), nil
}
