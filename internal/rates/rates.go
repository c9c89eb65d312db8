package rates

import (
	"fmt"
	"math"
)

// NotionalValue is the face value of local interest-rate contracts (DI1,
// DAP): 100,000 points at expiry.
const NotionalValue = 100000.0

// BusinessDaysPerYear is the Brazilian 252 business-day annualization base.
const BusinessDaysPerYear = 252.0

// AnnualizedLocal converts a settlement price into the annualized rate on
// the 252 business-day base:
//
//	rate = (100000 / price)^(252 / du) - 1
//
// Defined only for a positive price and at least one business day to
// expiry; contracts at expiry (du == 0) have no rate.
func AnnualizedLocal(settlePrice float64, businessDays int) (float64, error) {
	if settlePrice <= 0 {
		return 0, fmt.Errorf("settle price must be positive, got %v", settlePrice)
	}
	if businessDays <= 0 {
		return 0, fmt.Errorf("business days to expiry must be positive, got %d", businessDays)
	}

	return math.Pow(NotionalValue/settlePrice, BusinessDaysPerYear/float64(businessDays)) - 1, nil
}
