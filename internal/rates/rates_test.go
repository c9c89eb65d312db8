package rates

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualizedLocal(t *testing.T) {
	// Price at par over exactly one year: zero rate
	rate, err := AnnualizedLocal(100000, 252)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, rate, 1e-12)

	// One year to expiry: rate is the simple price ratio minus one
	rate, err = AnnualizedLocal(95000, 252)
	require.NoError(t, err)
	assert.InDelta(t, 100000.0/95000.0-1, rate, 1e-12)

	// One month to expiry annualizes with exponent 252/21
	rate, err = AnnualizedLocal(99000, 21)
	require.NoError(t, err)
	want := math.Pow(100000.0/99000.0, 252.0/21.0) - 1
	assert.InDelta(t, want, rate, 1e-12)
	assert.Greater(t, rate, 0.0)
}

func TestAnnualizedLocal_Invalid(t *testing.T) {
	_, err := AnnualizedLocal(0, 252)
	assert.Error(t, err)

	_, err = AnnualizedLocal(-95000, 252)
	assert.Error(t, err)

	_, err = AnnualizedLocal(95000, 0)
	assert.Error(t, err)

	_, err = AnnualizedLocal(95000, -5)
	assert.Error(t, err)
}
