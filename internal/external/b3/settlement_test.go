package b3

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bulletinFixture = `
<html>
<body>
<table>
<tr><td class="TXT_Azul">Mercado de Ajustes</td></tr>
<tr><td class="TXT_Azul">Atualizado em: 02/01/2024.</td></tr>
</table>
<table id="tblDadosAjustes">
<tr>
  <th>Mercadoria</th><th>Vct</th>
  <th>Pre&ccedil;o de ajuste anterior</th><th>Pre&ccedil;o de ajuste Atual</th>
  <th>Varia&ccedil;&atilde;o</th><th>Valor do ajuste por contrato (R$)</th>
</tr>
<tr>
  <td>DI1   - DI de 1 dia</td><td> F24 </td>
  <td>99.372,63</td><td>99.410,50</td><td>37,87</td><td>37,87</td>
</tr>
<tr>
  <td></td><td>G24</td>
  <td>98.512,11</td><td>98.554,02</td><td>41,91</td><td>41,91</td>
</tr>
<tr>
  <td>DAP - Cupom de DI x IPCA</td><td>K25</td>
  <td>1.234,56</td><td>1.240,00</td><td>5,44</td><td>544,00</td>
</tr>
</table>
</body>
</html>`

func TestParseSettlementHTML(t *testing.T) {
	tradeDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	rows, err := parseSettlementHTML(strings.NewReader(bulletinFixture), tradeDate)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "DI1 - DI de 1 dia", rows[0].Commodity)
	assert.Equal(t, "F24", rows[0].MaturityCode)
	assert.Equal(t, 99372.63, rows[0].PrevSettlePrice)
	assert.Equal(t, 99410.50, rows[0].SettlePrice)
	assert.Equal(t, 37.87, rows[0].Variation)
	assert.Equal(t, tradeDate, rows[0].TradeDate)

	// Merged commodity cell forward-filled from the previous row
	assert.Equal(t, "DI1 - DI de 1 dia", rows[1].Commodity)
	assert.Equal(t, "G24", rows[1].MaturityCode)

	assert.Equal(t, "DAP - Cupom de DI x IPCA", rows[2].Commodity)
	assert.Equal(t, 1234.56, rows[2].PrevSettlePrice)
	assert.Equal(t, 544.00, rows[2].PerContractValue)
}

func TestParseSettlementHTML_DateFromPage(t *testing.T) {
	rows, err := parseSettlementHTML(strings.NewReader(bulletinFixture), time.Time{})
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), rows[0].TradeDate)
}

func TestParseSettlementHTML_MissingTable(t *testing.T) {
	_, err := parseSettlementHTML(strings.NewReader("<html><body><p>nada</p></body></html>"), time.Time{})
	assert.Error(t, err)
}

func TestParseSettlementHTML_TooFewRows(t *testing.T) {
	const empty = `
<html><body>
<table id="tblDadosAjustes">
<tr><th>Mercadoria</th><th>Vct</th><th>a</th><th>b</th><th>c</th><th>d</th></tr>
<tr>
  <td>DI1 - DI de 1 dia</td><td>F24</td>
  <td>1,00</td><td>1,00</td><td>0,00</td><td>0,00</td>
</tr>
</table>
</body></html>`

	_, err := parseSettlementHTML(strings.NewReader(empty), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check the date")
}

func TestParseBRNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"99.372,63", 99372.63},
		{"1.234.567,89", 1234567.89},
		{"0,01", 0.01},
		{"-37,87", -37.87},
		{"  41,91 ", 41.91},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseBRNumber(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseBRNumber("abc")
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "DI1 - DI de 1 dia", cleanText("  DI1 \n  -   DI de 1 dia  "))
	assert.Equal(t, "", cleanText("   \n\t "))
}
