package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"ebill/core/tariff"
	"ebill/core/types"
	"ebill/internal/errors"
)

func sampleInvoice(t *testing.T, units int, details bool) *Invoice {
	t.Helper()
	s := tariff.Default()
	bill, err := s.Price(types.NewCustomer(42, "Ravi Kumar"), units)
	require.NoError(t, err)
	return &Invoice{
		Bill:           bill,
		Currency:       "Rs.",
		SurchargeLabel: s.SurchargePercent(),
		ShowDetails:    details,
	}
}

func TestCLIInvoice(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, CLIFormatter{}.Render(&out, sampleInvoice(t, 120, false)))

	want := strings.Join([]string{
		"",
		"--- Electricity Bill ---",
		"Customer ID: 42",
		"Customer Name: Ravi Kumar",
		"Units Consumed: 120",
		"Amount: Rs. 77.50",
		"Surcharge (20%): Rs. 15.50",
		"Total Amount: Rs. 93.00",
		"",
	}, "\n")
	assert.Equal(t, want, out.String())
}

func TestCLIInvoiceZeroUnits(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, CLIFormatter{}.Render(&out, sampleInvoice(t, 0, false)))

	assert.Contains(t, out.String(), "Amount: Rs. 0.00\n")
	assert.Contains(t, out.String(), "Total Amount: Rs. 0.00\n")
}

func TestCLIInvoiceDetails(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, CLIFormatter{}.Render(&out, sampleInvoice(t, 250, true)))

	text := out.String()
	assert.Contains(t, text, "Tier breakdown (priced in tier 4):")
	assert.Contains(t, text, "tier-3   151-249     100 x 1.20 = Rs. 120.00")
	assert.Contains(t, text, "tier-4   250+          0 x 1.50 = Rs. 0.00")
}

func TestJSONInvoice(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, JSONFormatter{}.Render(&out, sampleInvoice(t, 151, true)))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))

	assert.Equal(t, float64(42), doc["customer_id"])
	assert.Equal(t, "101.20", doc["amount"])
	assert.Equal(t, "20.24", doc["surcharge"])
	assert.Equal(t, "121.44", doc["total"])
	assert.Equal(t, "20%", doc["surcharge_rate"])
	assert.Len(t, doc["lines"], 3)
}

func TestYAMLInvoice(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, YAMLFormatter{}.Render(&out, sampleInvoice(t, 50, false)))

	var doc invoiceDocument
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))

	assert.Equal(t, "Ravi Kumar", doc.CustomerName)
	assert.Equal(t, 50, doc.UnitsConsumed)
	assert.Equal(t, 1, doc.Tier)
	assert.Equal(t, "25.00", doc.Amount)
	assert.Equal(t, "30.00", doc.Total)
	assert.Empty(t, doc.Lines)
}

func TestNewFormatter(t *testing.T) {
	for _, f := range []Format{FormatCLI, FormatJSON, FormatYAML} {
		formatter, err := New(f)
		require.NoError(t, err)
		assert.Equal(t, f, formatter.Format())
	}

	_, err := New("html")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "Rs. 218.80", Money("Rs.", decimal.RequireFromString("218.8")))
	assert.Equal(t, "5.15", Money("", decimal.RequireFromString("5.15")))
}
