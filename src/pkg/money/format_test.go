package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"statement-analyzer/src/pkg/statement"
)

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"0":            "INR 0.00",
		"7.5":          "INR 7.50",
		"999.999":      "INR 1,000.00",
		"1234.56":      "INR 1,234.56",
		"1234567.891":  "INR 12,34,567.89",
		"100000":       "INR 1,00,000.00",
		"-12":          "-INR 12.00",
		"-0.001":       "INR 0.00",
		"45230.505":    "INR 45,230.51",
		"123456789.01": "INR 12,34,56,789.01",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, Format(decimal.RequireFromString(input)), input)
	}
}

func TestFormatReductionTargetRows(t *testing.T) {
	target := statement.NewReductionTarget(decimal.RequireFromString("1000.00"), 20)
	assert.Equal(t, "INR 800.00", Format(target.TargetSpending))
	assert.Equal(t, "INR 200.00", Format(target.AmountToSave))
	assert.Equal(t, "20%", FormatReductionPercent(target.ReductionPercentage))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "27.6%", FormatPercent(27.6, 1))
	assert.Equal(t, "12.3%", FormatPercent(12.345, 1))
	assert.Equal(t, "12.5%", FormatReductionPercent(12.5))
	assert.Equal(t, "INR 10.25", FormatFloat(10.25))
}

func TestGroupIndian(t *testing.T) {
	assert.Equal(t, "1", groupIndian("1", ","))
	assert.Equal(t, "123", groupIndian("123", ","))
	assert.Equal(t, "1,234", groupIndian("1234", ","))
	assert.Equal(t, "12,345", groupIndian("12345", ","))
	assert.Equal(t, "1,23,456", groupIndian("123456", ","))
	assert.Equal(t, "12,34,567", groupIndian("1234567", ","))
	assert.Equal(t, "1,00,00,000", groupIndian("10000000", ","))
}
