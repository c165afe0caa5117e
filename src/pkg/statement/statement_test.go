package statement

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAnalysis = `{
  "statement_summary": {"total_debits": 45230.5, "total_credits": 12000, "closing_balance": 33230.5},
  "category_breakdown": [
    {"category": "Dining", "amount": 12500.25, "percentage": 27.6},
    {"category": "Shopping", "amount": 9800, "percentage": 21.7}
  ],
  "reduction_target": {"current_spending": 1000, "reduction_percentage": 20, "target_spending": 800, "amount_to_save": 200},
  "recommendations": [
    {"category": "Dining", "current_spending": 12500.25, "reduction_percentage": 25, "amount_to_save": 3125.06, "new_spending": 9375.19, "advice": "Cook at home twice a week."}
  ],
  "total_projected_savings": 3125.06
}`

func TestDecodeAnalysisResult(t *testing.T) {
	var result AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(sampleAnalysis), &result))

	assert.Equal(t, "45230.5", result.StatementSummary.TotalDebits.String())
	require.Len(t, result.CategoryBreakdown, 2)
	assert.Equal(t, "Dining", result.CategoryBreakdown[0].Category)
	assert.Equal(t, "Shopping", result.CategoryBreakdown[1].Category)
	assert.InDelta(t, 27.6, result.CategoryBreakdown[0].Percentage, 1e-9)
	assert.Equal(t, "22300.25", result.TotalSpending().String())
	assert.Equal(t, "Cook at home twice a week.", result.Recommendations[0].Advice)
}

func TestValidateReductionPercentage(t *testing.T) {
	for _, valid := range []float64{0.5, 1, 20, 99.9, 100} {
		assert.Nil(t, ValidateReductionPercentage(valid), "%v should be accepted", valid)
	}
	for _, invalid := range []float64{0, -5, 100.01, 250} {
		assert.NotNil(t, ValidateReductionPercentage(invalid), "%v should be rejected", invalid)
	}
}

func TestNewReductionTarget(t *testing.T) {
	target := NewReductionTarget(decimal.RequireFromString("1000.00"), 20)
	assert.Equal(t, "800.00", target.TargetSpending.StringFixed(2))
	assert.Equal(t, "200.00", target.AmountToSave.StringFixed(2))

	odd := NewReductionTarget(decimal.RequireFromString("333.33"), 12.5)
	assert.Equal(t, "291.66", odd.TargetSpending.StringFixed(2))
	assert.Equal(t, "41.67", odd.AmountToSave.StringFixed(2))
	assert.True(t, odd.TargetSpending.Add(odd.AmountToSave).Equal(odd.CurrentSpending))
}

func TestCheckInvariantsConsistent(t *testing.T) {
	var result AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(sampleAnalysis), &result))
	assert.Empty(t, CheckInvariants(result))
}

func TestCheckInvariantsReportsDeviation(t *testing.T) {
	var result AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(sampleAnalysis), &result))
	result.ReductionTarget.TargetSpending = decimal.RequireFromString("750")
	result.TotalProjectedSavings = decimal.RequireFromString("1")

	notes := CheckInvariants(result)
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0], "expected 800.00")
	assert.Contains(t, notes[1], "3125.06")
}

func TestEnvelope(t *testing.T) {
	var envelope Envelope[StatementDetails]
	require.NoError(t, json.Unmarshal([]byte(`{"status":"success","message":"ok","data":{"customer_name":"A. Kumar","due_date":"05/11/2025"}}`), &envelope))
	assert.True(t, envelope.Succeeded())
	assert.Equal(t, "A. Kumar", envelope.Data.CustomerName)

	encoded, err := json.Marshal(Failure("Endpoint not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"Endpoint not found"}`, string(encoded))
}
