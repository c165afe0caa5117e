package statement

import "github.com/shopspring/decimal"

/*
AnalysisResult is the structured output of the analysis backend for one
statement. It is treated as immutable once decoded; the order of
CategoryBreakdown and Recommendations is the display order everywhere.
*/
type AnalysisResult struct {
	StatementSummary      Summary            `json:"statement_summary"`
	CategoryBreakdown     []CategorySpending `json:"category_breakdown"`
	ReductionTarget       ReductionTarget    `json:"reduction_target"`
	Recommendations       []Recommendation   `json:"recommendations"`
	TotalProjectedSavings decimal.Decimal    `json:"total_projected_savings"`
}

type Summary struct {
	TotalDebits    decimal.Decimal `json:"total_debits"`
	TotalCredits   decimal.Decimal `json:"total_credits"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

/*
CategorySpending is one row of the breakdown. Percentage is the share of
total spending in the range 0..100, as reported by the backend.
*/
type CategorySpending struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

type ReductionTarget struct {
	CurrentSpending     decimal.Decimal `json:"current_spending"`
	ReductionPercentage float64         `json:"reduction_percentage"`
	TargetSpending      decimal.Decimal `json:"target_spending"`
	AmountToSave        decimal.Decimal `json:"amount_to_save"`
}

type Recommendation struct {
	Category            string          `json:"category"`
	CurrentSpending     decimal.Decimal `json:"current_spending"`
	ReductionPercentage float64         `json:"reduction_percentage"`
	AmountToSave        decimal.Decimal `json:"amount_to_save"`
	NewSpending         decimal.Decimal `json:"new_spending"`
	Advice              string          `json:"advice"`
}

// StatementDetails are the header fields read off a statement image. Values are kept as printed.
type StatementDetails struct {
	CustomerName      string `json:"customer_name"`
	CardAccountNumber string `json:"card_account_number"`
	StatementDate     string `json:"statement_date"`
	TotalAmountDue    string `json:"total_amount_due"`
	MinimumAmountDue  string `json:"minimum_amount_due"`
	DueDate           string `json:"due_date"`
}

// TotalSpending sums the breakdown amounts.
func (r AnalysisResult) TotalSpending() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.CategoryBreakdown {
		total = total.Add(item.Amount)
	}
	return total
}
