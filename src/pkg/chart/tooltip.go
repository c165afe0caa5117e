package chart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"statement-analyzer/src/pkg/money"
	"statement-analyzer/src/pkg/statement"
)

/*
Share returns amount as a percentage of total, or 0 when total is not positive.
*/
func Share(amount, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	return amount.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

/*
TooltipLabel renders the hover text of one slice:

	Dining: INR 1,234.00 (12.3%)

The percentage is the slice's share of total, not the backend's percentage.
*/
func TooltipLabel(item statement.CategorySpending, total decimal.Decimal) string {
	return fmt.Sprintf("%s: %s (%s)", item.Category, money.Format(item.Amount), money.FormatPercent(Share(item.Amount, total), 1))
}

// Tooltips labels every slice of a breakdown, in order.
func Tooltips(breakdown []statement.CategorySpending) []string {
	total := sum(breakdown)
	labels := make([]string, 0, len(breakdown))
	for _, item := range breakdown {
		labels = append(labels, TooltipLabel(item, total))
	}
	return labels
}

func sum(breakdown []statement.CategorySpending) decimal.Decimal {
	total := decimal.Zero
	for _, item := range breakdown {
		if item.Amount.IsPositive() {
			total = total.Add(item.Amount)
		}
	}
	return total
}
