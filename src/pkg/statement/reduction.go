package statement

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tuumbleweed/xerr"
)

const (
	ReductionPercentageMessage = "Reduction percentage must be between 1 and 100"
	DefaultReductionPercentage = 20.0
)

// cent is the tolerance used when comparing backend amounts with recomputed ones.
var cent = decimal.New(1, -2)

/*
ValidateReductionPercentage accepts 0 < p <= 100. Fractional values are
allowed; the backend rejects the same range.
*/
func ValidateReductionPercentage(p float64) (e *xerr.Error) {
	if p > 0 && p <= 100 {
		return nil
	}
	return xerr.NewError(fmt.Errorf("reduction percentage %v is out of range", p), ReductionPercentageMessage, p)
}

/*
NewReductionTarget derives target and savings from current spending:
target = current * (1 - p/100), save = current - target, both rounded to cents.
*/
func NewReductionTarget(current decimal.Decimal, p float64) ReductionTarget {
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(p).Div(decimal.NewFromInt(100)))
	target := current.Mul(factor).Round(2)
	return ReductionTarget{
		CurrentSpending:     current,
		ReductionPercentage: p,
		TargetSpending:      target,
		AmountToSave:        current.Sub(target).Round(2),
	}
}

/*
CheckInvariants recomputes the reduction target and every recommendation and
describes each value that deviates from the formula by more than one cent.
An empty result means the input is consistent. Deviations are informational:
reports are rendered with the backend's values either way.
*/
func CheckInvariants(result AnalysisResult) (notes []string) {
	target := result.ReductionTarget
	expected := NewReductionTarget(target.CurrentSpending, target.ReductionPercentage)
	if differs(target.TargetSpending, expected.TargetSpending) {
		notes = append(notes, fmt.Sprintf("reduction target spending is %s, expected %s", target.TargetSpending.StringFixed(2), expected.TargetSpending.StringFixed(2)))
	}
	if differs(target.AmountToSave, expected.AmountToSave) {
		notes = append(notes, fmt.Sprintf("reduction target savings is %s, expected %s", target.AmountToSave.StringFixed(2), expected.AmountToSave.StringFixed(2)))
	}

	for index, recommendation := range result.Recommendations {
		if differs(recommendation.CurrentSpending.Sub(recommendation.AmountToSave), recommendation.NewSpending) {
			notes = append(notes, fmt.Sprintf(
				"recommendation %d (%s) new spending is %s, expected %s",
				index, recommendation.Category, recommendation.NewSpending.StringFixed(2),
				recommendation.CurrentSpending.Sub(recommendation.AmountToSave).StringFixed(2),
			))
		}
	}

	savings := decimal.Zero
	for _, recommendation := range result.Recommendations {
		savings = savings.Add(recommendation.AmountToSave)
	}
	if len(result.Recommendations) > 0 && differs(savings, result.TotalProjectedSavings) {
		notes = append(notes, fmt.Sprintf("total projected savings is %s, recommendations add up to %s", result.TotalProjectedSavings.StringFixed(2), savings.StringFixed(2)))
	}
	return notes
}

func differs(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().GreaterThan(cent)
}
