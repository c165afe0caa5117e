package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyLabel prefixes every amount in reports and tooltips.
const CurrencyLabel = "INR"

/*
Format renders an amount as "INR 1,234.56": two decimals rounded half away
from zero, Indian digit grouping (thousands, then lakhs and crores), sign in
front of the label.

Example:

	-1234567.891 -> "-INR 12,34,567.89"
*/
func Format(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	fixed := rounded.StringFixed(2)
	integerPart, fractionPart, _ := strings.Cut(fixed, ".")
	return sign + CurrencyLabel + " " + groupIndian(integerPart, ",") + "." + fractionPart
}

// FormatFloat is Format for values that arrive as float64.
func FormatFloat(amount float64) string {
	return Format(decimal.NewFromFloat(amount))
}

/*
FormatPercent renders p with a fixed number of decimals and a trailing "%".
*/
func FormatPercent(p float64, digits int) string {
	return strconv.FormatFloat(p, 'f', digits, 64) + "%"
}

/*
FormatReductionPercent renders a reduction percentage in its shortest form:
20 -> "20%", 12.5 -> "12.5%".
*/
func FormatReductionPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

/*
groupIndian groups digits in a base-10 string the en-IN way: the last three
digits form one group, every group before them has two.

	1234567 -> 12,34,567
*/
func groupIndian(raw string, sep string) string {
	if len(raw) <= 3 {
		return raw
	}

	head, tail := raw[:len(raw)-3], raw[len(raw)-3:]
	var builder strings.Builder
	firstGroupLen := len(head) % 2
	if firstGroupLen == 0 {
		firstGroupLen = 2
	}

	builder.WriteString(head[:firstGroupLen])
	for index := firstGroupLen; index < len(head); index += 2 {
		builder.WriteString(sep)
		builder.WriteString(head[index : index+2])
	}
	builder.WriteString(sep)
	builder.WriteString(tail)
	return builder.String()
}
