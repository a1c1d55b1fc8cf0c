// Package report renders finished runs for people: the fixed-width text
// report on stdout and the summary.yaml / trades.csv files under --output.
// The engine never imports this package.
package report

import (
	"strings"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an account-currency amount with thousands
// separators, accounting style: $1,234.56 and ($1,234.56) for negatives.
func FormatCurrency(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	formatted := "$" + groupThousands(intPart) + "." + fracPart

	if d.IsNegative() {
		return "(" + formatted + ")"
	}

	return formatted
}

// FormatPercent renders a fraction as a signed percentage: 0.5 becomes
// +50.00%.
func FormatPercent(d decimal.Decimal) string {
	fixed := d.Mul(decimal.NewFromInt(100)).StringFixed(2)

	if strings.HasPrefix(fixed, "-") {
		return fixed + "%"
	}

	return "+" + fixed + "%"
}

// FormatDecimal renders a plain decimal with a fixed number of places.
func FormatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

// FormatProfitFactor renders the profit factor cell, spelling out why the
// value can be absent.
func FormatProfitFactor(pf optional.Option[decimal.Decimal]) string {
	if pf.IsNone() {
		return "N/A (no losing trades)"
	}

	return FormatDecimal(pf.Unwrap(), 2)
}

// FormatSharpe renders the Sharpe ratio cell, spelling out why the value
// can be absent.
func FormatSharpe(sr optional.Option[decimal.Decimal]) string {
	if sr.IsNone() {
		return "undefined (zero variance)"
	}

	return FormatDecimal(sr.Unwrap(), 2)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder

	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}

	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}

		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
