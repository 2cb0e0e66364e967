// Package money converts integer cent amounts into their presentation
// forms: the US dollar text printed on statements and the decimal value
// returned by the JSON API.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PercentFactor is the number of cents in a dollar.
const PercentFactor = 100

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// USD renders cents as US currency: a dollar sign, comma digit grouping and
// exactly two decimals.  3000 becomes "$30.00", -500 becomes "-$5.00".
func USD(cents int64) string {
	sign := ""
	// Magnitude in uint64 so math.MinInt64 does not overflow on negation.
	u := uint64(cents)
	if cents < 0 {
		sign = "-"
		u = -u
	}
	dollars := u / PercentFactor
	rem := u % PercentFactor
	return fmt.Sprintf("%s$%s.%02d", sign, usPrinter.Sprintf("%d", dollars), rem)
}

// Decimal returns cents as an exact dollar value.
func Decimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
