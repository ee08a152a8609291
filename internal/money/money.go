// Package money converts between user-facing decimal amounts and the integer
// minor-unit (cent) representation the store persists. Every value that
// crosses from display or request input into persistence goes through here;
// decimals are never stored.
package money

import (
	"fmt"
	"math"
)

// centsPerUnit is the minor-unit scale for two-decimal currencies.
const centsPerUnit = 100

// ToMinorUnits converts a decimal amount in major units (dollars) to minor
// units (cents), rounding half-away-from-zero at the cent boundary.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * centsPerUnit))
}

// ToMajorUnits converts minor units back to a decimal major-unit amount.
func ToMajorUnits(cents int64) float64 {
	return float64(cents) / centsPerUnit
}

// FormatCents renders a cent amount as a plain decimal string, e.g. 11368 ->
// "113.68". Negative amounts keep their sign on the unit part.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/centsPerUnit, cents%centsPerUnit)
}
