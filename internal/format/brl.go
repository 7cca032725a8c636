// Package format renders values in Brazilian display conventions: dot as
// thousands separator, comma as decimal separator.
package format

import (
	"fmt"
	"math"
	"strings"
)

// BRL formats whole currency units: 1234567 -> "R$ 1.234.567".
func BRL(value int) string {
	return "R$ " + groupDigits(value)
}

// BRLDecimal formats a fractional amount with 2 decimals:
// 1234.56 -> "R$ 1.234,56". Negative amounts carry the sign after the
// currency symbol, same as BRL: "R$ -1.234,56".
func BRLDecimal(value float64) string {
	if value == 0 {
		return "R$ 0,00"
	}
	cents := int(math.Round(value * 100))
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("R$ %s%s,%02d", sign, groupDigits(cents/100), cents%100)
}

// Area formats square meters: 1234 -> "1.234 m²".
func Area(value int) string {
	return groupDigits(value) + " m²"
}

// Compact abbreviates large amounts for headline cards:
// 1_250_000 -> "R$ 1.2M", 45_000 -> "R$ 45k".
func Compact(value float64) string {
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("R$ %.1fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("R$ %.0fk", value/1_000)
	default:
		return fmt.Sprintf("R$ %.0f", value)
	}
}

func groupDigits(value int) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	digits := fmt.Sprintf("%d", value)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}
