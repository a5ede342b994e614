// Package utils provides display formatting helpers shared by the CLI,
// API and renderer.
package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatAxisLabels renders axis sample values at a fixed display
// precision: [80 90 100] at 2 decimals → ["80.00", "90.00", "100.00"].
// Negative precision is treated as zero decimals.
func FormatAxisLabels(values []float64, decimals int) []string {
	if decimals < 0 {
		decimals = 0
	}
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = strconv.FormatFloat(v, 'f', decimals, 64)
	}
	return labels
}

// FormatUSD formats an amount as US dollars with thousands grouping:
// 10.45 → "$10.45", 1234567.8 → "$1,234,567.80". Rounds to the cent.
func FormatUSD(amount float64) string {
	negative := amount < 0
	cents := int64(math.Round(math.Abs(amount) * 100))

	formatted := fmt.Sprintf("%s.%02d", groupThousands(cents/100), cents%100)

	if negative {
		return "-$" + formatted
	}
	return "$" + formatted
}

// FormatPct renders a decimal fraction as a percentage: 0.05 → "5.00%",
// -0.0125 → "-1.25%".
func FormatPct(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// FormatYears renders a maturity in years: 1 → "1.00y", 0.25 → "0.25y".
func FormatYears(years float64) string {
	return fmt.Sprintf("%.2fy", years)
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	first := len(s) % 3
	if first == 0 {
		first = 3
	}

	parts := []string{s[:first]}
	for i := first; i < len(s); i += 3 {
		parts = append(parts, s[i:i+3])
	}
	return strings.Join(parts, ",")
}
