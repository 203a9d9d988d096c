package equiv

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
// English locale keeps thousand separators consistent across environments.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats a float with the given precision and thousand
// separators in the integer part. Non-finite values render as an em dash.
func FormatFloat(f float64, precision int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "—"
	}

	const base = 10
	multiplier := math.Pow(base, float64(precision))
	rounded := math.Round(f*multiplier) / multiplier

	if precision == 0 {
		return FormatNumber(int64(rounded))
	}

	formatted := fmt.Sprintf(fmt.Sprintf("%%.%df", precision), rounded)
	for i, c := range formatted {
		if c == '.' {
			intPart := int64(math.Abs(math.Trunc(rounded)))
			sign := ""
			if rounded < 0 {
				sign = "-"
			}
			return sign + FormatNumber(intPart) + formatted[i:]
		}
	}
	return formatted
}

// FormatTons renders an annual tons figure for display.
func FormatTons(t float64) string {
	return FormatFloat(t, 1) + " tons/year"
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "—"
	}
	return FormatFloat(p, 1) + "%"
}
