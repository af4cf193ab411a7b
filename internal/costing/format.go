package costing

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Argentine peso layout: "." groups thousands, "," separates decimals.
const (
	currencySymbol = "$"
	formatWhole    = "#.###,"
	formatCents    = "#.###,##"

	// humanize.FormatFloat takes the integer part through int64.
	maxHumanized = 1 << 62
)

// FormatCurrency renders an amount for compact display. Amounts under 1000
// show no decimals unless withDecimals is set. Amounts of 1000 or more are
// floored to the whole thousand and shown without decimals, so 15250 reads
// "$ 15.000". Only the displayed text is affected.
func FormatCurrency(amount float64, withDecimals bool) string {
	if amount >= 1000 {
		return money(math.Floor(amount/1000)*1000, formatWhole)
	}
	if withDecimals {
		return money(amount, formatCents)
	}
	return money(amount, formatWhole)
}

// FormatCurrencyDetailed renders an amount with exactly two decimals and no
// truncation, for line items and totals.
func FormatCurrencyDetailed(amount float64) string {
	return money(amount, formatCents)
}

func money(amount float64, layout string) string {
	if !isFinite(amount) {
		amount = 0
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	var digits string
	if amount < maxHumanized {
		digits = humanize.FormatFloat(layout, amount)
	} else {
		decimals := 0
		if layout == formatCents {
			decimals = 2
		}
		digits = groupLarge(amount, decimals)
	}
	if strings.Trim(digits, "0.,") == "" {
		sign = ""
	}
	return sign + currencySymbol + " " + digits
}

// groupLarge formats amounts too large for humanize with the same layout.
func groupLarge(amount float64, decimals int) string {
	whole, frac, _ := strings.Cut(strconv.FormatFloat(amount, 'f', decimals, 64), ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatQuantity renders a quantity rounded to three decimals with trailing
// zeros dropped, using "," as the decimal separator like the currency forms.
func FormatQuantity(v float64) string {
	if r := math.Round(v*1000) / 1000; isFinite(r) {
		v = r
	}
	s := strings.Replace(humanize.Ftoa(v), ".", ",", 1)
	if s == "-0" {
		return "0"
	}
	return s
}
