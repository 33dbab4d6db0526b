package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Price formats an amount in minor units. Whole amounts drop the cents.
// Example: Price(3000, "USD", "en") => "$30", Price(1250, "USD", "en") => "$12.50"
func Price(minor int64, currency, lang string) string {
	currency = strings.ToUpper(currency)
	neg := minor < 0
	if neg {
		minor = -minor
	}
	p := printer(lang)

	var out string
	switch currency {
	case "JPY":
		out = "¥" + p.Sprintf("%d", minor)
	case "USD", "EUR", "GBP", "":
		out = symbol(currency) + p.Sprintf("%d", minor/100)
		if cents := minor % 100; cents != 0 {
			out += decimalSep(lang) + fmt.Sprintf("%02d", cents)
		}
	default:
		out = currency + " " + p.Sprintf("%d", minor)
	}
	if neg {
		return "-" + out
	}
	return out
}

// PriceRange formats "low - high", or a single price when they are equal.
func PriceRange(low, high int64, currency, lang string) string {
	if low == high {
		return Price(low, currency, lang)
	}
	return Price(low, currency, lang) + " - " + Price(high, currency, lang)
}

// Duration formats a service length in minutes.
func Duration(minutes int) string {
	return fmt.Sprintf("%d min", minutes)
}

// Stars renders a 1-5 rating as filled stars. Out of range values are clamped.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating)
}

// Rating formats an average rating with one decimal.
func Rating(avg float64, lang string) string {
	return printer(lang).Sprintf("%.1f", avg)
}

// Year returns the calendar year used in the copyright line.
func Year(t time.Time) int {
	return t.Year()
}

func printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

func symbol(currency string) string {
	switch currency {
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return "$"
	}
}

func decimalSep(lang string) string {
	base, _ := language.Make(lang).Base()
	switch base.String() {
	case "es", "de", "fr", "it", "pt":
		return ","
	default:
		return "."
	}
}
