package strategy

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Dollars formats v as a whole dollar amount with thousands separators, e.g. $1,250,000.
func Dollars(v float64) string {
	return printer.Sprintf("$%.0f", v)
}

// Percent formats a fraction with one decimal, e.g. 0.0234 as 2.3%.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
