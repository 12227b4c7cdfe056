package currency

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var amountPrinter = message.NewPrinter(language.English)

// Format renders amount with the currency symbol and two grouped decimals,
// e.g. "$1,234.50". Unsupported codes degrade to "<amount> <code>".
func (c *Catalog) Format(amount float64, code string) string {
	info, ok := c.Lookup(code)
	if !ok {
		return plainAmount(amount) + " " + code
	}

	rounded := RoundHalfAwayFromZero(amount, 2)
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}

	return sign + info.Symbol + amountPrinter.Sprint(number.Decimal(rounded, number.Scale(2)))
}

// RoundHalfAwayFromZero rounds x to the given number of decimal places.
func RoundHalfAwayFromZero(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}

// plainAmount prints the shortest representation of amount, switching to
// exponent notation outside [1e-6, 1e21) like a default number-to-string.
func plainAmount(amount float64) string {
	abs := math.Abs(amount)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(amount, 'g', -1, 64)
	}
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
