package renderer

import (
	"fmt"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/etnz/wealth"
)

// Money formats amount in cur with its currency symbol and two decimals.
func Money(amount float64, cur wealth.Currency) string {
	return money.NewFromFloat(amount, string(cur)).Display()
}

// Base formats a base currency amount rounded to the unit.
func Base(amount int64) string {
	return money.New(amount*100, string(wealth.Base)).Display()
}

// Number formats quantities and prices without trailing zeros.
func Number(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Percent formats a rate already expressed in percent.
func Percent(v float64) string { return fmt.Sprintf("%s%%", Number(v)) }
