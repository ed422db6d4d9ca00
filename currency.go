package wealth

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the ISO code tagging every monetary value.
type Currency string

const (
	HKD Currency = "HKD"
	USD Currency = "USD"
	AUD Currency = "AUD"
)

// Base is the reporting currency all valuations are normalized to.
const Base = HKD

// Currencies lists the supported currencies.
var Currencies = []Currency{HKD, USD, AUD}

// Known reports whether c is one of the supported currencies.
func (c Currency) Known() bool {
	switch c {
	case HKD, USD, AUD:
		return true
	}
	return false
}

// ParseCurrency parses a currency code, case insensitive.
// It returns false for any code that is not supported.
func ParseCurrency(s string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Known()
}

// Market is the stock market bucket used to break down stock holdings.
type Market string

const (
	HK Market = "HK"
	US Market = "US"
	AU Market = "AU"
)

// Markets lists the markets in display order.
var Markets = []Market{HK, US, AU}

// MarketOf returns the market bucket of a stock priced in c.
// Unknown currencies fall in the HK bucket.
func MarketOf(c Currency) Market {
	switch c {
	case USD:
		return US
	case AUD:
		return AU
	default:
		return HK
	}
}

// Rates is the static exchange rate table: the value of one unit of a
// currency in the base currency.
type Rates map[Currency]float64

// DefaultRates returns the reference rate table.
func DefaultRates() Rates {
	return Rates{
		HKD: 1,
		USD: 7.8,
		AUD: 5.1,
	}
}

// Rate returns the rate of c, or false when c has no usable rate.
// The base currency always has a rate of 1.
func (r Rates) Rate(c Currency) (float64, bool) {
	if c == Base {
		return 1, true
	}
	rate, ok := r[c]
	if !ok || !finite(rate) || rate <= 0 {
		return 0, false
	}
	return rate, true
}

// ToBase converts amount expressed in c into the base currency.
//
// Amounts in a currency without a rate are returned unconverted.
func (r Rates) ToBase(amount float64, c Currency) float64 {
	rate, ok := r.Rate(c)
	if !ok {
		return dec(amount).InexactFloat64()
	}
	return dec(amount).Mul(decimal.NewFromFloat(rate)).InexactFloat64()
}

// FromBase converts a base currency amount into c.
//
// Amounts in a currency without a rate are returned unconverted.
func (r Rates) FromBase(amount float64, c Currency) float64 {
	rate, ok := r.Rate(c)
	if !ok {
		return dec(amount).InexactFloat64()
	}
	return dec(amount).Div(decimal.NewFromFloat(rate)).InexactFloat64()
}
