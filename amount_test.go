package wealth

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	testCases := []struct {
		in, want float64
	}{
		{0, 0},
		{1.4, 1},
		{1.5, 2},
		{2.5, 3},
		{-2.5, -2},
		{-2.6, -3},
		{7799.999999999, 7800},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tc := range testCases {
		if got := Round(tc.in); got != tc.want {
			t.Errorf("Round(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1} {
		if got := sanitize(v); got != 0 {
			t.Errorf("sanitize(%v) = %v, want 0", v, got)
		}
	}
	if got := sanitize(12.5); got != 12.5 {
		t.Errorf("sanitize(12.5) = %v, want 12.5", got)
	}
}

func TestRates_ToBase(t *testing.T) {
	rates := Rates{USD: 7.8, AUD: 5.1}
	testCases := []struct {
		name   string
		amount float64
		cur    Currency
		want   float64
	}{
		{"base currency", 100, HKD, 100},
		{"usd", 1000, USD, 7800},
		{"aud", 10, AUD, 51},
		{"unknown currency is unconverted", 100, Currency("EUR"), 100},
		{"NaN is zero", math.NaN(), USD, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rates.ToBase(tc.amount, tc.cur); got != tc.want {
				t.Errorf("ToBase(%v, %s) = %v, want %v", tc.amount, tc.cur, got, tc.want)
			}
		})
	}
}

func TestRates_Injected(t *testing.T) {
	// the table is a parameter, not a constant
	rates := Rates{USD: 8}
	if got := rates.ToBase(10, USD); got != 80 {
		t.Errorf("ToBase(10, USD) = %v, want 80", got)
	}
	// missing or broken rates leave the amount unconverted
	if got := (Rates{USD: math.NaN()}).ToBase(10, USD); got != 10 {
		t.Errorf("ToBase with NaN rate = %v, want 10", got)
	}
	if got := (Rates{}).ToBase(10, AUD); got != 10 {
		t.Errorf("ToBase with missing rate = %v, want 10", got)
	}
}

func TestRates_FromBase(t *testing.T) {
	rates := DefaultRates()
	if got := rates.FromBase(7800, USD); got != 1000 {
		t.Errorf("FromBase(7800, USD) = %v, want 1000", got)
	}
	if got := rates.FromBase(7800, HKD); got != 7800 {
		t.Errorf("FromBase(7800, HKD) = %v, want 7800", got)
	}
}

func TestMarketOf(t *testing.T) {
	testCases := map[Currency]Market{
		HKD:             HK,
		USD:             US,
		AUD:             AU,
		Currency("EUR"): HK,
	}
	for cur, want := range testCases {
		if got := MarketOf(cur); got != want {
			t.Errorf("MarketOf(%s) = %s, want %s", cur, got, want)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	if c, ok := ParseCurrency(" usd "); !ok || c != USD {
		t.Errorf("ParseCurrency(usd) = %v, %v, want USD, true", c, ok)
	}
	if _, ok := ParseCurrency("EUR"); ok {
		t.Error("ParseCurrency(EUR) must not be known")
	}
}
