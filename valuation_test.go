package wealth

import (
	"math"
	"testing"
	"time"

	"github.com/etnz/wealth/date"
	"github.com/google/go-cmp/cmp"
)

func TestRates_ValueOf(t *testing.T) {
	rates := DefaultRates()
	testCases := []struct {
		name    string
		account Account
		want    float64
	}{
		{"hkd cash", Account{Type: Cash, Currency: HKD, Balance: 100000}, 100000},
		{"usd cash", Account{Type: Cash, Currency: USD, Balance: 100}, 780},
		{"usd stock", Account{Type: Stock, Currency: USD, Quantity: 10, LastPrice: 100}, 7800},
		{"stock balance is derived", Account{Type: Stock, Currency: HKD, Quantity: 3, LastPrice: 33.335, Balance: 1}, 100},
		{"NaN balance", Account{Type: Cash, Currency: HKD, Balance: math.NaN()}, 0},
		{"negative balance", Account{Type: Cash, Currency: HKD, Balance: -50}, 0},
		{"negative quantity", Account{Type: Stock, Currency: HKD, Quantity: -5, LastPrice: 10}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rates.ValueOf(tc.account); got != tc.want {
				t.Errorf("ValueOf() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRates_ValueOfDeposit(t *testing.T) {
	rates := DefaultRates()
	fd := FixedDeposit{Principal: 1000, Currency: AUD, InterestRate: 5}
	if got, want := rates.ValueOfDeposit(fd), 5100.0; got != want {
		t.Errorf("ValueOfDeposit() = %v, want %v", got, want)
	}
}

func TestRates_Aggregate(t *testing.T) {
	rates := DefaultRates()
	accounts := []Account{
		{Type: Cash, Currency: HKD, Balance: 100000},
		{Type: Stock, Currency: USD, Quantity: 10, LastPrice: 100},
		{Type: Stock, Currency: Currency("EUR"), Quantity: 1, LastPrice: 10},
	}
	deposits := []FixedDeposit{{Principal: 50000, Currency: HKD, InterestRate: 4}}

	got := rates.Aggregate(accounts, deposits)
	want := Valuation{
		Total: 157810,
		Breakdown: Breakdown{
			Cash:         100000,
			FixedDeposit: 50000,
			Stocks:       map[Market]float64{HK: 10, US: 7800, AU: 0},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}

	wantSlices := []Slice{
		{"Cash", 100000},
		{"Fixed Dep.", 50000},
		{"HK Stocks", 10},
		{"US Stocks", 7800},
	}
	if diff := cmp.Diff(wantSlices, got.Breakdown.Slices()); diff != "" {
		t.Errorf("Slices() mismatch (-want +got):\n%s", diff)
	}
}

func TestRates_Aggregate_Empty(t *testing.T) {
	got := DefaultRates().Aggregate(nil, nil)
	if got.Total != 0 {
		t.Errorf("Aggregate(nil, nil).Total = %v, want 0", got.Total)
	}
	if s := got.Breakdown.Slices(); len(s) != 0 {
		t.Errorf("Aggregate(nil, nil).Slices() = %v, want none", s)
	}
}

// the total is the rounded sum of each holding value.
func TestRates_Aggregate_Additivity(t *testing.T) {
	rates := DefaultRates()
	accounts := []Account{
		{Type: Cash, Currency: USD, Balance: 10.25},
		{Type: Cash, Currency: AUD, Balance: 3.3},
		{Type: Stock, Currency: AUD, Quantity: 7, LastPrice: 1.17},
		{Type: Stock, Currency: HKD, Quantity: 0.5, LastPrice: 7},
	}
	deposits := []FixedDeposit{
		{Principal: 1234.56, Currency: USD},
		{Principal: 99.99, Currency: HKD},
	}
	var sum float64
	for _, a := range accounts {
		sum += rates.ValueOf(a)
	}
	for _, fd := range deposits {
		sum += rates.ValueOfDeposit(fd)
	}
	if got, want := rates.Aggregate(accounts, deposits).Total, int64(Round(sum)); got != want {
		t.Errorf("Aggregate().Total = %v, want %v", got, want)
	}
}

func TestExampleScenario(t *testing.T) {
	today := date.New(2024, time.June, 15)
	e := fixedEngine(t, today)

	p := NewPortfolio()
	p = e.SaveDeposits(p, []FixedDeposit{mustDeposit(t, "HSBC", 50000, HKD, 4, today.Add(90))})
	p = e.AddAccounts(p, NewCashAccount("HSBC", HKD, 100000))

	if got := e.Value(p).Total; got != 150000 {
		t.Fatalf("Value().Total = %v, want 150000", got)
	}
	want := History{{Date: "2024-06", TotalValueHKD: 150000}}
	if diff := cmp.Diff(want, p.History); diff != "" {
		t.Fatalf("History mismatch (-want +got):\n%s", diff)
	}

	p = e.AddAccounts(p, NewStockAccount("AAPL", "IB", USD, 10, 100))
	if got := e.Value(p).Total; got != 157800 {
		t.Errorf("Value().Total = %v, want 157800", got)
	}
	want = History{{Date: "2024-06", TotalValueHKD: 157800}}
	if diff := cmp.Diff(want, p.History); diff != "" {
		t.Errorf("History mismatch (-want +got):\n%s", diff)
	}
}
