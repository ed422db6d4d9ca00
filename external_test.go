package wealth

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/etnz/wealth/date"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// priceTable is a PriceOracle answering from a map.
type priceTable map[string]float64

func (p priceTable) EstimatePrice(_ context.Context, symbol string) (float64, error) {
	v, ok := p[symbol]
	if !ok {
		return 0, ErrUnavailable
	}
	return v, nil
}

func TestPrice(t *testing.T) {
	ctx := context.Background()
	oracle := priceTable{"AAPL": 150, "BAD": math.NaN(), "NEG": -3}
	testCases := map[string]float64{
		"AAPL": 150,
		"BAD":  0,
		"NEG":  0,
		"MSFT": 0,
		"":     0,
	}
	for symbol, want := range testCases {
		if got := Price(ctx, oracle, symbol); got != want {
			t.Errorf("Price(%q) = %v, want %v", symbol, got, want)
		}
	}
	if got := Price(ctx, nil, "AAPL"); got != 0 {
		t.Errorf("Price(nil oracle) = %v, want 0", got)
	}
}

func TestValidateAssets(t *testing.T) {
	in := []ExtractedAsset{
		{Category: "cash", Institution: " HSBC ", Amount: math.NaN(), Currency: "hkd"},
		{Category: "BOND", Institution: "Gov", Amount: 100, Currency: "HKD"},
		{Category: "STOCK", Institution: "IB", Symbol: "aapl", Amount: -5, Currency: "EUR"},
		{Category: "STOCK", Institution: "IB", Symbol: "BHP.AX", Amount: 12.5, Currency: "AUD"},
	}
	want := []ExtractedAsset{
		{Category: CategoryCash, Institution: "HSBC", Amount: 0, Currency: "HKD"},
		{Category: CategoryStock, Institution: "IB", Symbol: "AAPL", Amount: 0, Currency: "HKD"},
		{Category: CategoryStock, Institution: "IB", Symbol: "BHP.AX", Amount: 12.5, Currency: "AUD"},
	}
	if diff := cmp.Diff(want, ValidateAssets(in)); diff != "" {
		t.Errorf("ValidateAssets() mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_ImportAssets(t *testing.T) {
	e := fixedEngine(t, date.New(2024, time.June, 15))
	existing := []Account{NewCashAccount("Wallet", HKD, 10)}
	assets := []ExtractedAsset{
		{Category: CategoryStock, Institution: "IB", Symbol: "AAPL", Amount: 10, Currency: "USD"},
		{Category: CategoryStock, Institution: "IB", Symbol: "XYZ", Amount: 5, Currency: "USD"},
		{Category: CategoryCash, Institution: "HSBC", Amount: 1000, Currency: "HKD"},
		{Category: "CRYPTO", Institution: "Coinbase", Amount: 1, Currency: "USD"},
	}
	got := e.ImportAssets(context.Background(), existing, assets, priceTable{"AAPL": 150})
	want := []Account{
		existing[0],
		{Name: "IB", Type: Stock, Currency: USD, Symbol: "AAPL", Quantity: 10, LastPrice: 150, Balance: 1500},
		{Name: "IB", Type: Stock, Currency: USD, Symbol: "XYZ", Quantity: 5},
		{Name: "HSBC", Type: Cash, Currency: HKD, Balance: 1000},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Account{}, "ID")); diff != "" {
		t.Errorf("ImportAssets() mismatch (-want +got):\n%s", diff)
	}
	if got[0].ID != existing[0].ID {
		t.Errorf("existing account ID changed")
	}
}

func TestMirrorAssets(t *testing.T) {
	accounts := []Account{
		{Name: "HSBC", Type: Cash, Currency: HKD, Balance: 1000},
		{Name: "IB", Type: Stock, Currency: AUD, Symbol: "BHP.AX", Quantity: 10, LastPrice: 40, Balance: 400},
	}
	want := []MirrorAsset{
		{Category: CategoryCash, Institution: "HSBC", Amount: 1000, Currency: HKD, Market: HK},
		{Category: CategoryStock, Institution: "IB", Symbol: "BHP.AX", Amount: 10, Currency: AUD, Market: AU},
	}
	if diff := cmp.Diff(want, MirrorAssets(accounts)); diff != "" {
		t.Errorf("MirrorAssets() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyMirror(t *testing.T) {
	accounts := []Account{
		{ID: "a", Type: Stock, Currency: USD, Symbol: "AAPL", Quantity: 10, LastPrice: 150, Balance: 1500},
		{ID: "m", Type: Stock, Currency: USD, Symbol: "MSFT", Quantity: 1, LastPrice: 300, Balance: 300},
		{ID: "c", Type: Cash, Currency: HKD, Symbol: "AAPL", Balance: 10},
	}
	res := MirrorResult{
		Status:       "Success",
		LatestPrices: map[string]float64{"AAPL": 200, "MSFT": 0, "TSLA": 250},
	}
	got := ApplyMirror(accounts, res)
	want := []Account{
		{ID: "a", Type: Stock, Currency: USD, Symbol: "AAPL", Quantity: 10, LastPrice: 200, Balance: 2000},
		accounts[1],
		accounts[2],
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ApplyMirror() mismatch (-want +got):\n%s", diff)
	}

	res.Status = "Error"
	if diff := cmp.Diff(accounts, ApplyMirror(accounts, res)); diff != "" {
		t.Errorf("ApplyMirror() of a failed push changed accounts (-want +got):\n%s", diff)
	}
}

type mirrorFunc func(context.Context, []MirrorAsset) (MirrorResult, error)

func (f mirrorFunc) Push(ctx context.Context, assets []MirrorAsset) (MirrorResult, error) {
	return f(ctx, assets)
}

func TestEngine_Sync(t *testing.T) {
	e := fixedEngine(t, date.New(2024, time.June, 15))
	p := e.AddAccounts(NewPortfolio(), NewStockAccount("AAPL", "IB", USD, 10, 100))

	ok := mirrorFunc(func(_ context.Context, assets []MirrorAsset) (MirrorResult, error) {
		if len(assets) != 1 || assets[0].Amount != 10 {
			t.Errorf("Push() assets = %v, want the single AAPL position", assets)
		}
		return MirrorResult{Status: "Success", LatestPrices: map[string]float64{"AAPL": 200}}, nil
	})
	got, _, err := e.Sync(context.Background(), p, ok)
	if err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if b := got.Accounts[0].Balance; b != 2000 {
		t.Errorf("synced balance = %v, want 2000", b)
	}
	if v, _ := got.History.Get("2024-06"); v != 15600 {
		t.Errorf("snapshot after sync = %v, want 15600", v)
	}

	failing := mirrorFunc(func(context.Context, []MirrorAsset) (MirrorResult, error) {
		return MirrorResult{}, errors.New("connection refused")
	})
	got, _, err = e.Sync(context.Background(), p, failing)
	if err == nil {
		t.Fatal("Sync() with a failing mirror succeeded")
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("Sync() failure changed the portfolio (-want +got):\n%s", diff)
	}
}
