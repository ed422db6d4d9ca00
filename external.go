package wealth

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// PriceOracle estimates the unit price of a listed security, in the currency
// it trades in.
type PriceOracle interface {
	EstimatePrice(ctx context.Context, symbol string) (float64, error)
}

// Price asks oracle for the price of symbol. Any failure, including a nil
// oracle or a malformed answer, is logged and reads as 0, so that a holding
// can always be saved and repriced later.
func Price(ctx context.Context, oracle PriceOracle, symbol string) float64 {
	if oracle == nil || symbol == "" {
		return 0
	}
	p, err := oracle.EstimatePrice(ctx, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("price unavailable")
		return 0
	}
	if !finite(p) || p < 0 {
		log.Warn().Float64("price", p).Str("symbol", symbol).Msg("discarding invalid price")
		return 0
	}
	return p
}

// Category is the kind of asset found in a statement.
type Category string

const (
	CategoryCash  Category = "CASH"
	CategoryStock Category = "STOCK"
)

// ExtractedAsset is a holding read from a statement by a StatementExtractor.
// Its content is untrusted until it goes through ValidateAssets.
type ExtractedAsset struct {
	Category    Category `json:"category"`
	Institution string   `json:"institution"`
	Symbol      string   `json:"symbol,omitempty"`
	Amount      float64  `json:"amount"` // balance for cash, quantity for stocks
	Currency    string   `json:"currency"`
}

// StatementExtractor reads the holdings listed on a statement image.
type StatementExtractor interface {
	ExtractAssets(ctx context.Context, image []byte, mimeType string) ([]ExtractedAsset, error)
}

// ValidateAssets returns the assets that can be admitted into a portfolio.
//
// Records of an unknown category are dropped. Invalid amounts are read as
// 0 and unknown currencies as the base currency.
func ValidateAssets(assets []ExtractedAsset) []ExtractedAsset {
	out := make([]ExtractedAsset, 0, len(assets))
	for _, a := range assets {
		a.Category = Category(strings.ToUpper(strings.TrimSpace(string(a.Category))))
		if a.Category != CategoryCash && a.Category != CategoryStock {
			log.Warn().Str("category", string(a.Category)).Str("institution", a.Institution).Msg("dropping asset of unknown category")
			continue
		}
		if s := sanitize(a.Amount); s != a.Amount {
			log.Warn().Float64("amount", a.Amount).Str("institution", a.Institution).Msg("invalid amount read as 0")
			a.Amount = s
		}
		cur, ok := ParseCurrency(a.Currency)
		if !ok {
			log.Warn().Str("currency", a.Currency).Str("institution", a.Institution).Msg("unknown currency read as base currency")
			cur = Base
		}
		a.Currency = string(cur)
		a.Institution = strings.TrimSpace(a.Institution)
		a.Symbol = strings.ToUpper(strings.TrimSpace(a.Symbol))
		out = append(out, a)
	}
	return out
}

// ImportAssets validates assets and returns accounts with one new account
// per admitted asset appended. Stocks are priced with oracle.
func (e *Engine) ImportAssets(ctx context.Context, accounts []Account, assets []ExtractedAsset, oracle PriceOracle) []Account {
	out := slices.Clone(accounts)
	for _, a := range ValidateAssets(assets) {
		cur := Currency(a.Currency)
		if a.Category == CategoryStock {
			acc := NewStockAccount(a.Symbol, a.Institution, cur, a.Amount, Price(ctx, oracle, a.Symbol))
			out = append(out, acc)
			continue
		}
		acc := NewCashAccount(a.Institution, cur, a.Amount)
		acc.Symbol = a.Symbol
		out = append(out, acc)
	}
	return out
}

// MirrorAsset is one holding as pushed to the remote ledger mirror.
type MirrorAsset struct {
	Category    Category `json:"category"`
	Institution string   `json:"institution"`
	Symbol      string   `json:"symbol"`
	Amount      float64  `json:"amount"` // balance for cash, quantity for stocks
	Currency    Currency `json:"currency"`
	Market      Market   `json:"market"`
}

// MirrorResult is the reply of the remote ledger mirror.
type MirrorResult struct {
	Status        string             `json:"status"`
	Message       string             `json:"message"`
	LatestPrices  map[string]float64 `json:"latestPrices"` // by symbol
	TotalNetWorth float64            `json:"totalNetWorth"`
}

// OK reports whether the mirror accepted the push.
func (r MirrorResult) OK() bool { return strings.EqualFold(r.Status, "success") }

// LedgerMirror is a best effort remote copy of the holdings.
type LedgerMirror interface {
	Push(ctx context.Context, assets []MirrorAsset) (MirrorResult, error)
}

// MirrorAssets returns the payload describing accounts for the mirror.
func MirrorAssets(accounts []Account) []MirrorAsset {
	out := make([]MirrorAsset, 0, len(accounts))
	for _, a := range accounts {
		m := MirrorAsset{
			Category:    CategoryCash,
			Institution: a.Name,
			Symbol:      a.Symbol,
			Amount:      sanitize(a.Balance),
			Currency:    a.Currency,
			Market:      MarketOf(a.Currency),
		}
		if a.IsStock() {
			m.Category = CategoryStock
			m.Amount = sanitize(a.Quantity)
		}
		out = append(out, m)
	}
	return out
}

// ApplyMirror returns a copy of accounts where stocks whose symbol is
// priced in a successful result get that price. It never adds accounts.
func ApplyMirror(accounts []Account, result MirrorResult) []Account {
	out := slices.Clone(accounts)
	if !result.OK() {
		return out
	}
	for i, a := range out {
		if !a.IsStock() || a.Symbol == "" {
			continue
		}
		p, ok := result.LatestPrices[a.Symbol]
		if !ok || !finite(p) || p <= 0 {
			continue
		}
		out[i] = a.WithPrice(p)
	}
	return out
}

// Sync pushes the holdings of p to mirror and applies the prices it returns.
//
// The mirror is best effort: on failure p is returned unchanged along with
// the error, and the caller keeps its local state.
func (e *Engine) Sync(ctx context.Context, p Portfolio, mirror LedgerMirror) (Portfolio, MirrorResult, error) {
	res, err := mirror.Push(ctx, MirrorAssets(p.Accounts))
	if err != nil {
		return p, res, err
	}
	if !res.OK() {
		return p, res, nil
	}
	return e.SaveAccounts(p, ApplyMirror(p.Accounts, res)), res, nil
}
