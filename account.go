package wealth

import (
	"strings"

	"github.com/google/uuid"
)

// AccountType tells a cash account from a stock position.
type AccountType string

const (
	Cash  AccountType = "Cash"
	Stock AccountType = "Stock"
)

// Account is a cash balance or a stock position held at an institution.
//
// For stock positions Balance is derived: it always equals
// round(Quantity * LastPrice) and is kept in sync by the constructors and
// the With* methods.
type Account struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	Currency  Currency    `json:"currency"`
	Balance   float64     `json:"balance"`
	Symbol    string      `json:"symbol,omitempty"`
	Quantity  float64     `json:"quantity,omitempty"`
	LastPrice float64     `json:"lastPrice,omitempty"`
}

// NewID returns a fresh opaque identifier.
func NewID() string { return uuid.NewString() }

// NewCashAccount returns a cash account with a fresh ID.
func NewCashAccount(name string, cur Currency, balance float64) Account {
	return Account{
		ID:       NewID(),
		Name:     strings.TrimSpace(name),
		Type:     Cash,
		Currency: cur,
		Balance:  sanitize(balance),
	}
}

// NewStockAccount returns a stock position with a fresh ID.
// The symbol is stored upper case.
func NewStockAccount(symbol, name string, cur Currency, quantity, price float64) Account {
	a := Account{
		ID:       NewID(),
		Name:     strings.TrimSpace(name),
		Type:     Stock,
		Currency: cur,
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
	}
	if a.Name == "" {
		a.Name = a.Symbol
	}
	return a.WithQuantity(quantity).WithPrice(price)
}

// IsStock reports whether a is a stock position.
func (a Account) IsStock() bool { return a.Type == Stock }

// IsCash reports whether a is a cash account.
func (a Account) IsCash() bool { return a.Type == Cash }

// Normalized returns a copy of a with its derived balance recomputed.
func (a Account) Normalized() Account {
	if a.IsStock() {
		a.Quantity = sanitize(a.Quantity)
		a.LastPrice = sanitize(a.LastPrice)
		a.Balance = mulRound(a.Quantity, a.LastPrice)
	}
	return a
}

// WithQuantity returns a copy of the stock position holding q shares.
// Invalid quantities are read as 0. Cash accounts are returned unchanged.
func (a Account) WithQuantity(q float64) Account {
	if !a.IsStock() {
		return a
	}
	a.Quantity = sanitize(q)
	return a.Normalized()
}

// StepQuantity returns a copy of the stock position with delta shares added,
// never going below 0.
func (a Account) StepQuantity(delta float64) Account {
	return a.WithQuantity(max(0, a.Quantity+dec(delta).InexactFloat64()))
}

// WithPrice returns a copy of the stock position priced at p.
// Cash accounts are returned unchanged.
func (a Account) WithPrice(p float64) Account {
	if !a.IsStock() {
		return a
	}
	a.LastPrice = sanitize(p)
	return a.Normalized()
}

// WithBalance returns a copy of the cash account holding b.
// Stock balances are derived and cannot be set.
func (a Account) WithBalance(b float64) Account {
	if a.IsStock() {
		return a
	}
	a.Balance = sanitize(b)
	return a
}
