package wealth

import (
	"fmt"
	"slices"
	"time"

	"github.com/etnz/wealth/date"
)

// DefaultGoal is the wealth goal used until the user sets one.
const DefaultGoal = 2_000_000

// Portfolio is the single aggregate owned by a user: holdings, net worth
// history and goal.
//
// Portfolio is a value: transitions return a new Portfolio and never
// modify the one they are given.
type Portfolio struct {
	Accounts      []Account      `json:"accounts"`
	FixedDeposits []FixedDeposit `json:"fixedDeposits"`
	History       History        `json:"history"`
	WealthGoal    float64        `json:"wealthGoal"`
	LastUpdated   time.Time      `json:"lastUpdated"`
}

// NewPortfolio returns an empty portfolio with the default goal.
func NewPortfolio() Portfolio {
	return Portfolio{
		Accounts:      []Account{},
		FixedDeposits: []FixedDeposit{},
		History:       History{},
		WealthGoal:    DefaultGoal,
	}
}

// Clone returns a deep copy of p.
func (p Portfolio) Clone() Portfolio {
	out := p
	out.Accounts = append([]Account{}, p.Accounts...)
	out.FixedDeposits = append([]FixedDeposit{}, p.FixedDeposits...)
	out.History = p.History.Clone()
	return out
}

// Goal returns the wealth goal, or DefaultGoal when none is set.
func (p Portfolio) Goal() float64 {
	if !finite(p.WealthGoal) || p.WealthGoal <= 0 {
		return DefaultGoal
	}
	return p.WealthGoal
}

// FindAccount returns the index of the account id.
func (p Portfolio) FindAccount(id string) (int, bool) {
	i := slices.IndexFunc(p.Accounts, func(a Account) bool { return a.ID == id })
	return i, i >= 0
}

// FindDeposit returns the index of the fixed deposit id.
func (p Portfolio) FindDeposit(id string) (int, bool) {
	i := slices.IndexFunc(p.FixedDeposits, func(fd FixedDeposit) bool { return fd.ID == id })
	return i, i >= 0
}

// Engine runs the portfolio transitions and analytics with a given rate
// table and set of assumptions.
type Engine struct {
	Rates  Rates
	Yields Yields
	// BenchmarkRate is the monthly rate of the benchmark curve.
	BenchmarkRate float64
	// ConvertOnSettle converts settlement proceeds into the destination
	// account currency. Off by default: proceeds are credited as is.
	ConvertOnSettle bool
	// Now is the wall clock, time.Now when nil.
	Now func() time.Time
}

// DefaultBenchmarkRate is the monthly rate of the benchmark curve.
const DefaultBenchmarkRate = 0.005

// NewEngine returns an engine with the default assumptions and the given rates.
func NewEngine(rates Rates) *Engine {
	if rates == nil {
		rates = DefaultRates()
	}
	return &Engine{
		Rates:         rates,
		Yields:        DefaultYields(),
		BenchmarkRate: DefaultBenchmarkRate,
	}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) today() date.Date { return date.Of(e.now()) }

// Today returns the engine's current date.
func (e *Engine) Today() date.Date { return e.today() }

func (e *Engine) rates() Rates {
	if e.Rates == nil {
		return DefaultRates()
	}
	return e.Rates
}

// Value returns the current valuation of p.
func (e *Engine) Value(p Portfolio) Valuation {
	return e.rates().Aggregate(p.Accounts, p.FixedDeposits)
}

// snapshot records the current total of out for the current month and
// refreshes LastUpdated. out must already be a copy.
func (e *Engine) snapshot(out Portfolio) Portfolio {
	out.History = RecordSnapshot(out.History, PeriodKey(e.today()), e.Value(out).Total)
	out.LastUpdated = e.now()
	return out
}

// Snapshot records the current net worth of p for the current month.
func (e *Engine) Snapshot(p Portfolio) Portfolio { return e.snapshot(p.Clone()) }

// SaveAccounts replaces the accounts of p and records a snapshot.
// Stock balances are recomputed from quantity and price.
func (e *Engine) SaveAccounts(p Portfolio, accounts []Account) Portfolio {
	out := p.Clone()
	out.Accounts = make([]Account, len(accounts))
	for i, a := range accounts {
		out.Accounts[i] = a.Normalized()
	}
	return e.snapshot(out)
}

// AddAccounts appends accounts to p and records a snapshot.
func (e *Engine) AddAccounts(p Portfolio, accounts ...Account) Portfolio {
	return e.SaveAccounts(p, append(slices.Clone(p.Accounts), accounts...))
}

// UpdateAccount applies fn to the account id and records a snapshot.
func (e *Engine) UpdateAccount(p Portfolio, id string, fn func(Account) Account) (Portfolio, error) {
	i, ok := p.FindAccount(id)
	if !ok {
		return p, fmt.Errorf("%w: unknown account %q", ErrNotApplicable, id)
	}
	accounts := slices.Clone(p.Accounts)
	updated := fn(accounts[i])
	updated.ID = accounts[i].ID
	accounts[i] = updated
	return e.SaveAccounts(p, accounts), nil
}

// RemoveAccount deletes the account id and records a snapshot.
func (e *Engine) RemoveAccount(p Portfolio, id string) (Portfolio, error) {
	i, ok := p.FindAccount(id)
	if !ok {
		return p, fmt.Errorf("%w: unknown account %q", ErrNotApplicable, id)
	}
	return e.SaveAccounts(p, slices.Delete(slices.Clone(p.Accounts), i, i+1)), nil
}

// SaveDeposits replaces the fixed deposits of p.
// Deposit edits do not record a snapshot.
func (e *Engine) SaveDeposits(p Portfolio, deposits []FixedDeposit) Portfolio {
	out := p.Clone()
	out.FixedDeposits = slices.Clone(deposits)
	if out.FixedDeposits == nil {
		out.FixedDeposits = []FixedDeposit{}
	}
	out.LastUpdated = e.now()
	return out
}

// AddDeposit appends fd to p.
func (e *Engine) AddDeposit(p Portfolio, fd FixedDeposit) Portfolio {
	return e.SaveDeposits(p, append(slices.Clone(p.FixedDeposits), fd))
}

// RemoveDeposit deletes the fixed deposit id without paying it out.
func (e *Engine) RemoveDeposit(p Portfolio, id string) (Portfolio, error) {
	i, ok := p.FindDeposit(id)
	if !ok {
		return p, fmt.Errorf("%w: unknown fixed deposit %q", ErrNotApplicable, id)
	}
	return e.SaveDeposits(p, slices.Delete(slices.Clone(p.FixedDeposits), i, i+1)), nil
}

// SetGoal sets the wealth goal. goal must be a positive number.
func (e *Engine) SetGoal(p Portfolio, goal float64) (Portfolio, error) {
	if !finite(goal) || goal <= 0 {
		return p, fmt.Errorf("%w: got %v", ErrInvalidGoal, goal)
	}
	out := p.Clone()
	out.WealthGoal = goal
	out.LastUpdated = e.now()
	return out, nil
}
