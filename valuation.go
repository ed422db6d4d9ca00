package wealth

import (
	"github.com/shopspring/decimal"
)

// ValueOf returns the base currency value of an account.
// NaN, infinite or negative balances are valued 0.
func (r Rates) ValueOf(a Account) float64 {
	return sanitize(r.ToBase(sanitize(a.Normalized().Balance), a.Currency))
}

// ValueOfDeposit returns the base currency value of a deposit's principal.
// Accrued interest is not part of the value until settlement.
func (r Rates) ValueOfDeposit(fd FixedDeposit) float64 {
	return sanitize(r.ToBase(sanitize(fd.Principal), fd.Currency))
}

// Breakdown splits a valuation by category, in base currency, unrounded.
type Breakdown struct {
	Cash         float64            `json:"cash"`
	FixedDeposit float64            `json:"fixedDeposit"`
	Stocks       map[Market]float64 `json:"stocks"`
}

// Valuation is the net worth of a set of holdings.
type Valuation struct {
	Total     int64     `json:"total"` // rounded sum of all values
	Breakdown Breakdown `json:"breakdown"`
}

// Slice is one rounded category of the asset distribution.
type Slice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Slices returns the asset distribution: Cash, Fixed Dep. and one slice per
// stock market, each rounded, zero slices omitted.
func (b Breakdown) Slices() []Slice {
	var out []Slice
	add := func(name string, v float64) {
		if r := int64(Round(v)); r != 0 {
			out = append(out, Slice{Name: name, Value: r})
		}
	}
	add("Cash", b.Cash)
	add("Fixed Dep.", b.FixedDeposit)
	for _, m := range Markets {
		add(string(m)+" Stocks", b.Stocks[m])
	}
	return out
}

// Aggregate values all accounts and deposits.
//
// Accounts of an unknown type are counted as cash.
func (r Rates) Aggregate(accounts []Account, deposits []FixedDeposit) Valuation {
	total := decimal.Zero
	cash, fds := decimal.Zero, decimal.Zero
	stocks := make(map[Market]decimal.Decimal)
	for _, a := range accounts {
		v := dec(r.ValueOf(a))
		total = total.Add(v)
		if a.IsStock() {
			m := MarketOf(a.Currency)
			stocks[m] = stocks[m].Add(v)
			continue
		}
		cash = cash.Add(v)
	}
	for _, fd := range deposits {
		v := dec(r.ValueOfDeposit(fd))
		total = total.Add(v)
		fds = fds.Add(v)
	}
	b := Breakdown{
		Cash:         cash.InexactFloat64(),
		FixedDeposit: fds.InexactFloat64(),
		Stocks:       make(map[Market]float64, len(Markets)),
	}
	for _, m := range Markets {
		b.Stocks[m] = stocks[m].InexactFloat64()
	}
	return Valuation{
		Total:     roundHalfUp(total).IntPart(),
		Breakdown: b,
	}
}
