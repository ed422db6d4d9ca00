package wealth

import (
	"fmt"
	"slices"

	"github.com/etnz/wealth/date"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a fixed deposit, derived from the days
// left until maturity.
type Status int

const (
	Active Status = iota
	Urgent
	Matured
)

// UrgentWithin is the number of days before maturity a deposit becomes urgent.
const UrgentWithin = 30

func (s Status) String() string {
	switch s {
	case Urgent:
		return "Urgent"
	case Matured:
		return "Matured"
	default:
		return "Active"
	}
}

// DaysLeft returns the number of calendar days from today to maturity,
// negative once the maturity date has passed.
func DaysLeft(maturity, today date.Date) int { return maturity.Sub(today) }

// DaysLeft returns the days left until the deposit matures.
func (fd FixedDeposit) DaysLeft(today date.Date) int { return DaysLeft(fd.MaturityDate, today) }

// Status returns the lifecycle state of the deposit at today.
func (fd FixedDeposit) Status(today date.Date) Status { return DepositStatus(fd, today) }

// DepositStatus returns the lifecycle state of fd at today: Matured once the
// maturity date is reached, Urgent within UrgentWithin days, Active otherwise.
func DepositStatus(fd FixedDeposit, today date.Date) Status {
	switch days := fd.DaysLeft(today); {
	case days <= 0:
		return Matured
	case days <= UrgentWithin:
		return Urgent
	default:
		return Active
	}
}

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	year    = decimal.NewFromInt(365)
)

// InterestForMonths returns the simple interest on principal at the annual
// rate (percent) over months, rounded to the unit.
func InterestForMonths(principal, rate float64, months int) int64 {
	i := dec(sanitize(principal)).Mul(dec(sanitize(rate))).Div(hundred).
		Mul(decimal.NewFromInt(int64(max(0, months)))).Div(twelve)
	return roundHalfUp(i).IntPart()
}

// Estimate is the projected outcome of a new deposit.
type Estimate struct {
	Interest float64 `json:"interest"`
	Total    float64 `json:"total"`
	Days     int     `json:"days"`
}

// EstimateInterest projects the interest earned by a deposit placed at start
// and maturing at maturity. Interest accrues on a 365 days year.
func EstimateInterest(principal, rate float64, start, maturity date.Date) Estimate {
	principal = sanitize(principal)
	days := DaysLeft(maturity, start)
	if days <= 0 || principal == 0 {
		return Estimate{Interest: 0, Total: principal, Days: 0}
	}
	i := roundHalfUp(dec(principal).Mul(dec(sanitize(rate))).Div(hundred).
		Mul(decimal.NewFromInt(int64(days))).Div(year))
	return Estimate{
		Interest: i.InexactFloat64(),
		Total:    dec(principal).Add(i).InexactFloat64(),
		Days:     days,
	}
}

// Terms lists the rollover terms offered, in months.
var Terms = []int{1, 3, 6, 12}

// DefaultRolloverTerm is the rollover term proposed by default, in months.
const DefaultRolloverTerm = 3

// DefaultRate is the rate proposed for a rollover when the deposit has none.
const DefaultRate = 4.0

// RolloverTerms are the user-confirmed terms of a rollover.
type RolloverTerms struct {
	Interest float64 `json:"interest"` // capitalized into the principal
	Rate     float64 `json:"rate"`     // new annual rate, percent
	Months   int     `json:"months"`   // new term, one of Terms
}

func (t RolloverTerms) validate() error {
	if !finite(t.Interest) || t.Interest < 0 {
		return fmt.Errorf("%w: interest must not be negative, got %v", ErrInvalidTerms, t.Interest)
	}
	if !finite(t.Rate) || t.Rate < 0 {
		return fmt.Errorf("%w: rate must not be negative, got %v", ErrInvalidTerms, t.Rate)
	}
	if !slices.Contains(Terms, t.Months) {
		return fmt.Errorf("%w: term must be one of %v months, got %d", ErrInvalidTerms, Terms, t.Months)
	}
	return nil
}

// RolloverProposal returns the default terms offered for rolling fd over:
// the interest of a DefaultRolloverTerm months term at the current rate.
func RolloverProposal(fd FixedDeposit) RolloverTerms {
	rate := fd.InterestRate
	if !finite(rate) || rate <= 0 {
		rate = DefaultRate
	}
	return RolloverTerms{
		Interest: float64(InterestForMonths(fd.Principal, fd.InterestRate, DefaultRolloverTerm)),
		Rate:     rate,
		Months:   DefaultRolloverTerm,
	}
}

// SettleTerms are the user-confirmed terms of a settlement.
type SettleTerms struct {
	Interest    float64 `json:"interest"`    // paid out with the principal
	Destination string  `json:"destination"` // ID of the cash account credited
}

// SettlementProposal returns the default terms offered for settling fd: the
// interest of a DefaultRolloverTerm months term, paid to the first cash account in
// the deposit currency, or else the first cash account of any currency.
func SettlementProposal(fd FixedDeposit, accounts []Account) SettleTerms {
	t := SettleTerms{Interest: float64(InterestForMonths(fd.Principal, fd.InterestRate, DefaultRolloverTerm))}
	for _, a := range accounts {
		if a.IsCash() && a.Currency == fd.Currency {
			t.Destination = a.ID
			return t
		}
	}
	for _, a := range accounts {
		if a.IsCash() {
			t.Destination = a.ID
			break
		}
	}
	return t
}

// Rollover renews the deposit id: the interest is capitalized into the
// principal, the rate replaced and the maturity moved to today plus the
// term. The deposit becomes auto rolling.
func (e *Engine) Rollover(p Portfolio, id string, t RolloverTerms) (Portfolio, error) {
	i, ok := p.FindDeposit(id)
	if !ok {
		return p, fmt.Errorf("%w: unknown fixed deposit %q", ErrNotApplicable, id)
	}
	if err := t.validate(); err != nil {
		return p, err
	}
	out := p.Clone()
	fd := out.FixedDeposits[i]
	fd.Principal = dec(sanitize(fd.Principal)).Add(dec(t.Interest)).InexactFloat64()
	fd.InterestRate = t.Rate
	fd.MaturityDate = e.today().AddMonths(t.Months)
	fd.AutoRoll = true
	out.FixedDeposits[i] = fd
	out.LastUpdated = e.now()
	return out, nil
}

// Settle closes the deposit id: principal plus interest are credited to the
// destination cash account, the deposit is removed and a snapshot of the
// new total is recorded.
//
// The credit is made in the deposit currency. When the destination holds
// another currency it is converted through the base currency if
// ConvertOnSettle is set, otherwise credited as is with a warning.
func (e *Engine) Settle(p Portfolio, id string, t SettleTerms) (Portfolio, error) {
	i, ok := p.FindDeposit(id)
	if !ok {
		return p, fmt.Errorf("%w: unknown fixed deposit %q", ErrNotApplicable, id)
	}
	if !finite(t.Interest) || t.Interest < 0 {
		return p, fmt.Errorf("%w: interest must not be negative, got %v", ErrInvalidTerms, t.Interest)
	}
	j, ok := p.FindAccount(t.Destination)
	if !ok {
		return p, fmt.Errorf("%w: unknown destination account %q", ErrNotApplicable, t.Destination)
	}
	if !p.Accounts[j].IsCash() {
		return p, fmt.Errorf("%w: destination %q is not a cash account", ErrNotApplicable, p.Accounts[j].Name)
	}

	out := p.Clone()
	fd := out.FixedDeposits[i]
	dest := out.Accounts[j]
	credit := dec(sanitize(fd.Principal)).Add(dec(t.Interest)).InexactFloat64()
	if dest.Currency != fd.Currency {
		if e.ConvertOnSettle {
			credit = e.rates().FromBase(e.rates().ToBase(credit, fd.Currency), dest.Currency)
		} else {
			log.Warn().
				Str("deposit", fd.ID).
				Str("from", string(fd.Currency)).
				Str("to", string(dest.Currency)).
				Float64("amount", credit).
				Msg("settling into an account of another currency without conversion")
		}
	}
	out.Accounts[j] = dest.WithBalance(dec(dest.Balance).Add(dec(credit)).InexactFloat64())
	out.FixedDeposits = slices.Delete(out.FixedDeposits, i, i+1)
	return e.snapshot(out), nil
}
