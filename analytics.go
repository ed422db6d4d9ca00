package wealth

import (
	"math"

	"github.com/etnz/wealth/date"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// MovingAverageWindow is the number of points averaged by MovingAverage.
const MovingAverageWindow = 6

// MovingAverage returns, for each point of h, the mean of the trailing
// window [max(0, i-5), i].
func MovingAverage(h History) []float64 {
	values := h.Values()
	out := make([]float64, len(values))
	for i := range values {
		out[i] = stat.Mean(values[max(0, i-MovingAverageWindow+1):i+1], nil)
	}
	return out
}

// CurrentNetWorth is the last recorded total, 0 for an empty history.
func CurrentNetWorth(h History) int64 {
	last, _ := h.Latest()
	return last.TotalValueHKD
}

// GoalProgress returns the percentage of goal reached by the last recorded
// total, rounded and clamped to [0, 100]. An invalid goal yields 0.
func GoalProgress(h History, goal float64) int {
	if !finite(goal) || goal <= 0 {
		return 0
	}
	pct := roundHalfUp(decimal.NewFromInt(CurrentNetWorth(h)).Div(dec(goal)).Mul(hundred)).IntPart()
	return int(min(100, max(0, pct)))
}

// GoalRemaining returns the amount still missing to reach goal, never negative.
func GoalRemaining(h History, goal float64) float64 {
	return sanitize(dec(sanitize(goal)).Sub(decimal.NewFromInt(CurrentNetWorth(h))).InexactFloat64())
}

// MaturityBucket is the principal unlocked by deposits maturing in a month.
type MaturityBucket struct {
	Key    string `json:"key"`    // YYYY-MM
	Label  string `json:"label"`  // Jan 06
	Amount int64  `json:"amount"` // base currency, rounded
}

// MaturityMonths is the number of months covered by MaturityMap.
const MaturityMonths = 12

// MaturityMap returns the base currency principal maturing in each of the
// twelve months starting with today's month. Deposits maturing outside the
// window are ignored.
func (r Rates) MaturityMap(deposits []FixedDeposit, today date.Date) []MaturityBucket {
	window := date.NextMonths(today, MaturityMonths)
	sums := make(map[string]decimal.Decimal)
	for _, fd := range deposits {
		if !window.Contains(fd.MaturityDate) {
			continue
		}
		key := PeriodKey(fd.MaturityDate)
		sums[key] = sums[key].Add(dec(r.ValueOfDeposit(fd)))
	}
	var out []MaturityBucket
	for m := range window.Months() {
		key := m.Identifier()
		out = append(out, MaturityBucket{
			Key:    key,
			Label:  m.From.Format("Jan 06"),
			Amount: roundHalfUp(sums[key]).IntPart(),
		})
	}
	return out
}

// Yields is the assumed annual dividend yield of stocks, by market.
type Yields map[Market]float64

// DefaultYields returns the dividend yield assumptions.
func DefaultYields() Yields {
	return Yields{
		HK: 0.04,
		AU: 0.04,
		US: 0.015,
	}
}

// Income is an estimate of the monthly passive income, in base currency.
type Income struct {
	Interest  float64 `json:"interest"`  // from fixed deposits
	Dividends float64 `json:"dividends"` // from stocks, using the assumed yields
	Total     float64 `json:"total"`
}

// PassiveIncome estimates the monthly income of the holdings: simple
// interest on deposits and assumed dividends on stocks.
func (r Rates) PassiveIncome(accounts []Account, deposits []FixedDeposit, yields Yields) Income {
	interest, dividends := decimal.Zero, decimal.Zero
	for _, fd := range deposits {
		interest = interest.Add(dec(r.ValueOfDeposit(fd)).Mul(dec(sanitize(fd.InterestRate))).Div(hundred).Div(twelve))
	}
	for _, a := range accounts {
		if !a.IsStock() {
			continue
		}
		y := sanitize(yields[MarketOf(a.Currency)])
		dividends = dividends.Add(dec(r.ValueOf(a)).Mul(dec(y)).Div(twelve))
	}
	return Income{
		Interest:  interest.InexactFloat64(),
		Dividends: dividends.InexactFloat64(),
		Total:     interest.Add(dividends).InexactFloat64(),
	}
}

// Benchmark returns a curve compounding the first point of h at
// monthlyRate, one value per point of h.
func Benchmark(h History, monthlyRate float64) []float64 {
	if len(h) == 0 {
		return []float64{}
	}
	if !finite(monthlyRate) {
		monthlyRate = 0
	}
	start := float64(h[0].TotalValueHKD)
	out := make([]float64, len(h))
	for i := range h {
		v := start * math.Pow(1+monthlyRate, float64(i))
		if !finite(v) {
			v = 0
		}
		out[i] = v
	}
	return out
}

// TrendPoint is one point of the net worth trend.
type TrendPoint struct {
	Date          string  `json:"date" csv:"month"`
	Value         int64   `json:"value" csv:"total_hkd"`
	MovingAverage float64 `json:"movingAverage" csv:"moving_average"`
	Benchmark     float64 `json:"benchmark" csv:"benchmark"`
}

// Insights gathers every analytic of a portfolio.
type Insights struct {
	Valuation       Valuation        `json:"valuation"`
	Slices          []Slice          `json:"distribution"`
	CurrentNetWorth int64            `json:"currentNetWorth"`
	Goal            float64          `json:"goal"`
	Progress        int              `json:"progress"`
	Remaining       float64          `json:"remaining"`
	Trend           []TrendPoint     `json:"trend"`
	Maturities      []MaturityBucket `json:"maturities"`
	Income          Income           `json:"passiveIncome"`
}

// Insights computes the analytics of p.
func (e *Engine) Insights(p Portfolio) Insights {
	r := e.rates()
	v := r.Aggregate(p.Accounts, p.FixedDeposits)
	goal := p.Goal()
	yields := e.Yields
	if yields == nil {
		yields = DefaultYields()
	}

	ma := MovingAverage(p.History)
	bench := Benchmark(p.History, e.BenchmarkRate)
	trend := make([]TrendPoint, len(p.History))
	for i, pt := range p.History {
		trend[i] = TrendPoint{
			Date:          pt.Date,
			Value:         pt.TotalValueHKD,
			MovingAverage: Round(ma[i]),
			Benchmark:     bench[i],
		}
	}

	return Insights{
		Valuation:       v,
		Slices:          v.Breakdown.Slices(),
		CurrentNetWorth: CurrentNetWorth(p.History),
		Goal:            goal,
		Progress:        GoalProgress(p.History, goal),
		Remaining:       GoalRemaining(p.History, goal),
		Trend:           trend,
		Maturities:      r.MaturityMap(p.FixedDeposits, e.today()),
		Income:          r.PassiveIncome(p.Accounts, p.FixedDeposits, yields),
	}
}
