package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
)

func fixture() (wealth.Portfolio, *wealth.Engine, date.Date) {
	today := date.New(2024, time.June, 15)
	e := wealth.NewEngine(wealth.DefaultRates())
	e.Now = func() time.Time { return today.Time() }

	p := wealth.NewPortfolio()
	p.Accounts = []wealth.Account{
		{ID: "c1", Name: "HSBC", Type: wealth.Cash, Currency: wealth.HKD, Balance: 100000},
		{ID: "s1", Name: "IB", Type: wealth.Stock, Currency: wealth.USD, Symbol: "AAPL", Quantity: 10, LastPrice: 100, Balance: 1000},
	}
	p.FixedDeposits = []wealth.FixedDeposit{
		{ID: "f2", BankName: "BOC", Principal: 20000, Currency: wealth.HKD, InterestRate: 3.8, MaturityDate: date.New(2024, time.December, 1)},
		{ID: "f1", BankName: "HSBC", Principal: 50000, Currency: wealth.HKD, InterestRate: 4, MaturityDate: date.New(2024, time.June, 30), AutoRoll: true},
	}
	p.History = wealth.History{{Date: "2024-05", TotalValueHKD: 170000}, {Date: "2024-06", TotalValueHKD: 177800}}
	return p, e, today
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestOverview(t *testing.T) {
	p, e, _ := fixture()
	got := Overview(p, e)
	assertContains(t, got, "# Net Worth", "177,800", "HSBC", "AAPL", "7,800", "2 deposits")
}

func TestDeposits(t *testing.T) {
	p, _, today := fixture()
	got := Deposits(p, today)
	assertContains(t, got, "| HSBC", "Urgent", "Active", "3.8%", "2024-12-01")
	if strings.Index(got, "f1") > strings.Index(got, "f2") {
		t.Errorf("deposits are not sorted by maturity:\n%s", got)
	}

	empty := Deposits(wealth.NewPortfolio(), today)
	assertContains(t, empty, "No fixed deposit.")
}

func TestHistory(t *testing.T) {
	p, _, _ := fixture()
	got := History(p.History)
	assertContains(t, got, "2024-05", "170,000", "173,900")
	assertContains(t, History(nil), "No snapshot recorded yet.")
}

func TestInsights(t *testing.T) {
	p, e, _ := fixture()
	got := Insights(e.Insights(p))
	assertContains(t, got, "## Distribution", "Fixed Dep.", "US Stocks", "Progress: 9%", "Jun 24", "Dec 24", "Deposit interest")
}

func TestEstimate(t *testing.T) {
	got := Estimate(100000, wealth.HKD, 3.65, wealth.Estimate{Interest: 910, Total: 100910, Days: 91})
	assertContains(t, got, "91 days", "910.00", "100,910.00")
}
