package wealth

import (
	"testing"
	"time"

	"github.com/etnz/wealth/date"
)

// fixedEngine returns an engine with the default rates whose clock is
// stopped at noon on the given day.
func fixedEngine(t *testing.T, on date.Date) *Engine {
	t.Helper()
	e := NewEngine(DefaultRates())
	e.Now = func() time.Time { return on.Time().Add(12 * time.Hour) }
	return e
}

func mustDeposit(t *testing.T, bank string, principal float64, cur Currency, rate float64, maturity date.Date) FixedDeposit {
	t.Helper()
	fd, err := NewFixedDeposit(bank, principal, cur, rate, maturity, Renew, false)
	if err != nil {
		t.Fatalf("NewFixedDeposit() failed: %v", err)
	}
	return fd
}
