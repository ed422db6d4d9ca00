// Package yahoo implements a price oracle on top of Yahoo Finance daily
// charts.
package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/wealth"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// window is how far back closes are looked up, so that a price is found
// across weekends and holidays.
const window = 10 * 24 * time.Hour

// Oracle is a wealth.PriceOracle reading the last daily close.
type Oracle struct {
	closes func(symbol string, start, end time.Time) ([]float64, error)
	now    func() time.Time
}

// New returns an Oracle querying Yahoo Finance.
func New() *Oracle { return &Oracle{closes: dailyCloses, now: time.Now} }

// dailyCloses returns the daily closes of symbol between start and end,
// oldest first.
func dailyCloses(symbol string, start, end time.Time) ([]float64, error) {
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})
	var closes []float64
	for iter.Next() {
		closes = append(closes, iter.Bar().Close.InexactFloat64())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return closes, nil
}

// EstimatePrice implements wealth.PriceOracle.
func (o *Oracle) EstimatePrice(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	end := o.now()
	closes, err := o.closes(symbol, end.Add(-window), end)
	if err != nil {
		return 0, fmt.Errorf("cannot get chart for %s: %w", symbol, err)
	}
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] > 0 {
			return closes[i], nil
		}
	}
	return 0, fmt.Errorf("%w: no price for %s", wealth.ErrUnavailable, symbol)
}
