package scheduler

import (
	"context"
	"time"

	"github.com/etnz/wealth"
	"github.com/rs/zerolog"
)

// SnapshotJob records the net worth of the current month. Running it more
// than once a month only refreshes the month's point.
type SnapshotJob struct {
	Engine *wealth.Engine
	Store  *wealth.Guard
	Log    zerolog.Logger
}

func (j *SnapshotJob) Name() string { return "snapshot" }

func (j *SnapshotJob) Run() error {
	p, err := j.Store.Update(func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return j.Engine.Snapshot(p), nil
	})
	if err != nil {
		return err
	}
	last, _ := p.History.Latest()
	j.Log.Info().Str("month", last.Date).Int64("total", last.TotalValueHKD).Msg("net worth recorded")
	return nil
}

// MaturityWatchJob warns about deposits that are matured or about to.
type MaturityWatchJob struct {
	Engine *wealth.Engine
	Store  *wealth.Guard
	Log    zerolog.Logger
}

func (j *MaturityWatchJob) Name() string { return "maturity-watch" }

func (j *MaturityWatchJob) Run() error {
	p, err := j.Store.Load()
	if err != nil {
		return err
	}
	for _, fd := range Due(p, j.Engine) {
		today := j.Engine.Today()
		j.Log.Warn().
			Str("bank", fd.BankName).
			Str("id", fd.ID).
			Str("status", fd.Status(today).String()).
			Int("days_left", fd.DaysLeft(today)).
			Msg("fixed deposit needs attention")
	}
	return nil
}

// Due returns the deposits of p that are urgent or matured.
func Due(p wealth.Portfolio, e *wealth.Engine) []wealth.FixedDeposit {
	today := e.Today()
	var out []wealth.FixedDeposit
	for _, fd := range p.FixedDeposits {
		if fd.Status(today) != wealth.Active {
			out = append(out, fd)
		}
	}
	return out
}

// SyncJob pushes the holdings to the ledger mirror and applies its prices.
type SyncJob struct {
	Engine  *wealth.Engine
	Store   *wealth.Guard
	Mirror  wealth.LedgerMirror
	Timeout time.Duration
}

func (j *SyncJob) Name() string { return "mirror-sync" }

func (j *SyncJob) Run() error {
	ctx := context.Background()
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}
	var syncErr error
	_, err := j.Store.Update(func(p wealth.Portfolio) (wealth.Portfolio, error) {
		out, _, err := j.Engine.Sync(ctx, p, j.Mirror)
		syncErr = err
		return out, nil
	})
	if err != nil {
		return err
	}
	return syncErr
}
