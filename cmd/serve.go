package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/scheduler"
	"github.com/etnz/wealth/server"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type serveCmd struct {
	addr   string
	noJobs bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the JSON API and run scheduled jobs" }
func (*serveCmd) Usage() string {
	return `wsnap serve [-addr <host:port>] [-no-jobs]

  Serves the portfolio as a local JSON API and, unless -no-jobs is set, runs
  the monthly snapshot, the daily maturity watch and the daily mirror sync.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address (default $WSNAP_ADDR or 127.0.0.1:8080)")
	f.BoolVar(&c.noJobs, "no-jobs", false, "Do not run scheduled jobs")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		cfg.Addr = c.addr
	}
	e := cfg.Engine()
	guard := wealth.NewGuard(store(cfg))
	mirror := cfg.Mirror()
	srv := server.New(server.Config{
		Addr:   cfg.Addr,
		Log:    log.Logger,
		Engine: e,
		Store:  guard,
		Oracle: cfg.PriceOracle(ctx),
		Mirror: mirror,
	})

	if !c.noJobs {
		sched := scheduler.New(log.Logger)
		if err := registerJobs(sched, e, guard, mirror); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if n := sched.Start(); n > 0 {
			log.Warn().Int("failed", n).Msg("Some jobs failed at start")
		}
		defer sched.Stop()
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// registerJobs schedules the background jobs of serve. The snapshot and the
// maturity watch also run at start.
func registerJobs(sched *scheduler.Scheduler, e *wealth.Engine, guard *wealth.Guard, mirror wealth.LedgerMirror) error {
	type entry struct {
		schedule string
		job      scheduler.Job
		atStart  bool
	}
	jobs := []entry{
		{"@monthly", &scheduler.SnapshotJob{Engine: e, Store: guard, Log: log.Logger}, true},
		{"0 9 * * *", &scheduler.MaturityWatchJob{Engine: e, Store: guard, Log: log.Logger}, true},
	}
	if mirror != nil {
		jobs = append(jobs, entry{"30 9 * * *", &scheduler.SyncJob{Engine: e, Store: guard, Mirror: mirror, Timeout: time.Minute}, false})
	}
	for _, j := range jobs {
		if err := sched.AddJob(j.schedule, j.job, j.atStart); err != nil {
			return fmt.Errorf("cannot schedule %s: %w", j.job.Name(), err)
		}
	}
	return nil
}
