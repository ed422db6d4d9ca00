package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
	"github.com/gocarina/gocsv"
	"github.com/google/subcommands"
)

// load reads the configured state, reporting errors on stderr.
func load() (Config, wealth.Portfolio, bool) {
	cfg, ok := setup()
	if !ok {
		return cfg, wealth.Portfolio{}, false
	}
	p, err := store(cfg).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, p, false
	}
	return cfg, p, true
}

type overviewCmd struct{}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "display net worth and holdings" }
func (*overviewCmd) Usage() string {
	return `wsnap overview

  Displays the net worth in HKD, its breakdown and every holding.
`
}

func (*overviewCmd) SetFlags(*flag.FlagSet) {}

func (*overviewCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, p, ok := load()
	if !ok {
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Overview(p, cfg.Engine()))
	return subcommands.ExitSuccess
}

type insightsCmd struct{}

func (*insightsCmd) Name() string { return "insights" }
func (*insightsCmd) Synopsis() string {
	return "display goal progress, trend, maturities and passive income"
}
func (*insightsCmd) Usage() string {
	return `wsnap insights

  Displays the asset distribution, the progress toward the wealth goal, the
  net worth trend with its moving average and benchmark, the maturity
  calendar of the next 12 months and the estimated yearly passive income.
`
}

func (*insightsCmd) SetFlags(*flag.FlagSet) {}

func (*insightsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, p, ok := load()
	if !ok {
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Insights(cfg.Engine().Insights(p)))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	csv bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the monthly net worth history" }
func (*historyCmd) Usage() string {
	return `wsnap history [-csv]

  Displays one net worth point per month. With -csv, prints the trend
  (value, moving average and benchmark) as CSV.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.csv, "csv", false, "Print CSV")
}

func (c *historyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, p, ok := load()
	if !ok {
		return subcommands.ExitFailure
	}
	if !c.csv {
		printMarkdown(renderer.History(p.History))
		return subcommands.ExitSuccess
	}
	if err := gocsv.Marshal(cfg.Engine().Insights(p).Trend, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type snapshotCmd struct{}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "record the net worth of the current month" }
func (*snapshotCmd) Usage() string {
	return `wsnap snapshot

  Records the current net worth as the point of the current month, replacing
  the point already recorded this month.
`
}

func (*snapshotCmd) SetFlags(*flag.FlagSet) {}

func (*snapshotCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	e := cfg.Engine()
	p, err := update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) { return e.Snapshot(p), nil })
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	last, _ := p.History.Latest()
	fmt.Printf("✅ %s: %s\n", last.Date, renderer.Base(last.TotalValueHKD))
	return subcommands.ExitSuccess
}

type goalCmd struct{}

func (*goalCmd) Name() string     { return "goal" }
func (*goalCmd) Synopsis() string { return "display or set the wealth goal" }
func (*goalCmd) Usage() string {
	return `wsnap goal [<amount>]

  Displays the wealth goal and the progress toward it, or sets a new goal in
  HKD.
`
}

func (*goalCmd) SetFlags(*flag.FlagSet) {}

func (*goalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: at most one amount is expected")
		return subcommands.ExitUsageError
	}
	cfg, p, ok := load()
	if !ok {
		return subcommands.ExitFailure
	}
	e := cfg.Engine()
	if f.NArg() == 1 {
		goal, err := parseAmount(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		p, err = update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) { return e.SetGoal(p, goal) })
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	goal := p.Goal()
	fmt.Printf("Goal: %s, %d%% reached, %s to go\n", renderer.Base(int64(wealth.Round(goal))),
		wealth.GoalProgress(p.History, goal), renderer.Base(int64(wealth.Round(wealth.GoalRemaining(p.History, goal)))))
	return subcommands.ExitSuccess
}
