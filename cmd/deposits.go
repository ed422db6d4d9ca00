package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

// depositTerms are the flags shared by fd-add and fd-estimate.
type depositTerms struct {
	principal float64
	currency  string
	rate      float64
	start     string
	maturity  string
}

func (t *depositTerms) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&t.principal, "principal", 0, "Principal amount")
	f.StringVar(&t.currency, "currency", string(wealth.Base), "Currency of the deposit")
	f.Float64Var(&t.rate, "rate", 0, "Annual interest rate, in percent")
	f.StringVar(&t.start, "start", "+0d", "Placement date")
	f.StringVar(&t.maturity, "maturity", "+3m", "Maturity date")
}

func (t *depositTerms) parse() (cur wealth.Currency, start, maturity date.Date, err error) {
	cur, ok := wealth.ParseCurrency(t.currency)
	if !ok {
		return cur, start, maturity, fmt.Errorf("unknown currency %q", t.currency)
	}
	if start, err = date.Parse(t.start); err != nil {
		return cur, start, maturity, err
	}
	if maturity, err = date.Parse(t.maturity); err != nil {
		return cur, start, maturity, err
	}
	return cur, start, maturity, nil
}

type fdAddCmd struct {
	depositTerms
	bank     string
	action   string
	autoRoll bool
}

func (*fdAddCmd) Name() string     { return "fd-add" }
func (*fdAddCmd) Synopsis() string { return "add a fixed deposit" }
func (*fdAddCmd) Usage() string {
	return `wsnap fd-add -bank <bank> -principal <amount> -rate <percent> [-currency <cur>] [-start <date>] [-maturity <date>] [-action renew|transfer] [-auto-roll]

  Adds a fixed deposit and prints the interest expected at maturity.
`
}

func (c *fdAddCmd) SetFlags(f *flag.FlagSet) {
	c.depositTerms.SetFlags(f)
	f.StringVar(&c.bank, "bank", "", "Bank holding the deposit (required)")
	f.StringVar(&c.action, "action", "renew", "Action on maturity: renew or transfer")
	f.BoolVar(&c.autoRoll, "auto-roll", false, "The bank renews the deposit automatically")
}

func (c *fdAddCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.bank == "" {
		fmt.Fprintln(os.Stderr, "Error: -bank is required")
		return subcommands.ExitUsageError
	}
	cur, start, maturity, err := c.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	action := wealth.Renew
	switch c.action {
	case "renew":
	case "transfer":
		action = wealth.TransferOut
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown action %q\n", c.action)
		return subcommands.ExitUsageError
	}
	fd, err := wealth.NewFixedDeposit(c.bank, c.principal, cur, c.rate, maturity, action, c.autoRoll)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	e := cfg.Engine()
	if _, err := update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return e.AddDeposit(p, fd), nil
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Added fixed deposit %s at %s\n\n", fd.ID[:8], fd.BankName)
	printMarkdown(renderer.Estimate(fd.Principal, cur, fd.InterestRate, wealth.EstimateInterest(fd.Principal, fd.InterestRate, start, maturity)))
	return subcommands.ExitSuccess
}

type fdEstimateCmd struct {
	depositTerms
}

func (*fdEstimateCmd) Name() string     { return "fd-estimate" }
func (*fdEstimateCmd) Synopsis() string { return "estimate the interest of a deposit" }
func (*fdEstimateCmd) Usage() string {
	return `wsnap fd-estimate -principal <amount> -rate <percent> [-currency <cur>] [-start <date>] [-maturity <date>]

  Computes the simple interest earned between two dates on a 365 days year.
`
}

func (c *fdEstimateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cur, start, maturity, err := c.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.Estimate(c.principal, cur, c.rate, wealth.EstimateInterest(c.principal, c.rate, start, maturity)))
	return subcommands.ExitSuccess
}

type fdListCmd struct{}

func (*fdListCmd) Name() string     { return "fd-list" }
func (*fdListCmd) Synopsis() string { return "list fixed deposits by maturity" }
func (*fdListCmd) Usage() string {
	return `wsnap fd-list

  Lists the fixed deposits, soonest maturity first, with their status.
`
}

func (*fdListCmd) SetFlags(*flag.FlagSet) {}

func (*fdListCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	p, err := store(cfg).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Deposits(p, cfg.Engine().Today()))
	return subcommands.ExitSuccess
}

type fdRemoveCmd struct{}

func (*fdRemoveCmd) Name() string     { return "fd-remove" }
func (*fdRemoveCmd) Synopsis() string { return "delete a fixed deposit without paying it out" }
func (*fdRemoveCmd) Usage() string {
	return `wsnap fd-remove <deposit>

  Deletes a fixed deposit, found by id, id prefix or bank. Nothing is
  credited: use settle to pay a deposit out.
`
}

func (*fdRemoveCmd) SetFlags(*flag.FlagSet) {}

func (*fdRemoveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one deposit is required")
		return subcommands.ExitUsageError
	}
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	e := cfg.Engine()
	var removed wealth.FixedDeposit
	if _, err := update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		fd, err := resolveDeposit(p, f.Arg(0))
		if err != nil {
			return p, err
		}
		removed = fd
		return e.RemoveDeposit(p, fd.ID)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Removed fixed deposit %s at %s\n", removed.ID[:min(8, len(removed.ID))], removed.BankName)
	return subcommands.ExitSuccess
}

type rolloverCmd struct {
	interest string
	rate     string
	months   int
}

func (*rolloverCmd) Name() string     { return "rollover" }
func (*rolloverCmd) Synopsis() string { return "renew a fixed deposit" }
func (*rolloverCmd) Usage() string {
	return `wsnap rollover [-interest <amount>] [-rate <percent>] [-months 1|3|6|12] <deposit>

  Adds the interest to the principal, sets the new rate and moves the
  maturity to today plus the term. Unset flags take the proposed terms: the
  interest of a 3 months term at the current rate.
`
}

func (c *rolloverCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.interest, "interest", "", "Interest earned, added to the principal")
	f.StringVar(&c.rate, "rate", "", "New annual rate, in percent")
	f.IntVar(&c.months, "months", wealth.DefaultRolloverTerm, "New term, in months")
}

func (c *rolloverCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one deposit is required")
		return subcommands.ExitUsageError
	}
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	e := cfg.Engine()
	var done wealth.FixedDeposit
	p, err := update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		fd, err := resolveDeposit(p, f.Arg(0))
		if err != nil {
			return p, err
		}
		terms := wealth.RolloverProposal(fd)
		terms.Months = c.months
		if err := override(&terms.Interest, c.interest); err != nil {
			return p, err
		}
		if err := override(&terms.Rate, c.rate); err != nil {
			return p, err
		}
		out, err := e.Rollover(p, fd.ID, terms)
		if err != nil {
			return p, err
		}
		i, _ := out.FindDeposit(fd.ID)
		done = out.FixedDeposits[i]
		return out, nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Rolled over %s: %s at %s until %s. Net worth: %s\n", done.BankName,
		renderer.Money(done.Principal, done.Currency), renderer.Percent(done.InterestRate), done.MaturityDate,
		renderer.Base(e.Value(p).Total))
	return subcommands.ExitSuccess
}

type settleCmd struct {
	interest string
	to       string
	force    bool
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "pay a fixed deposit out to a cash account" }
func (*settleCmd) Usage() string {
	return `wsnap settle [-interest <amount>] [-to <account>] [-force] <deposit>

  Credits principal and interest to a cash account and removes the deposit.
  The default account is the first cash account in the deposit currency.
  A deposit that has not matured yet is only settled with -force.
`
}

func (c *settleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.interest, "interest", "", "Interest paid with the principal")
	f.StringVar(&c.to, "to", "", "Cash account credited")
	f.BoolVar(&c.force, "force", false, "Settle before maturity")
}

func (c *settleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one deposit is required")
		return subcommands.ExitUsageError
	}
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	e := cfg.Engine()
	var (
		settled wealth.FixedDeposit
		dest    wealth.Account
	)
	p, err := update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		fd, err := resolveDeposit(p, f.Arg(0))
		if err != nil {
			return p, err
		}
		if st := fd.Status(e.Today()); st != wealth.Matured && !c.force {
			return p, fmt.Errorf("%s is %s, %d days left, use -force: %w", fd.BankName, st, fd.DaysLeft(e.Today()), wealth.ErrNotApplicable)
		}
		terms := wealth.SettlementProposal(fd, p.Accounts)
		if err := override(&terms.Interest, c.interest); err != nil {
			return p, err
		}
		if c.to != "" {
			acc, err := resolveAccount(p, c.to)
			if err != nil {
				return p, err
			}
			terms.Destination = acc.ID
		}
		out, err := e.Settle(p, fd.ID, terms)
		if err != nil {
			return p, err
		}
		settled = fd
		j, _ := out.FindAccount(terms.Destination)
		dest = out.Accounts[j]
		return out, nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Settled %s into %s, now %s. Net worth: %s\n", settled.BankName, dest.Name,
		renderer.Money(dest.Balance, dest.Currency), renderer.Base(e.Value(p).Total))
	return subcommands.ExitSuccess
}

// override replaces *v with the number in s, when s is set.
func override(v *float64, s string) error {
	if s == "" {
		return nil
	}
	n, err := parseAmount(s)
	if err != nil {
		return err
	}
	*v = n
	return nil
}
