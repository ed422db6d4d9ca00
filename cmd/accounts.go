package cmd

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type addCashCmd struct {
	name     string
	currency string
	balance  float64
}

func (*addCashCmd) Name() string     { return "add-cash" }
func (*addCashCmd) Synopsis() string { return "add a cash account" }
func (*addCashCmd) Usage() string {
	return `wsnap add-cash -name <bank> -currency <HKD|USD|AUD> -balance <amount>

  Adds a cash account and records the net worth of the current month.
`
}

func (c *addCashCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "New Bank", "Name of the account, usually the bank")
	f.StringVar(&c.currency, "currency", string(wealth.Base), "Currency of the account")
	f.Float64Var(&c.balance, "balance", 0, "Balance of the account")
}

func (c *addCashCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cur, ok := wealth.ParseCurrency(c.currency)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown currency %q\n", c.currency)
		return subcommands.ExitUsageError
	}
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	e := cfg.Engine()
	acc := wealth.NewCashAccount(c.name, cur, c.balance)
	p, err := update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return e.AddAccounts(p, acc), nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Added %s (%s) %s. Net worth: %s\n", acc.Name, acc.ID[:8], renderer.Money(acc.Balance, cur), renderer.Base(e.Value(p).Total))
	return subcommands.ExitSuccess
}

type addStockCmd struct {
	symbol   string
	name     string
	currency string
	quantity float64
	price    float64
}

func (*addStockCmd) Name() string     { return "add-stock" }
func (*addStockCmd) Synopsis() string { return "add a stock holding" }
func (*addStockCmd) Usage() string {
	return `wsnap add-stock -symbol <symbol> -quantity <n> [-name <name>] [-currency <cur>] [-price <price>]

  Adds a stock holding. Hong Kong codes are padded ("700" is "00700.HK").
  The currency is inferred from the symbol unless given. Without -price the
  price is asked to the configured oracle, and is 0 when it is unavailable.
`
}

func (c *addStockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Ticker symbol (required)")
	f.StringVar(&c.name, "name", "", "Display name, defaults to the symbol")
	f.StringVar(&c.currency, "currency", "", "Trading currency, inferred from the symbol by default")
	f.Float64Var(&c.quantity, "quantity", 0, "Number of shares")
	f.Float64Var(&c.price, "price", math.NaN(), "Unit price, asked to the oracle by default")
}

func (c *addStockCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbol := normalizeSymbol(c.symbol, typedCodeDigits)
	if symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -symbol is required")
		return subcommands.ExitUsageError
	}
	cur := symbolCurrency(symbol)
	if c.currency != "" {
		var ok bool
		if cur, ok = wealth.ParseCurrency(c.currency); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown currency %q\n", c.currency)
			return subcommands.ExitUsageError
		}
	}
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	price := c.price
	if math.IsNaN(price) {
		price = wealth.Price(ctx, cfg.PriceOracle(ctx), symbol)
	}

	e := cfg.Engine()
	acc := wealth.NewStockAccount(symbol, c.name, cur, c.quantity, price)
	p, err := update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return e.AddAccounts(p, acc), nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Added %s (%s) %s × %s = %s. Net worth: %s\n", acc.Symbol, acc.ID[:8],
		renderer.Number(acc.Quantity), renderer.Money(acc.LastPrice, cur), renderer.Money(acc.Balance, cur),
		renderer.Base(e.Value(p).Total))
	return subcommands.ExitSuccess
}

type setCmd struct {
	balance  string
	quantity string
	step     float64
	price    string
	refresh  bool
}

func (*setCmd) Name() string     { return "set" }
func (*setCmd) Synopsis() string { return "change the balance, quantity or price of an account" }
func (*setCmd) Usage() string {
	return `wsnap set [-balance <amount>] [-quantity <n>] [-step <±n>] [-price <price> | -refresh] <account>

  Changes an account, found by id, id prefix, name or symbol, and records the
  net worth of the current month. A quantity never goes below 0.
`
}

func (c *setCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.balance, "balance", "", "New balance of a cash account")
	f.StringVar(&c.quantity, "quantity", "", "New quantity of a stock")
	f.Float64Var(&c.step, "step", 0, "Quantity added to a stock, negative to remove")
	f.StringVar(&c.price, "price", "", "New unit price of a stock")
	f.BoolVar(&c.refresh, "refresh", false, "Ask the oracle for the price of the stock")
}

func (c *setCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one account is required")
		return subcommands.ExitUsageError
	}
	var edits []func(wealth.Account) (wealth.Account, error)
	number := func(s string, apply func(wealth.Account, float64) (wealth.Account, error)) error {
		if s == "" {
			return nil
		}
		v, err := parseAmount(s)
		if err != nil {
			return err
		}
		edits = append(edits, func(a wealth.Account) (wealth.Account, error) { return apply(a, v) })
		return nil
	}
	stockOnly := func(fn func(wealth.Account, float64) wealth.Account) func(wealth.Account, float64) (wealth.Account, error) {
		return func(a wealth.Account, v float64) (wealth.Account, error) {
			if !a.IsStock() {
				return a, fmt.Errorf("%s is not a stock: %w", a.Name, wealth.ErrNotApplicable)
			}
			return fn(a, v), nil
		}
	}
	err := number(c.balance, func(a wealth.Account, v float64) (wealth.Account, error) {
		if !a.IsCash() {
			return a, fmt.Errorf("%s is not a cash account: %w", a.Name, wealth.ErrNotApplicable)
		}
		return a.WithBalance(v), nil
	})
	if err == nil {
		err = number(c.quantity, stockOnly(wealth.Account.WithQuantity))
	}
	if err == nil {
		err = number(c.price, stockOnly(wealth.Account.WithPrice))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.step != 0 {
		step := c.step
		edits = append(edits, func(a wealth.Account) (wealth.Account, error) {
			return stockOnly(wealth.Account.StepQuantity)(a, step)
		})
	}
	if len(edits) == 0 && !c.refresh {
		fmt.Fprintln(os.Stderr, "Error: nothing to change")
		return subcommands.ExitUsageError
	}

	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	e := cfg.Engine()
	var oracle wealth.PriceOracle
	if c.refresh {
		oracle = cfg.PriceOracle(ctx)
	}
	var changed wealth.Account
	p, err := update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		acc, err := resolveAccount(p, f.Arg(0))
		if err != nil {
			return p, err
		}
		if c.refresh && acc.IsStock() {
			price := wealth.Price(ctx, oracle, acc.Symbol)
			edits = append(edits, func(a wealth.Account) (wealth.Account, error) { return a.WithPrice(price), nil })
		}
		for _, edit := range edits {
			if acc, err = edit(acc); err != nil {
				return p, err
			}
		}
		changed = acc
		return e.UpdateAccount(p, acc.ID, func(wealth.Account) wealth.Account { return acc })
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	changed = changed.Normalized()
	fmt.Printf("✅ %s is now %s. Net worth: %s\n", changed.Name, renderer.Money(changed.Balance, changed.Currency), renderer.Base(e.Value(p).Total))
	return subcommands.ExitSuccess
}

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "delete an account" }
func (*removeCmd) Usage() string {
	return `wsnap remove <account>

  Deletes an account, found by id, id prefix, name or symbol.
`
}

func (*removeCmd) SetFlags(*flag.FlagSet) {}

func (c *removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one account is required")
		return subcommands.ExitUsageError
	}
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	e := cfg.Engine()
	var removed wealth.Account
	_, err := update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		acc, err := resolveAccount(p, f.Arg(0))
		if err != nil {
			return p, err
		}
		removed = acc
		return e.RemoveAccount(p, acc.ID)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Removed %s\n", removed.Name)
	return subcommands.ExitSuccess
}

// parseAmount parses a number, accepting thousands separators.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
