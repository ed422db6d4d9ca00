package cmd

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type scanCmd struct {
	dryRun bool
	noSync bool
}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "import the holdings of a statement image" }
func (*scanCmd) Usage() string {
	return `wsnap scan [-dry-run] [-no-sync] <image>

  Reads a bank or broker statement with Gemini and adds one account per
  holding found. Stocks are priced with the configured oracle. When a mirror
  is configured the holdings are then pushed to it.
`
}

func (c *scanCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "dry-run", false, "Only print the holdings found")
	f.BoolVar(&c.noSync, "no-sync", false, "Do not push to the mirror")
}

func (c *scanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one image is required")
		return subcommands.ExitUsageError
	}
	image, err := os.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	x, err := cfg.Extractor(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	assets, err := x.ExtractAssets(ctx, image, mimeType(f.Arg(0), image))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read statement: %v\n", err)
		return subcommands.ExitFailure
	}
	assets = wealth.ValidateAssets(prepareAssets(assets))
	for _, a := range assets {
		fmt.Printf("%-5s %-20s %-10s %s %s\n", a.Category, a.Institution, a.Symbol, renderer.Number(a.Amount), a.Currency)
	}
	if len(assets) == 0 {
		fmt.Println("No holdings found.")
		return subcommands.ExitSuccess
	}
	if c.dryRun {
		return subcommands.ExitSuccess
	}

	e := cfg.Engine()
	oracle := cfg.PriceOracle(ctx)
	p, err := update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return e.SaveAccounts(p, e.ImportAssets(ctx, p.Accounts, assets, oracle)), nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Imported %d holdings. Net worth: %s\n", len(assets), renderer.Base(e.Value(p).Total))

	if m := cfg.Mirror(); m != nil && !c.noSync {
		if _, err := sync(ctx, cfg, m); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: saved locally, mirror sync failed: %v\n", err)
		}
	}
	return subcommands.ExitSuccess
}

// prepareAssets normalizes scanned symbols and infers the currency of
// stocks read without one.
func prepareAssets(assets []wealth.ExtractedAsset) []wealth.ExtractedAsset {
	out := make([]wealth.ExtractedAsset, len(assets))
	for i, a := range assets {
		a.Symbol = normalizeSymbol(a.Symbol, scannedCodeDigits)
		if a.Category == wealth.CategoryStock && a.Currency == "" {
			a.Currency = string(symbolCurrency(a.Symbol))
		}
		out[i] = a
	}
	return out
}

func mimeType(name string, content []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return http.DetectContentType(content)
}

type syncCmd struct{}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "push holdings to the mirror and apply its prices" }
func (*syncCmd) Usage() string {
	return `wsnap sync

  Pushes every holding to the spreadsheet mirror configured by
  WSNAP_MIRROR_URL. The latest prices it returns are applied to the stocks.
`
}

func (*syncCmd) SetFlags(*flag.FlagSet) {}

func (*syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	m := cfg.Mirror()
	if m == nil {
		fmt.Fprintf(os.Stderr, "Error: %s is not set\n", EnvMirrorURL)
		return subcommands.ExitUsageError
	}
	res, err := sync(ctx, cfg, m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: local state unchanged, mirror sync failed: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ %s (%d prices). Mirror net worth: %s\n", res.Message, len(res.LatestPrices), renderer.Base(int64(wealth.Round(res.TotalNetWorth))))
	return subcommands.ExitSuccess
}

// sync pushes the stored holdings to m and saves the prices it returns. A
// reply whose status is not a success is an error.
func sync(ctx context.Context, cfg Config, m wealth.LedgerMirror) (wealth.MirrorResult, error) {
	e := cfg.Engine()
	var res wealth.MirrorResult
	_, err := update(cfg, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		out, r, err := e.Sync(ctx, p, m)
		res = r
		return out, err
	})
	if err == nil && !res.OK() {
		err = fmt.Errorf("mirror refused the update: %s %s", res.Status, res.Message)
	}
	return res, err
}
