package cmd

import (
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/etnz/wealth"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes cmd with args against the state file of t.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return cmd.Execute(context.Background(), f)
}

// state points the commands to a fresh state file and returns its store.
func state(t *testing.T) wealth.FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wealth.json")
	t.Setenv(EnvStateFile, path)
	t.Setenv(EnvOracle, OracleNone)
	t.Setenv(EnvMirrorURL, "")
	t.Setenv(EnvConvertOnSettle, "")
	t.Setenv(EnvUSDRate, "")
	t.Setenv(EnvAUDRate, "")
	return wealth.FileStore{Path: path}
}

func TestAccountCommands(t *testing.T) {
	s := state(t)

	assert.Equal(t, subcommands.ExitSuccess, run(t, &addCashCmd{}, "-name", "HSBC Savings", "-currency", "HKD", "-balance", "100000"))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &addCashCmd{}, "-name", "Wise", "-currency", "usd", "-balance", "1000"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &addCashCmd{}, "-currency", "EUR"))

	p, err := s.Load()
	require.NoError(t, err)
	require.Len(t, p.Accounts, 2)
	require.Len(t, p.History, 1)
	assert.Equal(t, int64(107800), p.History[0].TotalValueHKD)

	assert.Equal(t, subcommands.ExitSuccess, run(t, &addStockCmd{}, "-symbol", "700", "-quantity", "100", "-price", "300"))
	p, err = s.Load()
	require.NoError(t, err)
	stock := p.Accounts[2]
	assert.Equal(t, "00700.HK", stock.Symbol)
	assert.Equal(t, wealth.HKD, stock.Currency)
	assert.Equal(t, 30000.0, stock.Balance)
	assert.Equal(t, int64(137800), p.History[0].TotalValueHKD)

	assert.Equal(t, subcommands.ExitSuccess, run(t, &setCmd{}, "-step", "-200", "00700.HK"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &setCmd{}, "-balance", "5", "00700.HK"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &setCmd{}, "00700.HK"))
	p, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Accounts[2].Quantity)
	assert.Equal(t, 0.0, p.Accounts[2].Balance)

	assert.Equal(t, subcommands.ExitSuccess, run(t, &setCmd{}, "-balance", "2,000", "wise"))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &removeCmd{}, "00700.HK"))
	p, err = s.Load()
	require.NoError(t, err)
	assert.Len(t, p.Accounts, 2)
	assert.Equal(t, int64(115600), p.History[0].TotalValueHKD)
}

func TestDepositCommands(t *testing.T) {
	s := state(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCashCmd{}, "-name", "HSBC Savings", "-balance", "100000"))

	assert.Equal(t, subcommands.ExitUsageError, run(t, &fdAddCmd{}, "-principal", "1000"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &fdAddCmd{}, "-bank", "BOC", "-principal", "0"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &fdAddCmd{}, "-bank", "HSBC", "-principal", "10000", "-rate", "4", "-maturity", "-1d"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &fdAddCmd{}, "-bank", "BOC", "-principal", "5000", "-rate", "3", "-maturity", "+6m"))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &fdListCmd{}))

	// not matured
	assert.Equal(t, subcommands.ExitFailure, run(t, &settleCmd{}, "BOC"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &rolloverCmd{}, "-months", "5", "BOC"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &rolloverCmd{}, "-interest", "50", "-rate", "3.5", "BOC"))

	require.Equal(t, subcommands.ExitSuccess, run(t, &settleCmd{}, "HSBC"))
	p, err := s.Load()
	require.NoError(t, err)
	require.Len(t, p.FixedDeposits, 1)
	assert.Equal(t, "BOC", p.FixedDeposits[0].BankName)
	assert.Equal(t, 5050.0, p.FixedDeposits[0].Principal)
	assert.Equal(t, 3.5, p.FixedDeposits[0].InterestRate)
	assert.Equal(t, 110100.0, p.Accounts[0].Balance)

	assert.Equal(t, subcommands.ExitSuccess, run(t, &fdRemoveCmd{}, "BOC"))
	p, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, p.FixedDeposits)
	assert.Equal(t, 110100.0, p.Accounts[0].Balance)
}

func TestFdEstimate(t *testing.T) {
	state(t)
	assert.Equal(t, subcommands.ExitSuccess, run(t, &fdEstimateCmd{}, "-principal", "100000", "-rate", "3.65", "-start", "2024-01-01", "-maturity", "2024-04-01"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &fdEstimateCmd{}, "-maturity", "soon"))
}

func TestGoalAndReports(t *testing.T) {
	s := state(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCashCmd{}, "-balance", "500000"))

	assert.Equal(t, subcommands.ExitSuccess, run(t, &goalCmd{}, "1000000"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &goalCmd{}, "0"))
	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 1_000_000.0, p.WealthGoal)
	assert.Equal(t, 50, wealth.GoalProgress(p.History, p.Goal()))

	for _, cmd := range []subcommands.Command{&overviewCmd{}, &insightsCmd{}, &historyCmd{}, &snapshotCmd{}} {
		assert.Equal(t, subcommands.ExitSuccess, run(t, cmd), cmd.Name())
	}
	assert.Equal(t, subcommands.ExitSuccess, run(t, &historyCmd{}, "-csv"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &syncCmd{}))
}

func TestPrepareAssets(t *testing.T) {
	got := prepareAssets([]wealth.ExtractedAsset{
		{Category: wealth.CategoryStock, Symbol: "9988", Amount: 10},
		{Category: wealth.CategoryStock, Symbol: "cba.ax", Amount: 5, Currency: "AUD"},
		{Category: wealth.CategoryCash, Institution: "HSBC", Amount: 100},
	})
	assert.Equal(t, "09988.HK", got[0].Symbol)
	assert.Equal(t, "HKD", got[0].Currency)
	assert.Equal(t, "CBA.AX", got[1].Symbol)
	assert.Equal(t, "", got[2].Currency)
}

func TestCommandsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, cmds := range Commands() {
		for _, c := range cmds {
			assert.False(t, seen[c.Name()], "duplicate command %s", c.Name())
			seen[c.Name()] = true
		}
	}
	assert.Len(t, seen, 20)
}

type mirrorFunc func([]wealth.MirrorAsset) (wealth.MirrorResult, error)

func (f mirrorFunc) Push(_ context.Context, assets []wealth.MirrorAsset) (wealth.MirrorResult, error) {
	return f(assets)
}

func TestSync(t *testing.T) {
	s := state(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &addStockCmd{}, "-symbol", "700", "-quantity", "100", "-price", "300"))
	cfg, err := LoadConfig()
	require.NoError(t, err)

	refused := mirrorFunc(func([]wealth.MirrorAsset) (wealth.MirrorResult, error) {
		return wealth.MirrorResult{Status: "Error", Message: "sheet locked", LatestPrices: map[string]float64{"00700.HK": 1}}, nil
	})
	_, err = sync(context.Background(), cfg, refused)
	assert.ErrorContains(t, err, "sheet locked")
	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 300.0, p.Accounts[0].LastPrice)

	accepted := mirrorFunc(func(assets []wealth.MirrorAsset) (wealth.MirrorResult, error) {
		assert.Len(t, assets, 1)
		return wealth.MirrorResult{Status: "Success", LatestPrices: map[string]float64{"00700.HK": 310}}, nil
	})
	_, err = sync(context.Background(), cfg, accepted)
	require.NoError(t, err)
	p, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, 310.0, p.Accounts[0].LastPrice)
}
