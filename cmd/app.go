// Package cmd implements the wsnap command line application.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wealth"
	"github.com/google/subcommands"
)

// Commands returns every wsnap command by group.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"reports": {
			&overviewCmd{},
			&insightsCmd{},
			&historyCmd{},
			&snapshotCmd{},
			&goalCmd{},
		},
		"accounts": {
			&addCashCmd{},
			&addStockCmd{},
			&setCmd{},
			&removeCmd{},
			&scanCmd{},
			&syncCmd{},
		},
		"deposits": {
			&fdAddCmd{},
			&fdListCmd{},
			&fdEstimateCmd{},
			&fdRemoveCmd{},
			&rolloverCmd{},
			&settleCmd{},
		},
		"tools": {
			&serveCmd{},
			&assistCmd{},
			&topicCmd{},
		},
	}
}

// Register the subcommands.
// A main package calls Register, then Execute on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var stateFile = flag.String("state-file", "", "Path to the JSON state file (default $WSNAP_STATE_FILE or wealth.json)")

// Verbose turns on debug logs.
var Verbose = flag.Bool("v", false, "Verbose output")

// store returns the configured state file.
func store(cfg Config) wealth.FileStore { return wealth.FileStore{Path: cfg.StateFile} }

// update loads the state, applies fn and saves the result.
func update(cfg Config, fn func(wealth.Portfolio) (wealth.Portfolio, error)) (wealth.Portfolio, error) {
	return wealth.NewGuard(store(cfg)).Update(fn)
}

// setup loads the configuration and the logger, reporting errors on stderr.
func setup() (Config, bool) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return cfg, false
	}
	setupLogger(cfg.LogLevel, *Verbose)
	return cfg, true
}
