// Package wealth is the valuation and snapshot engine of a personal
// wealth tracker.
//
// It values cash accounts, stock positions and fixed deposits held in HKD,
// USD or AUD in a single base currency, keeps a month-keyed history of the
// total net worth, runs the fixed deposit lifecycle (accrual, rollover and
// settlement) and derives the analytics shown to the user: moving average,
// goal progress, maturity projection and passive income.
//
// The core is made of pure functions over the Portfolio value: a caller
// holds the current state, asks the Engine for a transition and stores the
// returned Portfolio. External collaborators (price oracle, statement
// extractor, remote ledger mirror) are interfaces whose outputs are
// validated before they reach the portfolio.
//
// This package serves as the foundational logic for the `wsnap` command-line
// tool and its local HTTP API.
package wealth
