package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/etnz/wealth"
	md "github.com/nao1215/markdown"
)

// Overview renders the accounts of p with their base currency value and
// the net worth.
func Overview(p wealth.Portfolio, e *wealth.Engine) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	v := e.Value(p)
	doc.H1("Net Worth")
	doc.PlainText(fmt.Sprintf("Total: %s", Base(v.Total)))
	if !p.LastUpdated.IsZero() {
		doc.PlainText(fmt.Sprintf("Last updated: %s", p.LastUpdated.Local().Format(time.DateTime)))
	}

	doc.H2("Accounts")
	if len(p.Accounts) == 0 {
		doc.PlainText("No account yet.")
	} else {
		table := md.TableSet{
			Header: []string{"Name", "Type", "Symbol", "Quantity", "Price", "Balance", "Value (" + string(wealth.Base) + ")", "ID"},
			Rows:   [][]string{},
		}
		for _, a := range p.Accounts {
			quantity, price := "", ""
			if a.IsStock() {
				quantity = Number(a.Quantity)
				price = Money(a.LastPrice, a.Currency)
			}
			table.Rows = append(table.Rows, []string{
				a.Name,
				string(a.Type),
				a.Symbol,
				quantity,
				price,
				Money(a.Balance, a.Currency),
				Base(int64(wealth.Round(e.Rates.ValueOf(a)))),
				a.ID,
			})
		}
		doc.Table(table)
	}

	if len(p.FixedDeposits) > 0 {
		doc.H2("Fixed Deposits")
		doc.PlainText(fmt.Sprintf("%d deposits, %s of principal.", len(p.FixedDeposits), Base(int64(wealth.Round(v.Breakdown.FixedDeposit)))))
	}
	return doc.String()
}
