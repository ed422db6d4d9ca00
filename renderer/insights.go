package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/wealth"
	md "github.com/nao1215/markdown"
)

// Insights renders the analytics of a portfolio.
func Insights(ins wealth.Insights) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Insights")

	doc.H2("Distribution")
	if len(ins.Slices) == 0 {
		doc.PlainText("Nothing held yet.")
	} else {
		table := md.TableSet{Header: []string{"Category", "Value", "Share"}, Rows: [][]string{}}
		for _, s := range ins.Slices {
			share := ""
			if ins.Valuation.Total > 0 {
				share = fmt.Sprintf("%.1f%%", float64(s.Value)*100/float64(ins.Valuation.Total))
			}
			table.Rows = append(table.Rows, []string{s.Name, Base(s.Value), share})
		}
		doc.Table(table)
	}

	doc.H2("Goal")
	doc.BulletList(
		fmt.Sprintf("Goal: %s", Base(int64(wealth.Round(ins.Goal)))),
		fmt.Sprintf("Current: %s", Base(ins.CurrentNetWorth)),
		fmt.Sprintf("Progress: %d%%", ins.Progress),
		fmt.Sprintf("Remaining: %s", Base(int64(wealth.Round(ins.Remaining)))),
	)

	if len(ins.Trend) > 0 {
		doc.H2("Trend")
		table := md.TableSet{Header: []string{"Month", "Net Worth", "6M Average", "Benchmark"}, Rows: [][]string{}}
		for _, p := range ins.Trend {
			table.Rows = append(table.Rows, []string{
				p.Date,
				Base(p.Value),
				Base(int64(wealth.Round(p.MovingAverage))),
				Base(int64(wealth.Round(p.Benchmark))),
			})
		}
		doc.Table(table)
	}

	doc.H2("Maturities")
	table := md.TableSet{Header: []string{"Month", "Unlocked"}, Rows: [][]string{}}
	for _, b := range ins.Maturities {
		table.Rows = append(table.Rows, []string{b.Label, Base(b.Amount)})
	}
	doc.Table(table)

	doc.H2("Passive Income")
	doc.BulletList(
		fmt.Sprintf("Deposit interest: %s / month", Base(int64(wealth.Round(ins.Income.Interest)))),
		fmt.Sprintf("Dividends (estimated): %s / month", Base(int64(wealth.Round(ins.Income.Dividends)))),
		fmt.Sprintf("Total: %s / month", Base(int64(wealth.Round(ins.Income.Total)))),
	)
	return doc.String()
}
