package renderer

import (
	"bytes"

	"github.com/etnz/wealth"
	md "github.com/nao1215/markdown"
)

// History renders the monthly net worth series with its moving average.
func History(h wealth.History) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Net Worth History")

	if len(h) == 0 {
		doc.PlainText("No snapshot recorded yet.")
		return doc.String()
	}

	ma := wealth.MovingAverage(h)
	table := md.TableSet{
		Header: []string{"Month", "Net Worth", "6M Average"},
		Rows:   [][]string{},
	}
	for i, p := range h {
		table.Rows = append(table.Rows, []string{
			p.Date,
			Base(p.TotalValueHKD),
			Base(int64(wealth.Round(ma[i]))),
		})
	}
	doc.Table(table)
	return doc.String()
}
