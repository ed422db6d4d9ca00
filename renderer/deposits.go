package renderer

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	md "github.com/nao1215/markdown"
)

// Deposits renders the fixed deposits of p sorted by maturity, with their
// status at today.
func Deposits(p wealth.Portfolio, today date.Date) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Fixed Deposits")

	if len(p.FixedDeposits) == 0 {
		doc.PlainText("No fixed deposit.")
		return doc.String()
	}

	deposits := slices.Clone(p.FixedDeposits)
	slices.SortStableFunc(deposits, func(a, b wealth.FixedDeposit) int {
		return a.MaturityDate.Sub(b.MaturityDate)
	})

	table := md.TableSet{
		Header: []string{"Bank", "Principal", "Rate", "Maturity", "Days Left", "Status", "On Maturity", "Auto Roll", "ID"},
		Rows:   [][]string{},
	}
	for _, fd := range deposits {
		autoRoll := ""
		if fd.AutoRoll {
			autoRoll = "yes"
		}
		table.Rows = append(table.Rows, []string{
			fd.BankName,
			Money(fd.Principal, fd.Currency),
			Percent(fd.InterestRate),
			fd.MaturityDate.String(),
			fmt.Sprint(fd.DaysLeft(today)),
			fd.Status(today).String(),
			string(fd.ActionOnMaturity),
			autoRoll,
			fd.ID,
		})
	}
	doc.Table(table)
	return doc.String()
}

// Estimate renders the projected outcome of a new deposit.
func Estimate(principal float64, cur wealth.Currency, rate float64, e wealth.Estimate) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Estimate")
	doc.BulletList(
		fmt.Sprintf("Principal: %s at %s", Money(principal, cur), Percent(rate)),
		fmt.Sprintf("Duration: %d days", e.Days),
		fmt.Sprintf("Interest: %s", Money(e.Interest, cur)),
		fmt.Sprintf("At maturity: %s", Money(e.Total, cur)),
	)
	return doc.String()
}
