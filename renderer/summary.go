package renderer

import (
	"bytes"

	"github.com/etnz/mileage"
	md "github.com/nao1215/markdown"
)

// Summary renders the month-by-month view of the ledger.
func Summary(r *mileage.SummaryReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Monthly summary")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Month", "Miles", "XP", "UXP", "Manual", "Balance", "Cost"},
		Rows:   [][]string{},
	}
	for _, row := range r.Rows {
		table.Rows = append(table.Rows, []string{
			row.Month.String(),
			miles(row.Miles),
			points(row.XP),
			points(row.UXP),
			points(row.Manual),
			miles(row.Balance),
			row.Cost.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}
