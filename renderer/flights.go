package renderer

import (
	"bytes"

	"github.com/etnz/mileage"
	md "github.com/nao1215/markdown"
)

// Flights renders the flight list, most recent first.
func Flights(l *mileage.Ledger) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Flights")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Date", "Route", "Airline", "Cabin", "Miles", "XP", "UXP", "Id"},
		Rows:   [][]string{},
	}
	for f := range l.Flights() {
		table.Rows = append(table.Rows, []string{
			f.Date.String(),
			f.Route,
			f.Airline,
			f.Cabin,
			miles(f.EarnedMiles),
			points(f.Points()),
			points(f.UXP),
			f.ID,
		})
	}
	doc.Table(table)

	return doc.String()
}
