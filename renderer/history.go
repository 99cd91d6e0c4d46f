package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/mileage"
	md "github.com/nao1215/markdown"
)

// History renders the full qualification history, one row per cycle.
func History(r *mileage.HistoryReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Qualification history")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Cycle", "Start", "XP", "Achieved", "Actual", "UXP"},
		Rows:   [][]string{},
	}
	for _, c := range r.Cycles {
		actual := status(c.ActualStatus)
		if c.UltimateAchieved {
			actual = status(mileage.Ultimate)
		}
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", c.Year),
			status(c.StartingStatus),
			points(c.XP),
			status(c.AchievedStatus),
			actual,
			points(c.UXP),
		})
	}
	doc.Table(table)

	return doc.String()
}
