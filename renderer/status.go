package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/mileage"
	md "github.com/nao1215/markdown"
)

// Status renders the current qualification cycle report.
func Status(r *mileage.StatusReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	c := r.Cycle
	doc.H1(fmt.Sprintf("Qualification %d", c.Year))
	doc.PlainText(fmt.Sprintf("Cycle %s to %s", c.Range.From, c.Range.To))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"", "Value"},
		Rows: [][]string{
			{"Starting status", status(c.StartingStatus)},
			{"XP", points(c.XP)},
			{"Achieved status", status(c.AchievedStatus)},
			{"Current status", status(c.Tier())},
			{"UXP", points(c.UXP)},
			{"Miles balance", miles(r.Balance)},
		},
	}
	doc.Table(table)

	if r.HasNext {
		doc.PlainText(fmt.Sprintf("%s at %d XP: %d XP to go (%s of the way).",
			status(r.NextStatus), r.NeededXP, r.NeededXP-c.XP, c.Progress()))
	} else {
		doc.PlainText("Top of the XP ladder for this cycle.")
	}

	return doc.String()
}
