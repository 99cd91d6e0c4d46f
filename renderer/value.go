package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/mileage"
	md "github.com/nao1215/markdown"
)

// Value renders the balance valuation, with the probed fare value when one
// was observed.
func Value(r *mileage.ValueReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Miles value")
	doc.PlainText(fmt.Sprintf("Balance of %s miles.", miles(r.Balance)))

	rows := [][]string{}
	if !r.TargetValue.IsZero() {
		rows = append(rows, []string{"Target", r.TargetValue.String(), r.Value.String()})
	}
	if !r.ProbeValue.IsZero() {
		rows = append(rows, []string{r.ProbeName, r.ProbeValue.String(), r.ProbeTotal.String()})
	}
	if len(rows) == 0 {
		doc.PlainText("No target value set and no fare probe reachable.")
		return doc.String()
	}

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Source", "Per mile", "Balance worth"},
		Rows:      rows,
	})
	return doc.String()
}
