package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/mileage"
	md "github.com/nao1215/markdown"
)

// Balance renders the miles balance by source.
func Balance(r *mileage.BalanceReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Miles balance")

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Source", "Miles"},
		Rows: [][]string{
			{"Subscription", miles(r.Subscription)},
			{"Card", miles(r.Card)},
			{"Flights", miles(r.Flight)},
			{"Other", miles(r.Other)},
			{"Spent", "-" + miles(r.Debit)},
			{"Balance", miles(r.Net)},
		},
	}
	doc.Table(table)

	doc.PlainText(fmt.Sprintf("Acquisition cost %s, average %s per acquired mile.", r.Cost, r.CostPerMile))
	if !r.Value.IsZero() {
		doc.PlainText(fmt.Sprintf("Worth %s at the target value per mile.", r.Value))
	}

	return doc.String()
}
