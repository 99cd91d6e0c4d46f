package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/mileage"
	md "github.com/nao1215/markdown"
)

// Merge renders what an import actually did.
func Merge(r mileage.MergeReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	title := "Import"
	if r.Source != "" {
		title = fmt.Sprintf("Import from %s", r.Source)
	}
	doc.H1(title)

	lines := []string{
		fmt.Sprintf("%d flight(s) added, %d duplicate(s) skipped", r.FlightsAdded, r.FlightsSkipped),
	}
	if len(r.MonthsReplaced) > 0 {
		lines = append(lines, fmt.Sprintf("miles records replaced for %s", joinMonths(r.MonthsReplaced)))
	}
	if len(r.MonthsFolded) > 0 {
		lines = append(lines, fmt.Sprintf("bonus points folded into %s", joinMonths(r.MonthsFolded)))
	}
	if r.SettingsAdopted {
		lines = append(lines, "qualification settings adopted from the import")
	}
	if r.BackupTaken {
		lines = append(lines, "backup taken, `mqs undo` reverts this import")
	} else {
		lines = append(lines, "no backup taken, this import cannot be undone")
	}
	doc.BulletList(lines...)

	return doc.String()
}

func joinMonths[T fmt.Stringer](months []T) string {
	parts := make([]string, 0, len(months))
	for _, m := range months {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, ", ")
}
