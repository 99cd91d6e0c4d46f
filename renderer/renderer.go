// Package renderer turns reports into markdown strings.
//
// It holds no business logic: every figure it prints was computed by the
// mileage package; the renderer only lays tables out.
package renderer

import (
	"strconv"
	"strings"

	"github.com/etnz/mileage"
)

// miles formats a miles count with thousands separators, the way statements
// print them.
func miles(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// points formats a qualification point counter.
func points(n int) string { return strconv.Itoa(n) }

// status formats an elite tier with a capital, for table cells.
func status(s mileage.Status) string {
	name := s.String()
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
