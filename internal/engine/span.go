package engine

import (
	"fmt"
	"strings"

	"github.com/tartampluch/go-cousins/internal/config"
)

// Span is a whole-unit calendar distance. When computed by Diff with from <= to,
// every field is non-negative; a reversed Diff negates every field.
type Span struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// Diff computes the years, months and days that take from to to: advancing from by
// Years, then Months (clamping to the month's last day), then Days lands exactly on to.
//
// The day borrow counts the days of the month preceding to's month, so
// Diff(2020-01-31, 2020-03-01) is 0y 1m 1d and Diff(2000-02-29, 2001-02-28) is 0y 11m 30d.
func Diff(from, to CalendarDate) Span {
	if to.Before(from) {
		s := Diff(to, from)
		return Span{Years: -s.Years, Months: -s.Months, Days: -s.Days}
	}

	months := (to.Year-from.Year)*12 + int(to.Month) - int(from.Month)
	if to.Day < from.Day {
		months--
	}
	anchor := from.addMonthsClamped(months)

	return Span{
		Years:  months / 12,
		Months: months % 12,
		Days:   anchor.DaysUntil(to),
	}
}

// IsZero reports whether the span is empty.
func (s Span) IsZero() bool {
	return s == Span{}
}

// Negative reports whether the span came from a reversed Diff.
func (s Span) Negative() bool {
	return s.Years < 0 || s.Months < 0 || s.Days < 0
}

// String renders the span as "Y year(s), M month(s), D day(s)".
func (s Span) String() string {
	return FormatSpan(s)
}

// FormatSpan renders "34 years, 0 months, 1 day" with English pluralization.
func FormatSpan(s Span) string {
	parts := []string{
		pluralize(s.Years, config.UnitYear),
		pluralize(s.Months, config.UnitMonth),
		pluralize(s.Days, config.UnitDay),
	}
	return strings.Join(parts, config.SpanSep)
}

// FormatAge renders the span, or the unknown placeholder when known is false.
func FormatAge(s Span, known bool) string {
	if !known {
		return config.PlaceholderUnknown
	}
	return FormatSpan(s)
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
