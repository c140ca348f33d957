package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		from, to CalendarDate
		want     Span
	}{
		{"same day", date(2024, 6, 15), date(2024, 6, 15), Span{}},
		{"exact years", date(1990, 6, 15), date(2024, 6, 15), Span{34, 0, 0}},
		{"ninety years", date(1930, 3, 10), date(2020, 3, 10), Span{90, 0, 0}},
		{"crossing a short month", date(2020, 1, 31), date(2020, 3, 1), Span{0, 1, 1}},
		{"clamped month then days", date(2020, 1, 30), date(2020, 3, 1), Span{0, 1, 1}},
		{"clamped month in a non-leap year", date(2021, 1, 30), date(2021, 3, 1), Span{0, 1, 1}},
		{"leap day to non-leap anniversary eve", date(2000, 2, 29), date(2001, 2, 28), Span{0, 11, 30}},
		{"leap day to Mar 1", date(2000, 2, 29), date(2001, 3, 1), Span{1, 0, 1}},
		{"day borrow", date(1990, 6, 20), date(2024, 6, 15), Span{33, 11, 26}},
		{"month borrow", date(1990, 9, 1), date(2024, 6, 1), Span{33, 9, 0}},
		{"year boundary", date(2023, 12, 31), date(2024, 1, 1), Span{0, 0, 1}},
		{"end of month to end of month", date(2021, 1, 31), date(2021, 2, 28), Span{0, 0, 28}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.from, tt.to)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.Negative())
		})
	}
}

// TestDiff_Reproduces checks that advancing from by the span lands on to.
func TestDiff_Reproduces(t *testing.T) {
	from := date(1988, 1, 31)
	for to := from; to.Before(date(1990, 1, 1)); to = to.AddDays(7) {
		s := Diff(from, to)
		got := from.addMonthsClamped(s.Years*12 + s.Months).AddDays(s.Days)
		assert.Equal(t, to, got, "Diff(%s, %s) = %+v", from, to, s)
	}
}

func TestDiff_ReversedIsSigned(t *testing.T) {
	s := Diff(date(2024, 6, 15), date(1990, 6, 15))
	assert.Equal(t, Span{-34, 0, 0}, s)
	assert.True(t, s.Negative())

	s = Diff(date(2020, 3, 1), date(2020, 1, 31))
	assert.Equal(t, Span{0, -1, -1}, s)
}

func TestFormatSpan(t *testing.T) {
	tests := []struct {
		span Span
		want string
	}{
		{Span{34, 0, 0}, "34 years, 0 months, 0 days"},
		{Span{1, 1, 1}, "1 year, 1 month, 1 day"},
		{Span{0, 11, 30}, "0 years, 11 months, 30 days"},
		{Span{2, 1, 0}, "2 years, 1 month, 0 days"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSpan(tt.span))
			assert.Equal(t, tt.want, tt.span.String())
		})
	}

	assert.Equal(t, "—", FormatAge(Span{}, false))
}
