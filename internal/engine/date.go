package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tartampluch/go-cousins/internal/config"
)

const secondsPerDay = 24 * 60 * 60

// CalendarDate is a year/month/day triple with no time-of-day and no timezone.
// The zero value means "unknown date".
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCalendarDate validates the triple against the proleptic Gregorian calendar.
func NewCalendarDate(year int, month time.Month, day int) (CalendarDate, bool) {
	if month < time.January || month > time.December {
		return CalendarDate{}, false
	}
	if day < 1 || day > DaysIn(year, month) {
		return CalendarDate{}, false
	}
	return CalendarDate{Year: year, Month: month, Day: day}, true
}

// DateOf returns the calendar date of t in t's own location, dropping time-of-day.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// DaysIn returns the number of days in the month. Month 0 is December of the previous year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsZero reports whether the date is unknown.
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// Time returns midnight UTC of the date. UTC keeps day arithmetic free of DST gaps.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In returns local midnight of the date in loc.
func (d CalendarDate) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String renders YYYY-MM-DD, or the empty string for an unknown date.
func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare returns -1, 0 or +1.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Before reports whether d is strictly earlier than o.
func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly later than o.
func (d CalendarDate) After(o CalendarDate) bool { return d.Compare(o) > 0 }

// SameDay reports whether both dates fall on the same month and day, ignoring the year.
func (d CalendarDate) SameDay(o CalendarDate) bool {
	return d.Month == o.Month && d.Day == o.Day
}

// AddDays moves the date by n days.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// DaysUntil returns the signed number of days from d to o.
func (d CalendarDate) DaysUntil(o CalendarDate) int {
	return int((o.Time().Unix() - d.Time().Unix()) / secondsPerDay)
}

// addMonthsClamped advances by n months, clamping the day to the end of the target month.
func (d CalendarDate) addMonthsClamped(n int) CalendarDate {
	total := d.Year*12 + int(d.Month) - 1 + n
	year, month := floorDiv(total, 12), time.Month(floorMod(total, 12)+1)
	return CalendarDate{Year: year, Month: month, Day: min(d.Day, DaysIn(year, month))}
}

// MarshalJSON renders "YYYY-MM-DD" or null.
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null or a canonical date string.
func (d *CalendarDate) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = CalendarDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = CalendarDate{}
		return nil
	}
	parsed, ok := parseISO(s)
	if !ok {
		return fmt.Errorf("invalid calendar date %q, want %s", s, config.DateFormatISO)
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
