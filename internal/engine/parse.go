package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-cousins/internal/config"
)

// genericLayouts are tried, in order, for strings that are not canonical YYYY-MM-DD.
var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"20060102",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Mon, Jan 2, 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate turns a native time, a string or a spreadsheet serial into a calendar
// date using the host's local timezone. ok is false for empty or unparseable input.
func ParseDate(v any) (CalendarDate, bool) {
	return ParseDateIn(v, time.Local)
}

// ParseDateIn is ParseDate with an explicit location for generic instants.
func ParseDateIn(v any, loc *time.Location) (CalendarDate, bool) {
	switch x := v.(type) {
	case nil:
		return CalendarDate{}, false
	case CalendarDate:
		return x, !x.IsZero()
	case time.Time:
		if x.IsZero() {
			return CalendarDate{}, false
		}
		return DateOf(x), true
	case *time.Time:
		if x == nil {
			return CalendarDate{}, false
		}
		return ParseDateIn(*x, loc)
	case string:
		return parseDateString(x, loc)
	case float64:
		return FromSerial(x)
	case float32:
		return FromSerial(float64(x))
	case int:
		return FromSerial(float64(x))
	case int64:
		return FromSerial(float64(x))
	case int32:
		return FromSerial(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return CalendarDate{}, false
		}
		return FromSerial(f)
	default:
		return CalendarDate{}, false
	}
}

// FromSerial converts a spreadsheet serial (days since 1899-12-30) to a calendar date.
// Any fractional time-of-day is floored away.
func FromSerial(serial float64) (CalendarDate, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return CalendarDate{}, false
	}
	days := math.Floor(serial)
	if math.Abs(days) > config.MaxSerialDays {
		return CalendarDate{}, false
	}
	return spreadsheetEpoch().AddDays(int(days)), true
}

func spreadsheetEpoch() CalendarDate {
	return CalendarDate{
		Year:  config.SpreadsheetEpochYear,
		Month: config.SpreadsheetEpochMonth,
		Day:   config.SpreadsheetEpochDay,
	}
}

func parseDateString(s string, loc *time.Location) (CalendarDate, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CalendarDate{}, false
	}
	// Canonical dates are built from their components and never touch a zone.
	if isISODate(s) {
		return parseISO(s)
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range genericLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return DateOf(t.In(loc)), true
		}
	}
	return CalendarDate{}, false
}

// isISODate reports whether s has the exact YYYY-MM-DD shape.
func isISODate(s string) bool {
	if len(s) != len(config.DateFormatISO) || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i == 4 || i == 7 {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseISO(s string) (CalendarDate, bool) {
	if !isISODate(s) {
		return CalendarDate{}, false
	}
	y, _ := strconv.Atoi(s[0:4])
	m, _ := strconv.Atoi(s[5:7])
	d, _ := strconv.Atoi(s[8:10])
	return NewCalendarDate(y, time.Month(m), d)
}
