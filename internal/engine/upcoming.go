package engine

import "sort"

// UpcomingBirthday is a living person's next birthday within a look-ahead window.
type UpcomingBirthday struct {
	Row      ComputedRow  `json:"row"`
	Date     CalendarDate `json:"date"`
	Turning  int          `json:"turning"`
	DaysAway int          `json:"daysAway"`
}

// UpcomingBirthdays lists living rows whose next birthday falls within
// [today, today+withinDays], soonest first, then by name.
func UpcomingBirthdays(rows []ComputedRow, today CalendarDate, withinDays int) []UpcomingBirthday {
	withinDays = max(withinDays, 0)

	var out []UpcomingBirthday
	for _, r := range rows {
		if r.Deceased() || !r.AgeKnown {
			continue
		}
		next, turning := NextOccurrence(r.Birth, today)
		away := today.DaysUntil(next)
		if away > withinDays {
			continue
		}
		out = append(out, UpcomingBirthday{Row: r, Date: next, Turning: turning, DaysAway: away})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Row.Name < out[j].Row.Name
	})
	return out
}
