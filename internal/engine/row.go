package engine

import "time"

// ComputeRow derives the display attributes of r as of today. It performs no I/O.
func ComputeRow(r PersonRecord, today CalendarDate) ComputedRow {
	row := ComputedRow{
		PersonRecord: r,
		ID:           RowID(r),
		Status:       StatusAlive,
		AgeText:      FormatAge(Span{}, false),
		Gallery:      ResolvePhotos(r),
	}

	birth, _ := ParseDate(r.Birthdate)
	row.Birth = birth

	// A passed date in the future is a data-entry error and is ignored.
	if passed, ok := ParseDate(r.Passed); ok && !passed.After(today) {
		row.PassedEffective = passed
		row.Status = StatusDeceased
	}

	if birth.IsZero() {
		return row
	}

	ref := today
	if row.Deceased() {
		ref = row.PassedEffective
	}
	age := Diff(birth, ref)
	if age.Negative() {
		// Born after the reference date: no age, no birthdays yet.
		return row
	}
	row.Age = age
	row.AgeKnown = true
	row.AgeText = FormatAge(age, true)

	if birth.SameDay(today) {
		if row.Deceased() {
			turned := today.Year - birth.Year
			row.WouldHaveTurned = &turned
		} else {
			row.IsBirthdayToday = true
		}
	}

	row.NextBirthday, _ = NextOccurrence(birth, today)
	return row
}

// ComputeRows maps ComputeRow over records, preserving order.
func ComputeRows(records []PersonRecord, today CalendarDate) []ComputedRow {
	rows := make([]ComputedRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, ComputeRow(r, today))
	}
	return rows
}

// NextOccurrence returns the first birthday on or after today and the age turned on it.
// A Feb 29 birthday is observed on Mar 1 in non-leap years.
func NextOccurrence(birth, today CalendarDate) (CalendarDate, int) {
	candidate := observedBirthday(birth, today.Year)
	if candidate.Before(today) {
		candidate = observedBirthday(birth, today.Year+1)
	}
	return candidate, candidate.Year - birth.Year
}

// observedBirthday relies on time.Date normalizing Feb 29 to Mar 1.
func observedBirthday(birth CalendarDate, year int) CalendarDate {
	return DateOf(time.Date(year, birth.Month, birth.Day, 0, 0, 0, 0, time.UTC))
}
