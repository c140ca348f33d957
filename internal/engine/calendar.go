package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-cousins/internal/config"
)

// CalendarGenerator renders the roster as an iCalendar feed of yearly birthdays.
type CalendarGenerator struct {
	Clock Clock

	// FormatSummary allows the caller to inject localized strings.
	// age is the age reached in the event's year.
	FormatSummary func(row ComputedRow, age int) string
}

// Generate builds the feed and reports how many birthdays fall today.
func (g *CalendarGenerator) Generate(ctx context.Context, people []PersonRecord) ([]byte, int, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompEngine)

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)

	// Set raw: SetText adds VALUE=TEXT to X- properties.
	nameProp := ical.NewProp(config.PropXWRCalName)
	nameProp.Value = config.ICalCalName
	cal.Props.Set(nameProp)

	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Local time decides "today"; UTC is only used for the DTSTAMP.
	now := g.Clock.Now()
	today := DateOf(now)
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	stats := struct{ processed, withBday, today int }{}

	for _, row := range ComputeRows(people, today) {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		stats.processed++
		if row.Birth.IsZero() {
			continue
		}
		stats.withBday++

		if row.IsBirthdayToday {
			stats.today++
			log.Info(config.MsgBdayToday,
				config.LogKeyName, row.Name,
				config.LogKeyDOB, row.Birth.String())
		}

		for _, e := range g.createEvents(row, today) {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	g.logSuccess(stats)
	log.Debug("Calendar finished", config.LogKeyDuration, time.Since(start).Milliseconds())

	// An empty VCALENDAR keeps clients from flagging the feed as invalid.
	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), stats.today, nil
}

func (g *CalendarGenerator) logSuccess(stats struct{ processed, withBday, today int }) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyFound, stats.withBday),
			slog.Int(config.LogKeyToday, stats.today),
		),
	)
}

// createEvents generates all-day events for the previous, current and next year,
// never before the birth year.
func (g *CalendarGenerator) createEvents(row ComputedRow, today CalendarDate) []*ical.Event {
	var events []*ical.Event

	for _, y := range []int{today.Year - 1, today.Year, today.Year + 1} {
		if y < row.Birth.Year {
			continue
		}
		age := y - row.Birth.Year

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, row.ID, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, g.summary(row, age))

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(observedBirthday(row.Birth, y).Time())
		event.Props.Set(dtStartProp)

		events = append(events, event)
	}
	return events
}

func (g *CalendarGenerator) summary(row ComputedRow, age int) string {
	if g.FormatSummary != nil {
		if s := g.FormatSummary(row, age); s != "" {
			return s
		}
	}
	return DefaultSummary(row, age)
}

// DefaultSummary is the English event title.
func DefaultSummary(row ComputedRow, age int) string {
	name := row.Name
	if name == "" {
		name = config.FallbackName
	}
	switch {
	case IsMemorial(row, age):
		return fmt.Sprintf(config.FallbackSummaryMemorial, name, age)
	case age == 0:
		return fmt.Sprintf(config.FallbackSummaryBirth, name)
	default:
		return fmt.Sprintf(config.FallbackSummaryAge, name, age)
	}
}

// IsMemorial reports whether the birthday at the given age falls after the person passed.
func IsMemorial(row ComputedRow, age int) bool {
	if !row.Deceased() || row.Birth.IsZero() {
		return false
	}
	return observedBirthday(row.Birth, row.Birth.Year+age).After(row.PassedEffective)
}
