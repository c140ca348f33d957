package engine_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func TestCalendarGenerator_Generate(t *testing.T) {
	gen := &engine.CalendarGenerator{
		Clock: MockClock{CurrentTime: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
	}

	people := []engine.PersonRecord{
		{Name: "John Doe", Birthdate: "2000-01-01"},
		{Name: "Grace", Birthdate: "1930-03-10", Passed: "2020-03-10"},
		{Name: "No Date"},
	}

	ics, today, err := gen.Generate(context.Background(), people)
	require.NoError(t, err)
	assert.Equal(t, 1, today)

	s := string(ics)
	assert.Contains(t, s, "BEGIN:VCALENDAR")
	assert.Contains(t, s, "X-WR-CALNAME:"+config.ICalCalName)
	assert.NotContains(t, s, "X-WR-CALNAME;VALUE=TEXT")
	assert.Contains(t, s, "SUMMARY:Birthday: John Doe (25)")
	assert.Contains(t, s, "SUMMARY:Birthday: John Doe (24)")
	assert.Contains(t, s, "SUMMARY:Remembering Grace (would have turned 95)")
	assert.Contains(t, s, "DTSTART;VALUE=DATE:20250101")

	// Three years per dated person.
	assert.Equal(t, 6, strings.Count(s, "BEGIN:VEVENT"))
}

func TestCalendarGenerator_NoEventsBeforeBirth(t *testing.T) {
	gen := &engine.CalendarGenerator{
		Clock: MockClock{CurrentTime: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	ics, _, err := gen.Generate(context.Background(), []engine.PersonRecord{{Name: "Baby", Birthdate: "2025-02-01"}})
	require.NoError(t, err)

	s := string(ics)
	assert.Equal(t, 2, strings.Count(s, "BEGIN:VEVENT"), "No event for 2024")
	assert.Contains(t, s, "SUMMARY:Birthday: Baby (birth)")
	assert.Contains(t, s, "SUMMARY:Birthday: Baby (1)")
}

func TestCalendarGenerator_EmptyRoster(t *testing.T) {
	gen := &engine.CalendarGenerator{Clock: engine.RealClock{}}

	ics, count, err := gen.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, config.StubVCalendar, string(ics))
}

func TestCalendarGenerator_CustomSummary(t *testing.T) {
	gen := &engine.CalendarGenerator{
		Clock: MockClock{CurrentTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		FormatSummary: func(row engine.ComputedRow, age int) string {
			return fmt.Sprintf("Anniversaire de %s", row.Name)
		},
	}

	ics, _, err := gen.Generate(context.Background(), []engine.PersonRecord{{Name: "Zoé", Birthdate: "2000-05-05"}})
	require.NoError(t, err)
	assert.Contains(t, string(ics), "SUMMARY:Anniversaire de Zoé")
}

func TestCalendarGenerator_Cancelled(t *testing.T) {
	gen := &engine.CalendarGenerator{Clock: engine.RealClock{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := gen.Generate(ctx, []engine.PersonRecord{{Name: "A", Birthdate: "2000-01-01"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsMemorial(t *testing.T) {
	today := engine.CalendarDate{Year: 2025, Month: time.June, Day: 1}
	row := engine.ComputeRow(engine.PersonRecord{Birthdate: "1930-03-10", Passed: "2020-01-01"}, today)

	assert.False(t, engine.IsMemorial(row, 89), "Birthday in 2019 was lived")
	assert.True(t, engine.IsMemorial(row, 90), "Birthday in 2020 came after death")

	alive := engine.ComputeRow(engine.PersonRecord{Birthdate: "1930-03-10"}, today)
	assert.False(t, engine.IsMemorial(alive, 95))
}
