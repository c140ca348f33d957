package ui

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
)

var testToday = engine.CalendarDate{Year: 2024, Month: time.June, Day: 15}

func TestTranslator_Languages(t *testing.T) {
	tr := NewTranslator()
	assert.ElementsMatch(t, config.SupportedLanguages, tr.Languages())
}

func TestTranslator_Localizer(t *testing.T) {
	tr := NewTranslator()

	tests := []struct {
		name  string
		prefs []string
		want  string
	}{
		{"Default", nil, "en"},
		{"Explicit", []string{"fr"}, "fr"},
		{"Region", []string{"fr-CA"}, "fr"},
		{"AcceptLanguage", []string{"de-DE,fr;q=0.8,en;q=0.5"}, "fr"},
		{"Unknown", []string{"xx"}, "en"},
		{"FirstWins", []string{"", "en", "fr"}, "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Localizer(tt.prefs...).Lang())
		})
	}
}

func TestLocalizer_SpanMatchesEngine(t *testing.T) {
	l := NewTranslator().Localizer("en")

	spans := []engine.Span{
		{Years: 34},
		{Years: 1, Months: 1, Days: 1},
		{Years: 0, Months: 11, Days: 30},
	}
	for _, s := range spans {
		assert.Equal(t, engine.FormatSpan(s), l.Span(s))
	}
}

func TestLocalizer_French(t *testing.T) {
	l := NewTranslator().Localizer("fr")

	assert.Equal(t, "90 ans, 0 mois, 1 jour", l.Span(engine.Span{Years: 90, Days: 1}))
	assert.Equal(t, "15/06/2024", l.Date(testToday))
	assert.Equal(t, "Vivant", l.Msg(config.TKeyStatusAlive))
}

func TestLocalizer_Fallbacks(t *testing.T) {
	l := NewTranslator().Localizer("en")

	assert.Equal(t, "missing_key", l.Msg("missing_key"))
	assert.Equal(t, config.PlaceholderUnknown, l.Date(engine.CalendarDate{}))
	assert.Equal(t, "Jun 15, 2024", l.Date(testToday))

	var nilLoc *Localizer
	assert.Equal(t, config.TKeyPageTitle, nilLoc.Msg(config.TKeyPageTitle))
}

func TestLocalizer_Age(t *testing.T) {
	l := NewTranslator().Localizer("en")

	alive := engine.ComputeRow(engine.PersonRecord{Birthdate: "1990-06-15"}, testToday)
	assert.Equal(t, "34 years, 0 months, 0 days", l.Age(alive))

	unknown := engine.ComputeRow(engine.PersonRecord{Name: "No date"}, testToday)
	assert.Equal(t, config.PlaceholderUnknown, l.Age(unknown))

	unborn := engine.ComputeRow(engine.PersonRecord{Birthdate: "2030-01-01"}, testToday)
	assert.Equal(t, config.PlaceholderUnknown, l.Age(unborn))
}

func TestLocalizer_EventSummary(t *testing.T) {
	en := NewTranslator().Localizer("en")
	fr := NewTranslator().Localizer("fr")

	grace := engine.ComputeRow(engine.PersonRecord{Name: "Grace", Birthdate: "1930-03-10", Passed: "2020-03-10"}, testToday)
	ada := engine.ComputeRow(engine.PersonRecord{Birthdate: "1990-06-15"}, testToday)

	// English output matches the built-in summaries.
	assert.Equal(t, engine.DefaultSummary(grace, 94), en.EventSummary(grace, 94))
	assert.Equal(t, engine.DefaultSummary(grace, 90), en.EventSummary(grace, 90))
	assert.Equal(t, engine.DefaultSummary(ada, 0), en.EventSummary(ada, 0))
	assert.Equal(t, "Birthday: Unnamed (34)", en.EventSummary(ada, 34))

	assert.Equal(t, "En mémoire de Grace (aurait eu 94 ans)", fr.EventSummary(grace, 94))
}

func samplePage(t *testing.T, prefs ...string) PageView {
	t.Helper()
	l := NewTranslator().Localizer(prefs...)

	rows := engine.ComputeRows([]engine.PersonRecord{
		{Name: "Ada", Birthdate: "1990-06-15", Photos: []string{"a1.jpg", "a2.jpg"}, Phone: "555-0100"},
		{Name: "Grace", Birthdate: "1930-06-15", Passed: "2020-03-10", Tribute: "Always <kind>"},
		{Birthdate: "bogus"},
	}, testToday)

	return BuildView(l, PageInput{
		Today:         testToday,
		Rows:          rows,
		Total:         5,
		Options:       engine.FilterOptions{ShowDeceased: true, Query: "a", OldestFirst: true},
		Announcements: []engine.AnnouncementEntry{{Text: "Reunion", Date: testToday, Location: "Hall", Pinned: true}},
		Upcoming:      engine.UpcomingBirthdays(rows, testToday, 30),
		Languages:     config.SupportedLanguages,
		Photo: func(id string) (string, bool) {
			if id == rows[0].ID {
				return "a2.jpg", true
			}
			return "", false
		},
	})
}

func TestBuildView(t *testing.T) {
	v := samplePage(t, "en")

	assert.Equal(t, "en", v.Lang)
	assert.Equal(t, "As of Jun 15, 2024", v.AsOf)
	assert.Equal(t, "Shown: 3 / 5", v.Shown)
	require.Len(t, v.Cards, 3)

	ada := v.Cards[0]
	assert.Equal(t, "a2.jpg", ada.Photo, "Carousel photo wins")
	assert.Equal(t, 2, ada.PhotoCount)
	assert.Equal(t, "Current age", ada.AgeLabel)
	assert.Equal(t, "Living", ada.Status)
	assert.Equal(t, "Happy birthday, Ada!", ada.Banner)
	assert.Empty(t, ada.Memorial)

	grace := v.Cards[1]
	assert.Equal(t, "Age at death", grace.AgeLabel)
	assert.Equal(t, "Deceased", grace.Status)
	assert.Equal(t, "deceased", grace.StatusClass)
	assert.Equal(t, "Mar 10, 2020", grace.Passed)
	assert.Equal(t, "Would have turned 94 today", grace.Memorial)
	assert.Empty(t, grace.Banner)

	unnamed := v.Cards[2]
	assert.Equal(t, "Unnamed", unnamed.Name)
	assert.Equal(t, config.PlaceholderUnknown, unnamed.Born)
	assert.Equal(t, config.PlaceholderUnknown, unnamed.AgeText)

	require.Len(t, v.Upcoming, 1)
	assert.Equal(t, "Ada turns 34 on Jun 15, 2024", v.Upcoming[0].Text)
	assert.Equal(t, "today", v.Upcoming[0].When)

	require.Len(t, v.Announcements, 1)
	assert.Equal(t, "Jun 15, 2024", v.Announcements[0].Date)
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, samplePage(t, "en")))
	html := buf.String()

	assert.Contains(t, html, `<html lang="en">`)
	assert.Contains(t, html, "Happy birthday, Ada!")
	assert.Contains(t, html, "Always &lt;kind&gt;", "Text is escaped")
	assert.Contains(t, html, `value="a"`, "Query is kept in the search box")
	assert.Contains(t, html, "/api/photos/")
	assert.Contains(t, html, "Reunion")
	assert.NotContains(t, html, "No one matches")
}

func TestRenderer_EmptyState(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)

	l := NewTranslator().Localizer("fr")
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, BuildView(l, PageInput{Today: testToday, Total: 2})))

	assert.Contains(t, buf.String(), "Personne ne correspond aux filtres.")
	assert.Contains(t, buf.String(), "Affichés : 0 / 2")
}

func TestRenderer_DataPhoto(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)

	l := NewTranslator().Localizer("en")
	rows := engine.ComputeRows([]engine.PersonRecord{{Name: "Inline", Photo: "data:image/png;base64,AAAA"}}, testToday)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, BuildView(l, PageInput{Today: testToday, Rows: rows, Total: 1})))
	assert.Contains(t, buf.String(), `src="data:image/png;base64,AAAA"`)
}

func TestRenderer_Missing(t *testing.T) {
	_, err := NewRenderer(fstest.MapFS{
		"templates/other.html": {Data: []byte("hello")},
	})
	assert.ErrorIs(t, err, ErrTemplateMissing)

	_, err = NewRenderer(fstest.MapFS{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), config.ErrTemplateParse))

	var nilRenderer *Renderer
	assert.ErrorIs(t, nilRenderer.Render(&bytes.Buffer{}, PageView{}), ErrTemplateMissing)
}

func TestRenderer_ExecutionFailureWritesNothing(t *testing.T) {
	r, err := NewRenderer(fstest.MapFS{
		"templates/page.html": {Data: []byte(`<p>{{.Title}}</p>{{template "nope"}}`)},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, PageView{Title: "x"})
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
