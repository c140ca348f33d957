// Package ui renders the roster page and owns the translations behind it.
package ui

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrTemplateMissing is returned when the page template cannot be found.
var ErrTemplateMissing = errors.New(config.ErrTemplateMissing)

// PageInput is everything a render pass needs. Rows are already filtered.
type PageInput struct {
	Today         engine.CalendarDate
	Rows          []engine.ComputedRow
	Total         int
	Options       engine.FilterOptions
	Announcements []engine.AnnouncementEntry
	Upcoming      []engine.UpcomingBirthday
	Languages     []string

	// Photo returns the carousel photo currently shown for a row ID.
	Photo func(id string) (string, bool)

	// Notice is a one-off status line, such as the import result.
	Notice      string
	NoticeError bool

	// PhotoInterval is how often the page asks for the next carousel photo.
	PhotoInterval time.Duration
}

// PageView is the fully localized view model handed to the template.
type PageView struct {
	Lang         string
	Title        string
	AsOf         string
	Shown        string
	Query        string
	ShowDeceased bool
	OldestFirst  bool
	Languages    []string
	Notice       string
	NoticeError  bool
	Empty        string
	PollMillis   int64

	Labels        Labels
	Cards         []CardView
	Announcements []AnnouncementView
	Upcoming      []UpcomingView
}

// Labels holds the static strings of the page chrome.
type Labels struct {
	Search        string
	ShowDeceased  string
	Order         string
	Oldest        string
	Youngest      string
	Apply         string
	Language      string
	Import        string
	ImportHelp    string
	ImportButton  string
	Announcements string
	Pinned        string
	Upcoming      string
	Born          string
	Passed        string
	Phone         string
	Email         string
}

// CardView is one person's card.
type CardView struct {
	ID          string
	Name        string
	Born        string
	Passed      string
	AgeLabel    string
	AgeText     string
	Status      string
	StatusClass string
	Tribute     string
	Phone       string
	Email       string
	Photo       string
	PhotoCount  int
	Banner      string
	Memorial    string
}

// AnnouncementView is one announcement line.
type AnnouncementView struct {
	Title    string
	Text     string
	Date     string
	Location string
	Pinned   bool
}

// UpcomingView is one entry of the upcoming birthdays list.
type UpcomingView struct {
	Text string
	When string
}

// BuildView localizes in for l.
func BuildView(l *Localizer, in PageInput) PageView {
	v := PageView{
		Lang:         l.Lang(),
		Title:        l.Msg(config.TKeyPageTitle),
		AsOf:         l.Msgf(config.TKeyAsOf, map[string]any{"Date": l.Date(in.Today)}),
		Shown:        l.Msgf(config.TKeyShown, map[string]any{"Shown": len(in.Rows), "Total": in.Total}),
		Query:        in.Options.Query,
		ShowDeceased: in.Options.ShowDeceased,
		OldestFirst:  in.Options.OldestFirst,
		Languages:    in.Languages,
		Notice:       in.Notice,
		NoticeError:  in.NoticeError,
		Empty:        l.Msg(config.TKeyEmpty),
		PollMillis:   pollMillis(in.PhotoInterval),
		Labels: Labels{
			Search:        l.Msg(config.TKeyLblSearch),
			ShowDeceased:  l.Msg(config.TKeyLblDeceased),
			Order:         l.Msg(config.TKeyLblOrder),
			Oldest:        l.Msg(config.TKeyOrderOldest),
			Youngest:      l.Msg(config.TKeyOrderYoungest),
			Apply:         l.Msg(config.TKeyBtnApply),
			Language:      l.Msg(config.TKeyLblLanguage),
			Import:        l.Msg(config.TKeyLblImport),
			ImportHelp:    l.Msg(config.TKeyHelpImport),
			ImportButton:  l.Msg(config.TKeyBtnImport),
			Announcements: l.Msg(config.TKeyAnnouncements),
			Pinned:        l.Msg(config.TKeyPinned),
			Upcoming:      l.Msg(config.TKeyUpcoming),
			Born:          l.Msg(config.TKeyLblBorn),
			Passed:        l.Msg(config.TKeyLblPassed),
			Phone:         l.Msg(config.TKeyLblPhone),
			Email:         l.Msg(config.TKeyLblEmail),
		},
	}

	for _, row := range in.Rows {
		v.Cards = append(v.Cards, buildCard(l, row, in.Photo))
	}
	for _, a := range in.Announcements {
		av := AnnouncementView{Title: a.Title, Text: a.Text, Location: a.Location, Pinned: a.Pinned}
		if !a.Date.IsZero() {
			av.Date = l.Date(a.Date)
		}
		v.Announcements = append(v.Announcements, av)
	}
	for _, u := range in.Upcoming {
		when := l.Msg(config.TKeyUpcomingToday)
		if u.DaysAway > 0 {
			when = l.Plural(config.TKeyUpcomingIn, u.DaysAway)
		}
		v.Upcoming = append(v.Upcoming, UpcomingView{
			Text: l.Msgf(config.TKeyUpcomingEntry, map[string]any{
				"Name": displayName(l, u.Row.Name),
				"Age":  u.Turning,
				"Date": l.Date(u.Date),
			}),
			When: when,
		})
	}
	return v
}

func buildCard(l *Localizer, row engine.ComputedRow, photo func(string) (string, bool)) CardView {
	c := CardView{
		ID:         row.ID,
		Name:       displayName(l, row.Name),
		Born:       l.Date(row.Birth),
		AgeText:    l.Age(row),
		Tribute:    row.Tribute,
		Phone:      row.Phone,
		Email:      row.Email,
		PhotoCount: len(row.Gallery),
	}

	if row.Deceased() {
		c.Passed = l.Date(row.PassedEffective)
		c.AgeLabel = l.Msg(config.TKeyAgeAtDeath)
		c.Status = l.Msg(config.TKeyStatusDeceased)
		c.StatusClass = string(engine.StatusDeceased)
	} else {
		c.AgeLabel = l.Msg(config.TKeyCurrentAge)
		c.Status = l.Msg(config.TKeyStatusAlive)
		c.StatusClass = string(engine.StatusAlive)
	}

	if row.IsBirthdayToday {
		c.Banner = l.Msgf(config.TKeyBanner, map[string]any{"Name": c.Name})
	}
	if row.WouldHaveTurned != nil {
		c.Memorial = l.Msgf(config.TKeyWouldHave, map[string]any{"Age": *row.WouldHaveTurned})
	}

	if photo != nil {
		if p, ok := photo(row.ID); ok {
			c.Photo = p
		}
	}
	if c.Photo == "" && len(row.Gallery) > 0 {
		c.Photo = row.Gallery[0]
	}
	return c
}

// Renderer executes the page template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the page template from fsys, or from the embedded copy
// when fsys is nil.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	if fsys == nil {
		fsys = templateFS
	}

	funcs := template.FuncMap{
		"safeURL": safeURL,
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(fsys, config.TemplateGlob)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrTemplateParse, err)
	}
	if tmpl.Lookup(config.TemplatePage) == nil {
		return nil, ErrTemplateMissing
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page. Nothing is written when execution fails.
func (r *Renderer) Render(w io.Writer, view PageView) error {
	if r == nil || r.tmpl == nil || r.tmpl.Lookup(config.TemplatePage) == nil {
		slog.Error(config.ErrTemplateMissing, config.LogKeyComponent, config.CompUI)
		return ErrTemplateMissing
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, config.TemplatePage, view); err != nil {
		slog.Error(config.ErrRender,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		return fmt.Errorf("%s: %w", config.ErrRender, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

func pollMillis(d time.Duration) int64 {
	if d <= 0 {
		d = config.DefaultCarouselInterval
	}
	return d.Milliseconds()
}

// safeURL lets inline data: photos through the template's URL filter.
// Anything else goes through normal escaping.
func safeURL(u string) any {
	if strings.HasPrefix(u, config.DataImagePrefix) {
		return template.URL(u)
	}
	return u
}
