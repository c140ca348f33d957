package ui

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator owns the message bundle for every embedded locale.
type Translator struct {
	bundle    *i18n.Bundle
	matcher   language.Matcher
	languages []string
}

// NewTranslator loads every locales/active.<lang>.json file. A broken locale
// is logged and skipped.
func NewTranslator() *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	tr := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir(config.LocalesDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	tags := []language.Tag{language.English}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocalePrefix) || !strings.HasSuffix(name, config.LocaleExt) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.LocalePrefix), config.LocaleExt)
		tag, err := language.Parse(langCode)
		if langCode == "" || err != nil {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, config.LocalesDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)

		tr.languages = append(tr.languages, langCode)
		if tag != language.English {
			tags = append(tags, tag)
		}
	}

	tr.matcher = language.NewMatcher(tags)
	return tr
}

// Languages returns the codes of the loaded locales.
func (t *Translator) Languages() []string {
	return append([]string(nil), t.languages...)
}

// Localizer picks the best locale for prefs, which may be language codes or
// Accept-Language header values, most preferred first.
func (t *Translator) Localizer(prefs ...string) *Localizer {
	var clean []string
	for _, p := range prefs {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}

	tag, _ := language.MatchStrings(t.matcher, clean...)
	base, _ := tag.Base()

	return &Localizer{
		loc:  i18n.NewLocalizer(t.bundle, base.String()),
		lang: base.String(),
	}
}

// Localizer renders messages for one language.
type Localizer struct {
	loc  *i18n.Localizer
	lang string
}

// Lang returns the resolved ISO 639-1 code.
func (l *Localizer) Lang() string {
	return l.lang
}

// Msg translates key, returning the key itself when it is missing.
func (l *Localizer) Msg(key string) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: key})
}

// Msgf translates key with template data.
func (l *Localizer) Msgf(key string, data map[string]any) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// Plural translates a counted message. The count is available as {{.Count}}.
func (l *Localizer) Plural(key string, count int) string {
	return l.localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]any{config.PluralCountKey: count},
		PluralCount:  count,
	})
}

// Span renders a calendar span the same way engine.FormatSpan does, in this language.
func (l *Localizer) Span(s engine.Span) string {
	return strings.Join([]string{
		l.Plural(config.TKeyUnitYear, s.Years),
		l.Plural(config.TKeyUnitMonth, s.Months),
		l.Plural(config.TKeyUnitDay, s.Days),
	}, config.SpanSep)
}

// Age renders a row's age, or the placeholder when it is unknown.
func (l *Localizer) Age(row engine.ComputedRow) string {
	if !row.AgeKnown || row.Age.Negative() {
		return config.PlaceholderUnknown
	}
	return l.Span(row.Age)
}

// Date formats d with the locale's layout.
func (l *Localizer) Date(d engine.CalendarDate) string {
	if d.IsZero() {
		return config.PlaceholderUnknown
	}
	layout := l.Msg(config.TKeyFormatDate)
	if layout == config.TKeyFormatDate {
		layout = config.DateFormatDisplay
	}
	return d.Time().Format(layout)
}

// EventSummary localizes calendar event titles.
func (l *Localizer) EventSummary(row engine.ComputedRow, age int) string {
	name := displayName(l, row.Name)
	switch {
	case engine.IsMemorial(row, age):
		return l.Msgf(config.TKeyEvtMemorial, map[string]any{"Name": name, "Age": age})
	case age == 0:
		return l.Msgf(config.TKeyEvtBirth, map[string]any{"Name": name})
	default:
		return l.Msgf(config.TKeyEvtSummaryAge, map[string]any{"Name": name, "Age": age})
	}
}

func (l *Localizer) localize(lc *i18n.LocalizeConfig) string {
	if l == nil || l.loc == nil {
		return lc.MessageID
	}
	msg, err := l.loc.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return lc.MessageID
	}
	return msg
}

func displayName(l *Localizer, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return l.Msg(config.TKeyUnnamed)
}
