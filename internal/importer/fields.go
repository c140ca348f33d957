// Package importer turns people files, spreadsheets and vCards into PersonRecords.
package importer

import (
	"errors"
	"strings"

	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
)

var (
	// ErrMalformed wraps every failure to read an import file.
	ErrMalformed = errors.New(config.ErrMalformedFile)
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New(config.ErrUnsupportedFormat)
)

// recordFromFields maps a loosely-typed row to a PersonRecord. Keys are matched
// case-insensitively. ok is false when the row carries no usable field.
func recordFromFields(row map[string]any) (engine.PersonRecord, bool) {
	fields := engine.FoldKeys(row)

	rec := engine.PersonRecord{
		Name:      text(fields[config.FieldName]),
		Birthdate: normalizeDate(fields[config.FieldBirthdate]),
		Passed:    normalizeDate(fields[config.FieldPassed]),
		Photo:     text(fields[config.FieldPhoto]),
		Photos:    photoList(fields[config.FieldPhotos]),
		Tribute:   text(fields[config.FieldTribute]),
		Phone:     text(fields[config.FieldPhone]),
		Email:     text(fields[config.FieldEmail]),
	}
	return rec, !rec.IsEmpty()
}

// normalizeDate renders any accepted date input as YYYY-MM-DD, or "" when unknown.
func normalizeDate(v any) string {
	d, ok := engine.ParseDate(v)
	if !ok {
		return ""
	}
	return d.String()
}

func text(v any) string {
	return strings.TrimSpace(engine.CoerceString(v))
}

// photoList accepts a JSON array or a delimited cell.
func photoList(v any) []string {
	var raw []string
	switch x := v.(type) {
	case nil:
		return nil
	case []string:
		raw = x
	case []any:
		for _, item := range x {
			raw = append(raw, text(item))
		}
	default:
		raw = strings.FieldsFunc(text(v), func(r rune) bool {
			return strings.ContainsRune(config.PhotoSeparators, r)
		})
	}

	var out []string
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
