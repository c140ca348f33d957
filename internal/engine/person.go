package engine

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tartampluch/go-cousins/internal/config"
)

// PersonRecord is one roster entry as supplied by the data source.
// Dates are canonical YYYY-MM-DD strings; empty means unknown.
type PersonRecord struct {
	Name      string   `json:"name"`
	Birthdate string   `json:"birthdate,omitempty"`
	Passed    string   `json:"passed,omitempty"`
	Photo     string   `json:"photo,omitempty"`
	Photos    []string `json:"photos,omitempty"`
	Tribute   string   `json:"tribute,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Email     string   `json:"email,omitempty"`
}

// IsEmpty reports whether the record carries no usable field at all.
func (p PersonRecord) IsEmpty() bool {
	return strings.TrimSpace(p.Name) == "" &&
		strings.TrimSpace(p.Birthdate) == "" &&
		strings.TrimSpace(p.Passed) == "" &&
		len(ResolvePhotos(p)) == 0 &&
		strings.TrimSpace(p.Tribute) == "" &&
		strings.TrimSpace(p.Phone) == "" &&
		strings.TrimSpace(p.Email) == ""
}

// Status is the memorial state of a person.
type Status string

const (
	StatusAlive    Status = "alive"
	StatusDeceased Status = "deceased"
)

// ComputedRow is a PersonRecord plus everything derived from it for a given "today".
// It is rebuilt on every render and never cached.
type ComputedRow struct {
	PersonRecord

	// ID is stable across renders for the same record content.
	ID string `json:"id"`

	Birth           CalendarDate `json:"birth"`
	PassedEffective CalendarDate `json:"passedEffective"`

	Age      Span   `json:"age"`
	AgeKnown bool   `json:"ageKnown"`
	AgeText  string `json:"ageText"`

	Status          Status       `json:"status"`
	IsBirthdayToday bool         `json:"isBirthdayToday"`
	WouldHaveTurned *int         `json:"wouldHaveTurned"`
	NextBirthday    CalendarDate `json:"nextBirthday"`

	// Gallery is the resolved, trimmed photo list.
	Gallery []string `json:"gallery"`
}

// Deceased reports whether the row has an effective passed date.
func (r ComputedRow) Deceased() bool {
	return r.Status == StatusDeceased
}

var rowNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(config.RowIDNamespace))

// RowID derives a deterministic identifier from the record content.
func RowID(p PersonRecord) string {
	key := strings.Join([]string{p.Name, p.Birthdate, p.Passed, strings.Join(ResolvePhotos(p), "|")}, "\x00")
	return uuid.NewSHA1(rowNamespace, []byte(key)).String()
}

// ResolvePhotos prefers the multi-photo list, falls back to the single photo,
// trims every entry and drops empty ones.
func ResolvePhotos(p PersonRecord) []string {
	photos := cleanPhotos(p.Photos)
	if len(photos) > 0 {
		return photos
	}
	return cleanPhotos([]string{p.Photo})
}

func cleanPhotos(in []string) []string {
	out := make([]string, 0, len(in))
	for _, photo := range in {
		if photo = strings.TrimSpace(photo); photo != "" {
			out = append(out, photo)
		}
	}
	return out
}
