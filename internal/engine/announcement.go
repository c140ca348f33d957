package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tartampluch/go-cousins/internal/config"
)

// AnnouncementEntry is a validated announcement ready for display.
type AnnouncementEntry struct {
	Title    string       `json:"title,omitempty"`
	Text     string       `json:"text"`
	Date     CalendarDate `json:"date"`
	Location string       `json:"location,omitempty"`
	Pinned   bool         `json:"pinned"`
}

// DecodeAnnouncements reads a JSON array of loosely-shaped announcement objects.
func DecodeAnnouncements(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrAnnouncementsRead, err)
	}
	return raw, nil
}

// NormalizeAnnouncements validates, dedups and orders raw entries, keeping at most
// maxItems (0 or less means no limit). Truncation happens after ordering so pinned
// entries are never displaced.
func NormalizeAnnouncements(raw []map[string]any, maxItems int) []AnnouncementEntry {
	seen := make(map[string]int)
	var out []AnnouncementEntry

	for _, item := range raw {
		entry, ok := normalizeAnnouncement(item)
		if !ok {
			continue
		}
		key := entry.Text + "\x00" + entry.Date.String() + "\x00" + entry.Location
		if idx, dup := seen[key]; dup {
			out[idx].Pinned = out[idx].Pinned || entry.Pinned
			if out[idx].Title == "" {
				out[idx].Title = entry.Title
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return announcementLess(out[i], out[j])
	})

	if maxItems > 0 && len(out) > maxItems {
		out = out[:maxItems]
	}
	return out
}

func normalizeAnnouncement(item map[string]any) (AnnouncementEntry, bool) {
	fields := FoldKeys(item)

	title := collapse(CoerceString(fields[config.FieldTitle]))
	text := collapse(CoerceString(fields[config.FieldText]))
	if text == "" {
		text = collapse(CoerceString(fields[config.FieldMessage]))
	}
	location := collapse(CoerceString(fields[config.FieldLocation]))
	date, _ := ParseDate(fields[config.FieldDate])

	if title == "" && text == "" && location == "" && date.IsZero() {
		return AnnouncementEntry{}, false
	}
	if text == "" {
		text = title
	}
	if text == "" {
		return AnnouncementEntry{}, false
	}

	return AnnouncementEntry{
		Title:    title,
		Text:     text,
		Date:     date,
		Location: location,
		Pinned:   truthy(fields[config.FieldPinned]),
	}, true
}

// announcementLess orders pinned first, then newest dated, then undated, then by text.
func announcementLess(a, b AnnouncementEntry) bool {
	if a.Pinned != b.Pinned {
		return a.Pinned
	}
	aDated, bDated := !a.Date.IsZero(), !b.Date.IsZero()
	if aDated != bDated {
		return aDated
	}
	if aDated && a.Date != b.Date {
		return a.Date.After(b.Date)
	}
	return a.Text < b.Text
}

// FoldKeys folds top-level keys so "Text" and "text" are the same field.
func FoldKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		key := strings.ToLower(strings.TrimSpace(k))
		if _, exists := out[key]; exists && v == nil {
			continue
		}
		out[key] = v
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CoerceString coerces scalars from loosely-typed input to text.
func CoerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "y", "1", "pinned":
			return true
		}
		return false
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case float64:
		return x != 0
	case int:
		return x != 0
	default:
		return false
	}
}
