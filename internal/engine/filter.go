package engine

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// FilterOptions is the immutable view configuration applied to computed rows.
type FilterOptions struct {
	ShowDeceased bool
	Query        string
	OldestFirst  bool
}

// FilterSort returns the visible rows in display order. The input slice is not modified.
//
// Rows without a birth date always sort last. Equal keys fall back to the
// name as typed.
func FilterSort(rows []ComputedRow, opts FilterOptions) []ComputedRow {
	// A Caser is stateful, so each call gets its own.
	fold := cases.Fold()
	normalize := func(s string) string {
		return fold.String(strings.TrimSpace(s))
	}
	query := normalize(opts.Query)

	out := make([]ComputedRow, 0, len(rows))
	for _, r := range rows {
		if !opts.ShowDeceased && r.Deceased() {
			continue
		}
		if query != "" && !strings.Contains(normalize(r.Name), query) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rowLess(out[i], out[j], opts.OldestFirst)
	})
	return out
}

func rowLess(a, b ComputedRow, oldestFirst bool) bool {
	aKnown, bKnown := !a.Birth.IsZero(), !b.Birth.IsZero()
	switch {
	case aKnown && !bKnown:
		return true
	case !aKnown && bKnown:
		return false
	case aKnown && bKnown && a.Birth != b.Birth:
		if oldestFirst {
			return a.Birth.Before(b.Birth)
		}
		return b.Birth.Before(a.Birth)
	default:
		return a.Name < b.Name
	}
}
