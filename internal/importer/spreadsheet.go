package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
	"github.com/xuri/excelize/v2"
)

// headerAliases maps normalized header text to record fields.
var headerAliases = map[string]string{
	"name":        config.FieldName,
	"fullname":    config.FieldName,
	"birthdate":   config.FieldBirthdate,
	"birthday":    config.FieldBirthdate,
	"dateofbirth": config.FieldBirthdate,
	"dob":         config.FieldBirthdate,
	"passed":      config.FieldPassed,
	"deathdate":   config.FieldPassed,
	"dateofdeath": config.FieldPassed,
	"photo":       config.FieldPhoto,
	"photos":      config.FieldPhotos,
	"tribute":     config.FieldTribute,
	"phone":       config.FieldPhone,
	"email":       config.FieldEmail,
}

// ReadWorkbook imports the first sheet of an .xlsx workbook. Cells are read
// raw so date columns arrive as serial numbers.
func ReadWorkbook(r io.Reader) ([]engine.PersonRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, config.ErrEmptySheet)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return recordsFromTable(rows)
}

// ReadCSV imports a comma separated table whose first row is the header.
func ReadCSV(r io.Reader) ([]engine.PersonRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return recordsFromTable(rows)
}

// recordsFromTable turns a header row plus data rows into records. At least
// one of the name, birthdate or passed columns must be present.
func recordsFromTable(rows [][]string) ([]engine.PersonRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, config.ErrMissingColumns)
	}

	// First matching column wins for each field.
	columns := make(map[int]string)
	seen := make(map[string]bool)
	for i, h := range rows[0] {
		if field, ok := headerAliases[normalizeHeader(h)]; ok && !seen[field] {
			columns[i] = field
			seen[field] = true
		}
	}
	if !hasIdentityColumn(columns) {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, config.ErrMissingColumns)
	}

	people := make([]engine.PersonRecord, 0, len(rows)-1)
	for n, cells := range rows[1:] {
		fields := make(map[string]any, len(columns))
		for i, field := range columns {
			if i >= len(cells) {
				continue
			}
			fields[field] = cellValue(field, cells[i])
		}

		rec, ok := recordFromFields(fields)
		if !ok {
			slog.Debug(config.MsgSkippedRow,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyRow, n+2)
			continue
		}
		people = append(people, rec)
	}
	return people, nil
}

func hasIdentityColumn(columns map[int]string) bool {
	for _, field := range columns {
		switch field {
		case config.FieldName, config.FieldBirthdate, config.FieldPassed:
			return true
		}
	}
	return false
}

// cellValue converts numeric date cells to serials. Values outside the serial
// range stay text so compact forms like 19900101 still parse as dates.
func cellValue(field, raw string) any {
	raw = strings.TrimSpace(raw)
	if field != config.FieldBirthdate && field != config.FieldPassed {
		return raw
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > config.MaxSerialDays {
		return raw
	}
	return f
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		switch r {
		case ' ', '_', '-', '.', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
