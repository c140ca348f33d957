package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
)

// DecodePeople reads a JSON array of person objects. Fields are duck-typed:
// numbers become text, date fields accept serials, absent fields default to empty.
func DecodePeople(r io.Reader) ([]engine.PersonRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	people := make([]engine.PersonRecord, 0, len(raw))
	for _, row := range raw {
		if rec, ok := recordFromFields(row); ok {
			people = append(people, rec)
		}
	}
	return people, nil
}

// LoadPeopleFile reads a people JSON file. A missing file is an error.
func LoadPeopleFile(path string) ([]engine.PersonRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPeopleRead, err)
	}
	defer func() { _ = f.Close() }()

	return DecodePeople(f)
}

// WritePeopleFile stores people as indented JSON.
func WritePeopleFile(path string, people []engine.PersonRecord) error {
	if people == nil {
		people = []engine.PersonRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(people); err != nil {
		return fmt.Errorf("%s: %w", config.ErrPeopleWrite, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), config.FilePermShared); err != nil {
		return fmt.Errorf("%s: %w", config.ErrPeopleWrite, err)
	}
	return nil
}
