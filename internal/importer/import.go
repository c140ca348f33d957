package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
)

// Import reads people from r, choosing the decoder by the file extension.
func Import(filename string, r io.Reader) ([]engine.PersonRecord, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var decode func(io.Reader) ([]engine.PersonRecord, error)
	switch ext {
	case config.ExtJSON:
		decode = DecodePeople
	case config.ExtXLSX, config.ExtXLSM:
		decode = ReadWorkbook
	case config.ExtCSV:
		decode = ReadCSV
	case config.ExtVCF, config.ExtVCard:
		decode = ReadVCards
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return decode(r)
}

// Supported reports whether Import understands the file's extension.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case config.ExtJSON, config.ExtXLSX, config.ExtXLSM, config.ExtCSV, config.ExtVCF, config.ExtVCard:
		return true
	}
	return false
}
