package importer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
)

// ReadVCards imports an address book export. Malformed cards are skipped.
func ReadVCards(r io.Reader) ([]engine.PersonRecord, error) {
	decoder := vcard.NewDecoder(r)
	var people []engine.PersonRecord
	decoded := 0

	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if decoded == 0 {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyError, err)
			continue
		}
		decoded++

		rec, ok := recordFromCard(card)
		if !ok {
			continue
		}
		people = append(people, rec)
	}

	if decoded == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, config.ErrEmptyAddressBook)
	}
	return people, nil
}

func recordFromCard(card vcard.Card) (engine.PersonRecord, bool) {
	fields := map[string]any{
		config.FieldName:      cardName(card),
		config.FieldBirthdate: card.PreferredValue(vcard.FieldBirthday),
		config.FieldPassed:    card.PreferredValue(config.VCardDeathDate),
		config.FieldPhoto:     cardPhoto(card),
		config.FieldTribute:   card.PreferredValue(vcard.FieldNote),
		config.FieldPhone:     card.PreferredValue(vcard.FieldTelephone),
		config.FieldEmail:     card.PreferredValue(vcard.FieldEmail),
	}
	return recordFromFields(fields)
}

// cardName prefers FN, then the structured N property.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	n := card.Name()
	if n == nil {
		return ""
	}
	parts := []string{n.HonorificPrefix, n.GivenName, n.AdditionalName, n.FamilyName, n.HonorificSuffix}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// cardPhoto returns a URI for the card photo. Inline vCard 3 photos become data URIs.
func cardPhoto(card vcard.Card) string {
	f := card.Preferred(vcard.FieldPhoto)
	if f == nil || f.Value == "" {
		return ""
	}

	enc := strings.ToLower(f.Params.Get(config.VCardParamEncoding))
	if enc == "b" || enc == "base64" {
		mime := strings.ToLower(f.Params.Get(vcard.ParamType))
		if mime == "" {
			mime = config.DefaultPhotoType
		}
		if !strings.Contains(mime, "/") {
			mime = "image/" + mime
		}
		return fmt.Sprintf(config.FormatDataURI, mime, strings.Join(strings.Fields(f.Value), ""))
	}
	return strings.TrimSpace(f.Value)
}
