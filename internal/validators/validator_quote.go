package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/quote-admin/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldID targets the server-assigned quote identifier.
	FieldID = "id"

	// FieldText targets the quote body.
	FieldText = "text"

	// FieldAuthor targets the author attribution.
	FieldAuthor = "author"

	// FieldTags targets the tag set.
	FieldTags = "tags"
)

// QuoteValidator enforces the structural rules a quote must satisfy before
// it may travel to the server: non-empty text and author, and a tag set with
// no empty or duplicate entries.
type QuoteValidator struct {
}

func NewQuoteValidator() Validator {
	return &QuoteValidator{}
}

func (v *QuoteValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Quote:
		return v.validateQuote(ctx, value, fields...)
	case *models.Quote:
		return v.validateQuote(ctx, *value, fields...)

	case []models.Quote:
		for i := range value {
			if err := v.validateQuote(ctx, value[i], fields...); err != nil {
				return fmt.Errorf("quote %d: %w", i, err)
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *QuoteValidator) validateQuote(_ context.Context, quote models.Quote, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldText, FieldAuthor, FieldTags}
	}

	for _, field := range fields {
		var err error
		switch field {
		case FieldID:
			err = validateID(quote)
		case FieldText:
			err = validateText(quote)
		case FieldAuthor:
			err = validateAuthor(quote)
		case FieldTags:
			err = validateTags(quote)
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func validateID(quote models.Quote) error {
	if strings.TrimSpace(quote.ID) == "" {
		return ErrMissingQuoteID
	}
	return nil
}

func validateText(quote models.Quote) error {
	if strings.TrimSpace(quote.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

func validateAuthor(quote models.Quote) error {
	if strings.TrimSpace(quote.Author) == "" {
		return ErrEmptyAuthor
	}
	return nil
}

func validateTags(quote models.Quote) error {
	seen := make(map[string]struct{}, len(quote.Tags))
	for _, tag := range quote.Tags {
		if strings.TrimSpace(tag) == "" {
			return ErrEmptyTag
		}
		if _, ok := seen[tag]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateTag, tag)
		}
		seen[tag] = struct{}{}
	}
	return nil
}
