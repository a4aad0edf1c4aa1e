package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyText       = errors.New("quote text is required")
	ErrEmptyAuthor     = errors.New("quote author is required")
	ErrEmptyTag        = errors.New("tags must be non-empty strings")
	ErrDuplicateTag    = errors.New("tags must not repeat")
	ErrMissingQuoteID  = errors.New("quote id is required")
	ErrUnexpectedID    = errors.New("draft must not carry an id")
	ErrEmptySelection  = errors.New("selection cannot be empty")
	ErrUnknownSortWord = errors.New("unknown sort field")
)
