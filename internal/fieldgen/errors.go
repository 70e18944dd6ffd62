package fieldgen

import "errors"

var (
	// ErrMissingLength is returned when a field lacks the length attribute
	// its format requires (length for fixed/bitmap, max_length for llvar/lllvar)
	ErrMissingLength = errors.New("missing length attribute")

	// ErrInvalidLength is returned for negative lengths or a max_length below 1
	ErrInvalidLength = errors.New("invalid length attribute")

	// ErrUnknownFormat is returned for a format outside fixed/llvar/lllvar/bitmap
	ErrUnknownFormat = errors.New("unknown field format")

	// ErrUnknownType is returned for a type outside numeric/alphanumeric/binary/hex
	ErrUnknownType = errors.New("unknown field type")
)

// IsIncomplete reports whether err describes a field definition the
// synthesizer cannot serve, as opposed to an internal failure
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrMissingLength) ||
		errors.Is(err, ErrInvalidLength) ||
		errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrUnknownType)
}
