package domain

import "errors"

var (
	// ErrInvalidScope marks a scope the resolver cannot turn into a predicate,
	// e.g. an unknown level or a district without its country.
	ErrInvalidScope = errors.New("invalid scope")

	// ErrInvalidFamily marks an unknown report family.
	ErrInvalidFamily = errors.New("invalid report family")

	// ErrInvalidLimit marks a limit that is not an integer.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrStoreUnavailable wraps every failure of the geography store. Callers
	// may retry; the report engine itself never does.
	ErrStoreUnavailable = errors.New("geography store unavailable")
)

// IsClientError reports whether err was caused by bad request input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidScope) || errors.Is(err, ErrInvalidFamily) || errors.Is(err, ErrInvalidLimit)
}
