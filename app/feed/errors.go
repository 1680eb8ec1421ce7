package feed

import (
	"errors"
	"fmt"

	"github.com/lysyi3m/rss-desk/app/database"
)

var (
	// ErrInvalidInput is returned before any I/O for malformed feed URLs
	ErrInvalidInput = database.ErrInvalidInput
	ErrFetch        = errors.New("fetch failed")
)

// FetchError reports a network or parse failure for a single feed URL.
// errors.Is matches both ErrFetch and the underlying cause.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch feed %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetch, e.Err}
}
