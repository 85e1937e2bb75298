package fetcher

import (
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var (
	// ErrTransportExhausted means every strategy failed for one URL. Callers
	// treat the section as unavailable.
	ErrTransportExhausted = crerr.New("all fetch transports exhausted")
	// ErrParseFailure marks a payload that arrived but could not be decoded.
	ErrParseFailure = crerr.New("payload parse failure")
)

// Attempt records the outcome of one strategy.
type Attempt struct {
	Strategy string
	Err      error
}

// FetchExhaustedError carries the original URL and the per-strategy failures.
type FetchExhaustedError struct {
	URL      string
	Attempts []Attempt
}

func (e *FetchExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Strategy, a.Err))
	}
	return fmt.Sprintf("fetch %s: %s (%s)", e.URL, ErrTransportExhausted.Error(), strings.Join(parts, "; "))
}

func (e *FetchExhaustedError) Is(target error) bool {
	return target == ErrTransportExhausted
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream status=%d", e.code)
}

// countsAgainstBreaker keeps client errors and parse failures from benching a
// strategy that is otherwise healthy.
func countsAgainstBreaker(err error) bool {
	if err == nil {
		return false
	}
	if crerr.Is(err, ErrParseFailure) {
		return false
	}
	var se *statusError
	if crerr.As(err, &se) {
		return se.code >= 500 || se.code == 429
	}
	return true
}
