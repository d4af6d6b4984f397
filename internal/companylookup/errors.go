package companylookup

import (
	"errors"
	"fmt"
)

// Category classifies why a lookup failed.
type Category string

const (
	CategoryTimeout     Category = "timeout"
	CategoryNotFound    Category = "not_found"
	CategoryRateLimited Category = "rate_limited"
	CategoryOutage      Category = "outage"
	CategoryBadData     Category = "bad_data"
)

// LookupError is returned for every failed lookup. Callers show ErrorResolving
// in its place; the category drives metrics and the circuit breaker.
type LookupError struct {
	Category Category
	Message  string
	Err      error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("company lookup [%s]: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("company lookup [%s]: %s", e.Category, e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func newLookupError(category Category, message string, err error) *LookupError {
	return &LookupError{Category: category, Message: message, Err: err}
}

// CategoryOf returns the category of a lookup failure. Errors that are not a
// LookupError count as outages.
func CategoryOf(err error) Category {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Category
	}
	return CategoryOutage
}

// isTransient reports whether the failure says the registry is unhealthy,
// as opposed to the registry answering about this particular company.
func isTransient(err error) bool {
	switch CategoryOf(err) {
	case CategoryTimeout, CategoryOutage, CategoryRateLimited:
		return true
	default:
		return false
	}
}
