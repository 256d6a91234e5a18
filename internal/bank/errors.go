package bank

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("question bank not found")
	ErrMalformed = errors.New("question bank malformed")
)

// LoadReason classifies a LoadError.
type LoadReason int

const (
	// ReasonNotFound covers transport failures, non-2xx responses and
	// missing files.
	ReasonNotFound LoadReason = iota

	// ReasonMalformed means the payload was read but is not a sequence of
	// question-shaped records.
	ReasonMalformed
)

func (r LoadReason) String() string {
	if r == ReasonMalformed {
		return "malformed"
	}
	return "not found"
}

// LoadError reports a failed bank load.
type LoadError struct {
	Category string
	Source   string
	Reason   LoadReason
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load bank %q from %s: %s: %v", e.Category, e.Source, e.Reason, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is matches ErrNotFound and ErrMalformed by reason.
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Reason == ReasonNotFound
	case ErrMalformed:
		return e.Reason == ReasonMalformed
	}
	return false
}

func notFound(cat Category, source string, err error) *LoadError {
	return &LoadError{Category: cat.ID, Source: source, Reason: ReasonNotFound, Err: err}
}

func malformed(cat Category, source string, err error) *LoadError {
	return &LoadError{Category: cat.ID, Source: source, Reason: ReasonMalformed, Err: err}
}
