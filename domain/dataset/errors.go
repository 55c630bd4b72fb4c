package dataset

import (
	"errors"
	"fmt"
)

// Load failure kinds
var (
	ErrSourceMissing  = errors.New("data source missing")
	ErrMalformed      = errors.New("data source malformed")
	ErrSchemaMismatch = errors.New("data source schema mismatch")
)

// LoadError reports why the record table could not be built. It is fatal:
// nothing downstream runs without a table.
type LoadError struct {
	Source string
	Kind   error
	Detail string
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load %s: %v", e.Source, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewLoadError builds a LoadError of the given kind
func NewLoadError(source string, kind error, detail string, cause error) *LoadError {
	return &LoadError{Source: source, Kind: kind, Detail: detail, Err: cause}
}

// IsLoadError reports whether err is or wraps a LoadError
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
