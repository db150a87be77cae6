package searcher

import (
	"errors"
	"fmt"
)

var (
	ErrNoLegalMove          = errors.New("no legal move")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// InvalidConfigurationError names the rejected setting. It matches
// ErrInvalidConfiguration with errors.Is.
type InvalidConfigurationError struct {
	Field string
	Value any
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s = %v", e.Field, e.Value)
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}
