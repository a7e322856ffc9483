package config

import (
	"errors"
	"fmt"
)

// ErrInvalid matches every configuration error
var ErrInvalid = errors.New("invalid configuration")

// ValidationError indicates a missing or unusable configuration value
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalid
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}
