package config

import (
	"errors"
	"fmt"

	"github.com/dshills/textcore/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrSettingNotFound indicates the setting path doesn't exist.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrInvalidValue indicates a value of the wrong type or outside its
	// allowed range.
	ErrInvalidValue = errors.New("invalid setting value")

	// ErrUnknownFormat indicates a file extension with no decoder.
	ErrUnknownFormat = loader.ErrUnknownFormat
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// ValidationError describes a rejected setting value.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Message describes the validation error.
	Message string
	// Value is the invalid value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is implements error matching for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidValue
}
