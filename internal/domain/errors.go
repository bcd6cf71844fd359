package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports batch input that was rejected before any row ran.
type ValidationError struct {
	Msg     string
	Columns []string
}

func (e *ValidationError) Error() string {
	if len(e.Columns) > 0 {
		return fmt.Sprintf("%s: %s", e.Msg, strings.Join(e.Columns, ", "))
	}
	return e.Msg
}

// ConfigurationError reports a missing or unusable process configuration,
// such as an absent API credential.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// ParseError reports a departure time specification that could not be interpreted.
type ParseError struct {
	Input any
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse departure time %v: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("parse departure time %v: unsupported value of type %T", e.Input, e.Input)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrBatchNotFound is returned by stores for unknown batch IDs.
var ErrBatchNotFound = errors.New("batch not found")
