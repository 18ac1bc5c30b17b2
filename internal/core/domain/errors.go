package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrParse is the sentinel behind every ParseError.
	ErrParse = zerr.New("malformed deployment descriptor")

	// ErrSchema is the sentinel behind every SchemaError.
	ErrSchema = zerr.New("deployment descriptor does not match schema")

	// ErrConsistency is the sentinel behind every ConsistencyError.
	ErrConsistency = zerr.New("deployment descriptor is inconsistent")

	// ErrConfigNotFound is returned when no descriptor can be discovered.
	ErrConfigNotFound = zerr.New("could not find serverless.yml or serverless.yaml")

	// ErrConfigReadFailed is returned when the descriptor file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read deployment descriptor")

	// ErrValidationFailed is returned when one or more descriptors failed to load.
	ErrValidationFailed = zerr.New("validation failed")

	// ErrInvalidOverride is returned when an override is not of the form KEY=VALUE.
	ErrInvalidOverride = zerr.New("invalid override, expected KEY=VALUE")
)

// ParseError reports malformed document syntax.
// Line and Column are 1-based; zero means the position is unknown.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("parse error at line %d, column %d: %v", e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
	default:
		return fmt.Sprintf("parse error: %v", e.Err)
	}
}

// Unwrap exposes both ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// SchemaError reports a structurally valid document whose content breaks the schema.
type SchemaError struct {
	// FieldPath is the dotted path of the offending field, e.g. provider.project.
	FieldPath string
	Expected  string
	Actual    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error at %s: expected %s, got %s", displayPath(e.FieldPath), e.Expected, e.Actual)
}

// Unwrap returns ErrSchema.
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// ConsistencyError reports a violated cross-field invariant.
type ConsistencyError struct {
	FieldPath string
	Reason    string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency error at %s: %s", displayPath(e.FieldPath), e.Reason)
}

// Unwrap returns ErrConsistency.
func (e *ConsistencyError) Unwrap() error {
	return ErrConsistency
}

func displayPath(path string) string {
	if path == "" {
		return "document root"
	}
	return path
}
