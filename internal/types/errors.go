package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfigurationMissing  = errors.New("configuration missing")
	ErrInvalidDurationFormat = errors.New("invalid duration format")
	ErrNameResolutionFailed  = errors.New("name resolution failed")
	ErrAPIRequestFailed      = errors.New("api request failed")
	ErrUnknownCommand        = errors.New("unknown command")
	ErrInvalidFormat         = errors.New("invalid format")
)

// ConfigError reports the credential fields no source could provide.
type ConfigError struct {
	Missing []string
}

func (e ConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "missing credentials: %s\n\n", strings.Join(e.Missing, ", "))
	b.WriteString("Please configure using one of these methods:\n")
	b.WriteString("  1. Run: mite config --account ACCOUNT --api-key KEY\n")
	b.WriteString("  2. Create a .env file with MITE_ACCOUNT and MITE_API_KEY\n")
	b.WriteString("  3. Set environment variables MITE_ACCOUNT and MITE_API_KEY")
	return b.String()
}

func (e ConfigError) Unwrap() error {
	return ErrConfigurationMissing
}

type DurationError struct {
	Input string
}

func (e DurationError) Error() string {
	return fmt.Sprintf("invalid duration format %q (use e.g. 90, 90m, 1.5h, 1h30m)", e.Input)
}

func (e DurationError) Unwrap() error {
	return ErrInvalidDurationFormat
}

// NotFoundError is returned when no project or service matches a query.
type NotFoundError struct {
	Kind  string
	Query string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Query)
}

func (e NotFoundError) Unwrap() error {
	return ErrNameResolutionFailed
}

// APIError carries a non-success response from the Mite API.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, body)
}

func (e APIError) Unwrap() error {
	return ErrAPIRequestFailed
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error in field %s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidFormat
}

type ParseError struct {
	Record string
	Err    error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Record, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}
