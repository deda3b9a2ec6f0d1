package property

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrNotFound is returned when no live row matches the requested id.
var ErrNotFound = errors.New("property not found")

// ValidationError names the input field that failed and why. Validation
// failures never reach the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreError carries a record store failure with its native diagnostics
// kept apart: code, message, detail and hint are never merged.
type StoreError struct {
	Op      string
	Code    string
	Message string
	Details string
	Hint    string
	Err     error
}

func (e *StoreError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Code != "" {
		fmt.Fprintf(&b, " (code %s)", e.Code)
	}
	return b.String()
}

func (e *StoreError) Unwrap() error { return e.Err }

// SchemaDriftError reports a write that referenced columns missing from the
// live schema. It is recovered by retrying without Columns.
type SchemaDriftError struct {
	Group   string
	Columns []string
	Cause   *StoreError
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf("schema drift (%s): columns %s missing: %s",
		e.Group, strings.Join(e.Columns, ", "), e.Cause.Message)
}

func (e *SchemaDriftError) Unwrap() error { return e.Cause }

// storeError converts a driver or GORM error into a StoreError, reading the
// native code, detail and hint from pgx or lib/pq errors when present.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return se
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{
			Op:      op,
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
			Err:     err,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &StoreError{
			Op:      op,
			Code:    string(pqErr.Code),
			Message: pqErr.Message,
			Details: pqErr.Detail,
			Hint:    pqErr.Hint,
			Err:     err,
		}
	}

	return &StoreError{Op: op, Message: err.Error(), Err: err}
}
