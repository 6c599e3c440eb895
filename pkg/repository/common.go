package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// errCritical is passed to repeater as a termination error, criticalError matches it
var errCritical = errors.New("critical repository error")

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

// Is reports criticalError as errCritical for repeater termination checks
func (e *criticalError) Is(target error) bool {
	return target == errCritical //nolint:errorlint // sentinel identity check
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error {
	return e.err
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// withLockRetry runs fn retrying on SQLite lock errors only, other errors stop immediately
func withLockRetry(ctx context.Context, fn func() error) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		if err := fn(); err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: err}
		}
		return nil
	}, errCritical)

	var ce *criticalError
	if errors.As(err, &ce) {
		return ce.err
	}
	return err
}

// stringsSQL is a JSON array of strings for SQL operations
type stringsSQL []string

// Value implements driver.Valuer for database storage
func (s stringsSQL) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (s *stringsSQL) Scan(value any) error {
	data, ok := scanBytes(value)
	if !ok {
		*s = stringsSQL{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// weightsSQL is a JSON object of keyword weights for SQL operations
type weightsSQL map[string]float64

// Value implements driver.Valuer for database storage
func (w weightsSQL) Value() (driver.Value, error) {
	if w == nil {
		return "{}", nil
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (w *weightsSQL) Scan(value any) error {
	data, ok := scanBytes(value)
	if !ok {
		*w = weightsSQL{}
		return nil
	}
	return json.Unmarshal(data, w)
}

// jsonSQL stores any JSON-serializable value, NULL maps to the zero value
type jsonSQL[T any] struct {
	V     T
	Valid bool
}

// Value implements driver.Valuer for database storage
func (j jsonSQL[T]) Value() (driver.Value, error) {
	if !j.Valid {
		return nil, nil
	}
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (j *jsonSQL[T]) Scan(value any) error {
	data, ok := scanBytes(value)
	if !ok {
		var zero T
		j.V, j.Valid = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &j.V); err != nil {
		return fmt.Errorf("unmarshal json column: %w", err)
	}
	j.Valid = true
	return nil
}

func scanBytes(value any) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, len(v) > 0
	case string:
		return []byte(v), v != ""
	default:
		return nil, false
	}
}
