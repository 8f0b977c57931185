package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	ErrNotFound            = errors.New("db: record not found")
	ErrDuplicateKey        = errors.New("db: duplicate key")
	ErrForeignKeyViolation = errors.New("db: foreign key violation")
	ErrCheckViolation      = errors.New("db: check constraint violation")
	ErrTimeout             = errors.New("db: query timeout")
	ErrConnectionFailed    = errors.New("db: connection failed")
)

// Error pairs one of the sentinels above with the driver error it came from.
type Error struct {
	Sentinel error
	Cause    error
	// SQLState is the five character PostgreSQL error code, when known.
	SQLState string
}

func (e *Error) Error() string {
	if e.SQLState != "" {
		return fmt.Sprintf("%s [%s] (cause: %v)", e.Sentinel, e.SQLState, e.Cause)
	}
	return fmt.Sprintf("%s (cause: %v)", e.Sentinel, e.Cause)
}

func (e *Error) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *Error) Unwrap() error        { return e.Cause }

// MapError classifies a driver error. Errors it does not recognise are
// returned unchanged; nil stays nil.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var mapped *Error
	if errors.As(err, &mapped) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Sentinel: ErrNotFound, Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Sentinel: ErrTimeout, Cause: err}
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return fromSQLState(pgErr.Field('C'), err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fromSQLState(string(pqErr.Code), err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return &Error{Sentinel: ErrConnectionFailed, Cause: err}
	}

	return err
}

func fromSQLState(state string, cause error) error {
	switch {
	case state == "23503":
		return &Error{Sentinel: ErrForeignKeyViolation, Cause: cause, SQLState: state}
	case state == "23505":
		return &Error{Sentinel: ErrDuplicateKey, Cause: cause, SQLState: state}
	case state == "23514":
		return &Error{Sentinel: ErrCheckViolation, Cause: cause, SQLState: state}
	case state == "57014":
		return &Error{Sentinel: ErrTimeout, Cause: cause, SQLState: state}
	case strings.HasPrefix(state, "08"):
		return &Error{Sentinel: ErrConnectionFailed, Cause: cause, SQLState: state}
	}
	return cause
}

func IsForeignKeyViolation(err error) bool { return errors.Is(err, ErrForeignKeyViolation) }
func IsConnectionFailed(err error) bool    { return errors.Is(err, ErrConnectionFailed) }
