// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft

import (
	"database/sql"
	"fmt"

	"github.com/canonical/go-dqlite/driver"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var (
	// ErrSchema is matched by errors caused by a statement that does not
	// fit the schema of the database, such as a missing table or column.
	ErrSchema = errors.New("schema error")

	// ErrConstraint is matched by errors caused by a constraint violation.
	ErrConstraint = errors.New("constraint violation")

	// ErrBusy is matched by errors caused by the database being locked by
	// another connection.
	ErrBusy = errors.New("database is busy")

	ErrTXDone = sql.ErrTxDone
)

// Primary result codes of SQLite, shared by all drivers.
const (
	codeError      = 1
	codeBusy       = 5
	codeLocked     = 6
	codeConstraint = 19
)

// coder is implemented by the errors of modernc.org/sqlite.
type coder interface {
	Code() int
}

// resultCode returns the primary SQLite result code carried by err.
func resultCode(err error) (int, bool) {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return int(liteErr.Code), true
	}
	var dqliteErr driver.Error
	if errors.As(err, &dqliteErr) {
		return dqliteErr.Code & 0xff, true
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code() & 0xff, true
	}
	return 0, false
}

// ExecError is returned when a statement fails to execute.
type ExecError struct {
	// SQL is the statement that failed.
	SQL string
	// Code is the primary SQLite result code, or zero if the driver did not
	// report one.
	Code int

	kind error
	err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("cannot execute %q: %s", e.SQL, e.err)
}

// Unwrap returns the driver error.
func (e *ExecError) Unwrap() error {
	return e.err
}

// Is reports whether target is the category of the error: ErrSchema,
// ErrConstraint or ErrBusy.
func (e *ExecError) Is(target error) bool {
	return e.kind != nil && target == e.kind
}

// classify wraps an error returned by the driver for the statement sql.
func classify(sql string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTXDone) {
		return err
	}
	code, ok := resultCode(err)
	e := &ExecError{SQL: sql, Code: code, err: err}
	if !ok {
		return e
	}
	switch code {
	case codeError:
		e.kind = ErrSchema
	case codeBusy, codeLocked:
		e.kind = ErrBusy
	case codeConstraint:
		e.kind = ErrConstraint
	}
	return e
}
