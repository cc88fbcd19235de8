// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft

import (
	"context"
	"database/sql"
	"log/slog"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Execer is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// discard is the logger used when none is given.
var discard = slog.New(discardHandler{})

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h discardHandler) WithGroup(string) slog.Handler { return h }

// Option configures a DB.
type Option func(*DB)

// WithLogger makes the DB log every statement it executes at debug level
// and every failure at error level.
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// WithStatementCache turns the caching of prepared DML statements on or
// off. It is on by default.
func WithStatementCache(enabled bool) Option {
	return func(db *DB) {
		if !enabled {
			db.cache = nil
		}
	}
}

// DB runs the statements built by this package on a database.
type DB struct {
	sqldb  *sql.DB
	cache  *statementCache
	logger *slog.Logger
}

// NewDB creates a new DB from a sql.DB.
func NewDB(sqldb *sql.DB, opts ...Option) *DB {
	if sqldb == nil {
		return nil
	}
	db := &DB{sqldb: sqldb, cache: newStatementCache(), logger: discard}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// PlainDB returns the underlying database object.
func (db *DB) PlainDB() *sql.DB {
	return db.sqldb
}

// Exec runs a schema statement, such as one returned by Table.Create.
// Schema statements carry no params and are never cached.
func (db *DB) Exec(ctx context.Context, ddl string) error {
	return execDDL(ctx, db.logger, db.sqldb, ddl)
}

// Run executes a statement with params, such as one returned by
// Table.Insert or Table.Update.
func (db *DB) Run(ctx context.Context, stmt Expressible) (sql.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	n := stmt.Node()
	query, params := n.Template(), n.Params()
	var result sql.Result
	var err error
	if db.cache != nil {
		var sqlstmt *sql.Stmt
		sqlstmt, err = db.cache.prepareStmt(ctx, db.sqldb, query)
		if err == nil {
			result, err = sqlstmt.ExecContext(ctx, params...)
		}
	} else {
		result, err = db.sqldb.ExecContext(ctx, query, params...)
	}
	return result, logged(ctx, db.logger, query, params, err)
}

// Query runs a statement returning rows, typically a query wrapped with
// RawQuery.
func (db *DB) Query(ctx context.Context, query Expressible) (*sql.Rows, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	n := query.Node()
	rows, err := db.sqldb.QueryContext(ctx, n.Template(), n.Params()...)
	return rows, logged(ctx, db.logger, n.Template(), n.Params(), err)
}

// Close closes the cached statements and then the database.
func (db *DB) Close() error {
	if db.cache != nil {
		if err := db.cache.close(); err != nil {
			db.sqldb.Close()
			return err
		}
	}
	return db.sqldb.Close()
}

// TX represents a transaction on the database.
type TX struct {
	sqltx *sql.Tx
	db    *DB
	done  int32
}

// TXOptions holds the transaction options to be used in DB.Begin.
type TXOptions struct {
	// Isolation is the transaction isolation level.
	// If zero, the driver or database's default level is used.
	Isolation sql.IsolationLevel
	ReadOnly  bool
}

func (txopts *TXOptions) plainTXOptions() *sql.TxOptions {
	if txopts == nil {
		return nil
	}
	return &sql.TxOptions{Isolation: txopts.Isolation, ReadOnly: txopts.ReadOnly}
}

// Begin starts a transaction. A transaction must be ended with TX.Commit or
// TX.Rollback.
func (db *DB) Begin(ctx context.Context, opts *TXOptions) (*TX, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	sqltx, err := db.sqldb.BeginTx(ctx, opts.plainTXOptions())
	if err != nil {
		return nil, errors.Wrap(classify("BEGIN", err), "cannot begin transaction")
	}
	return &TX{sqltx: sqltx, db: db}, nil
}

func (tx *TX) isDone() bool {
	return atomic.LoadInt32(&tx.done) == 1
}

func (tx *TX) setDone() error {
	if !atomic.CompareAndSwapInt32(&tx.done, 0, 1) {
		return ErrTXDone
	}
	return nil
}

// Exec runs a schema statement in the transaction.
func (tx *TX) Exec(ctx context.Context, ddl string) error {
	if tx.isDone() {
		return ErrTXDone
	}
	return execDDL(ctx, tx.db.logger, tx.sqltx, ddl)
}

// Run executes a statement with params in the transaction.
func (tx *TX) Run(ctx context.Context, stmt Expressible) (sql.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx.isDone() {
		return nil, ErrTXDone
	}
	n := stmt.Node()
	query, params := n.Template(), n.Params()
	var result sql.Result
	var err error
	if sqlstmt, ok := tx.lookupStmt(query); ok {
		// Register the prepared statement on the transaction. This does
		// not re-prepare the statement on the driver and the transaction
		// statement is closed by database/sql when the transaction ends.
		result, err = tx.sqltx.StmtContext(ctx, sqlstmt).ExecContext(ctx, params...)
	} else {
		result, err = tx.sqltx.ExecContext(ctx, query, params...)
	}
	return result, logged(ctx, tx.db.logger, query, params, err)
}

func (tx *TX) lookupStmt(query string) (*sql.Stmt, bool) {
	if tx.db.cache == nil {
		return nil, false
	}
	return tx.db.cache.lookupStmt(query)
}

// Commit commits the transaction.
func (tx *TX) Commit() error {
	err := tx.setDone()
	if err == nil {
		err = tx.sqltx.Commit()
	}
	return err
}

// Rollback aborts the transaction.
func (tx *TX) Rollback() error {
	err := tx.setDone()
	if err == nil {
		err = tx.sqltx.Rollback()
	}
	return err
}

func execDDL(ctx context.Context, logger *slog.Logger, e Execer, ddl string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_, err := e.ExecContext(ctx, ddl)
	return logged(ctx, logger, ddl, nil, err)
}

// logged logs the outcome of running query and returns the classified
// error, if any.
func logged(ctx context.Context, logger *slog.Logger, query string, params []any, err error) error {
	if err != nil {
		err = classify(query, err)
		logger.ErrorContext(ctx, "statement failed", slog.String("sql", query), slog.Any("error", err))
		return err
	}
	logger.DebugContext(ctx, "statement executed", slog.String("sql", query), slog.Int("params", len(params)))
	return nil
}
