// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"
)

// statementCache holds the sql.Stmt values prepared on a database, indexed
// by their SQL. Statements built from the same setters and conditions share
// a template, so the template is enough to identify the prepared statement.
//
// The mutex must be locked when accessing stmts.
type statementCache struct {
	stmts map[string]*sql.Stmt
	mutex sync.RWMutex
}

func newStatementCache() *statementCache {
	return &statementCache{stmts: map[string]*sql.Stmt{}}
}

// prepareSubstrate is an object that queries can be prepared on, e.g. a sql.DB
// or sql.Conn.
type prepareSubstrate interface {
	PrepareContext(context.Context, string) (*sql.Stmt, error)
}

// lookupStmt returns the statement prepared for query, if any.
func (sc *statementCache) lookupStmt(query string) (*sql.Stmt, bool) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	sqlstmt, ok := sc.stmts[query]
	return sqlstmt, ok
}

// prepareStmt returns the statement prepared for query, preparing it on ps
// if it is not in the cache yet.
func (sc *statementCache) prepareStmt(ctx context.Context, ps prepareSubstrate, query string) (*sql.Stmt, error) {
	if sqlstmt, ok := sc.lookupStmt(query); ok {
		return sqlstmt, nil
	}
	sqlstmt, err := ps.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	// Check if a statement has been inserted by someone else since we last
	// checked.
	if sqlstmtAlt, ok := sc.stmts[query]; ok {
		sqlstmt.Close()
		return sqlstmtAlt, nil
	}
	sc.stmts[query] = sqlstmt
	return sqlstmt, nil
}

// close closes and forgets every prepared statement.
func (sc *statementCache) close() error {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	var firstErr error
	for query, sqlstmt := range sc.stmts {
		if err := sqlstmt.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "cannot close statement %q", query)
		}
		delete(sc.stmts, query)
	}
	return firstErr
}

// len returns the number of prepared statements held.
func (sc *statementCache) len() int {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return len(sc.stmts)
}
