// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft

import (
	"github.com/canonical/sqlcraft/internal/expr"
)

// Resolution is the conflict resolution algorithm of an INSERT OR statement.
type Resolution struct {
	name string
}

var (
	Replace  = Resolution{"REPLACE"}
	Rollback = Resolution{"ROLLBACK"}
	Abort    = Resolution{"ABORT"}
	Fail     = Resolution{"FAIL"}
	Ignore   = Resolution{"IGNORE"}
)

// InsertStatement is an INSERT into a table. Its params are the values of
// the setters, in order.
type InsertStatement struct {
	table      Table
	resolution Resolution
	setters    []Setter
	upsert     expr.Node
}

// Insert returns the statement inserting a row with the columns assigned by
// setters. With no setters the row takes the default values.
func (t Table) Insert(setters ...Setter) InsertStatement {
	return InsertStatement{table: t, setters: setters}
}

// InsertOr returns the statement inserting a row, resolving constraint
// violations with the given algorithm.
func (t Table) InsertOr(resolution Resolution, setters ...Setter) InsertStatement {
	return InsertStatement{table: t, resolution: resolution, setters: setters}
}

// OnConflict turns the insert into an upsert: when the row conflicts on
// target the existing row is updated by the setters instead. Use SetExcluded to
// copy values from the row that failed to be inserted.
func (s InsertStatement) OnConflict(target Key, setter Setter, more ...Setter) InsertStatement {
	s.upsert = expr.Join(" ",
		expr.Prefix("ON CONFLICT", target),
		expr.Literal("DO UPDATE SET"),
		setterList(append([]Setter{setter}, more...)),
	)
	return s
}

// OnConflictDoNothing makes a row conflicting on target be skipped.
func (s InsertStatement) OnConflictDoNothing(target Key) InsertStatement {
	s.upsert = expr.Join(" ",
		expr.Prefix("ON CONFLICT", target),
		expr.Literal("DO NOTHING"),
	)
	return s
}

// Node implements Expressible.
func (s InsertStatement) Node() Node {
	keyword := "INSERT"
	if s.resolution.name != "" {
		keyword += " OR " + s.resolution.name
	}
	into := expr.Join(" ", expr.Literal(keyword), expr.Literal("INTO"), s.table)
	if len(s.setters) == 0 {
		return expr.Clauses(into, expr.Literal("DEFAULT VALUES"), s.upsert)
	}
	columns := make([]Expressible, len(s.setters))
	values := make([]Expressible, len(s.setters))
	for i, setter := range s.setters {
		columns[i] = setter.column
		values[i] = setter.value
	}
	return expr.Clauses(
		into,
		expr.Wrap("", columns...),
		expr.Literal("VALUES"),
		expr.Wrap("", values...),
		s.upsert,
	)
}

// String returns the SQL of the statement with its values inlined.
func (s InsertStatement) String() string {
	return inlined(s)
}

// UpdateStatement is an UPDATE of the rows of a table.
type UpdateStatement struct {
	table   Table
	setters []Setter
	where   Expression[bool]
}

// Update returns the statement assigning the setters to every row of the
// table. Use Where to restrict the rows.
func (t Table) Update(setter Setter, more ...Setter) UpdateStatement {
	return UpdateStatement{table: t, setters: append([]Setter{setter}, more...)}
}

// Where restricts the update to the rows matching condition. Conditions
// from repeated calls are combined with AND.
func (s UpdateStatement) Where(condition Expression[bool]) UpdateStatement {
	if s.where.IsZero() {
		s.where = condition
	} else {
		s.where = And(s.where, condition)
	}
	return s
}

// Node implements Expressible.
func (s UpdateStatement) Node() Node {
	var where Expressible
	if !s.where.IsZero() {
		where = expr.Join(" ", expr.Literal("WHERE"), s.where)
	}
	return expr.Clauses(
		expr.Literal("UPDATE"),
		s.table,
		expr.Literal("SET"),
		setterList(s.setters),
		where,
	)
}

// String returns the SQL of the statement with its values inlined.
func (s UpdateStatement) String() string {
	return inlined(s)
}

// setterList renders "a" = ?, "b" = ?.
func setterList(setters []Setter) expr.Node {
	items := make([]Expressible, len(setters))
	for i, s := range setters {
		items[i] = s
	}
	return expr.Join(", ", items...)
}

func inlined(e Expressible) string {
	sql, err := expr.Inline(e)
	if err != nil {
		return e.Node().String()
	}
	return sql
}
