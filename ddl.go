// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft

import (
	"github.com/pkg/errors"

	"github.com/canonical/sqlcraft/internal/expr"
)

// TableOptions modify a CREATE TABLE statement.
type TableOptions struct {
	// Temporary creates the table in the temp database.
	Temporary bool
	// IfNotExists makes the statement a no-op when the table exists.
	IfNotExists bool
	// WithoutRowID creates a table without the implicit rowid column. Such
	// tables must declare a primary key.
	WithoutRowID bool
}

// IndexOptions modify a CREATE INDEX statement.
type IndexOptions struct {
	Unique      bool
	IfNotExists bool
	// Name overrides the name derived from the table and the columns.
	Name string
}

// ViewOptions modify a CREATE VIEW statement.
type ViewOptions struct {
	Temporary   bool
	IfNotExists bool
}

// create renders CREATE [modifier] kind [IF NOT EXISTS] name.
func create(kind string, name Expressible, modifier string, ifNotExists bool) expr.Node {
	return expr.Clauses(
		expr.Literal("CREATE"),
		expr.If(modifier != "", modifier),
		expr.Literal(kind),
		expr.If(ifNotExists, "IF NOT EXISTS"),
		name,
	)
}

// drop renders DROP kind [IF EXISTS] name.
func drop(kind string, name Expressible, ifExists bool) string {
	return expr.MustInline(expr.Clauses(
		expr.Literal("DROP "+kind),
		expr.If(ifExists, "IF EXISTS"),
		name,
	))
}

// rename renders ALTER TABLE name RENAME TO "to". The new name is never
// qualified: a table cannot be moved between databases.
func rename(r relation, to string) string {
	return expr.MustInline(expr.Join(" ",
		expr.Literal("ALTER TABLE"),
		r.relationName(true),
		expr.Literal("RENAME TO"),
		expr.Identifier(to, ""),
	))
}

// inlineCaller inlines a statement embedding SQL supplied by the caller,
// which may not be valid.
func inlineCaller(kind string, r relation, stmt expr.Node) (string, error) {
	sql, err := expr.Inline(stmt)
	if err != nil {
		return "", errors.Wrapf(err, "cannot create %s %q", kind, r.name)
	}
	return sql, nil
}

func tableModifier(temporary bool) string {
	if temporary {
		return "TEMPORARY"
	}
	return ""
}

// Create returns the CREATE TABLE statement for the table. The definitions
// of the table are added to the builder by build, in order.
func (t Table) Create(opts TableOptions, build func(b *TableBuilder)) string {
	var b TableBuilder
	build(&b)
	return expr.MustInline(expr.Clauses(
		create("TABLE", t, tableModifier(opts.Temporary), opts.IfNotExists),
		expr.Wrap("", b.definitions...),
		expr.If(opts.WithoutRowID, "WITHOUT ROWID"),
	))
}

// CreateAs returns the CREATE TABLE ... AS statement creating the table from
// the result of query. WithoutRowID is ignored as SQLite does not allow it
// here. The query is embedded verbatim with its params inlined; an error is
// returned if a param has no literal form or the params do not match the
// parameters of the query.
func (t Table) CreateAs(opts TableOptions, query Expressible) (string, error) {
	return inlineCaller("table", t.relation, expr.Join(" ",
		create("TABLE", t, tableModifier(opts.Temporary), opts.IfNotExists),
		expr.Literal("AS"),
		query,
	))
}

// MustCreateAs is like CreateAs but panics on error.
func (t Table) MustCreateAs(opts TableOptions, query Expressible) string {
	sql, err := t.CreateAs(opts, query)
	if err != nil {
		panic(err)
	}
	return sql
}

// AddColumn returns the ALTER TABLE statement adding a column. SQLite
// rejects a new column that is a primary key or unique, and a NOT NULL
// column without a non-null default.
func (t Table) AddColumn(def ColumnDefinition) string {
	return expr.MustInline(expr.Join(" ",
		expr.Literal("ALTER TABLE"),
		t,
		expr.Literal("ADD COLUMN"),
		def.columnDefinition(),
	))
}

// Rename returns the statement renaming the table to.
func (t Table) Rename(to string) string {
	return rename(t.relation, to)
}

// CreateIndex returns the CREATE INDEX statement over columns of the table.
// Unless opts.Name is set the index is named after the table and the
// columns, so DropIndex with the same columns finds it.
func (t Table) CreateIndex(opts IndexOptions, columns ...Expressible) string {
	name := opts.Name
	if name == "" {
		name = expr.IndexName(t.name, columns...)
	}
	modifier := ""
	if opts.Unique {
		modifier = "UNIQUE"
	}
	return expr.MustInline(expr.Join(" ",
		create("INDEX", expr.Identifier(name, t.database), modifier, opts.IfNotExists),
		expr.Literal("ON"),
		t.relationName(false),
		expr.Wrap("", columns...),
	))
}

// DropIndex returns the statement dropping the index created by CreateIndex
// over the same columns.
func (t Table) DropIndex(ifExists bool, columns ...Expressible) string {
	return t.DropIndexNamed(expr.IndexName(t.name, columns...), ifExists)
}

// DropIndexNamed returns the statement dropping the index called name from
// the database of the table.
func (t Table) DropIndexNamed(name string, ifExists bool) string {
	return drop("INDEX", expr.Identifier(name, t.database), ifExists)
}

// Drop returns the DROP TABLE statement for the table.
func (t Table) Drop(ifExists bool) string {
	return drop("TABLE", t, ifExists)
}

// Create returns the CREATE VIEW statement for the view over the result of
// query. The query is embedded as by Table.CreateAs.
func (v View) Create(opts ViewOptions, query Expressible) (string, error) {
	return inlineCaller("view", v.relation, expr.Join(" ",
		create("VIEW", v, tableModifier(opts.Temporary), opts.IfNotExists),
		expr.Literal("AS"),
		query,
	))
}

// MustCreate is like Create but panics on error.
func (v View) MustCreate(opts ViewOptions, query Expressible) string {
	sql, err := v.Create(opts, query)
	if err != nil {
		panic(err)
	}
	return sql
}

// Drop returns the DROP VIEW statement for the view.
func (v View) Drop(ifExists bool) string {
	return drop("VIEW", v, ifExists)
}

// Module is a virtual table module along with its arguments.
type Module struct {
	name      string
	arguments []Expressible
}

// NewModule returns the module registered under name, called with args.
func NewModule(name string, args ...Expressible) Module {
	return Module{name: expr.Quote(name, '"'), arguments: args}
}

// FTS4 returns the full-text search module version 4.
func FTS4(args ...Expressible) Module {
	return Module{name: "fts4", arguments: args}
}

// FTS5 returns the full-text search module version 5.
func FTS5(args ...Expressible) Module {
	return Module{name: "fts5", arguments: args}
}

// RTree returns the R*Tree index module.
func RTree(args ...Expressible) Module {
	return Module{name: "rtree", arguments: args}
}

// Node implements Expressible. A module renders as name(arg1, arg2, ...).
func (m Module) Node() Node {
	return expr.Wrap(m.name, m.arguments...)
}

// Create returns the CREATE VIRTUAL TABLE statement for the table. The
// module arguments are embedded as by Table.CreateAs.
func (v VirtualTable) Create(ifNotExists bool, module Module) (string, error) {
	return inlineCaller("virtual table", v.relation, expr.Join(" ",
		create("VIRTUAL TABLE", v, "", ifNotExists),
		expr.Literal("USING"),
		module,
	))
}

// MustCreate is like Create but panics on error.
func (v VirtualTable) MustCreate(ifNotExists bool, module Module) string {
	sql, err := v.Create(ifNotExists, module)
	if err != nil {
		panic(err)
	}
	return sql
}

// Rename returns the statement renaming the virtual table to.
func (v VirtualTable) Rename(to string) string {
	return rename(v.relation, to)
}

// Drop returns the DROP TABLE statement for the virtual table.
func (v VirtualTable) Drop(ifExists bool) string {
	return drop("TABLE", v, ifExists)
}
