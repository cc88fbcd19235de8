// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft

import (
	"github.com/canonical/sqlcraft/internal/expr"
)

// Relation is a named schema object that statements can target: a table, a
// view or a virtual table.
type Relation interface {
	Expressible

	// Name returns the unqualified name of the relation.
	Name() string

	// Database returns the name of the attached database holding the
	// relation, or the empty string for the default one.
	Database() string

	relationName(qualified bool) expr.Node
}

// relation holds what all kinds of relation share.
type relation struct {
	name     string
	database string
}

// Name implements Relation.
func (r relation) Name() string {
	return r.name
}

// Database implements Relation.
func (r relation) Database() string {
	return r.database
}

// Node implements Expressible. A relation renders as its qualified name.
func (r relation) Node() Node {
	return r.relationName(true)
}

func (r relation) relationName(qualified bool) expr.Node {
	if qualified {
		return expr.Identifier(r.name, r.database)
	}
	return expr.Identifier(r.name, "")
}

// Table is a handle on a table.
type Table struct {
	relation
}

// NewTable returns a handle on the table called name in the default
// database.
func NewTable(name string) Table {
	return Table{relation{name: name}}
}

// In returns a handle on the table of the same name in the given attached
// database.
func (t Table) In(database string) Table {
	t.database = database
	return t
}

// View is a handle on a view.
type View struct {
	relation
}

// NewView returns a handle on the view called name in the default database.
func NewView(name string) View {
	return View{relation{name: name}}
}

// In returns a handle on the view of the same name in the given attached
// database.
func (v View) In(database string) View {
	v.database = database
	return v
}

// VirtualTable is a handle on a table implemented by a module such as FTS5.
type VirtualTable struct {
	relation
}

// NewVirtualTable returns a handle on the virtual table called name in the
// default database.
func NewVirtualTable(name string) VirtualTable {
	return VirtualTable{relation{name: name}}
}

// In returns a handle on the virtual table of the same name in the given
// attached database.
func (v VirtualTable) In(database string) VirtualTable {
	v.database = database
	return v
}
