// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft

import (
	"fmt"

	"github.com/canonical/sqlcraft/internal/expr"
	"github.com/canonical/sqlcraft/internal/typeinfo"
)

// TableBuilder collects the definitions of a table created by Table.Create.
// Definitions render in the order they are added.
type TableBuilder struct {
	definitions []Expressible
}

// Column adds a column definition.
func (b *TableBuilder) Column(def ColumnDefinition) {
	b.definitions = append(b.definitions, def.columnDefinition())
}

// PrimaryKey adds a table primary key constraint over the key columns.
func (b *TableBuilder) PrimaryKey(key Key) {
	b.definitions = append(b.definitions, expr.Prefix("PRIMARY KEY", key))
}

// Unique adds a table unique constraint over the key columns.
func (b *TableBuilder) Unique(key Key) {
	b.definitions = append(b.definitions, expr.Prefix("UNIQUE", key))
}

// Check adds a table check constraint.
func (b *TableBuilder) Check(condition Expression[bool]) {
	b.definitions = append(b.definitions, expr.Prefix("CHECK", condition))
}

// ForeignKey adds a table foreign key constraint.
func (b *TableBuilder) ForeignKey(fk ForeignKeyDefinition) {
	b.definitions = append(b.definitions, fk.foreignKeyDefinition())
}

// ColumnDefinition is implemented by ColumnDef, TextColumnDef and
// AutoincrementDef.
type ColumnDefinition interface {
	columnDefinition() expr.Node
}

// ColumnDef describes a column holding values of the logical type T. The
// column is declared NOT NULL unless T is an Optional. Zero fields are left
// out of the definition.
type ColumnDef[T any] struct {
	Name       Expression[T]
	PrimaryKey bool
	Unique     bool
	Check      Expression[bool]
	Default    Expression[T]
	References ForeignRef[T]
}

func (d ColumnDef[T]) columnDefinition() expr.Node {
	return d.render(nil)
}

func (d ColumnDef[T]) render(collate Expressible) expr.Node {
	info := columnInfo[T]()
	var check, dflt Expressible
	if !d.Check.IsZero() {
		check = expr.Prefix("CHECK", d.Check)
	}
	if !d.Default.IsZero() {
		dflt = expr.Prefix("DEFAULT", d.Default)
	}
	return expr.Clauses(
		d.Name,
		expr.Literal(info.Datatype()),
		expr.If(d.PrimaryKey, "PRIMARY KEY"),
		expr.If(!info.Nullable, "NOT NULL"),
		expr.If(d.Unique, "UNIQUE"),
		check,
		dflt,
		d.References.node(),
		collate,
	)
}

// TextColumnDef describes a text column, which may also name the collating
// sequence used to compare its values.
type TextColumnDef[T Text] struct {
	ColumnDef[T]
	Collate Collation
}

func (d TextColumnDef[T]) columnDefinition() expr.Node {
	var collate Expressible
	if !d.Collate.node.IsZero() {
		collate = expr.Join(" ", expr.Literal("COLLATE"), d.Collate.node)
	}
	return d.render(collate)
}

// AutoincrementDef describes an integer column which is the sole primary key
// of its table, with values chosen by SQLite that are never reused.
type AutoincrementDef[T ~int | ~int64] struct {
	Name  Expression[T]
	Check Expression[bool]
}

func (d AutoincrementDef[T]) columnDefinition() expr.Node {
	var check Expressible
	if !d.Check.IsZero() {
		check = expr.Prefix("CHECK", d.Check)
	}
	return expr.Clauses(
		d.Name,
		expr.Literal(typeinfo.Integer.Datatype()),
		expr.Literal("PRIMARY KEY AUTOINCREMENT"),
		expr.Literal("NOT NULL"),
		check,
	)
}

// columnInfo returns the type information of the logical type T. T is fixed
// by the column expression, which can only be built for logical types.
func columnInfo[T any]() *typeinfo.Info {
	var zero T
	info, err := typeinfo.TypeInfo(zero)
	if err != nil {
		panic(fmt.Sprintf("cannot declare column of type %T: %s", zero, err))
	}
	return info
}

// Action is what happens to referencing rows when the referenced row is
// updated or deleted.
type Action struct {
	name string
}

var (
	NoAction   = Action{"NO ACTION"}
	Restrict   = Action{"RESTRICT"}
	SetNull    = Action{"SET NULL"}
	SetDefault = Action{"SET DEFAULT"}
	Cascade    = Action{"CASCADE"}
)

// String returns the SQL keywords of the action.
func (a Action) String() string {
	return a.name
}

// actionClause renders keyword followed by the action, or nothing when no
// action was given.
func actionClause(keyword string, a Action) expr.Node {
	if a.name == "" {
		return expr.Node{}
	}
	return expr.Literal(keyword + " " + a.name)
}

// Collation is a collating sequence used to compare text.
type Collation struct {
	node expr.Node
}

var (
	Binary = Collation{expr.Literal("BINARY")}
	NoCase = Collation{expr.Literal("NOCASE")}
	RTrim  = Collation{expr.Literal("RTRIM")}
)

// CustomCollation returns the collating sequence registered with the
// connection under name.
func CustomCollation(name string) Collation {
	return Collation{expr.Literal(expr.Quote(name, '"'))}
}

// String returns the SQL of the collation.
func (c Collation) String() string {
	return c.node.Template()
}

// reference renders REFERENCES "table" (columns) followed by the actions.
// The referenced table is never qualified: SQLite requires it to be in the
// same database as the referencing one.
func reference(table Relation, columns Expressible, onUpdate, onDelete Action) expr.Node {
	return expr.Clauses(
		expr.Literal("REFERENCES"),
		table.relationName(false),
		expr.Wrap("", columns),
		actionClause("ON UPDATE", onUpdate),
		actionClause("ON DELETE", onDelete),
	)
}

// ForeignRef is the column-level reference of a column of type T to a column
// of the same type in another table.
type ForeignRef[T any] struct {
	table    Relation
	column   Expression[T]
	onUpdate Action
	onDelete Action
}

// RefersTo returns a reference to column in table.
func RefersTo[T any](table Relation, column Expression[T]) ForeignRef[T] {
	return ForeignRef[T]{table: table, column: column}
}

// RefersToNullable returns a reference from a nullable column to a column of
// the matching non-nullable type.
func RefersToNullable[V Value](table Relation, column Expression[V]) ForeignRef[Optional[V]] {
	return ForeignRef[Optional[V]]{table: table, column: Nullable(column)}
}

// OnUpdate sets the action taken when the referenced row is updated.
func (r ForeignRef[T]) OnUpdate(a Action) ForeignRef[T] {
	r.onUpdate = a
	return r
}

// OnDelete sets the action taken when the referenced row is deleted.
func (r ForeignRef[T]) OnDelete(a Action) ForeignRef[T] {
	r.onDelete = a
	return r
}

func (r ForeignRef[T]) node() expr.Node {
	if r.table == nil {
		return expr.Node{}
	}
	return reference(r.table, r.column, r.onUpdate, r.onDelete)
}

// Key is a list of one to four columns used by primary key, unique and
// foreign key constraints and by upsert targets. It is implemented by
// Expression and the tuples returned by Pair, Triple and Quad.
type Key interface {
	Expressible
	key()
}

func (Expression[T]) key() {}

// Tuple2 is a key over two columns.
type Tuple2[A, B any] struct {
	a Expression[A]
	b Expression[B]
}

// Pair returns the key over columns a and b.
func Pair[A, B any](a Expression[A], b Expression[B]) Tuple2[A, B] {
	return Tuple2[A, B]{a: a, b: b}
}

// Node implements Expressible.
func (t Tuple2[A, B]) Node() Node {
	return expr.Join(", ", t.a, t.b)
}

func (Tuple2[A, B]) key() {}

// Tuple3 is a key over three columns.
type Tuple3[A, B, C any] struct {
	a Expression[A]
	b Expression[B]
	c Expression[C]
}

// Triple returns the key over columns a, b and c.
func Triple[A, B, C any](a Expression[A], b Expression[B], c Expression[C]) Tuple3[A, B, C] {
	return Tuple3[A, B, C]{a: a, b: b, c: c}
}

// Node implements Expressible.
func (t Tuple3[A, B, C]) Node() Node {
	return expr.Join(", ", t.a, t.b, t.c)
}

func (Tuple3[A, B, C]) key() {}

// Tuple4 is a key over four columns.
type Tuple4[A, B, C, D any] struct {
	a Expression[A]
	b Expression[B]
	c Expression[C]
	d Expression[D]
}

// Quad returns the key over columns a, b, c and d.
func Quad[A, B, C, D any](a Expression[A], b Expression[B], c Expression[C], d Expression[D]) Tuple4[A, B, C, D] {
	return Tuple4[A, B, C, D]{a: a, b: b, c: c, d: d}
}

// Node implements Expressible.
func (t Tuple4[A, B, C, D]) Node() Node {
	return expr.Join(", ", t.a, t.b, t.c, t.d)
}

func (Tuple4[A, B, C, D]) key() {}

// ForeignKeyDefinition is implemented by ForeignKeyDef.
type ForeignKeyDefinition interface {
	foreignKeyDefinition() expr.Node
}

// ForeignKeyDef is a table foreign key constraint. The referencing and the
// referenced columns have the same key type so they pair up positionally.
type ForeignKeyDef[K Key] struct {
	columns    K
	table      Relation
	referenced K
	onUpdate   Action
	onDelete   Action
}

// ForeignKey returns the constraint that columns refer to the referenced
// columns of table.
func ForeignKey[K Key](columns K, table Relation, referenced K) ForeignKeyDef[K] {
	return ForeignKeyDef[K]{columns: columns, table: table, referenced: referenced}
}

// OnUpdate sets the action taken when the referenced row is updated.
func (fk ForeignKeyDef[K]) OnUpdate(a Action) ForeignKeyDef[K] {
	fk.onUpdate = a
	return fk
}

// OnDelete sets the action taken when the referenced row is deleted.
func (fk ForeignKeyDef[K]) OnDelete(a Action) ForeignKeyDef[K] {
	fk.onDelete = a
	return fk
}

func (fk ForeignKeyDef[K]) foreignKeyDefinition() expr.Node {
	return expr.Join(" ",
		expr.Prefix("FOREIGN KEY", fk.columns),
		reference(fk.table, fk.referenced, fk.onUpdate, fk.onDelete),
	)
}
