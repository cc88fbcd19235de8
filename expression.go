// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft

import (
	"time"

	"github.com/google/uuid"

	"github.com/canonical/sqlcraft/internal/expr"
	"github.com/canonical/sqlcraft/internal/typeinfo"
)

// Node is a SQL fragment along with the values bound to its placeholders.
type Node = expr.Node

// Expressible is implemented by anything that renders as a Node: typed
// expressions, setters, relations and pre-built queries.
type Expressible = expr.Expressible

// Blob is the logical type of binary columns.
type Blob []byte

// Value is the set of logical types a column may hold.
type Value interface {
	~int | ~int64 | ~float64 | ~string | ~bool | ~[]byte | time.Time | uuid.UUID
}

// Optional is the nullable counterpart of the logical type V.
type Optional[V Value] struct {
	Value V
	Valid bool
}

// Some returns a set Optional holding v.
func Some[V Value](v V) Optional[V] {
	return Optional[V]{Value: v, Valid: true}
}

// None returns an unset Optional.
func None[V Value]() Optional[V] {
	return Optional[V]{}
}

// NullableValue implements typeinfo.Nullable.
func (o Optional[V]) NullableValue() (any, bool) {
	return o.Value, o.Valid
}

// Integer is the set of logical types that hold whole numbers.
type Integer interface {
	~int | ~int64 | Optional[int] | Optional[int64]
}

// Number is the set of numeric logical types.
type Number interface {
	Integer | ~float64 | Optional[float64]
}

// Text is the set of string logical types.
type Text interface {
	~string | Optional[string]
}

// Boolean is the set of boolean logical types.
type Boolean interface {
	~bool | Optional[bool]
}

// Expression is a SQL expression whose value has the logical type T. T is
// never stored: it only constrains which expressions may be combined.
type Expression[T any] struct {
	node expr.Node
	// column is the unqualified name of the column the expression refers
	// to, if any.
	column string
}

// Node implements Expressible.
func (e Expression[T]) Node() Node {
	return e.node
}

// IsZero reports whether e is the zero Expression, which is used to mark
// optional clauses as absent.
func (e Expression[T]) IsZero() bool {
	return e.node.IsZero()
}

// String returns the SQL of the expression with its values inlined.
func (e Expression[T]) String() string {
	return inlined(e)
}

// Col returns a reference to the column called name holding values of type V.
func Col[V Value](name string) Expression[V] {
	return Expression[V]{node: expr.Identifier(name, ""), column: name}
}

// NullableCol returns a reference to the nullable column called name.
func NullableCol[V Value](name string) Expression[Optional[V]] {
	return Expression[Optional[V]]{node: expr.Identifier(name, ""), column: name}
}

// Bind returns an expression bound to the literal value v.
func Bind[V Value](v V) Expression[V] {
	return Expression[V]{node: bind(v)}
}

// BindOptional returns an expression bound to o, rendering NULL when o is
// not set.
func BindOptional[V Value](o Optional[V]) Expression[Optional[V]] {
	return Expression[Optional[V]]{node: bind(o)}
}

// Null returns the NULL literal of the nullable counterpart of V.
func Null[V Value]() Expression[Optional[V]] {
	return Expression[Optional[V]]{node: expr.Literal("NULL")}
}

// Nullable widens e to the nullable counterpart of its type. The SQL is
// unchanged.
func Nullable[V Value](e Expression[V]) Expression[Optional[V]] {
	return Expression[Optional[V]]{node: e.node, column: e.column}
}

// Qualified returns the column prefixed with the name of the relation, as in
// "users"."email".
func Qualified[T any](r Relation, column Expression[T]) Expression[T] {
	return Expression[T]{node: expr.Join(".", r.relationName(true), column), column: column.column}
}

// Excluded returns the column of the row that failed to be inserted, for use
// in an upsert: excluded."column". A qualified column refers to the same
// excluded column as the bare one.
func Excluded[T any](column Expression[T]) Expression[T] {
	var name Expressible = column
	if column.column != "" {
		name = expr.Identifier(column.column, "")
	}
	return Expression[T]{node: expr.Join(".", expr.Literal("excluded"), name)}
}

// bind converts v to its datatype value and binds it to a placeholder. Only
// values of the Value types, or Optionals of them, reach this point.
func bind(v any) expr.Node {
	dv, err := typeinfo.DatatypeValue(v)
	if err != nil {
		panic("internal error: " + err.Error())
	}
	return expr.Bind(dv)
}

// RawQuery adapts a query built elsewhere, such as by a SELECT builder, so
// it can be embedded in a statement. The SQL is used verbatim. Params of the
// logical types, and Optionals of them, are converted to the values stored
// in the database; other params are passed on unchanged.
func RawQuery(sql string, params ...any) Node {
	converted := make([]any, len(params))
	for i, p := range params {
		dv, err := typeinfo.DatatypeValue(p)
		if err != nil {
			dv = p
		}
		converted[i] = dv
	}
	return expr.New(sql, converted...)
}
