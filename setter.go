// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft

import (
	"github.com/canonical/sqlcraft/internal/expr"
)

// Setter assigns a value to a column in an UPDATE or an upsert. The column
// and the value always have compatible logical types: the constructors below
// are the only way to make one.
type Setter struct {
	column Expressible
	value  Expressible
}

// Node implements Expressible. A setter renders as column = value.
func (s Setter) Node() Node {
	return expr.Infix("=", s.column, s.value, false)
}

// Column returns the column the setter assigns to.
func (s Setter) Column() Node {
	return s.column.Node()
}

// Value returns the expression assigned to the column.
func (s Setter) Value() Node {
	return s.value.Node()
}

// assignee returns the column a setter assigns to. SQLite only accepts bare
// column names there, so the qualification of a Qualified column is dropped.
func assignee[T any](column Expression[T]) Expressible {
	if column.column == "" {
		return column
	}
	return expr.Identifier(column.column, "")
}

// Set assigns the value of an expression of the same logical type to column.
func Set[T any](column, value Expression[T]) Setter {
	return Setter{column: assignee(column), value: value}
}

// Assign assigns a literal value to column. For nullable columns pass an
// Optional; an unset Optional assigns NULL.
func Assign[T any](column Expression[T], value T) Setter {
	return Setter{column: assignee(column), value: bind(value)}
}

// SetOptional assigns a non-nullable expression to a nullable column.
func SetOptional[V Value](column Expression[Optional[V]], value Expression[V]) Setter {
	return Setter{column: assignee(column), value: value}
}

// SetExcluded assigns to column the value from the row that failed to be
// inserted, for use in an upsert: "column" = excluded."column".
func SetExcluded[T any](column Expression[T]) Setter {
	return Setter{column: assignee(column), value: Excluded(column)}
}

// AddAssign renders column = (column + value).
func AddAssign[T Number](column, value Expression[T]) Setter {
	return Set(column, Add(column, value))
}

// SubAssign renders column = (column - value).
func SubAssign[T Number](column, value Expression[T]) Setter {
	return Set(column, Sub(column, value))
}

// MulAssign renders column = (column * value).
func MulAssign[T Number](column, value Expression[T]) Setter {
	return Set(column, Mul(column, value))
}

// DivAssign renders column = (column / value).
func DivAssign[T Number](column, value Expression[T]) Setter {
	return Set(column, Div(column, value))
}

// ModAssign renders column = (column % value).
func ModAssign[T Integer](column, value Expression[T]) Setter {
	return Set(column, Mod(column, value))
}

// ShiftLeftAssign renders column = (column << value).
func ShiftLeftAssign[T Integer](column, value Expression[T]) Setter {
	return Set(column, ShiftLeft(column, value))
}

// ShiftRightAssign renders column = (column >> value).
func ShiftRightAssign[T Integer](column, value Expression[T]) Setter {
	return Set(column, ShiftRight(column, value))
}

// BitAndAssign renders column = (column & value).
func BitAndAssign[T Integer](column, value Expression[T]) Setter {
	return Set(column, BitAnd(column, value))
}

// BitOrAssign renders column = (column | value).
func BitOrAssign[T Integer](column, value Expression[T]) Setter {
	return Set(column, BitOr(column, value))
}

// BitXorAssign assigns the exclusive or of column and value to column.
func BitXorAssign[T Integer](column, value Expression[T]) Setter {
	return Set(column, BitXor(column, value))
}

// Append renders column = (column || value).
func Append[T Text](column, value Expression[T]) Setter {
	return Set(column, Concat(column, value))
}

// Increment renders column = (column + 1).
func Increment[T Integer](column Expression[T]) Setter {
	return AddAssign(column, one[T]())
}

// Decrement renders column = (column - 1).
func Decrement[T Integer](column Expression[T]) Setter {
	return SubAssign(column, one[T]())
}

// one returns the literal 1 typed to match the column.
func one[T Integer]() Expression[T] {
	return Expression[T]{node: expr.Bind(int64(1))}
}
