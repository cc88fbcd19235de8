// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft

import (
	"github.com/canonical/sqlcraft/internal/expr"
)

func infix[T any](op string, lhs, rhs Expressible) Expression[T] {
	return Expression[T]{node: expr.Infix(op, lhs, rhs, true)}
}

func wrap[T any](function string, args ...Expressible) Expression[T] {
	return Expression[T]{node: expr.Wrap(function, args...)}
}

// Add renders (lhs + rhs).
func Add[T Number](lhs, rhs Expression[T]) Expression[T] {
	return infix[T]("+", lhs, rhs)
}

// Sub renders (lhs - rhs).
func Sub[T Number](lhs, rhs Expression[T]) Expression[T] {
	return infix[T]("-", lhs, rhs)
}

// Mul renders (lhs * rhs).
func Mul[T Number](lhs, rhs Expression[T]) Expression[T] {
	return infix[T]("*", lhs, rhs)
}

// Div renders (lhs / rhs).
func Div[T Number](lhs, rhs Expression[T]) Expression[T] {
	return infix[T]("/", lhs, rhs)
}

// Mod renders (lhs % rhs).
func Mod[T Integer](lhs, rhs Expression[T]) Expression[T] {
	return infix[T]("%", lhs, rhs)
}

// ShiftLeft renders (lhs << rhs).
func ShiftLeft[T Integer](lhs, rhs Expression[T]) Expression[T] {
	return infix[T]("<<", lhs, rhs)
}

// ShiftRight renders (lhs >> rhs).
func ShiftRight[T Integer](lhs, rhs Expression[T]) Expression[T] {
	return infix[T](">>", lhs, rhs)
}

// BitAnd renders (lhs & rhs).
func BitAnd[T Integer](lhs, rhs Expression[T]) Expression[T] {
	return infix[T]("&", lhs, rhs)
}

// BitOr renders (lhs | rhs).
func BitOr[T Integer](lhs, rhs Expression[T]) Expression[T] {
	return infix[T]("|", lhs, rhs)
}

// BitXor renders the exclusive or of lhs and rhs. SQLite has no XOR operator
// so it is spelled (~(lhs & rhs) & (lhs | rhs)).
func BitXor[T Integer](lhs, rhs Expression[T]) Expression[T] {
	not := Expression[T]{node: expr.Join("", expr.Literal("~"), infix[T]("&", lhs, rhs))}
	return infix[T]("&", not, infix[T]("|", lhs, rhs))
}

// Concat renders (lhs || rhs).
func Concat[T Text](lhs, rhs Expression[T]) Expression[T] {
	return infix[T]("||", lhs, rhs)
}

// Eq renders (lhs = rhs).
func Eq[T any](lhs, rhs Expression[T]) Expression[bool] {
	return infix[bool]("=", lhs, rhs)
}

// Ne renders (lhs != rhs).
func Ne[T any](lhs, rhs Expression[T]) Expression[bool] {
	return infix[bool]("!=", lhs, rhs)
}

// Lt renders (lhs < rhs).
func Lt[T any](lhs, rhs Expression[T]) Expression[bool] {
	return infix[bool]("<", lhs, rhs)
}

// Le renders (lhs <= rhs).
func Le[T any](lhs, rhs Expression[T]) Expression[bool] {
	return infix[bool]("<=", lhs, rhs)
}

// Gt renders (lhs > rhs).
func Gt[T any](lhs, rhs Expression[T]) Expression[bool] {
	return infix[bool](">", lhs, rhs)
}

// Ge renders (lhs >= rhs).
func Ge[T any](lhs, rhs Expression[T]) Expression[bool] {
	return infix[bool](">=", lhs, rhs)
}

// And renders (lhs AND rhs).
func And[T Boolean](lhs, rhs Expression[T]) Expression[T] {
	return infix[T]("AND", lhs, rhs)
}

// Or renders (lhs OR rhs).
func Or[T Boolean](lhs, rhs Expression[T]) Expression[T] {
	return infix[T]("OR", lhs, rhs)
}

// Not renders NOT (e).
func Not[T Boolean](e Expression[T]) Expression[T] {
	return Expression[T]{node: expr.Prefix("NOT", e)}
}

// IsNull renders (e IS NULL).
func IsNull[V Value](e Expression[Optional[V]]) Expression[bool] {
	return infix[bool]("IS", e, expr.Literal("NULL"))
}

// IsNotNull renders (e IS NOT NULL).
func IsNotNull[V Value](e Expression[Optional[V]]) Expression[bool] {
	return infix[bool]("IS NOT", e, expr.Literal("NULL"))
}

// In renders (e IN (v1, v2, ...)).
func In[V Value](e Expression[V], values ...V) Expression[bool] {
	items := make([]Expressible, len(values))
	for i, v := range values {
		items[i] = bind(v)
	}
	return infix[bool]("IN", e, expr.Wrap("", items...))
}

// Lower renders lower(e).
func Lower[T Text](e Expression[T]) Expression[T] {
	return wrap[T]("lower", e)
}

// Upper renders upper(e).
func Upper[T Text](e Expression[T]) Expression[T] {
	return wrap[T]("upper", e)
}

// Length renders length(e).
func Length[T Text](e Expression[T]) Expression[int64] {
	return wrap[int64]("length", e)
}

// Abs renders abs(e).
func Abs[T Number](e Expression[T]) Expression[T] {
	return wrap[T]("abs", e)
}

// Coalesce renders coalesce(e, fallback), which is never NULL.
func Coalesce[V Value](e Expression[Optional[V]], fallback Expression[V]) Expression[V] {
	return wrap[V]("coalesce", e, fallback)
}
