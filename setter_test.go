// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft_test

import (
	. "gopkg.in/check.v1"

	"github.com/canonical/sqlcraft"
)

type SetterSuite struct{}

var _ = Suite(&SetterSuite{})

func (s *SetterSuite) TestSetters(c *C) {
	nick := sqlcraft.NullableCol[string]("nick")
	tests := []struct {
		summary  string
		setter   sqlcraft.Setter
		template string
		params   []any
	}{{
		summary:  "assign literal",
		setter:   sqlcraft.Assign(email, "a@b.com"),
		template: `"email" = ?`,
		params:   []any{"a@b.com"},
	}, {
		summary:  "set expression",
		setter:   sqlcraft.Set(email, sqlcraft.Lower(email)),
		template: `"email" = lower("email")`,
	}, {
		summary:  "assign optional",
		setter:   sqlcraft.Assign(age, sqlcraft.Some[int64](30)),
		template: `"age" = ?`,
		params:   []any{int64(30)},
	}, {
		summary:  "assign null",
		setter:   sqlcraft.Assign(age, sqlcraft.None[int64]()),
		template: `"age" = ?`,
		params:   []any{nil},
	}, {
		summary:  "set null literal",
		setter:   sqlcraft.Set(age, sqlcraft.Null[int64]()),
		template: `"age" = NULL`,
	}, {
		summary:  "non-nullable value to nullable column",
		setter:   sqlcraft.SetOptional(age, id),
		template: `"age" = "id"`,
	}, {
		summary:  "excluded",
		setter:   sqlcraft.SetExcluded(email),
		template: `"email" = excluded."email"`,
	}, {
		summary:  "add",
		setter:   sqlcraft.AddAssign(salary, sqlcraft.Bind(1.5)),
		template: `"salary" = ("salary" + ?)`,
		params:   []any{1.5},
	}, {
		summary:  "subtract",
		setter:   sqlcraft.SubAssign(id, sqlcraft.Bind[int64](2)),
		template: `"id" = ("id" - ?)`,
		params:   []any{int64(2)},
	}, {
		summary:  "multiply nullable",
		setter:   sqlcraft.MulAssign(age, sqlcraft.BindOptional(sqlcraft.Some[int64](2))),
		template: `"age" = ("age" * ?)`,
		params:   []any{int64(2)},
	}, {
		summary:  "divide",
		setter:   sqlcraft.DivAssign(salary, sqlcraft.Bind(2.0)),
		template: `"salary" = ("salary" / ?)`,
		params:   []any{2.0},
	}, {
		summary:  "modulo",
		setter:   sqlcraft.ModAssign(id, sqlcraft.Bind[int64](3)),
		template: `"id" = ("id" % ?)`,
		params:   []any{int64(3)},
	}, {
		summary:  "shift left",
		setter:   sqlcraft.ShiftLeftAssign(id, sqlcraft.Bind[int64](1)),
		template: `"id" = ("id" << ?)`,
		params:   []any{int64(1)},
	}, {
		summary:  "shift right",
		setter:   sqlcraft.ShiftRightAssign(id, sqlcraft.Bind[int64](1)),
		template: `"id" = ("id" >> ?)`,
		params:   []any{int64(1)},
	}, {
		summary:  "bitwise and",
		setter:   sqlcraft.BitAndAssign(id, sqlcraft.Bind[int64](6)),
		template: `"id" = ("id" & ?)`,
		params:   []any{int64(6)},
	}, {
		summary:  "bitwise or",
		setter:   sqlcraft.BitOrAssign(id, sqlcraft.Bind[int64](6)),
		template: `"id" = ("id" | ?)`,
		params:   []any{int64(6)},
	}, {
		summary:  "bitwise xor",
		setter:   sqlcraft.BitXorAssign(id, sqlcraft.Bind[int64](6)),
		template: `"id" = (~("id" & ?) & ("id" | ?))`,
		params:   []any{int64(6), int64(6)},
	}, {
		summary:  "append",
		setter:   sqlcraft.Append(email, sqlcraft.Bind(".org")),
		template: `"email" = ("email" || ?)`,
		params:   []any{".org"},
	}, {
		summary:  "append nullable",
		setter:   sqlcraft.Append(nick, sqlcraft.BindOptional(sqlcraft.Some("!"))),
		template: `"nick" = ("nick" || ?)`,
		params:   []any{"!"},
	}, {
		summary:  "increment",
		setter:   sqlcraft.Increment(id),
		template: `"id" = ("id" + ?)`,
		params:   []any{int64(1)},
	}, {
		summary:  "decrement nullable",
		setter:   sqlcraft.Decrement(age),
		template: `"age" = ("age" - ?)`,
		params:   []any{int64(1)},
	}}

	for i, t := range tests {
		n := t.setter.Node()
		c.Check(n.Template(), Equals, t.template, Commentf("test %d failed (%s)", i, t.summary))
		c.Check(n.Params(), DeepEquals, t.params, Commentf("test %d failed (%s)", i, t.summary))
	}
}

func (s *SetterSuite) TestLiteralAndExpressionRenderAlike(c *C) {
	literal := sqlcraft.Assign(email, "a@b.com").Node()
	expression := sqlcraft.Set(email, sqlcraft.Bind("a@b.com")).Node()
	c.Check(literal.Template(), Equals, expression.Template())
	c.Check(literal.Params(), DeepEquals, expression.Params())
}

func (s *SetterSuite) TestSetterParts(c *C) {
	setter := sqlcraft.AddAssign(id, sqlcraft.Bind[int64](5))
	c.Check(setter.Column().Template(), Equals, `"id"`)
	c.Check(setter.Value().Template(), Equals, `("id" + ?)`)
	c.Check(setter.Value().Params(), DeepEquals, []any{int64(5)})
}

func (s *SetterSuite) TestQualifiedColumns(c *C) {
	qualified := sqlcraft.Qualified(users, email)
	tests := []struct {
		summary  string
		setter   sqlcraft.Setter
		template string
	}{{
		summary:  "set excluded",
		setter:   sqlcraft.SetExcluded(qualified),
		template: `"email" = excluded."email"`,
	}, {
		summary:  "set excluded in attached database",
		setter:   sqlcraft.SetExcluded(sqlcraft.Qualified(users.In("main"), age)),
		template: `"age" = excluded."age"`,
	}, {
		summary:  "append keeps the qualified operand",
		setter:   sqlcraft.Append(qualified, sqlcraft.Excluded(qualified)),
		template: `"email" = ("users"."email" || excluded."email")`,
	}, {
		summary:  "set optional",
		setter:   sqlcraft.SetOptional(sqlcraft.Qualified(users, age), sqlcraft.Bind[int64](3)),
		template: `"age" = ?`,
	}}

	for i, t := range tests {
		c.Check(t.setter.Node().Template(), Equals, t.template, Commentf("test %d failed (%s)", i, t.summary))
	}
	c.Check(sqlcraft.Excluded(sqlcraft.Nullable(qualified)).String(), Equals, `excluded."email"`)
}
