// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

/*
Package expr contains the expression node machinery used to build SQL text.
Everything in sqlcraft renders down to a Node: a SQL template with positional
"?" placeholders and the ordered values bound to them.

The package is split into three parts.

# Nodes

A Node is immutable. Nodes are produced by Literal and Bind and by the
combinators; nothing in this package modifies a Node once it has been built.
The number of placeholders in a template always equals the number of params.

# Combinators

Infix, Prefix, Wrap and Join glue Expressible values together. The template of
the result embeds the operand templates and the params of the result are the
operand params concatenated from left to right, so placeholders keep lining up
with their values.

# Inlining

DDL statements cannot carry bound parameters. Inline substitutes every
placeholder in a template with the SQLite literal form of its value.
Placeholders found inside quoted identifiers or string literals are left
alone.
*/
package expr
