// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"bytes"
)

// nodeBuilder accumulates the template and params of a node built from
// several parts.
type nodeBuilder struct {
	buf    bytes.Buffer
	params []any
}

// write appends SQL text that carries no params.
func (b *nodeBuilder) write(sql string) {
	b.buf.WriteString(sql)
}

// writeNode appends the template and params of e.
func (b *nodeBuilder) writeNode(e Expressible) {
	n := e.Node()
	b.buf.WriteString(n.template)
	b.params = append(b.params, n.params...)
}

// writeSeparatedList appends the items separated by sep.
func (b *nodeBuilder) writeSeparatedList(sep string, items []Expressible) {
	for i, item := range items {
		if i != 0 {
			b.buf.WriteString(sep)
		}
		b.writeNode(item)
	}
}

// node returns the accumulated node.
func (b *nodeBuilder) node() Node {
	return Node{template: b.buf.String(), params: copyParams(b.params)}
}

// Join renders the items one after another separated by sep.
func Join(sep string, items ...Expressible) Node {
	var b nodeBuilder
	b.writeSeparatedList(sep, items)
	return b.node()
}

// Wrap renders prefix(item1, item2, ...). An empty prefix gives a
// parenthesised list.
func Wrap(prefix string, items ...Expressible) Node {
	var b nodeBuilder
	b.write(prefix)
	b.write("(")
	b.writeSeparatedList(", ", items)
	b.write(")")
	return b.node()
}

// Prefix renders keyword (item1, item2, ...).
func Prefix(keyword string, items ...Expressible) Node {
	return Wrap(keyword+" ", items...)
}

// Infix renders lhs op rhs, inside parentheses if wrap is set.
func Infix(op string, lhs, rhs Expressible, wrap bool) Node {
	n := Join(" "+op+" ", lhs, rhs)
	if !wrap {
		return n
	}
	return Wrap("", n)
}

// Clauses joins the non-zero items with single spaces. It is used to
// assemble statements where optional keywords are left out entirely.
func Clauses(items ...Expressible) Node {
	present := make([]Expressible, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if item.Node().IsZero() {
			continue
		}
		present = append(present, item)
	}
	return Join(" ", present...)
}

// If returns the keyword literal when cond holds and a zero node otherwise.
func If(cond bool, keyword string) Node {
	if !cond {
		return Node{}
	}
	return Literal(keyword)
}
