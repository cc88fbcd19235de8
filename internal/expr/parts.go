// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"fmt"
)

// placeholder marks the position of a bound parameter in a template.
const placeholder = "?"

// Expressible is implemented by anything that can render itself as a Node.
type Expressible interface {
	Node() Node
}

// Node is a fragment of SQL along with the parameters bound to the
// placeholders in it.
type Node struct {
	template string
	params   []any
}

// Node implements Expressible.
func (n Node) Node() Node {
	return n
}

// Template returns the SQL text of the node.
func (n Node) Template() string {
	return n.template
}

// Params returns a copy of the values bound to the placeholders of the
// template, in order.
func (n Node) Params() []any {
	if len(n.params) == 0 {
		return nil
	}
	params := make([]any, len(n.params))
	copy(params, n.params)
	return params
}

// IsZero reports whether the node has no template.
func (n Node) IsZero() bool {
	return n.template == "" && len(n.params) == 0
}

// String returns a representation of the node for debugging and testing.
func (n Node) String() string {
	if len(n.params) == 0 {
		return fmt.Sprintf("Node[%s]", n.template)
	}
	return fmt.Sprintf("Node[%s %v]", n.template, n.params)
}

// New returns a node from a template and the params of its placeholders. The
// caller must make sure the counts match.
func New(template string, params ...any) Node {
	return Node{template: template, params: copyParams(params)}
}

// Literal returns a node which renders the SQL verbatim. It must only be used
// for keywords and text produced by this module.
func Literal(sql string) Node {
	return Node{template: sql}
}

// Bind returns a single placeholder bound to v.
func Bind(v any) Node {
	return Node{template: placeholder, params: []any{v}}
}

func copyParams(params []any) []any {
	if len(params) == 0 {
		return nil
	}
	c := make([]any, len(params))
	copy(c, params)
	return c
}
