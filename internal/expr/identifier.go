// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"strings"
)

// Quote wraps s in mark, doubling any mark already in s.
func Quote(s string, mark byte) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(mark)
	for i := 0; i < len(s); i++ {
		if s[i] == mark {
			b.WriteByte(mark)
		}
		b.WriteByte(s[i])
	}
	b.WriteByte(mark)
	return b.String()
}

// Identifier renders a quoted identifier, qualified with the namespace
// when it is not empty.
func Identifier(name, namespace string) Node {
	if namespace == "" {
		return Literal(Quote(name, '"'))
	}
	return Literal(Quote(namespace, '"') + "." + Quote(name, '"'))
}

// IndexName derives the name of an index from the name of the table and the
// indexed columns. The same table and columns always give the same name.
func IndexName(table string, columns ...Expressible) string {
	parts := make([]string, 0, len(columns)+3)
	parts = append(parts, "index", table, "on")
	for _, c := range columns {
		parts = append(parts, c.Node().template)
	}
	s := strings.ToLower(strings.Join(parts, " "))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '"':
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
