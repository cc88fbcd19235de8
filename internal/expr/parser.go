// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Inline returns the SQL of e with every parameter replaced by the literal
// form of its bound value.
//
// Parameters follow SQLite numbering: ?NNN takes the NNNth value, a plain ?
// takes the value after the largest number assigned so far, and a named
// parameter (:name, @name or $name) is numbered like a plain ? the first
// time it appears and reuses that number afterwards. Quoted sections and
// comments are copied unchanged.
func Inline(e Expressible) (sql string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("cannot inline expression: %s", err)
		}
	}()

	n := e.Node()
	s := inliner{template: n.template, params: n.params, named: map[string]int{}}
	if err := s.run(); err != nil {
		return "", err
	}
	return s.b.String(), nil
}

// inliner holds the state of a single pass over a template.
type inliner struct {
	template string
	params   []any
	b        strings.Builder

	// largest is the largest parameter number assigned so far.
	largest int
	named   map[string]int
}

func (s *inliner) run() error {
	t := s.template
	s.b.Grow(len(t))
	for i := 0; i < len(t); {
		c := t[i]
		switch {
		case c == '"' || c == '\'' || c == '`' || c == '[':
			closing := c
			if c == '[' {
				closing = ']'
			}
			end := strings.IndexByte(t[i+1:], closing)
			if end < 0 {
				end = len(t)
			} else {
				end += i + 2
			}
			s.b.WriteString(t[i:end])
			i = end
		case strings.HasPrefix(t[i:], "--"):
			end := strings.IndexByte(t[i:], '\n')
			if end < 0 {
				end = len(t)
			} else {
				end += i + 1
			}
			s.b.WriteString(t[i:end])
			i = end
		case strings.HasPrefix(t[i:], "/*"):
			end := strings.Index(t[i+2:], "*/")
			if end < 0 {
				end = len(t)
			} else {
				end += i + 4
			}
			s.b.WriteString(t[i:end])
			i = end
		case c == '?':
			digits := scanWhile(t[i+1:], isDigit)
			var err error
			if digits == "" {
				err = s.substitute(s.largest + 1)
			} else {
				var num int
				num, err = strconv.Atoi(digits)
				if err == nil {
					err = s.substitute(num)
				}
			}
			if err != nil {
				return err
			}
			i += 1 + len(digits)
		case c == ':' || c == '@' || c == '$':
			name := scanWhile(t[i+1:], isNameByte)
			if name == "" {
				s.b.WriteByte(c)
				i++
				continue
			}
			key := t[i : i+1+len(name)]
			num, ok := s.named[key]
			if !ok {
				num = s.largest + 1
				s.named[key] = num
			}
			if err := s.substitute(num); err != nil {
				return err
			}
			i += 1 + len(name)
		default:
			s.b.WriteByte(c)
			i++
		}
	}
	if s.largest != len(s.params) {
		return fmt.Errorf("%d params bound but only %d placeholders in %q", len(s.params), s.largest, t)
	}
	return nil
}

// substitute writes the literal of the parameter numbered num, counting
// from one.
func (s *inliner) substitute(num int) error {
	if num < 1 {
		return fmt.Errorf("invalid parameter number %d in %q", num, s.template)
	}
	if num > len(s.params) {
		return fmt.Errorf("more placeholders than params (%d) in %q", len(s.params), s.template)
	}
	lit, err := Transcode(s.params[num-1])
	if err != nil {
		return err
	}
	s.b.WriteString(lit)
	if num > s.largest {
		s.largest = num
	}
	return nil
}

func scanWhile(s string, accept func(byte) bool) string {
	i := 0
	for i < len(s) && accept(s[i]) {
		i++
	}
	return s[:i]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameByte(c byte) bool {
	return isDigit(c) || c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

// MustInline is like Inline but panics on error. It must only be used on
// templates built by this module, never on caller supplied SQL.
func MustInline(e Expressible) string {
	sql, err := Inline(e)
	if err != nil {
		panic(err)
	}
	return sql
}

// Transcode returns the SQLite literal for a datatype value.
func Transcode(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return Quote(v, '\''), nil
	case []byte:
		if v == nil {
			return "NULL", nil
		}
		return "x'" + hex.EncodeToString(v) + "'", nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case float64:
		return formatReal(v)
	case float32:
		return formatReal(float64(v))
	}
	return "", fmt.Errorf("no literal form for %T", v)
}

// formatReal renders f so that SQLite reads it back as a REAL.
func formatReal(f float64) (string, error) {
	switch {
	case math.IsNaN(f):
		return "", fmt.Errorf("no literal form for NaN")
	case math.IsInf(f, 1):
		return "9e999", nil
	case math.IsInf(f, -1):
		return "-9e999", nil
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, nil
}
