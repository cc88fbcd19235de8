// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft

import (
	"time"

	"github.com/canonical/sqlcraft/internal/expr"
)

// timeFunction renders name(timestring, modifier1, ...) with every argument
// bound as text.
func timeFunction[T any](name string, timestring string, modifiers []string) Expression[T] {
	args := make([]Expressible, 0, len(modifiers)+1)
	args = append(args, expr.Bind(timestring))
	for _, m := range modifiers {
		args = append(args, expr.Bind(m))
	}
	return wrap[T](name, args...)
}

// DateFunc renders date(timestring, modifiers...). The result is NULL when
// timestring cannot be parsed.
func DateFunc(timestring string, modifiers ...string) Expression[Optional[time.Time]] {
	return timeFunction[Optional[time.Time]]("date", timestring, modifiers)
}

// TimeFunc renders time(timestring, modifiers...).
func TimeFunc(timestring string, modifiers ...string) Expression[Optional[time.Time]] {
	return timeFunction[Optional[time.Time]]("time", timestring, modifiers)
}

// DatetimeFunc renders datetime(timestring, modifiers...).
func DatetimeFunc(timestring string, modifiers ...string) Expression[Optional[time.Time]] {
	return timeFunction[Optional[time.Time]]("datetime", timestring, modifiers)
}

// JuliandayFunc renders julianday(timestring, modifiers...), the number of
// days since noon in Greenwich on November 24, 4714 B.C.
func JuliandayFunc(timestring string, modifiers ...string) Expression[Optional[float64]] {
	return timeFunction[Optional[float64]]("julianday", timestring, modifiers)
}

// Strftime renders strftime(format, timestring, modifiers...).
func Strftime(format, timestring string, modifiers ...string) Expression[Optional[string]] {
	args := append([]string{timestring}, modifiers...)
	return timeFunction[Optional[string]]("strftime", format, args)
}

// DateOf renders date(e).
func DateOf(e Expression[time.Time]) Expression[time.Time] {
	return wrap[time.Time]("date", e)
}

// TimeOf renders time(e).
func TimeOf(e Expression[time.Time]) Expression[time.Time] {
	return wrap[time.Time]("time", e)
}

// DatetimeOf renders datetime(e).
func DatetimeOf(e Expression[time.Time]) Expression[time.Time] {
	return wrap[time.Time]("datetime", e)
}

// JuliandayOf renders julianday(e).
func JuliandayOf(e Expression[time.Time]) Expression[float64] {
	return wrap[float64]("julianday", e)
}
