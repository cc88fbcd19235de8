// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"reflect"
)

// Kind is the category of a logical type.
type Kind int

const (
	Invalid Kind = iota
	Integer
	Real
	Text
	Blob
	Boolean
	Date
	UUID
)

var kindNames = map[Kind]string{
	Invalid: "invalid",
	Integer: "integer",
	Real:    "real",
	Text:    "text",
	Blob:    "blob",
	Boolean: "boolean",
	Date:    "date",
	UUID:    "uuid",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Datatype returns the keyword a column of this kind is declared with.
func (k Kind) Datatype() string {
	switch k {
	case Integer, Boolean:
		return "INTEGER"
	case Real:
		return "REAL"
	case Text, Date, UUID:
		return "TEXT"
	case Blob:
		return "BLOB"
	}
	return ""
}

// Info represents reflected information about a logical type.
type Info struct {
	// Type is the Go type of the logical type. For nullable types this is
	// the type of the wrapped value.
	Type reflect.Type

	// Kind is the category of Type.
	Kind Kind

	// Nullable is true when the logical type is the nullable counterpart
	// of Type.
	Nullable bool
}

// Datatype returns the keyword columns of the type are declared with.
func (i *Info) Datatype() string {
	return i.Kind.Datatype()
}
