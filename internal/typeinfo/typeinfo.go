// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Nullable is implemented by the nullable counterpart of a logical type.
type Nullable interface {
	// NullableValue returns the wrapped value and whether it is set. The
	// wrapped value must be returned, typed, even when it is not set.
	NullableValue() (any, bool)
}

// DateFormat is the layout date values are stored with.
const DateFormat = "2006-01-02T15:04:05.000"

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

var cacheMutex sync.RWMutex
var cache = make(map[reflect.Type]*Info)

// TypeInfo returns the Info of the logical type of the value, generating and
// caching it as required.
func TypeInfo(value any) (*Info, error) {
	if value == (any)(nil) {
		return nil, fmt.Errorf("cannot reflect nil value")
	}
	t := reflect.TypeOf(value)

	cacheMutex.RLock()
	info, found := cache[t]
	cacheMutex.RUnlock()
	if found {
		return info, nil
	}

	info, err := generate(value)
	if err != nil {
		return nil, err
	}

	cacheMutex.Lock()
	cache[t] = info
	cacheMutex.Unlock()

	return info, nil
}

// generate produces the Info for the type of value.
func generate(value any) (*Info, error) {
	if n, ok := value.(Nullable); ok {
		inner, _ := n.NullableValue()
		if inner == nil {
			return nil, fmt.Errorf("nullable type %T does not expose its value type", value)
		}
		if _, ok := inner.(Nullable); ok {
			return nil, fmt.Errorf("nested nullable type %T", value)
		}
		info, err := generate(inner)
		if err != nil {
			return nil, err
		}
		return &Info{Type: info.Type, Kind: info.Kind, Nullable: true}, nil
	}

	t := reflect.TypeOf(value)
	kind := kindOf(t)
	if kind == Invalid {
		return nil, fmt.Errorf("unsupported logical type %s", t)
	}
	return &Info{Type: t, Kind: kind}, nil
}

func kindOf(t reflect.Type) Kind {
	switch t {
	case timeType:
		return Date
	case uuidType:
		return UUID
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return Integer
	case reflect.Float32, reflect.Float64:
		return Real
	case reflect.String:
		return Text
	case reflect.Bool:
		return Boolean
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Blob
		}
	}
	return Invalid
}

// DatatypeValue converts a value of a logical type into the primitive value
// stored in the database: nil, int64, float64, string or []byte.
func DatatypeValue(value any) (any, error) {
	if value == (any)(nil) {
		return nil, nil
	}
	if n, ok := value.(Nullable); ok {
		inner, valid := n.NullableValue()
		if !valid {
			return nil, nil
		}
		return DatatypeValue(inner)
	}

	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(DateFormat), nil
	case uuid.UUID:
		return v.String(), nil
	}

	rv := reflect.ValueOf(value)
	switch kindOf(rv.Type()) {
	case Integer:
		if rv.CanInt() {
			return rv.Int(), nil
		}
		return int64(rv.Uint()), nil
	case Real:
		return rv.Float(), nil
	case Text:
		return rv.String(), nil
	case Boolean:
		if rv.Bool() {
			return int64(1), nil
		}
		return int64(0), nil
	case Blob:
		if rv.IsNil() {
			return nil, nil
		}
		return rv.Bytes(), nil
	}
	return nil, fmt.Errorf("cannot convert %T to a datatype value", value)
}
