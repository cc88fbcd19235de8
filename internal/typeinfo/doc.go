// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

/*
Package typeinfo contains the reflection over the Go types used as logical
column types. As much as possible, reflection code is limited to this package.
It works out the datatype keyword a column is declared with, whether a type is
the nullable counterpart of another, and converts values of logical types into
the primitive values handed to the database.
*/
package typeinfo
