/*
Sqlcraft builds SQLite statements from typed column and expression handles.

Columns and values carry their logical type as a type parameter, so a value can only be assigned to, compared with or stored as the default of a column of the same type.
A mismatch is a compile error rather than a failed statement.
The package renders schema statements (CREATE, ALTER and DROP on tables, indexes, views and virtual tables) as plain SQL text and mutations (INSERT, UPDATE and upserts) as a template with bound params.

# Basics

Columns are declared once with the Go type of their values:

	users := sqlcraft.NewTable("users")
	id := sqlcraft.Col[int64]("id")
	email := sqlcraft.Col[string]("email")
	age := sqlcraft.NullableCol[int64]("age")

A nullable column has the type Optional[V] and is declared without NOT NULL.
Tables are created with a builder which receives the definitions in the order they appear in the statement:

	users.Create(sqlcraft.TableOptions{IfNotExists: true}, func(t *sqlcraft.TableBuilder) {
		t.Column(sqlcraft.ColumnDef[int64]{Name: id, PrimaryKey: true})
		t.Column(sqlcraft.ColumnDef[string]{Name: email, Unique: true})
		t.Column(sqlcraft.ColumnDef[sqlcraft.Optional[int64]]{Name: age, Check: sqlcraft.Ge(age, sqlcraft.Nullable(sqlcraft.Bind[int64](0)))})
	})

This returns:

	CREATE TABLE IF NOT EXISTS "users" ("id" INTEGER PRIMARY KEY NOT NULL, "email" TEXT NOT NULL UNIQUE, "age" INTEGER CHECK (("age" >= 0)))

Schema statements have their values inlined as SQLite literals, since SQLite does not accept params in them.

# Setters

A Setter assigns a value to a column and is used by Table.Insert, Table.Update and InsertStatement.OnConflict:

	sqlcraft.Assign(email, "a@b.com")                // "email" = ?
	sqlcraft.Increment(age)                          // "age" = ("age" + ?)
	sqlcraft.SetExcluded(email)                      // "email" = excluded."email"

# Running statements

DB runs schema statements with DB.Exec and mutations with DB.Run.
Mutations sharing a template reuse the same prepared statement.
Errors from the driver are returned as an *ExecError which matches ErrSchema, ErrConstraint or ErrBusy with errors.Is.
*/
package sqlcraft
