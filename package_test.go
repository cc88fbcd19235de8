// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlcraft_test

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	. "gopkg.in/check.v1"
	_ "modernc.org/sqlite"

	"github.com/canonical/sqlcraft"
)

// PackageSuite runs the generated statements against real SQLite engines:
// the cgo driver and the pure Go one.
type PackageSuite struct{}

var _ = Suite(&PackageSuite{})

var drivers = []string{"sqlite3", "sqlite"}

func openDB(c *C, driverName string, opts ...sqlcraft.Option) *sqlcraft.DB {
	sqldb, err := sql.Open(driverName, ":memory:")
	c.Assert(err, IsNil)
	// Every connection to :memory: opens a different database.
	sqldb.SetMaxOpenConns(1)
	return sqlcraft.NewDB(sqldb, opts...)
}

var (
	people     = sqlcraft.NewTable("people")
	personID   = sqlcraft.Col[int64]("id")
	name       = sqlcraft.Col[string]("name")
	nickname   = sqlcraft.NullableCol[string]("nickname")
	born       = sqlcraft.Col[time.Time]("born")
	height     = sqlcraft.NullableCol[float64]("height")
	visits     = sqlcraft.Col[int64]("visits")
	active     = sqlcraft.Col[bool]("active")
	photo      = sqlcraft.NullableCol[sqlcraft.Blob]("photo")
	pets       = sqlcraft.NewTable("pets")
	petName    = sqlcraft.Col[string]("name")
	petOwner   = sqlcraft.NullableCol[int64]("owner_id")
	petSpecies = sqlcraft.Col[string]("species")
)

func createSchema(c *C, db *sqlcraft.DB) {
	ctx := context.Background()
	stmts := []string{
		people.Create(sqlcraft.TableOptions{IfNotExists: true}, func(t *sqlcraft.TableBuilder) {
			t.Column(sqlcraft.AutoincrementDef[int64]{Name: personID})
			t.Column(sqlcraft.TextColumnDef[string]{
				ColumnDef: sqlcraft.ColumnDef[string]{Name: name, Unique: true, Check: sqlcraft.Ne(name, sqlcraft.Bind(""))},
				Collate:   sqlcraft.NoCase,
			})
			t.Column(sqlcraft.ColumnDef[sqlcraft.Optional[string]]{Name: nickname})
			t.Column(sqlcraft.ColumnDef[time.Time]{Name: born, Default: sqlcraft.Bind(time.Unix(0, 0))})
			t.Column(sqlcraft.ColumnDef[sqlcraft.Optional[float64]]{Name: height})
			t.Column(sqlcraft.ColumnDef[int64]{Name: visits, Default: sqlcraft.Bind[int64](0)})
			t.Column(sqlcraft.ColumnDef[bool]{Name: active, Default: sqlcraft.Bind(true)})
			t.Column(sqlcraft.ColumnDef[sqlcraft.Optional[sqlcraft.Blob]]{Name: photo})
			t.Check(sqlcraft.Ge(visits, sqlcraft.Bind[int64](0)))
		}),
		pets.Create(sqlcraft.TableOptions{WithoutRowID: true}, func(t *sqlcraft.TableBuilder) {
			t.Column(sqlcraft.ColumnDef[string]{Name: petName})
			t.Column(sqlcraft.ColumnDef[string]{Name: petSpecies})
			t.Column(sqlcraft.ColumnDef[sqlcraft.Optional[int64]]{
				Name:       petOwner,
				References: sqlcraft.RefersToNullable(people, personID).OnDelete(sqlcraft.SetNull),
			})
			t.PrimaryKey(sqlcraft.Pair(petName, petSpecies))
		}),
		people.CreateIndex(sqlcraft.IndexOptions{IfNotExists: true}, born, visits),
		pets.CreateIndex(sqlcraft.IndexOptions{Unique: true}, petOwner, petName),
	}
	for _, stmt := range stmts {
		c.Assert(db.Exec(ctx, stmt), IsNil, Commentf("statement: %s", stmt))
	}
}

func (s *PackageSuite) TestSchemaStatementsExecute(c *C) {
	ctx := context.Background()
	for _, driverName := range drivers {
		comment := Commentf("driver %s", driverName)
		db := openDB(c, driverName)
		createSchema(c, db)

		stmts := []string{
			people.AddColumn(sqlcraft.ColumnDef[sqlcraft.Optional[string]]{Name: sqlcraft.NullableCol[string]("city")}),
			people.AddColumn(sqlcraft.ColumnDef[int64]{Name: sqlcraft.Col[int64]("score"), Default: sqlcraft.Bind[int64](10)}),
			people.Rename("persons"),
			sqlcraft.NewTable("persons").Rename("people"),
			sqlcraft.NewView("regulars").MustCreate(sqlcraft.ViewOptions{IfNotExists: true},
				sqlcraft.RawQuery(`SELECT "name" FROM "people" WHERE "visits" > ?`, 3)),
			sqlcraft.NewView("recent").MustCreate(sqlcraft.ViewOptions{Temporary: true},
				sqlcraft.RawQuery(`SELECT "name" FROM "people" WHERE `+sqlcraft.Gt(sqlcraft.JuliandayOf(born), sqlcraft.Bind(2440587.5)).String())),
			sqlcraft.NewTable("archive").MustCreateAs(sqlcraft.TableOptions{Temporary: true},
				sqlcraft.RawQuery(`SELECT * FROM "people" WHERE "active" = ?`, false)),
			sqlcraft.NewView("regulars").Drop(false),
			sqlcraft.NewView("regulars").Drop(true),
			people.DropIndex(false, born, visits),
			people.DropIndex(true, born, visits),
			people.CreateIndex(sqlcraft.IndexOptions{Name: "people_by_name"}, sqlcraft.Lower(name)),
			people.DropIndexNamed("people_by_name", false),
			pets.Drop(false),
			pets.Drop(true),
		}
		for _, stmt := range stmts {
			c.Check(db.Exec(ctx, stmt), IsNil, Commentf("driver %s, statement: %s", driverName, stmt))
		}
		c.Assert(db.Close(), IsNil, comment)
	}
}

func (s *PackageSuite) TestMutationsExecute(c *C) {
	ctx := context.Background()
	for _, driverName := range drivers {
		comment := Commentf("driver %s", driverName)
		db := openDB(c, driverName)
		createSchema(c, db)

		for _, n := range []string{"alice", "bob"} {
			_, err := db.Run(ctx, people.Insert(sqlcraft.Assign(name, n)))
			c.Assert(err, IsNil, comment)
		}
		_, err := db.Run(ctx, people.Insert(
			sqlcraft.Assign(name, "carol"),
			sqlcraft.Assign(nickname, sqlcraft.Some("caz")),
			sqlcraft.Assign(height, sqlcraft.Some(1.7)),
			sqlcraft.Assign(photo, sqlcraft.Some(sqlcraft.Blob{1, 2, 3})),
		))
		c.Assert(err, IsNil, comment)

		// Collation is NOCASE so ALICE conflicts with alice.
		_, err = db.Run(ctx, people.Insert(sqlcraft.Assign(name, "ALICE")).
			OnConflict(name, sqlcraft.Increment(visits), sqlcraft.Append(name, sqlcraft.Bind("!"))))
		c.Assert(err, IsNil, comment)
		_, err = db.Run(ctx, people.Insert(sqlcraft.Assign(name, "bob")).OnConflictDoNothing(name))
		c.Assert(err, IsNil, comment)

		result, err := db.Run(ctx, people.Update(
			sqlcraft.AddAssign(visits, sqlcraft.Bind[int64](10)),
			sqlcraft.Assign(active, false),
		).Where(sqlcraft.IsNotNull(nickname)))
		c.Assert(err, IsNil, comment)
		affected, err := result.RowsAffected()
		c.Assert(err, IsNil, comment)
		c.Check(affected, Equals, int64(1), comment)

		_, err = db.Run(ctx, pets.Insert(
			sqlcraft.Assign(petName, "rex"),
			sqlcraft.Assign(petSpecies, "dog"),
			sqlcraft.Assign(petOwner, sqlcraft.Some[int64](1)),
		))
		c.Assert(err, IsNil, comment)

		rows, err := db.Query(ctx, sqlcraft.RawQuery(`SELECT "name", "visits", "active", "born" FROM "people" ORDER BY "id"`))
		c.Assert(err, IsNil, comment)
		type person struct {
			name   string
			visits int64
			active bool
			born   string
		}
		var got []person
		for rows.Next() {
			var p person
			c.Assert(rows.Scan(&p.name, &p.visits, &p.active, &p.born), IsNil, comment)
			got = append(got, p)
		}
		c.Assert(rows.Err(), IsNil, comment)
		c.Assert(rows.Close(), IsNil, comment)
		c.Check(got, DeepEquals, []person{
			{name: "alice!", visits: 1, active: true, born: "1970-01-01T00:00:00.000"},
			{name: "bob", visits: 0, active: true, born: "1970-01-01T00:00:00.000"},
			{name: "carol", visits: 10, active: false, born: "1970-01-01T00:00:00.000"},
		}, comment)

		c.Assert(db.Close(), IsNil, comment)
	}
}

func (s *PackageSuite) TestTransaction(c *C) {
	ctx := context.Background()
	for _, driverName := range drivers {
		comment := Commentf("driver %s", driverName)
		db := openDB(c, driverName)
		createSchema(c, db)

		tx, err := db.Begin(ctx, nil)
		c.Assert(err, IsNil, comment)
		c.Assert(tx.Exec(ctx, people.AddColumn(sqlcraft.ColumnDef[sqlcraft.Optional[string]]{Name: sqlcraft.NullableCol[string]("city")})), IsNil, comment)
		_, err = tx.Run(ctx, people.Insert(sqlcraft.Assign(name, "dave")))
		c.Assert(err, IsNil, comment)
		c.Assert(tx.Rollback(), IsNil, comment)
		c.Check(tx.Exec(ctx, people.Drop(true)), Equals, sqlcraft.ErrTXDone, comment)

		rows, err := db.Query(ctx, sqlcraft.RawQuery(`SELECT count(*) FROM "people"`))
		c.Assert(err, IsNil, comment)
		var count int
		c.Assert(rows.Next(), Equals, true, comment)
		c.Assert(rows.Scan(&count), IsNil, comment)
		c.Assert(rows.Close(), IsNil, comment)
		c.Check(count, Equals, 0, comment)

		c.Assert(db.Close(), IsNil, comment)
	}
}

func (s *PackageSuite) TestErrorClassification(c *C) {
	ctx := context.Background()
	for _, driverName := range drivers {
		comment := Commentf("driver %s", driverName)
		db := openDB(c, driverName)
		createSchema(c, db)

		_, err := db.Run(ctx, people.Insert(sqlcraft.Assign(name, "alice")))
		c.Assert(err, IsNil, comment)

		_, err = db.Run(ctx, people.Insert(sqlcraft.Assign(name, "alice")))
		c.Check(errors.Is(err, sqlcraft.ErrConstraint), Equals, true, comment)
		c.Check(errors.Is(err, sqlcraft.ErrSchema), Equals, false, comment)

		_, err = db.Run(ctx, people.Insert(sqlcraft.Assign(name, "")))
		c.Check(errors.Is(err, sqlcraft.ErrConstraint), Equals, true, comment)

		_, err = db.Run(ctx, people.Update(sqlcraft.Assign(visits, -1)))
		c.Check(errors.Is(err, sqlcraft.ErrConstraint), Equals, true, comment)

		err = db.Exec(ctx, sqlcraft.NewTable("missing").Drop(false))
		c.Check(errors.Is(err, sqlcraft.ErrSchema), Equals, true, comment)
		c.Check(err, ErrorMatches, `cannot execute "DROP TABLE \\"missing\\"": .*no such table: missing.*`, comment)
		var execErr *sqlcraft.ExecError
		c.Assert(errors.As(err, &execErr), Equals, true, comment)
		c.Check(execErr.SQL, Equals, `DROP TABLE "missing"`, comment)
		c.Check(execErr.Code, Equals, 1, comment)

		// Running the same statement twice fails twice.
		c.Check(db.Exec(ctx, people.Create(sqlcraft.TableOptions{}, func(t *sqlcraft.TableBuilder) {
			t.Column(sqlcraft.ColumnDef[int64]{Name: personID})
		})), ErrorMatches, `.*already exists.*`, comment)

		c.Assert(db.Close(), IsNil, comment)
	}
}

func (s *PackageSuite) TestLogging(c *C) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	db := openDB(c, "sqlite3", sqlcraft.WithLogger(logger))
	defer db.Close()

	c.Assert(db.Exec(ctx, pets.Drop(true)), IsNil)
	c.Check(buf.String(), Matches, `(?s).*level=DEBUG msg="statement executed" sql="DROP TABLE IF EXISTS \\"pets\\"" params=0\n`)

	buf.Reset()
	c.Assert(db.Exec(ctx, pets.Drop(false)), NotNil)
	c.Check(buf.String(), Matches, `(?s).*level=ERROR msg="statement failed" sql="DROP TABLE \\"pets\\"" error=.*no such table.*`)
}
