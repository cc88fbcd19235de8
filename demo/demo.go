// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package demo builds a small schema of people and the towns they come from
// and keeps it up to date with the statements of sqlcraft.
package demo

import (
	"context"
	"fmt"

	"github.com/canonical/sqlcraft"
)

type Person struct {
	Name     string
	Height   int64
	HomeTown string
}

type Place struct {
	Name       string
	Population int64
}

var (
	people     = sqlcraft.NewTable("people")
	name       = sqlcraft.Col[string]("name")
	height     = sqlcraft.Col[int64]("height_cm")
	homeTown   = sqlcraft.NullableCol[string]("home_town")
	locations  = sqlcraft.NewTable("location")
	townName   = sqlcraft.Col[string]("town_name")
	population = sqlcraft.Col[int64]("population")
	tall       = sqlcraft.NewView("tall_people")
)

// Schema returns the statements creating the tables, indexes and views of
// the demo, in the order they must run.
func Schema(tallerThan int64) []string {
	return []string{
		locations.Create(sqlcraft.TableOptions{IfNotExists: true}, func(t *sqlcraft.TableBuilder) {
			t.Column(sqlcraft.TextColumnDef[string]{
				ColumnDef: sqlcraft.ColumnDef[string]{Name: townName, PrimaryKey: true},
				Collate:   sqlcraft.NoCase,
			})
			t.Column(sqlcraft.ColumnDef[int64]{Name: population, Default: sqlcraft.Bind[int64](0)})
			t.Check(sqlcraft.Ge(population, sqlcraft.Bind[int64](0)))
		}),
		people.Create(sqlcraft.TableOptions{IfNotExists: true}, func(t *sqlcraft.TableBuilder) {
			t.Column(sqlcraft.ColumnDef[string]{Name: name, PrimaryKey: true})
			t.Column(sqlcraft.ColumnDef[int64]{Name: height, Check: sqlcraft.Gt(height, sqlcraft.Bind[int64](0))})
			t.Column(sqlcraft.ColumnDef[sqlcraft.Optional[string]]{
				Name:       homeTown,
				References: sqlcraft.RefersToNullable(locations, townName).OnUpdate(sqlcraft.Cascade).OnDelete(sqlcraft.SetNull),
			})
		}),
		people.CreateIndex(sqlcraft.IndexOptions{IfNotExists: true}, homeTown, height),
		tall.MustCreate(sqlcraft.ViewOptions{IfNotExists: true}, sqlcraft.RawQuery(
			`SELECT "name", "home_town" FROM "people" WHERE "height_cm" > ?`, tallerThan,
		)),
	}
}

// Populate creates the schema and stores the people and the places. A place
// stored again has its population replaced.
func Populate(ctx context.Context, db *sqlcraft.DB, persons []Person, places []Place) error {
	for _, stmt := range Schema(160) {
		if err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	tx, err := db.Begin(ctx, nil)
	if err != nil {
		return err
	}
	for _, place := range places {
		upsert := locations.Insert(sqlcraft.Assign(townName, place.Name), sqlcraft.Assign(population, place.Population)).
			OnConflict(townName, sqlcraft.SetExcluded(population))
		if _, err := tx.Run(ctx, upsert); err != nil {
			tx.Rollback()
			return fmt.Errorf("cannot store place %q: %w", place.Name, err)
		}
	}
	for _, p := range persons {
		town := sqlcraft.None[string]()
		if p.HomeTown != "" {
			town = sqlcraft.Some(p.HomeTown)
		}
		insert := people.Insert(sqlcraft.Assign(name, p.Name), sqlcraft.Assign(height, p.Height), sqlcraft.Assign(homeTown, town))
		if _, err := tx.Run(ctx, insert); err != nil {
			tx.Rollback()
			return fmt.Errorf("cannot store person %q: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

// Grow adds cm to the height of everyone from town.
func Grow(ctx context.Context, db *sqlcraft.DB, town string, cm int64) (int64, error) {
	update := people.Update(sqlcraft.AddAssign(height, sqlcraft.Bind(cm))).
		Where(sqlcraft.Eq(homeTown, sqlcraft.BindOptional(sqlcraft.Some(town))))
	result, err := db.Run(ctx, update)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// TallPeople returns the names of the people in the tall_people view, sorted.
func TallPeople(ctx context.Context, db *sqlcraft.DB) ([]string, error) {
	rows, err := db.Query(ctx, sqlcraft.RawQuery(`SELECT "name" FROM "tall_people" ORDER BY "name"`))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
