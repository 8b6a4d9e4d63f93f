// Package testdb opens migrated, file-backed SQLite stores for tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/moviedb/db"
	"github.com/Skryldev/moviedb/migrations"
)

// Path migrates a fresh SQLite file in t's temp dir and returns its path.
func Path(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moviedb.sqlite")
	require.NoError(t, migrations.Up(migrations.SQLiteURL(path)))
	return path
}

// Open returns a handle on a freshly migrated store. The handle is closed
// when the test ends.
func Open(t testing.TB, hooks ...db.Hook) *db.DB {
	t.Helper()
	return OpenPath(t, Path(t), hooks...)
}

// OpenPath opens an existing store file the way the console does: one
// connection, foreign keys enforced.
func OpenPath(t testing.TB, path string, hooks ...db.Hook) *db.DB {
	t.Helper()
	d, err := db.OpenWithDriver("sqlite3", db.DriverOptions{Database: path}, db.Config{
		MaxOpenConns: 1,
		Hooks:        hooks,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// Exec runs fixture statements and fails the test on the first error.
func Exec(t testing.TB, d *db.DB, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		_, err := d.Exec(context.Background(), s)
		require.NoError(t, err, s)
	}
}

// Seed loads a small catalog:
//
//	stars 12 (Tom Hanks) and 47 (Tom Cruise), 50 (Madonna, last name only)
//	movies 3, 1 and 2, linked to star 47 in that order
//	movie 4 linked to star 12
//	credit card 4111111111111111
func Seed(t testing.TB, d *db.DB) {
	t.Helper()
	Exec(t, d,
		`INSERT INTO stars (id, first_name, last_name, dob, photo_url) VALUES (12, 'Tom', 'Hanks', '1956-07-09', NULL)`,
		`INSERT INTO stars (id, first_name, last_name, dob, photo_url) VALUES (47, 'Tom', 'Cruise', NULL, 'http://example.com/tc.jpg')`,
		`INSERT INTO stars (id, first_name, last_name) VALUES (50, '', 'Madonna')`,
		`INSERT INTO movies (id, title, year, director) VALUES (1, 'Top Gun', 1986, 'Tony Scott')`,
		`INSERT INTO movies (id, title, year, director) VALUES (2, 'Cocktail', 1988, 'Roger Donaldson')`,
		`INSERT INTO movies (id, title, year, director) VALUES (3, 'Risky Business', 1983, 'Paul Brickman')`,
		`INSERT INTO movies (id, title, year, director) VALUES (4, 'Big', 1988, 'Penny Marshall')`,
		`INSERT INTO stars_in_movies (star_id, movie_id) VALUES (47, 3)`,
		`INSERT INTO stars_in_movies (star_id, movie_id) VALUES (47, 1)`,
		`INSERT INTO stars_in_movies (star_id, movie_id) VALUES (47, 2)`,
		`INSERT INTO stars_in_movies (star_id, movie_id) VALUES (12, 4)`,
		`INSERT INTO creditcards (id, first_name, last_name, expiration) VALUES ('4111111111111111', 'Ann', 'Lee', '2030-01-01')`,
	)
}
