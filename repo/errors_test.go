package repo_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/moviedb/db"
	"github.com/Skryldev/moviedb/models"
	"github.com/Skryldev/moviedb/repo"
)

// fixedResult is a Querier whose every Exec reports the same outcome.
type fixedResult struct {
	res db.ExecResult
}

func (f fixedResult) Exec(context.Context, string, ...any) (db.ExecResult, error) { return f.res, nil }
func (f fixedResult) Query(context.Context, string, ...any) (*sql.Rows, error)    { return nil, sql.ErrConnDone }
func (f fixedResult) QueryRow(context.Context, string, ...any) *db.Row             { return nil }

func TestInsert_RowCountContract(t *testing.T) {
	ctx := context.Background()

	t.Run("no rows", func(t *testing.T) {
		r := repo.NewStarRepo(fixedResult{db.ExecResult{RowsAffected: 0}})
		s := &models.Star{LastName: "Cher"}
		assert.ErrorIs(t, r.Insert(ctx, s), repo.ErrNoRowsAffected)
		assert.False(t, s.Persisted())
	})

	t.Run("too many rows", func(t *testing.T) {
		r := repo.NewCustomerRepo(fixedResult{db.ExecResult{RowsAffected: 2, LastInsertID: 9, HasLastInsertID: true}})
		c := &models.Customer{FirstName: "A", LastName: "B"}
		err := r.Insert(ctx, c)
		assert.ErrorIs(t, err, repo.ErrTooManyRows)
		assert.False(t, c.Persisted())
	})

	t.Run("missing generated id", func(t *testing.T) {
		r := repo.NewStarRepo(fixedResult{db.ExecResult{RowsAffected: 1}})
		s := &models.Star{LastName: "Cher"}
		require.Error(t, r.Insert(ctx, s))
		assert.False(t, s.Persisted())
	})

	t.Run("one row", func(t *testing.T) {
		r := repo.NewStarRepo(fixedResult{db.ExecResult{RowsAffected: 1, LastInsertID: 31, HasLastInsertID: true}})
		s := &models.Star{LastName: "Cher"}
		require.NoError(t, r.Insert(ctx, s))
		assert.EqualValues(t, 31, s.ID)
	})
}
