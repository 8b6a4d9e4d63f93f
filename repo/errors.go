package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skryldev/moviedb/db"
)

var (
	// ErrSearchCancelled is returned by a name search given no name at all.
	// It is an outcome, not a failure: no query is issued.
	ErrSearchCancelled = errors.New("repo: search cancelled")

	// ErrAlreadyPersisted is returned when inserting a record that already
	// carries a store-assigned ID. Nothing is written.
	ErrAlreadyPersisted = errors.New("repo: record already persisted")

	// ErrNotPersisted is returned when an operation needs a stored record but
	// was handed one without an ID.
	ErrNotPersisted = errors.New("repo: record has not been persisted")

	// ErrNoRowsAffected is returned when a single-row insert wrote nothing.
	ErrNoRowsAffected = errors.New("repo: no rows were inserted")

	// ErrTooManyRows is returned when a single-row insert reports more than
	// one affected row. The store's guarantees are broken; callers must not
	// continue.
	ErrTooManyRows = errors.New("repo: too many rows were updated; this should not happen")
)

// insertOne executes a single-row INSERT and returns the generated key.
func insertOne(ctx context.Context, q db.Querier, query string, args ...any) (int64, error) {
	res, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	switch {
	case res.RowsAffected < 1:
		return 0, ErrNoRowsAffected
	case res.RowsAffected > 1:
		return 0, fmt.Errorf("%w (%d rows)", ErrTooManyRows, res.RowsAffected)
	}
	if !res.HasLastInsertID {
		return 0, fmt.Errorf("repo: store did not report a generated id")
	}
	return res.LastInsertID, nil
}
