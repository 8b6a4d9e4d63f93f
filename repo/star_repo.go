package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Skryldev/moviedb/db"
	"github.com/Skryldev/moviedb/models"
)

// StarRepository defines the persistence operations on stars.
type StarRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Star, error)
	FindIDs(ctx context.Context, firstName, lastName string) ([]int64, error)
	Insert(ctx context.Context, s *models.Star) error
}

type starRepo struct {
	q db.Querier
}

// NewStarRepo returns a StarRepository backed by q.
func NewStarRepo(q db.Querier) StarRepository {
	return &starRepo{q: q}
}

const (
	sqlInsertStar = `
		INSERT INTO stars (first_name, last_name, dob, photo_url)
		VALUES (?, ?, ?, ?)`

	sqlGetStarByID = `
		SELECT id, first_name, last_name, dob, photo_url
		FROM   stars
		WHERE  id = ?`

	sqlFindStarIDsByFullName = `SELECT id FROM stars WHERE first_name = ? AND last_name = ?`
	sqlFindStarIDsByFirst    = `SELECT id FROM stars WHERE first_name = ?`
	sqlFindStarIDsByLast     = `SELECT id FROM stars WHERE last_name = ?`
)

// GetByID loads a star by primary key.
// Returns db.ErrNotFound when no record matches.
func (r *starRepo) GetByID(ctx context.Context, id int64) (*models.Star, error) {
	return scanStar(r.q.QueryRow(ctx, sqlGetStarByID, id))
}

// FindIDs returns the ids of stars whose names equal the non-empty
// arguments, in the store's natural order. Both arguments empty yields
// ErrSearchCancelled without touching the store.
func (r *starRepo) FindIDs(ctx context.Context, firstName, lastName string) ([]int64, error) {
	var (
		query string
		args  []any
	)
	switch {
	case firstName == "" && lastName == "":
		return nil, ErrSearchCancelled
	case firstName != "" && lastName != "":
		query, args = sqlFindStarIDsByFullName, []any{firstName, lastName}
	case firstName != "":
		query, args = sqlFindStarIDsByFirst, []any{firstName}
	default:
		query, args = sqlFindStarIDsByLast, []any{lastName}
	}

	ids, err := db.Select(ctx, r.q, scanID, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repo/star: find: %w", err)
	}
	return ids, nil
}

// Insert writes an unsaved star and assigns the generated id to s.ID.
// A star that already has an id is left alone and ErrAlreadyPersisted is
// returned.
func (r *starRepo) Insert(ctx context.Context, s *models.Star) error {
	if s.Persisted() {
		return ErrAlreadyPersisted
	}

	var dob sql.NullTime
	if s.DOB != nil {
		dob = sql.NullTime{Time: *s.DOB, Valid: true}
	}
	id, err := insertOne(ctx, r.q, sqlInsertStar, s.FirstName, s.LastName, dob, NullString(s.PhotoURL))
	if err != nil {
		return fmt.Errorf("repo/star: insert: %w", err)
	}
	s.ID = id
	return nil
}

func scanStar(row db.Scanner) (*models.Star, error) {
	var (
		s     models.Star
		first sql.NullString
		dob   sql.NullTime
		photo sql.NullString
	)
	if err := row.Scan(&s.ID, &first, &s.LastName, &dob, &photo); err != nil {
		return nil, fmt.Errorf("repo/star: %w", err)
	}
	s.FirstName = first.String
	s.PhotoURL = photo.String
	if dob.Valid {
		t := dob.Time
		s.DOB = &t
	}
	return &s, nil
}

func scanID(row db.Scanner) (int64, error) {
	var id int64
	err := row.Scan(&id)
	return id, err
}

// NullString stores empty optional text as NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ StarRepository = (*starRepo)(nil)
