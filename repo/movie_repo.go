package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Skryldev/moviedb/db"
	"github.com/Skryldev/moviedb/models"
)

// MovieRepository defines the read-only operations on movies.
type MovieRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
	IDsFeaturing(ctx context.Context, starID int64) ([]int64, error)
	Featuring(ctx context.Context, s *models.Star) ([]*models.Movie, error)
}

type movieRepo struct {
	q db.Querier
}

// NewMovieRepo returns a MovieRepository backed by q.
func NewMovieRepo(q db.Querier) MovieRepository {
	return &movieRepo{q: q}
}

const (
	sqlGetMovieByID = `
		SELECT id, title, year, director, banner_url, trailer_url
		FROM   movies
		WHERE  id = ?`

	sqlMovieIDsByStar = `
		SELECT movie_id
		FROM   stars_in_movies
		WHERE  star_id = ?`
)

// GetByID loads a movie by primary key.
// Returns db.ErrNotFound when no record matches.
func (r *movieRepo) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	return scanMovie(r.q.QueryRow(ctx, sqlGetMovieByID, id))
}

// IDsFeaturing returns the ids of the movies a star appears in, in the
// store's natural order.
func (r *movieRepo) IDsFeaturing(ctx context.Context, starID int64) ([]int64, error) {
	ids, err := db.Select(ctx, r.q, scanID, sqlMovieIDsByStar, starID)
	if err != nil {
		return nil, fmt.Errorf("repo/movie: appearances: %w", err)
	}
	return ids, nil
}

// Featuring follows stars_in_movies from a stored star and loads every movie
// it points at. The order of the association rows is kept.
func (r *movieRepo) Featuring(ctx context.Context, s *models.Star) ([]*models.Movie, error) {
	if !s.Persisted() {
		return nil, ErrNotPersisted
	}

	// The id list is fully read before any movie is loaded, so the session's
	// single connection is free again.
	ids, err := r.IDsFeaturing(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	movies := make([]*models.Movie, 0, len(ids))
	for _, id := range ids {
		m, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func scanMovie(row db.Scanner) (*models.Movie, error) {
	var (
		m       models.Movie
		banner  sql.NullString
		trailer sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Title, &m.Year, &m.Director, &banner, &trailer); err != nil {
		return nil, fmt.Errorf("repo/movie: %w", err)
	}
	m.BannerURL = banner.String
	m.TrailerURL = trailer.String
	return &m, nil
}

var _ MovieRepository = (*movieRepo)(nil)
