// Package session binds the main menu to one open store handle. A Session
// is created per login and closed when the user switches user or quits.
package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Skryldev/moviedb/console"
	"github.com/Skryldev/moviedb/db"
	"github.com/Skryldev/moviedb/menu"
	"github.com/Skryldev/moviedb/repo"
)

// Main menu choices, in display order.
const (
	OptionMoviesFeaturingStar = iota + 1
	OptionInsertStar
	OptionInsertCustomer
	OptionDeleteCustomer
	OptionShowMetadata
	OptionEnterSQL
	OptionSwitchUser
	OptionExit
)

// MenuLabels are the main menu entries; MenuLabels[i] is choice i+1.
var MenuLabels = []string{
	"Get movies featuring a given star",
	"Insert a new star into the database",
	"Insert a new customer into the database",
	"Delete a customer from the database",
	"Show internal database information",
	"Enter valid SELECT/UPDATE/INSERT/DELETE SQL command",
	"Switch database user",
	"Exit the program",
}

type action func(ctx context.Context) error

// Session runs menu actions against a single store handle. It owns the
// handle: Close releases it and every later action fails with db.ErrClosed.
type Session struct {
	db        *db.DB
	con       *console.Console
	stars     repo.StarRepository
	movies    repo.MovieRepository
	customers repo.CustomerRepository
	stats     *db.StatementStats
	logger    *slog.Logger

	actions map[int]action
}

// New returns a Session over store. stats may be nil when no statement
// counter hook was installed.
func New(store *db.DB, con *console.Console, stats *db.StatementStats, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		db:        store,
		con:       con,
		stars:     repo.NewStarRepo(store),
		movies:    repo.NewMovieRepo(store),
		customers: repo.NewCustomerRepo(store),
		stats:     stats,
		logger:    logger,
	}
	s.actions = map[int]action{
		OptionMoviesFeaturingStar: s.moviesFeaturingStar,
		OptionInsertStar:          s.insertStar,
		OptionInsertCustomer:      s.insertCustomer,
		OptionDeleteCustomer:      s.deleteCustomer,
		OptionShowMetadata:        s.showMetadata,
		OptionEnterSQL:            s.enterSQL,
	}
	return s
}

// ExecuteOption runs the action bound to choice. Choices without an action
// (switch user, exit) end the menu loop. An action error also ends it and is
// returned to the caller.
func (s *Session) ExecuteOption(ctx context.Context, choice int) (bool, error) {
	act, ok := s.actions[choice]
	if !ok {
		return false, nil
	}
	if err := act(ctx); err != nil {
		if !errors.Is(err, console.ErrInputClosed) {
			s.logger.ErrorContext(ctx, "session: action failed", "choice", choice, "error", err)
		}
		return false, err
	}
	s.con.Println()
	return true, nil
}

// ServerInfo reports the connected product and version.
func (s *Session) ServerInfo(ctx context.Context) (db.ServerInfo, error) {
	return s.db.ServerInfo(ctx)
}

// Close releases the store handle. Calling it again is a no-op.
func (s *Session) Close() error {
	return s.db.Close()
}

var _ menu.Handler = (*Session)(nil)
