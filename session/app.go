package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Skryldev/moviedb/config"
	"github.com/Skryldev/moviedb/console"
	"github.com/Skryldev/moviedb/db"
	"github.com/Skryldev/moviedb/menu"
)

// DefaultUser is offered when the username prompt is left blank.
const DefaultUser = "root"

// Credentials identify a database user.
type Credentials struct {
	User     string
	Password string
}

// PromptCredentials takes the username and password from args when present
// and asks for whatever is missing.
func PromptCredentials(con *console.Console, args []string) (Credentials, error) {
	var (
		cred Credentials
		err  error
	)
	if len(args) > 0 {
		cred.User = args[0]
	} else if cred.User, err = con.String("Enter username (default: root): ", DefaultUser); err != nil {
		return Credentials{}, err
	}

	if len(args) > 1 {
		cred.Password = args[1]
	} else if cred.Password, err = con.Password("Enter password (characters are masked): "); err != nil {
		return Credentials{}, err
	}
	return cred, nil
}

// Opener connects to the store as the given user. The returned statement
// counter may be nil.
type Opener func(ctx context.Context, cred Credentials) (*db.DB, *db.StatementStats, error)

// NewOpener returns an Opener for the configured database. Each handle gets
// a single connection and its own statement counter; the query logging hook
// is added when statement logging or a slow-query threshold is configured.
func NewOpener(cfg config.DatabaseConfig, logCfg config.LogConfig, logger *slog.Logger) Opener {
	return func(_ context.Context, cred Credentials) (*db.DB, *db.StatementStats, error) {
		stats := &db.StatementStats{}
		hooks := []db.Hook{db.NewMetricsHook(stats)}
		if logCfg.Queries || cfg.SlowQueryThreshold > 0 {
			hooks = append(hooks, db.NewLogHook(db.LogHookConfig{
				Logger:             logger,
				SlowQueryThreshold: cfg.SlowQueryThreshold,
			}))
		}
		store, err := db.OpenWithDriver(cfg.Driver, cfg.DriverOptions(cred.User, cred.Password), db.Config{
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			Hooks:        hooks,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, stats, nil
	}
}

// App is the top-level driver: connect, run the menu until the user switches
// user or quits, reconnect or exit.
type App struct {
	Console *console.Console
	Open    Opener
	Logger  *slog.Logger
}

// Run connects with cred and serves the main menu. It returns nil when the
// user quits or the input ends, and the first unrecoverable error otherwise.
func (a *App) Run(ctx context.Context, cred Credentials) error {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for {
		choice, err := a.serve(ctx, cred, logger)
		if errors.Is(err, console.ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if abs(choice) != OptionSwitchUser {
			return nil
		}

		if cred, err = PromptCredentials(a.Console, nil); err != nil {
			if errors.Is(err, console.ErrInputClosed) {
				return nil
			}
			return err
		}
	}
}

// serve runs one connection's menu loop and returns the choice that ended it.
func (a *App) serve(ctx context.Context, cred Credentials, logger *slog.Logger) (int, error) {
	store, stats, err := a.Open(ctx, cred)
	if err != nil {
		return 0, err
	}
	sess := New(store, a.Console, stats, logger)
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("session: close failed", "error", err)
		}
	}()

	info, err := sess.ServerInfo(ctx)
	if err != nil {
		return 0, err
	}
	a.Console.Println("Connected to DBMS: " + info.String())
	a.Console.Println()
	logger.Info("session: connected", "user", cred.User, "server", info.String())

	m := menu.New(a.Console, MenuLabels...)
	for {
		choice, err := m.Choose(ctx, sess, "Enter your choice: ", 0)
		if err != nil || choice < 0 {
			return choice, err
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
