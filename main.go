// Command moviedb is an interactive console over the moviedb schema: search
// the movies a star appears in, add stars and customers, and inspect the
// store.
//
//	moviedb [username [password]]
//
// Missing credentials are prompted for. The store location comes from
// config.<env>.yaml and MOVIEDB_* environment variables (see package config).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Skryldev/moviedb/config"
	"github.com/Skryldev/moviedb/console"
	"github.com/Skryldev/moviedb/db"
	"github.com/Skryldev/moviedb/logger"
	"github.com/Skryldev/moviedb/session"
)

func main() {
	// ── 0. Environment and configuration ─────────────────────────────────
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatalf("config: %v", err)
	}

	// ── 1. Structured logger (stderr) ────────────────────────────────────
	level, _ := cfg.Log.SlogLevel()
	lg := logger.NewStderr(level, cfg.Log.Format)
	slog.SetDefault(lg)

	// ── 2. Credentials ───────────────────────────────────────────────────
	con := console.NewStdio()
	cred, err := session.PromptCredentials(con, os.Args[1:])
	if err != nil {
		if errors.Is(err, console.ErrInputClosed) {
			return
		}
		fatalf("credentials: %v", err)
	}

	// ── 3. Menu loop ─────────────────────────────────────────────────────
	app := &session.App{
		Console: con,
		Open:    session.NewOpener(cfg.Database, cfg.Log, lg),
		Logger:  lg,
	}
	if err := app.Run(context.Background(), cred); err != nil {
		con.Println(db.Diagnostic(err))
		fatalf("moviedb: %v", err)
	}
}

func fatalf(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
