package session_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/moviedb/config"
	"github.com/Skryldev/moviedb/console"
	"github.com/Skryldev/moviedb/db"
	"github.com/Skryldev/moviedb/internal/testdb"
	"github.com/Skryldev/moviedb/session"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fixture
// ─────────────────────────────────────────────────────────────────────────────

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seededPath returns a migrated store file holding the shared catalog plus
// customer 1.
func seededPath(t *testing.T) string {
	t.Helper()
	path := testdb.Path(t)
	d := testdb.OpenPath(t, path)
	testdb.Seed(t, d)
	testdb.Exec(t, d, `
		INSERT INTO customers (id, first_name, last_name, cc_id, address, email, password)
		VALUES (1, 'Bob', 'Ray', '4111111111111111', '2 Elm St', 'bob@example.com', 'hunter2')`)
	require.NoError(t, d.Close())
	return path
}

func sqliteOpener(path string) session.Opener {
	return session.NewOpener(
		config.DatabaseConfig{Driver: "sqlite3", Name: path},
		config.LogConfig{Level: "warn", Format: "text"},
		quietLogger(),
	)
}

// runApp drives a whole console session over input and returns the
// transcript.
func runApp(t *testing.T, path, input string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	app := &session.App{
		Console: console.New(strings.NewReader(input), out),
		Open:    sqliteOpener(path),
		Logger:  quietLogger(),
	}
	err := app.Run(context.Background(), session.Credentials{User: "root"})
	return out.String(), err
}

func lines(s ...string) string { return strings.Join(s, "\n") + "\n" }

// ─────────────────────────────────────────────────────────────────────────────
// Driver loop
// ─────────────────────────────────────────────────────────────────────────────

func TestApp_ConnectAndQuit(t *testing.T) {
	out, err := runApp(t, seededPath(t), "8\n")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Connected to DBMS: SQLite v"), out)
	for i, label := range session.MenuLabels {
		assert.Contains(t, out, fmt.Sprintf("%d) %s\n", i+1, label))
	}
	assert.Contains(t, out, "Enter your choice: ")
}

func TestApp_InputEndsGracefully(t *testing.T) {
	_, err := runApp(t, seededPath(t), "")
	assert.NoError(t, err)

	_, err = runApp(t, seededPath(t), "1\nTom\n")
	assert.NoError(t, err, "running out of input mid-action is a quit")
}

func TestApp_SwitchUserReconnects(t *testing.T) {
	path := seededPath(t)

	var users []string
	open := sqliteOpener(path)
	out := &bytes.Buffer{}
	app := &session.App{
		Console: console.New(strings.NewReader("7\nalice\nsecret\n8\n"), out),
		Open: func(ctx context.Context, cred session.Credentials) (*db.DB, *db.StatementStats, error) {
			users = append(users, cred.User+"/"+cred.Password)
			return open(ctx, cred)
		},
		Logger: quietLogger(),
	}

	require.NoError(t, app.Run(context.Background(), session.Credentials{User: "root", Password: "pw"}))
	assert.Equal(t, []string{"root/pw", "alice/secret"}, users)
	assert.Equal(t, 2, strings.Count(out.String(), "Connected to DBMS: "))
	assert.Contains(t, out.String(), "Enter username (default: root): ")
	assert.Contains(t, out.String(), "Enter password (characters are masked): ")
}

func TestApp_ConnectionFailureIsFatal(t *testing.T) {
	boom := &db.DBError{Sentinel: db.ErrConnectionFailed, Cause: errors.New("Access denied for user 'root'")}
	app := &session.App{
		Console: console.New(strings.NewReader("8\n"), io.Discard),
		Open: func(context.Context, session.Credentials) (*db.DB, *db.StatementStats, error) {
			return nil, nil, boom
		},
	}

	err := app.Run(context.Background(), session.Credentials{User: "root"})
	assert.True(t, db.IsConnectionFailed(err))
	assert.Equal(t, "Access denied for user 'root'", db.Diagnostic(err))
}

func TestPromptCredentials(t *testing.T) {
	t.Run("from arguments", func(t *testing.T) {
		out := &bytes.Buffer{}
		cred, err := session.PromptCredentials(console.New(strings.NewReader(""), out), []string{"bob", "pw"})
		require.NoError(t, err)
		assert.Equal(t, session.Credentials{User: "bob", Password: "pw"}, cred)
		assert.Empty(t, out.String())
	})

	t.Run("password prompted", func(t *testing.T) {
		out := &bytes.Buffer{}
		cred, err := session.PromptCredentials(console.New(strings.NewReader("pw\n"), out), []string{"bob"})
		require.NoError(t, err)
		assert.Equal(t, session.Credentials{User: "bob", Password: "pw"}, cred)
		assert.Equal(t, "Enter password (characters are masked): ", out.String())
	})

	t.Run("default user", func(t *testing.T) {
		cred, err := session.PromptCredentials(console.New(strings.NewReader("\n\n"), io.Discard), nil)
		require.NoError(t, err)
		assert.Equal(t, session.Credentials{User: session.DefaultUser}, cred)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Movies featuring a star
// ─────────────────────────────────────────────────────────────────────────────

func TestMoviesFeaturingStar_Disambiguation(t *testing.T) {
	out, err := runApp(t, seededPath(t), "1\nTom\n\n99\n47\n8\n")
	require.NoError(t, err)

	header := "Movies featuring Tom Cruise"
	assert.Contains(t, out, lines(
		"Multiple search results found:",
		"",
		"        12 -> Hanks, Tom",
		"        47 -> Cruise, Tom",
		"",
		"Enter the appropriate numeric ID: Invalid option selected.",
		"",
		"Enter the appropriate numeric ID: ",
		header,
		strings.Repeat("-", len(header)),
		"",
		"1983 -- Risky Business",
		"1986 -- Top Gun",
		"1988 -- Cocktail",
		"",
	))
}

func TestMoviesFeaturingStar_SingleMatch(t *testing.T) {
	out, err := runApp(t, seededPath(t), "1\n\nHanks\n8\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "Multiple search results found:")
	header := "Movies featuring Tom Hanks"
	assert.Contains(t, out, lines(header, strings.Repeat("-", len(header)), "", "1988 -- Big"))
}

func TestMoviesFeaturingStar_Outcomes(t *testing.T) {
	path := seededPath(t)

	out, err := runApp(t, path, "1\n\n\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Search canceled.\n")

	out, err = runApp(t, path, "1\nNobody\n\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "No records with that name were found!\n")

	out, err = runApp(t, path, "1\n\nMadonna\n8\n")
	require.NoError(t, err)
	header := "Movies featuring Madonna"
	assert.Contains(t, out, lines(header, strings.Repeat("-", len(header)), "", ""))
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert star
// ─────────────────────────────────────────────────────────────────────────────

func TestInsertStar(t *testing.T) {
	path := seededPath(t)

	out, err := runApp(t, path, "2\nCher\n\n16/05/1946\n1946-05-20\n\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid format.\n")
	assert.Contains(t, out, "Cher added successfully:\n")
	assert.Contains(t, out, "First Name: \nLast Name:  Cher\nDOB:        1946-05-20\n")

	d := testdb.OpenPath(t, path)
	var first, dob string
	require.NoError(t, d.QueryRow(context.Background(),
		`SELECT first_name, date(dob) FROM stars WHERE last_name = ?`, "Cher").Scan(&first, &dob))
	assert.Equal(t, "", first)
	assert.Equal(t, "1946-05-20", dob)
}

func TestInsertStar_Cancelled(t *testing.T) {
	out, err := runApp(t, seededPath(t), "2\n\n\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Insertion canceled.\n")
	assert.NotContains(t, out, "Enter DOB")
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert customer
// ─────────────────────────────────────────────────────────────────────────────

func TestInsertCustomer(t *testing.T) {
	path := seededPath(t)

	out, err := runApp(t, path, "3\nAnn\nLee\n1 Main St\nann@example.com\np\n4111111111111111\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Password is: p\n")
	assert.Contains(t, out, "Customer added successfully.\n")
	assert.Contains(t, out, "Credit Card#: 4111111111111111\n")

	d := testdb.OpenPath(t, path)
	var password string
	require.NoError(t, d.QueryRow(context.Background(),
		`SELECT password FROM customers WHERE email = ?`, "ann@example.com").Scan(&password))
	assert.Equal(t, "p", password)
}

func TestInsertCustomer_UnknownCardIsNotFatal(t *testing.T) {
	out, err := runApp(t, seededPath(t), "3\nAnn\nLee\n1 Main St\nann@example.com\np\n0000\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Could not add to database.\nPossibly you entered an invalid credit card number?\n")
	assert.Equal(t, 2, strings.Count(out, "Enter your choice: "), "the menu keeps running")
}

func TestInsertCustomer_BlankFieldCancels(t *testing.T) {
	out, err := runApp(t, seededPath(t), "3\nAnn\nLee\n\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Insertion canceled.\n")
	assert.NotContains(t, out, "Enter email address: ")
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete customer
// ─────────────────────────────────────────────────────────────────────────────

func TestDeleteCustomer(t *testing.T) {
	path := seededPath(t)

	out, err := runApp(t, path, "4\nabc\n1\ny\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid ID.\n")
	assert.Contains(t, out, "First Name:   Bob\n")
	assert.Contains(t, out, "Customer deleted.\n")

	out, err = runApp(t, path, "4\n1\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "No customer with that ID was found!\n")
}

func TestDeleteCustomer_Declined(t *testing.T) {
	path := seededPath(t)

	out, err := runApp(t, path, "4\n1\nn\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion canceled.\n")

	out, err = runApp(t, path, "4\n\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion canceled.\n")

	d := testdb.OpenPath(t, path)
	var n int
	require.NoError(t, d.QueryRow(context.Background(), `SELECT COUNT(*) FROM customers`).Scan(&n))
	assert.Equal(t, 1, n)
}

// ─────────────────────────────────────────────────────────────────────────────
// Metadata and free-form SQL
// ─────────────────────────────────────────────────────────────────────────────

func TestShowMetadata(t *testing.T) {
	out, err := runApp(t, seededPath(t), "5\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Database product: SQLite v")
	assert.Contains(t, out, "Table stars (5 columns)\n")
	assert.Contains(t, out, "Table customers (7 columns)\n")
	assert.Contains(t, out, "Statements this session: ")
}

func TestEnterSQL(t *testing.T) {
	path := seededPath(t)

	out, err := runApp(t, path, "6\nselect id, last_name from stars where id = 12;\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "id  last_name\n--  ---------\n12  Hanks\n")
	assert.Contains(t, out, "(1 rows)\n")

	out, err = runApp(t, path, "6\nUPDATE stars SET photo_url = 'x' WHERE first_name = 'Tom'\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "2 row(s) affected.\n")

	out, err = runApp(t, path, "6\nDROP TABLE stars\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Only SELECT/UPDATE/INSERT/DELETE statements are allowed.\n")

	out, err = runApp(t, path, "6\nSELECT * FROM nowhere\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "no such table: nowhere\n")
}

// ─────────────────────────────────────────────────────────────────────────────
// ExecuteOption
// ─────────────────────────────────────────────────────────────────────────────

func TestExecuteOption_TerminalChoices(t *testing.T) {
	d := testdb.Open(t)
	s := session.New(d, console.New(strings.NewReader(""), io.Discard), nil, quietLogger())

	for _, choice := range []int{session.OptionSwitchUser, session.OptionExit, 42} {
		keepGoing, err := s.ExecuteOption(context.Background(), choice)
		require.NoError(t, err)
		assert.False(t, keepGoing, "choice %d", choice)
	}
}

func TestExecuteOption_ClosedStoreIsFatal(t *testing.T) {
	d := testdb.Open(t)
	s := session.New(d, console.New(strings.NewReader("Tom\n\n"), io.Discard), nil, quietLogger())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	keepGoing, err := s.ExecuteOption(context.Background(), session.OptionMoviesFeaturingStar)
	assert.False(t, keepGoing)
	assert.True(t, db.IsClosed(err))
}
