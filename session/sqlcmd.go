package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Skryldev/moviedb/db"
)

// statementKind returns the upper-cased leading keyword of query if it is
// one the console accepts, or "".
func statementKind(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	switch kw := strings.ToUpper(fields[0]); kw {
	case "SELECT", "UPDATE", "INSERT", "DELETE":
		return kw
	}
	return ""
}

func (s *Session) enterSQL(ctx context.Context) error {
	query, err := s.con.ReadLine("Enter SQL command: ")
	if err != nil {
		return err
	}
	query = strings.TrimSuffix(strings.TrimSpace(query), ";")
	if query == "" {
		s.con.Println("Command canceled.")
		return nil
	}

	kind := statementKind(query)
	if kind == "" {
		s.con.Println("Only SELECT/UPDATE/INSERT/DELETE statements are allowed.")
		return nil
	}
	s.con.Println()

	if kind == "SELECT" {
		err = s.printQuery(ctx, query)
	} else {
		var res db.ExecResult
		if res, err = s.db.Exec(ctx, query); err == nil {
			s.con.Printf("%d row(s) affected.\n", res.RowsAffected)
		}
	}

	if err != nil {
		if db.IsConnectionFailed(err) || db.IsClosed(err) {
			return err
		}
		s.con.Println(db.Diagnostic(err))
	}
	return nil
}

// printQuery renders every row of a SELECT as an aligned table.
func (s *Session) printQuery(ctx context.Context, query string) error {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(s.con.Out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(cols, "\t"))
	rule := make([]string, len(cols))
	for i, c := range cols {
		rule[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(w, strings.Join(rule, "\t"))

	values := make([]sql.RawBytes, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	n := 0
	cells := make([]string, len(cols))
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		for i, v := range values {
			if v == nil {
				cells[i] = "NULL"
			} else {
				cells[i] = string(v)
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
		n++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s.con.Println()
	s.con.Printf("(%d rows)\n", n)
	return nil
}
