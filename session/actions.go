package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Skryldev/moviedb/db"
	"github.com/Skryldev/moviedb/models"
	"github.com/Skryldev/moviedb/repo"
)

// ── Movies featuring a star ──────────────────────────────────────────────────

func (s *Session) moviesFeaturingStar(ctx context.Context) error {
	star, err := s.searchStar(ctx)
	if err != nil || star == nil {
		return err
	}

	movies, err := s.movies.Featuring(ctx, star)
	if err != nil {
		if db.IsNotFound(err) {
			s.con.Println(db.Diagnostic(err))
			return nil
		}
		return err
	}

	header := "Movies featuring " + star.NameFirstLast()
	s.con.Println(header)
	s.con.Println(strings.Repeat("-", utf8.RuneCountInString(header)))
	s.con.Println()
	for _, m := range movies {
		s.con.Println(m.TitleAndYear())
	}
	return nil
}

// searchStar asks for a name and narrows the matches down to one stored
// star. A nil star with a nil error means the search ended without a result;
// the reason has already been printed.
func (s *Session) searchStar(ctx context.Context) (*models.Star, error) {
	s.con.Println("You will be asked for a first name and a last name to search.")
	s.con.Println("If you choose not to search by a portion of their name, leave that field blank.")
	s.con.Println("Leaving both fields blank cancels the search.")
	s.con.Println()

	first, err := s.con.ReadLine("Enter first name: ")
	if err != nil {
		return nil, err
	}
	last, err := s.con.ReadLine("Enter last name:  ")
	if err != nil {
		return nil, err
	}
	s.con.Println()

	ids, err := s.stars.FindIDs(ctx, first, last)
	switch {
	case errors.Is(err, repo.ErrSearchCancelled):
		s.con.Println("Search canceled.")
		return nil, nil
	case err != nil && (db.IsConnectionFailed(err) || db.IsClosed(err)):
		return nil, err
	case err != nil:
		s.con.Println(db.Diagnostic(err))
		s.con.Println("Search canceled.")
		return nil, nil
	case len(ids) == 0:
		s.con.Println("No records with that name were found!")
		return nil, nil
	}

	id := ids[0]
	if len(ids) > 1 {
		if id, err = s.chooseStar(ctx, ids); err != nil {
			return nil, err
		}
	}

	star, err := s.stars.GetByID(ctx, id)
	if db.IsNotFound(err) {
		s.con.Println("No records with that name were found!")
		return nil, nil
	}
	return star, err
}

func (s *Session) chooseStar(ctx context.Context, ids []int64) (int64, error) {
	s.con.Println("Multiple search results found:")
	s.con.Println()

	options := make([]string, 0, len(ids))
	for _, id := range ids {
		star, err := s.stars.GetByID(ctx, id)
		if err != nil {
			return 0, err
		}
		s.con.Println(star.ShortString())
		options = append(options, strconv.FormatInt(id, 10))
	}
	s.con.Println()

	answer, err := s.con.Choose("Enter the appropriate numeric ID: ", options)
	if err != nil {
		return 0, err
	}
	s.con.Println()
	return strconv.ParseInt(answer, 10, 64)
}

// ── Insert star ──────────────────────────────────────────────────────────────

func (s *Session) insertStar(ctx context.Context) error {
	s.con.Println("Enter the information for the star you wish to add.")
	s.con.Println("Leave the first and last name blank if you wish to cancel.")
	s.con.Println()

	first, err := s.con.ReadLine("Enter first name: ")
	if err != nil {
		return err
	}
	last, err := s.con.ReadLine("Enter last name:  ")
	if err != nil {
		return err
	}
	if first == "" && last == "" {
		s.con.Println("Insertion canceled.")
		return nil
	}

	var dob *time.Time
	for {
		text, err := s.con.ReadLine("Enter DOB (yyyy-mm-dd, leave blank to skip): ")
		if err != nil {
			return err
		}
		if text == "" {
			break
		}
		t, err := models.ParseDOB(text)
		if err != nil {
			s.con.Println("Invalid format.")
			continue
		}
		dob = &t
		break
	}

	photo, err := s.con.ReadLine("Enter photo URL (optional): ")
	if err != nil {
		return err
	}
	s.con.Println()

	star, err := models.NewStar(models.CreateStarParams{
		FirstName: first,
		LastName:  last,
		DOB:       dob,
		PhotoURL:  photo,
	})
	if err != nil {
		s.con.Println("Insertion canceled.")
		return nil
	}

	if err := s.stars.Insert(ctx, star); err != nil {
		if errors.Is(err, repo.ErrNoRowsAffected) {
			s.con.Println("Could not add star.")
			return nil
		}
		return err
	}

	s.con.Println(star.NameFirstLast() + " added successfully:")
	s.con.Println(star)
	return nil
}

// ── Insert customer ──────────────────────────────────────────────────────────

func (s *Session) insertCustomer(ctx context.Context) error {
	s.con.Println("Enter the information for the customer you wish to add.")
	s.con.Println("Leave any field blank to cancel.")
	s.con.Println()

	var p models.CreateCustomerParams
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter first name: ", &p.FirstName},
		{"Enter last name:  ", &p.LastName},
		{"Enter address: ", &p.Address},
		{"Enter email address: ", &p.Email},
		{"Enter password: ", &p.Password},
		{"Enter credit card number: ", &p.CreditCardID},
	}
	for _, f := range fields {
		text, err := s.con.ReadLine(f.prompt)
		if err != nil {
			return err
		}
		if text == "" {
			s.con.Println("Insertion canceled.")
			return nil
		}
		*f.dst = text
		if f.dst == &p.Password {
			p.Password = models.Truncate(p.Password, models.CustomerPasswordMaxLen)
			s.con.Println("Password is: " + p.Password)
		}
	}

	customer, err := models.NewCustomer(p)
	if err != nil {
		s.con.Println("Insertion canceled.")
		return nil
	}

	if err := s.customers.Insert(ctx, customer); err != nil {
		if errors.Is(err, repo.ErrNoRowsAffected) || db.IsForeignKeyViolation(err) {
			s.con.Println("Could not add to database.")
			s.con.Println("Possibly you entered an invalid credit card number?")
			return nil
		}
		return err
	}

	s.con.Println("Customer added successfully.")
	s.con.Println(customer)
	return nil
}

// ── Delete customer ──────────────────────────────────────────────────────────

func (s *Session) deleteCustomer(ctx context.Context) error {
	var id int64
	for {
		text, err := s.con.ReadLine("Enter the ID of the customer to delete (leave blank to cancel): ")
		if err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			s.con.Println("Deletion canceled.")
			return nil
		}
		if id, err = strconv.ParseInt(text, 10, 64); err == nil && id > 0 {
			break
		}
		s.con.Println("Invalid ID.")
	}
	s.con.Println()

	customer, err := s.customers.GetByID(ctx, id)
	if db.IsNotFound(err) {
		s.con.Println("No customer with that ID was found!")
		return nil
	}
	if err != nil {
		return err
	}
	s.con.Println(customer)

	answer, err := s.con.Choose("Delete this customer? (y/n): ", []string{"y", "n"})
	if err != nil {
		return err
	}
	if answer != "y" {
		s.con.Println("Deletion canceled.")
		return nil
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			s.con.Println("No customer with that ID was found!")
			return nil
		}
		return err
	}
	s.con.Println("Customer deleted.")
	return nil
}

// ── Show internal database information ───────────────────────────────────────

func (s *Session) showMetadata(ctx context.Context) error {
	info, err := s.db.ServerInfo(ctx)
	if err != nil {
		return err
	}
	s.con.Printf("Database product: %s\n", info)
	s.con.Println()

	tables, err := s.db.Tables(ctx)
	if err != nil {
		return err
	}
	for _, t := range tables {
		s.con.Printf("Table %s (%d columns)\n", t.Name, len(t.Columns))
		for _, c := range t.Columns {
			s.con.Printf("    %-20s %s\n", c.Name, c.Type)
		}
	}

	if s.stats != nil {
		snap := s.stats.Snapshot()
		s.con.Println()
		s.con.Printf("Statements this session: %d (%d failed, %s total)\n",
			snap.Total, snap.Failed, snap.Duration.Round(time.Microsecond))
	}
	return nil
}
