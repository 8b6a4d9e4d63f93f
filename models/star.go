package models

import (
	"fmt"
	"strings"
	"time"
)

// Column limits of the stars table.
const (
	StarNameMaxLen     = 50
	StarPhotoURLMaxLen = 200
)

// DateLayout is the calendar format used for dates of birth.
const DateLayout = "2006-01-02"

// Star represents a row in the "stars" table.
// ID is zero until the store assigns one on insert.
type Star struct {
	ID        int64
	FirstName string
	LastName  string
	DOB       *time.Time
	PhotoURL  string
}

// CreateStarParams holds the user-supplied values for a new star.
type CreateStarParams struct {
	FirstName string
	LastName  string
	DOB       *time.Time
	PhotoURL  string
}

// NewStar builds an unsaved Star. Values are truncated to their column
// limits; a star known by a single name keeps it as the last name.
func NewStar(p CreateStarParams) (*Star, error) {
	s := &Star{
		FirstName: Truncate(p.FirstName, StarNameMaxLen),
		LastName:  Truncate(p.LastName, StarNameMaxLen),
		DOB:       p.DOB,
		PhotoURL:  Truncate(p.PhotoURL, StarPhotoURLMaxLen),
	}
	if s.LastName == "" {
		s.LastName, s.FirstName = s.FirstName, ""
	}
	if s.LastName == "" {
		return nil, fmt.Errorf("%w: a star needs a first or a last name", ErrInvalidArgument)
	}
	return s, nil
}

// ParseDOB parses a date of birth in DateLayout.
func ParseDOB(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must look like yyyy-mm-dd", ErrInvalidArgument)
	}
	return t, nil
}

// Persisted reports whether the store has assigned an ID.
func (s *Star) Persisted() bool { return s.ID > 0 }

// NameFirstLast renders "First Last", or the single name when one is missing.
func (s *Star) NameFirstLast() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// NameLastFirst renders "Last, First", or the single name when one is missing.
func (s *Star) NameLastFirst() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.LastName + ", " + s.FirstName
}

// ShortString is the one-line form used when listing search candidates.
func (s *Star) ShortString() string {
	return fmt.Sprintf("%10d -> %s", s.ID, s.NameLastFirst())
}

func (s *Star) String() string {
	dob := ""
	if s.DOB != nil {
		dob = s.DOB.Format(DateLayout)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "ID:         %d\n", s.ID)
	fmt.Fprintf(&sb, "First Name: %s\n", s.FirstName)
	fmt.Fprintf(&sb, "Last Name:  %s\n", s.LastName)
	fmt.Fprintf(&sb, "DOB:        %s\n", dob)
	fmt.Fprintf(&sb, "Photo URL:  %s\n", s.PhotoURL)
	return sb.String()
}
