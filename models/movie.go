package models

import "fmt"

// Movie represents a row in the "movies" table. Movies are only ever loaded,
// never created from the console.
type Movie struct {
	ID         int64
	Title      string
	Year       int
	Director   string
	BannerURL  string
	TrailerURL string
}

// TitleAndYear renders "{year} -- {title}".
func (m *Movie) TitleAndYear() string {
	return fmt.Sprintf("%d -- %s", m.Year, m.Title)
}

func (m *Movie) String() string {
	return fmt.Sprintf(
		"ID:          %d\n"+
			"Title:       %s\n"+
			"Year:        %d\n"+
			"Director:    %s\n"+
			"Banner URL:  %s\n"+
			"Trailer URL: %s\n",
		m.ID, m.Title, m.Year, m.Director, m.BannerURL, m.TrailerURL,
	)
}
