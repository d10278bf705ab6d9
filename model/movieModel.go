// model/movie.go
package model

type Movie struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	ParentalRating int    `json:"parental_rating"`
	Launch         bool   `json:"launch"` // new release, shorter late threshold
}

type MovieSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// MovieRow is one record of a catalog import.
type MovieRow struct {
	ID             int64
	Title          string
	ParentalRating int
	Launch         bool
}

func (r MovieRow) Movie() Movie {
	return Movie{ID: r.ID, Title: r.Title, ParentalRating: r.ParentalRating, Launch: r.Launch}
}
