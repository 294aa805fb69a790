package models

const (
	imageBaseURL = "https://image.tmdb.org/t/p"

	PosterSize   = "w500"
	BackdropSize = "w1280"
	ProfileSize  = "w185"
)

// PosterImageURL resolves a relative poster path against the image host
func PosterImageURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + "/" + PosterSize + path
}

// Genre represents a catalog genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember represents one cast credit on a movie
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
}

// CrewMember represents one crew credit on a movie
type CrewMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Job         string  `json:"job"`
	Department  string  `json:"department"`
	ProfilePath *string `json:"profile_path"`
}

// Credits groups the cast and crew of a movie
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video represents one video (trailer, teaser, clip) attached to a movie
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// VideoList wraps the catalog's videos payload
type VideoList struct {
	Results []Video `json:"results"`
}

// Movie represents a catalog movie as returned by search and trending
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"` // YYYY-MM-DD
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	OriginalLanguage string  `json:"original_language"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
}

// MovieDetail represents the full denormalized detail payload the catalog
// proxy assembles for one movie: base details plus credits and videos.
type MovieDetail struct {
	Movie
	Runtime             int                 `json:"runtime"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Status              string              `json:"status"`
	Tagline             string              `json:"tagline"`
	Homepage            string              `json:"homepage"`
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	Credits             *Credits            `json:"credits,omitempty"`
	Videos              *VideoList          `json:"videos,omitempty"`
}

// ProductionCompany represents one production company credit
type ProductionCompany struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	LogoPath *string `json:"logo_path"`
}

// MovieList represents a paginated catalog listing (search, trending)
type MovieList struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}
