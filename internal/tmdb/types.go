package tmdb

// Genre is one entry of a genre list
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreListResponse struct {
	Genres []Genre `json:"genres"`
}

// Result is a single entry of a search, trending or popular listing.
// Movies carry Title/ReleaseDate, TV shows carry Name/FirstAirDate and
// trending mixes both, so every listing decodes into this one shape.
type Result struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type,omitempty"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	GenreIDs     []int   `json:"genre_ids"`
	Popularity   float64 `json:"popularity,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
}

// Page is a paginated listing
type Page struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// TimeWindow selects the trending window
type TimeWindow string

// TimeWindowDay is the only window the front page lists
const TimeWindowDay TimeWindow = "day"
