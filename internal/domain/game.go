package domain

import "time"

type Genre struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug,omitempty"`
	ImageBackground string `json:"image_background,omitempty"`
}

type Platform struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type PlatformEntry struct {
	Platform Platform `json:"platform"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Store struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type StoreEntry struct {
	Store Store `json:"store"`
}

type Screenshot struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
}

type ESRBRating struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// TrailerData holds the video URLs keyed by quality ("480", "max").
type TrailerData map[string]string

type Trailer struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	Preview string      `json:"preview"`
	Data    TrailerData `json:"data"`
}

// Game is a catalog record as returned by the game catalog. Only ID, Slug and
// Name are guaranteed; every other field may be absent.
type Game struct {
	ID               int             `json:"id"`
	Slug             string          `json:"slug"`
	Name             string          `json:"name"`
	BackgroundImage  string          `json:"background_image"`
	DescriptionRaw   string          `json:"description_raw,omitempty"`
	Released         string          `json:"released,omitempty"`
	Metacritic       *int            `json:"metacritic,omitempty"`
	Rating           float64         `json:"rating,omitempty"`
	RatingsCount     int             `json:"ratings_count,omitempty"`
	Genres           []Genre         `json:"genres,omitempty"`
	Platforms        []PlatformEntry `json:"platforms,omitempty"`
	Tags             []Tag           `json:"tags,omitempty"`
	Stores           []StoreEntry    `json:"stores,omitempty"`
	ShortScreenshots []Screenshot    `json:"short_screenshots,omitempty"`
	ESRBRating       *ESRBRating     `json:"esrb_rating,omitempty"`
}

// OwnedGame is a catalog record plus the moment it entered the library.
// Owned games are never mutated or removed.
type OwnedGame struct {
	Game
	PurchasedAt time.Time `json:"purchaseDate"`
}

// Page is the paginated envelope every catalog list endpoint returns.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
