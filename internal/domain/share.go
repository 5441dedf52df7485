package domain

import "time"

const DefaultShareTitle = "My Epic Games Collection"

// SharedLibrary is a named snapshot of display-form games. Later library
// changes never alter an existing snapshot.
type SharedLibrary struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Games     []GameDisplay `json:"games"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Recommendation is a game suggested by a visitor of a shared library.
type Recommendation struct {
	ID            string    `json:"id"`
	GameName      string    `json:"gameName"`
	RecommendedBy string    `json:"recommendedBy"`
	Date          time.Time `json:"date"`
}

// SharedLibraryView is a shared library with its games narrowed by a filter.
type SharedLibraryView struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"createdAt"`
	Total     int           `json:"total"`
	Games     []GameDisplay `json:"games"`
	Facets    Facets        `json:"facets"`
}
