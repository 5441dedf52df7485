package domain

import "strings"

const (
	FilterAll       = "All"
	StatusFavorites = "Favorites"
)

// GameFilter narrows a list of display games. Empty fields and "All" match
// everything. Search is a case-insensitive substring match on the title.
type GameFilter struct {
	Genre    string `json:"genre,omitempty"`
	Platform string `json:"platform,omitempty"`
	Status   string `json:"status,omitempty"`
	Search   string `json:"search,omitempty"`
}

// Facets lists the selectable filter values, "All" first, then each distinct
// value in first-seen order.
type Facets struct {
	Genres    []string `json:"genres"`
	Platforms []string `json:"platforms"`
}

func matches(want, got string) bool {
	return want == "" || want == FilterAll || want == got
}

// Apply returns the games that pass the filter. favorites is consulted only
// when Status is "Favorites".
func (f GameFilter) Apply(games []GameDisplay, favorites map[int]bool) []GameDisplay {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]GameDisplay, 0, len(games))
	for _, g := range games {
		if !matches(f.Genre, g.Genre) || !matches(f.Platform, g.Platform) {
			continue
		}
		if f.Status == StatusFavorites && !favorites[g.ID] {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(g.Title), search) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func BuildFacets(games []GameDisplay) Facets {
	f := Facets{Genres: []string{FilterAll}, Platforms: []string{FilterAll}}
	seenGenre := map[string]bool{}
	seenPlatform := map[string]bool{}
	for _, g := range games {
		if !seenGenre[g.Genre] {
			seenGenre[g.Genre] = true
			f.Genres = append(f.Genres, g.Genre)
		}
		if !seenPlatform[g.Platform] {
			seenPlatform[g.Platform] = true
			f.Platforms = append(f.Platforms, g.Platform)
		}
	}
	return f
}

// LibraryView is the filtered library listing with its facets.
type LibraryView struct {
	Total     int           `json:"total"`
	Games     []GameDisplay `json:"games"`
	Favorites []int         `json:"favorites"`
	Facets    Facets        `json:"facets"`
}
