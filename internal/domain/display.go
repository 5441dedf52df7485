package domain

import "fmt"

const (
	PlaceholderImage  = "https://placehold.co/400x225/121212/cccccc?text=No+Image"
	UnknownGenre      = "Unknown"
	DefaultPlatform   = "PC"
	DefaultPlaytime   = "0 hours"
	descriptionFormat = "Explore %s, a fantastic game with amazing gameplay experience."
)

// GameDisplay is the normalized shape every list and card renders.
type GameDisplay struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	Genre       string `json:"genre"`
	Platform    string `json:"platform"`
	Description string `json:"description"`
	Playtime    string `json:"playtime"`
}

// ToDisplay converts a catalog record to its display form. It never fails;
// missing fields fall back to fixed defaults.
func ToDisplay(g Game) GameDisplay {
	d := GameDisplay{
		ID:          g.ID,
		Title:       g.Name,
		Thumbnail:   g.BackgroundImage,
		Genre:       UnknownGenre,
		Platform:    DefaultPlatform,
		Description: fmt.Sprintf(descriptionFormat, g.Name),
		Playtime:    DefaultPlaytime,
	}
	if d.Thumbnail == "" {
		d.Thumbnail = PlaceholderImage
	}
	if len(g.Genres) > 0 && g.Genres[0].Name != "" {
		d.Genre = g.Genres[0].Name
	}
	if len(g.Platforms) > 0 && g.Platforms[0].Platform.Name != "" {
		d.Platform = g.Platforms[0].Platform.Name
	}
	return d
}

// ToDisplayList maps ToDisplay over games, preserving order.
func ToDisplayList(games []Game) []GameDisplay {
	out := make([]GameDisplay, 0, len(games))
	for _, g := range games {
		out = append(out, ToDisplay(g))
	}
	return out
}

func (o OwnedGame) Display() GameDisplay {
	return ToDisplay(o.Game)
}
