package domain_test

import (
	"testing"

	"storefront-library/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestToDisplay(t *testing.T) {
	t.Run("FullRecord", func(t *testing.T) {
		g := domain.Game{
			ID:              3498,
			Slug:            "grand-theft-auto-v",
			Name:            "Grand Theft Auto V",
			BackgroundImage: "https://media.rawg.io/gta.jpg",
			Genres:          []domain.Genre{{ID: 4, Name: "Action"}, {ID: 3, Name: "Adventure"}},
			Platforms: []domain.PlatformEntry{
				{Platform: domain.Platform{ID: 4, Name: "PC"}},
				{Platform: domain.Platform{ID: 187, Name: "PlayStation 5"}},
			},
		}

		d := domain.ToDisplay(g)
		assert.Equal(t, 3498, d.ID)
		assert.Equal(t, "Grand Theft Auto V", d.Title)
		assert.Equal(t, "https://media.rawg.io/gta.jpg", d.Thumbnail)
		assert.Equal(t, "Action", d.Genre)
		assert.Equal(t, "PC", d.Platform)
		assert.Equal(t, "Explore Grand Theft Auto V, a fantastic game with amazing gameplay experience.", d.Description)
		assert.Equal(t, "0 hours", d.Playtime)
	})

	t.Run("MissingFieldsUseDefaults", func(t *testing.T) {
		d := domain.ToDisplay(domain.Game{ID: 7, Slug: "x", Name: "X"})
		assert.Equal(t, domain.PlaceholderImage, d.Thumbnail)
		assert.Equal(t, "Unknown", d.Genre)
		assert.Equal(t, "PC", d.Platform)
		assert.Equal(t, "Explore X, a fantastic game with amazing gameplay experience.", d.Description)
	})

	t.Run("FirstPlatformWins", func(t *testing.T) {
		d := domain.ToDisplay(domain.Game{
			ID:   1,
			Name: "Halo",
			Platforms: []domain.PlatformEntry{
				{Platform: domain.Platform{Name: "Xbox"}},
				{Platform: domain.Platform{Name: "PC"}},
			},
		})
		assert.Equal(t, "Xbox", d.Platform)
	})

	t.Run("OwnedGameDisplay", func(t *testing.T) {
		o := domain.OwnedGame{Game: domain.Game{ID: 9, Name: "Celeste"}}
		assert.Equal(t, domain.ToDisplay(o.Game), o.Display())
	})
}

func TestToDisplayList_PreservesOrder(t *testing.T) {
	list := domain.ToDisplayList([]domain.Game{{ID: 3, Name: "C"}, {ID: 1, Name: "A"}})
	assert.Len(t, list, 2)
	assert.Equal(t, 3, list[0].ID)
	assert.Equal(t, 1, list[1].ID)
}
