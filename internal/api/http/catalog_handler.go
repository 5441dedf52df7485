package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
)

const maxPageSize = 40

type storefrontResponse struct {
	TopRated    []domain.GameDisplay `json:"topRated"`
	NewReleases []domain.GameDisplay `json:"newReleases"`
	Upcoming    []domain.GameDisplay `json:"upcoming"`
}

type gamePageResponse struct {
	Game        *domain.Game        `json:"game"`
	Display     domain.GameDisplay  `json:"display"`
	Owned       bool                `json:"owned"`
	Lent        bool                `json:"lent"`
	Screenshots []domain.Screenshot `json:"screenshots"`
	Trailers    []domain.Trailer    `json:"trailers"`
}

// pageSize reads ?page_size=, falling back to def.
func pageSize(r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("page_size")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxPageSize {
		return 0, false
	}
	return n, true
}

func (h *Handler) handleStorefront(w http.ResponseWriter, r *http.Request) {
	size, ok := pageSize(r, h.opts.PageSize)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "page_size must be between 1 and 40")
		return
	}
	ctx := r.Context()

	topRated, err := h.catalog.GetTopRatedGames(ctx, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	newGames, err := h.catalog.GetNewGames(ctx, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	upcoming, err := h.catalog.GetUpcomingGames(ctx, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, storefrontResponse{
		TopRated:    domain.ToDisplayList(topRated),
		NewReleases: domain.ToDisplayList(newGames),
		Upcoming:    domain.ToDisplayList(upcoming),
	})
}

func (h *Handler) handleFreeGames(w http.ResponseWriter, r *http.Request) {
	size, ok := pageSize(r, h.opts.FreeGamesCount)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "page_size must be between 1 and 40")
		return
	}
	games, err := h.catalog.GetNewGames(r.Context(), size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToDisplayList(games))
}

func (h *Handler) handleSearchGames(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "q is required")
		return
	}
	size, ok := pageSize(r, h.opts.PageSize)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "page_size must be between 1 and 40")
		return
	}
	games, err := h.catalog.SearchGames(r.Context(), query, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToDisplayList(games))
}

// handleGamePage resolves a slug to the full game record plus the caller's
// ownership and lend state. Media is best effort.
func (h *Handler) handleGamePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := mux.Vars(r)["slug"]

	game, err := h.catalog.FindBySlug(ctx, slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := gamePageResponse{Game: game, Display: domain.ToDisplay(*game)}
	if resp.Owned, err = h.library.IsOwned(ctx, game.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if resp.Lent, err = h.lending.IsCurrentlyLent(ctx, game.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if resp.Screenshots, err = h.catalog.GetGameScreenshots(ctx, game.ID); err != nil {
		logger.WarnContext(ctx, "Failed to load screenshots", "gameID", game.ID, "error", err)
	}
	if resp.Trailers, err = h.catalog.GetGameTrailers(ctx, game.ID); err != nil {
		logger.WarnContext(ctx, "Failed to load trailers", "gameID", game.ID, "error", err)
	}
	if resp.Screenshots == nil {
		resp.Screenshots = []domain.Screenshot{}
	}
	if resp.Trailers == nil {
		resp.Trailers = []domain.Trailer{}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalog.GetGenres(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

func (h *Handler) handleGenreGames(w http.ResponseWriter, r *http.Request) {
	genreID, _ := strconv.Atoi(mux.Vars(r)["id"])
	size, ok := pageSize(r, h.opts.PageSize)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "page_size must be between 1 and 40")
		return
	}
	games, err := h.catalog.GetGamesByGenre(r.Context(), genreID, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToDisplayList(games))
}
