// Package http exposes the library services as a JSON API.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"storefront-library/internal/service"
)

const defaultMaxBodyBytes = 64 << 10

// Options tunes request defaults.
type Options struct {
	PageSize        int // catalog page size when the query omits one
	LendDays        int // lend duration when the request omits one
	FreeGamesCount  int
	MaxRequestBytes int64
}

type Handler struct {
	catalog  service.CatalogService
	library  service.LibraryService
	lending  service.LendingService
	sharing  service.SharingService
	checkout service.CheckoutService
	opts     Options
}

func NewHandler(
	catalog service.CatalogService,
	library service.LibraryService,
	lending service.LendingService,
	sharing service.SharingService,
	checkout service.CheckoutService,
	opts Options,
) *Handler {
	if opts.PageSize <= 0 {
		opts.PageSize = 6
	}
	if opts.LendDays <= 0 {
		opts.LendDays = 7
	}
	if opts.FreeGamesCount <= 0 {
		opts.FreeGamesCount = 12
	}
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = defaultMaxBodyBytes
	}
	return &Handler{
		catalog:  catalog,
		library:  library,
		lending:  lending,
		sharing:  sharing,
		checkout: checkout,
		opts:     opts,
	}
}

// NewRouter registers every route under /api/v1, plus /healthz and /metrics,
// and wraps the router in the request id, logging and recovery middleware.
func NewRouter(h *Handler) http.Handler {
	metrics := newHTTPMetrics()

	router := mux.NewRouter()
	router.Use(metrics.middleware)
	router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Catalog
	api.HandleFunc("/storefront", h.handleStorefront).Methods(http.MethodGet)
	api.HandleFunc("/free-games", h.handleFreeGames).Methods(http.MethodGet)
	api.HandleFunc("/games/search", h.handleSearchGames).Methods(http.MethodGet)
	api.HandleFunc("/games/{slug}", h.handleGamePage).Methods(http.MethodGet)
	api.HandleFunc("/genres", h.handleListGenres).Methods(http.MethodGet)
	api.HandleFunc("/genres/{id:[0-9]+}/games", h.handleGenreGames).Methods(http.MethodGet)

	// Library
	api.HandleFunc("/library", h.handleListLibrary).Methods(http.MethodGet)
	api.HandleFunc("/library/{gameID:[0-9]+}/status", h.handleGameStatus).Methods(http.MethodGet)
	api.HandleFunc("/library/purchases", h.handlePurchase).Methods(http.MethodPost)
	api.HandleFunc("/library/favorites/{gameID:[0-9]+}", h.handleSetFavorite(true)).Methods(http.MethodPut)
	api.HandleFunc("/library/favorites/{gameID:[0-9]+}", h.handleSetFavorite(false)).Methods(http.MethodDelete)

	// Lending
	api.HandleFunc("/lends", h.handleListLends).Methods(http.MethodGet)
	api.HandleFunc("/lends", h.handleLend).Methods(http.MethodPost)
	api.HandleFunc("/lends/{id}/extend", h.handleExtendLend).Methods(http.MethodPost)
	api.HandleFunc("/lends/{id}", h.handleRevokeLend).Methods(http.MethodDelete)

	// Sharing
	api.HandleFunc("/shares", h.handleListShares).Methods(http.MethodGet)
	api.HandleFunc("/shares", h.handleCreateShare).Methods(http.MethodPost)
	api.HandleFunc("/shares/{id}", h.handleBrowseShare).Methods(http.MethodGet)
	api.HandleFunc("/shares/{id}", h.handleDeleteShare).Methods(http.MethodDelete)
	api.HandleFunc("/shares/{id}/recommendations", h.handleListRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/shares/{id}/recommendations", h.handleRecommend).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found: "+r.URL.Path)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" is not allowed on "+r.URL.Path)
	})

	return withRequestID(withRequestLogging(withRecovery(router)))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
