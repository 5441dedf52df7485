package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"storefront-library/internal/domain"
)

type purchaseRequest struct {
	GameID int `json:"gameId"`
}

type gameStatusResponse struct {
	GameID   int  `json:"gameId"`
	Owned    bool `json:"owned"`
	Lent     bool `json:"lent"`
	Favorite bool `json:"favorite"`
}

type favoriteResponse struct {
	GameID   int  `json:"gameId"`
	Favorite bool `json:"favorite"`
}

func filterFromQuery(r *http.Request) domain.GameFilter {
	q := r.URL.Query()
	return domain.GameFilter{
		Genre:    q.Get("genre"),
		Platform: q.Get("platform"),
		Status:   q.Get("status"),
		Search:   q.Get("search"),
	}
}

func gameIDVar(r *http.Request) int {
	// The route pattern only admits digits.
	id, _ := strconv.Atoi(mux.Vars(r)["gameID"])
	return id
}

func (h *Handler) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	view, err := h.library.ListLibrary(r.Context(), filterFromQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleGameStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := gameStatusResponse{GameID: gameIDVar(r)}

	var err error
	if resp.Owned, err = h.library.IsOwned(ctx, resp.GameID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if resp.Lent, err = h.lending.IsCurrentlyLent(ctx, resp.GameID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	favorites, err := h.library.ListFavorites(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	for _, id := range favorites {
		if id == resp.GameID {
			resp.Favorite = true
			break
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := decodeJSON(w, r, h.opts.MaxRequestBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if req.GameID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "gameId is required")
		return
	}

	order, err := h.checkout.Purchase(r.Context(), req.GameID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) handleSetFavorite(favorite bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameIDVar(r)
		if err := h.library.SetFavorite(r.Context(), id, favorite); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, favoriteResponse{GameID: id, Favorite: favorite})
	}
}
