package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

type createShareRequest struct {
	Title   string `json:"title"`
	GameIDs []int  `json:"gameIds"`
}

type recommendRequest struct {
	GameName      string `json:"gameName"`
	RecommendedBy string `json:"recommendedBy"`
}

func (h *Handler) handleListShares(w http.ResponseWriter, r *http.Request) {
	shares, err := h.sharing.ListShares(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shares)
}

func (h *Handler) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	var req createShareRequest
	if err := decodeJSON(w, r, h.opts.MaxRequestBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	share, err := h.sharing.CreateShare(r.Context(), req.Title, req.GameIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/shares/"+share.ID)
	writeJSON(w, http.StatusCreated, share)
}

// handleBrowseShare is the page a share link opens. Visitors filter by
// genre, platform and title.
func (h *Handler) handleBrowseShare(w http.ResponseWriter, r *http.Request) {
	view, err := h.sharing.BrowseShare(r.Context(), mux.Vars(r)["id"], filterFromQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleDeleteShare(w http.ResponseWriter, r *http.Request) {
	if err := h.sharing.DeleteShare(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.sharing.ListRecommendations(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(w, r, h.opts.MaxRequestBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	rec, err := h.sharing.Recommend(r.Context(), mux.Vars(r)["id"], req.GameName, req.RecommendedBy)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}
