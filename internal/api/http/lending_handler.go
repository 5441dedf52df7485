package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

type lendRequest struct {
	GameID     int    `json:"gameId"`
	FriendName string `json:"friendName"`
	Email      string `json:"email"`
	Duration   *int   `json:"duration,omitempty"`
}

type extendRequest struct {
	AdditionalDays int `json:"additionalDays"`
}

func (h *Handler) handleListLends(w http.ResponseWriter, r *http.Request) {
	lends, err := h.lending.ListLent(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lends)
}

func (h *Handler) handleLend(w http.ResponseWriter, r *http.Request) {
	var req lendRequest
	if err := decodeJSON(w, r, h.opts.MaxRequestBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	days := h.opts.LendDays
	if req.Duration != nil {
		days = *req.Duration
	}

	lent, err := h.lending.Lend(r.Context(), req.GameID, req.FriendName, req.Email, days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lent)
}

func (h *Handler) handleExtendLend(w http.ResponseWriter, r *http.Request) {
	var req extendRequest
	if err := decodeJSON(w, r, h.opts.MaxRequestBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	lent, err := h.lending.Extend(r.Context(), mux.Vars(r)["id"], req.AdditionalDays)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lent)
}

func (h *Handler) handleRevokeLend(w http.ResponseWriter, r *http.Request) {
	if err := h.lending.Revoke(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
