package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: "Error: " + msg})
}

// writeServiceError maps a service error onto a status code and error code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		conflictErr   *domain.ConflictError
		networkErr    *domain.NetworkError
		parseErr      *domain.ParseError
		storageErr    *domain.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrGameNotOwned):
		writeError(w, http.StatusNotFound, "game_not_owned", err.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.As(err, &networkErr), errors.As(err, &parseErr):
		logger.WarnContext(r.Context(), "Catalog request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
	case errors.As(err, &storageErr):
		logger.ErrorContext(r.Context(), "Storage failure", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to save your data")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "cancelled", "request cancelled")
	default:
		logger.ErrorContext(r.Context(), "Unhandled error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON object")
	}
	return nil
}
