package transport

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgCategoryExists   = "Categoria already exists"
	msgCategoryNotFound = "Categoria not found"
	msgCategoryMismatch = "Categoria id mismatch"
	msgCategoryInUse    = "Categoria has products"
	msgProductExists    = "Produto already exists"
	msgProductNotFound  = "Produto not found"
	msgProductMismatch  = "Produto id mismatch"
)

// respondWithServiceError maps service and repository errors to HTTP replies.
// mismatch is the message used for ErrIDMismatch.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, mismatch string) {
	switch {
	case errors.Is(err, service.ErrIDMismatch):
		middleware.RespondWithError(w, http.StatusBadRequest, mismatch)
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, msgCategoryNotFound)
	case errors.Is(err, repository.ErrCategoryAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, msgCategoryExists)
	case errors.Is(err, repository.ErrCategoryInUse):
		middleware.RespondWithError(w, http.StatusConflict, msgCategoryInUse)
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, msgProductNotFound)
	case errors.Is(err, repository.ErrProductAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, msgProductExists)
	case errors.Is(err, context.Canceled):
		logger.Debug("Request cancelled by client", zap.String("path", r.URL.Path))
	default:
		logger.Error("Request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID reads the numeric {id} route parameter. The route pattern only
// admits digits, so a failure here means the value does not fit an INTEGER
// column and cannot name a stored record.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	return int(id), err == nil
}

// pathParam returns a route parameter decoded exactly once. chi matches on
// RawPath when the request has one, leaving its parameters escaped.
func pathParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value
	}
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}

// queryInt parses an integer query parameter, returning 0 when absent or malformed
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}
