package transport

import (
	"fmt"
	"net/http"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryRequest represents the category create/update payload
type CategoryRequest struct {
	ID          int    `json:"id"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=255"`
}

func (req *CategoryRequest) toDomain() *domain.Category {
	return &domain.Category{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
	}
}

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes. Only creating and listing
// categories require a bearer token.
func (h *CategoryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Post("/categorias", h.Create)
	r.With(authMiddleware).Get("/categorias", h.List)
	r.Get("/categorias-produtos", h.ListWithProducts)

	r.Get("/categorias/{id:[0-9]+}", h.GetByID)
	r.Put("/categorias/{id:[0-9]+}", h.Update)
	r.Delete("/categorias/{id:[0-9]+}", h.Delete)
}

// Create handles category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		h.logger.Debug("Category payload rejected", zap.Error(err))
		middleware.RespondWithBodyError(w, err)
		return
	}

	category, err := h.categoryService.Create(r.Context(), req.toDomain())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err, msgCategoryMismatch)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/categorias/%d", category.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// List returns every category
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err, msgCategoryMismatch)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ListWithProducts returns every category with its products embedded
func (h *CategoryHandler) ListWithProducts(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListWithProducts(r.Context())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err, msgCategoryMismatch)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// GetByID returns one category
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, msgCategoryNotFound)
		return
	}

	category, err := h.categoryService.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err, msgCategoryMismatch)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Update replaces name and description of a category
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, msgCategoryNotFound)
		return
	}

	var req CategoryRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		h.logger.Debug("Category payload rejected", zap.Error(err))
		middleware.RespondWithBodyError(w, err)
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, req.toDomain())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err, msgCategoryMismatch)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Delete removes a category that no product references
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, msgCategoryNotFound)
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, r, h.logger, err, msgCategoryMismatch)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
