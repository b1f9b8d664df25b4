package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// dateLayouts are accepted for purchaseDate; values without a zone are UTC
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Date is a timestamp that also accepts local date-time and plain date forms
type Date time.Time

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			*d = Date(t)
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", raw)
}

// ProductRequest represents the product create/update payload
type ProductRequest struct {
	ID           int             `json:"id"`
	Name         string          `json:"name" validate:"required,max=100"`
	Description  string          `json:"description" validate:"required,max=255"`
	Price        decimal.Decimal `json:"price" validate:"decimal14_2"`
	Image        string          `json:"image" validate:"required,max=255"`
	Stock        int             `json:"stock" validate:"min=-2147483648,max=2147483647"`
	PurchaseDate Date            `json:"purchaseDate"`
	CategoryID   int             `json:"categoryId"`
}

func (req *ProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		ID:           req.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Image:        req.Image,
		Stock:        req.Stock,
		PurchaseDate: time.Time(req.PurchaseDate).UTC(),
		CategoryID:   req.CategoryID,
	}
}

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes; none of them require a token
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Post("/produtos", h.Create)
	r.Get("/produtos", h.List)
	r.Get("/produtos-por-pagina", h.ListPaged)
	r.Get("/produtos/nome/{filter}", h.SearchByName)
	r.Get("/produtos/{id:[0-9]+}", h.GetByID)
	r.Put("/produtos/{id:[0-9]+}", h.Update)
	r.Delete("/produtos/{id:[0-9]+}", h.Delete)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		h.logger.Debug("Product payload rejected", zap.Error(err))
		middleware.RespondWithBodyError(w, err)
		return
	}

	product, err := h.productService.Create(r.Context(), req.toDomain())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err, msgProductMismatch)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/produtos/%d", product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// List returns every product
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err, msgProductMismatch)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListPaged returns one page of products selected by numeroPagina and tamanhoPagina
func (h *ProductHandler) ListPaged(w http.ResponseWriter, r *http.Request) {
	pageNumber := queryInt(r, "numeroPagina")
	pageSize := queryInt(r, "tamanhoPagina")

	products, err := h.productService.ListPaged(r.Context(), pageNumber, pageSize)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err, msgProductMismatch)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// SearchByName returns products whose name contains the filter, or 404 with
// an empty list when nothing matches
func (h *ProductHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.SearchByName(r.Context(), pathParam(r, "filter"))
	if err != nil {
		respondWithServiceError(w, r, h.logger, err, msgProductMismatch)
		return
	}

	if len(products) == 0 {
		middleware.RespondWithJSON(w, http.StatusNotFound, []*domain.Product{})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetByID returns one product
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, msgProductNotFound)
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err, msgProductMismatch)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Update replaces every field of a product
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, msgProductNotFound)
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		h.logger.Debug("Product payload rejected", zap.Error(err))
		middleware.RespondWithBodyError(w, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, req.toDomain())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err, msgProductMismatch)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, msgProductNotFound)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, r, h.logger, err, msgProductMismatch)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
