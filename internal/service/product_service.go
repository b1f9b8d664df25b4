package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"go.uber.org/zap"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// ProductService defines the product business operations
type ProductService interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListPaged(ctx context.Context, pageNumber, pageSize int) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int) (*domain.Product, error)
	SearchByName(ctx context.Context, filter string) ([]*domain.Product, error)
	Update(ctx context.Context, id int, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int) error
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	logger *zap.Logger,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// NormalizePage replaces non-positive page numbers and sizes with the defaults
func NormalizePage(pageNumber, pageSize int) (int, int) {
	if pageNumber <= 0 {
		pageNumber = DefaultPageNumber
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return pageNumber, pageSize
}

// Create stores a product after checking its category exists and its name is free
func (s *productService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if _, err := s.categories.FindByID(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, product.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrProductAlreadyExists
	}

	created := *product
	created.ID = 0
	if err := s.products.Create(ctx, &created); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.Int("product_id", created.ID),
		zap.Int("category_id", created.CategoryID),
	)
	return &created, nil
}

// List returns every product
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

// ListPaged returns one page of products; page numbers start at 1. Pages
// starting beyond the largest possible id are empty.
func (s *productService) ListPaged(ctx context.Context, pageNumber, pageSize int) ([]*domain.Product, error) {
	pageNumber, pageSize = NormalizePage(pageNumber, pageSize)
	if pageNumber-1 > math.MaxInt32/pageSize {
		return []*domain.Product{}, nil
	}
	return s.products.ListPage(ctx, (pageNumber-1)*pageSize, pageSize)
}

// GetByID returns a single product
func (s *productService) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// SearchByName returns the products whose name contains filter, ignoring case.
// An empty result is not an error.
func (s *productService) SearchByName(ctx context.Context, filter string) ([]*domain.Product, error) {
	return s.products.SearchByName(ctx, filter)
}

// Update replaces every field of the product identified by id. The category
// is not looked up again; a dangling id is still rejected by the store.
func (s *productService) Update(ctx context.Context, id int, product *domain.Product) (*domain.Product, error) {
	if id != product.ID {
		return nil, ErrIDMismatch
	}

	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, product.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrProductAlreadyExists
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.Image = product.Image
	existing.Stock = product.Stock
	existing.PurchaseDate = product.PurchaseDate
	existing.CategoryID = product.CategoryID

	if err := s.products.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.Info("Product updated", zap.Int("product_id", id))
	return existing, nil
}

// Delete removes the product identified by id
func (s *productService) Delete(ctx context.Context, id int) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.Int("product_id", id))
	return nil
}

func (s *productService) nameTaken(ctx context.Context, name string, exceptID int) (bool, error) {
	existing, err := s.products.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check product name: %w", err)
	}
	return existing.ID != exceptID, nil
}
