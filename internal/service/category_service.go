package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"go.uber.org/zap"
)

// ErrIDMismatch is returned when the id in the path and in the body differ
var ErrIDMismatch = errors.New("id mismatch")

// CategoryService defines the category business operations
type CategoryService interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	ListWithProducts(ctx context.Context) ([]*domain.CategoryWithProducts, error)
	GetByID(ctx context.Context, id int) (*domain.Category, error)
	Update(ctx context.Context, id int, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int) error
}

type categoryService struct {
	repo   repository.CategoryRepository
	logger *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(repo repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{repo: repo, logger: logger}
}

// Create stores a category whose name is not taken yet
func (s *categoryService) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	taken, err := s.nameTaken(ctx, category.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrCategoryAlreadyExists
	}

	created := &domain.Category{Name: category.Name, Description: category.Description}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, err
	}

	s.logger.Info("Category created", zap.Int("category_id", created.ID))
	return created, nil
}

// List returns every category
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

// ListWithProducts returns every category with its products
func (s *categoryService) ListWithProducts(ctx context.Context) ([]*domain.CategoryWithProducts, error) {
	return s.repo.ListWithProducts(ctx)
}

// GetByID returns a single category
func (s *categoryService) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	return s.repo.FindByID(ctx, id)
}

// Update replaces name and description of the category identified by id
func (s *categoryService) Update(ctx context.Context, id int, category *domain.Category) (*domain.Category, error) {
	if id != category.ID {
		return nil, ErrIDMismatch
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, category.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrCategoryAlreadyExists
	}

	existing.Name = category.Name
	existing.Description = category.Description

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.Info("Category updated", zap.Int("category_id", id))
	return existing, nil
}

// Delete removes the category identified by id
func (s *categoryService) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Category deleted", zap.Int("category_id", id))
	return nil
}

// nameTaken reports whether a category other than exceptID already uses name
func (s *categoryService) nameTaken(ctx context.Context, name string, exceptID int) (bool, error) {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return existing.ID != exceptID, nil
}
