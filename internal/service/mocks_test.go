package service

import (
	"catalog-api/internal/repository"
	"catalog-api/internal/repository/repositorytest"

	"go.uber.org/zap"
)

func newMocks() (*repositorytest.Store, repository.CategoryRepository, repository.ProductRepository) {
	store := repositorytest.NewStore()
	return store, store.Categories(), store.Products()
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
