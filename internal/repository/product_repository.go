package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-api/internal/domain"

	"github.com/jmoiron/sqlx"
)

const productColumns = `id, name, description, price, image, stock, purchase_date, category_id`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListPage(ctx context.Context, offset, limit int) ([]*domain.Product, error)
	SearchByName(ctx context.Context, filter string) ([]*domain.Product, error)
}

type productRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a product and stores the generated id on it
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if !fitsInt4(product.CategoryID) {
		return ErrCategoryNotFound
	}

	query := `
		INSERT INTO products (name, description, price, image, stock, purchase_date, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.Image,
		product.Stock,
		product.PurchaseDate,
		product.CategoryID,
	).Scan(&product.ID)

	if err != nil {
		return mapProductWriteError("create", err)
	}

	return nil
}

// Update replaces every mutable column of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	if !fitsInt4(product.ID) {
		return ErrProductNotFound
	}
	if !fitsInt4(product.CategoryID) {
		return ErrCategoryNotFound
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, image = $5,
		    stock = $6, purchase_date = $7, category_id = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Image,
		product.Stock,
		product.PurchaseDate,
		product.CategoryID,
	)
	if err != nil {
		return mapProductWriteError("update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id int) error {
	if !fitsInt4(id) {
		return ErrProductNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by id
func (r *productRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	if !fitsInt4(id) {
		return nil, ErrProductNotFound
	}

	product := &domain.Product{}
	err := r.db.GetContext(ctx, product, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindByName retrieves a product by exact, case-sensitive name
func (r *productRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.db.GetContext(ctx, product, `SELECT `+productColumns+` FROM products WHERE name = $1 LIMIT 1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}

	return product, nil
}

// List retrieves all products in insertion order
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	products := []*domain.Product{}
	if err := r.db.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// ListPage retrieves at most limit products after skipping offset, in insertion order
func (r *productRepository) ListPage(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id LIMIT $1 OFFSET $2`

	products := []*domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list products page: %w", err)
	}

	return products, nil
}

// SearchByName retrieves products whose name contains filter, ignoring case.
// strpos keeps LIKE wildcards in the filter literal.
func (r *productRepository) SearchByName(ctx context.Context, filter string) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE strpos(lower(name), lower($1)) > 0
		ORDER BY id
	`

	products := []*domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, filter); err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

func mapProductWriteError(op string, err error) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return ErrProductAlreadyExists
	case pgForeignKeyViolation:
		return ErrCategoryNotFound
	}
	return fmt.Errorf("failed to %s product: %w", op, err)
}
