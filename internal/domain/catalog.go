package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category represents a named grouping of products
type Category struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// CategoryWithProducts is a category with its products eagerly loaded
type CategoryWithProducts struct {
	Category
	Products []*Product `json:"products"`
}

// Product represents a sellable item belonging to exactly one category
type Product struct {
	ID           int             `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Image        string          `json:"image" db:"image"`
	Stock        int             `json:"stock" db:"stock"`
	PurchaseDate time.Time       `json:"purchaseDate" db:"purchase_date"`
	CategoryID   int             `json:"categoryId" db:"category_id"`
}

// Credentials is the transient login pair; it is never persisted
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
