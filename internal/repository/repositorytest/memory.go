// Package repositorytest provides in-memory repositories for tests that
// exercise services and handlers without a database.
package repositorytest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
)

// Store backs both repositories so foreign keys and unique names are
// enforced the way the database does
type Store struct {
	mu         sync.Mutex
	categories map[int]*domain.Category
	products   map[int]*domain.Product
	nextID     int
	calls      int
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		categories: make(map[int]*domain.Category),
		products:   make(map[int]*domain.Product),
	}
}

// Categories returns a CategoryRepository backed by s
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepository{s} }

// Products returns a ProductRepository backed by s
func (s *Store) Products() repository.ProductRepository { return &productRepository{s} }

// Calls reports how many repository methods have been invoked
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// touch locks the store and counts the call; the caller unlocks
func (s *Store) touch() {
	s.mu.Lock()
	s.calls++
}

type categoryRepository struct{ s *Store }

type productRepository struct{ s *Store }

func (m *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	m.s.touch()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.categories {
		if existing.Name == c.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.s.nextID++
	c.ID = m.s.nextID
	stored := *c
	m.s.categories[c.ID] = &stored
	return nil
}

func (m *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	m.s.touch()
	defer m.s.mu.Unlock()
	if _, ok := m.s.categories[c.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	stored := *c
	m.s.categories[c.ID] = &stored
	return nil
}

func (m *categoryRepository) Delete(ctx context.Context, id int) error {
	m.s.touch()
	defer m.s.mu.Unlock()
	if _, ok := m.s.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	for _, p := range m.s.products {
		if p.CategoryID == id {
			return repository.ErrCategoryInUse
		}
	}
	delete(m.s.categories, id)
	return nil
}

func (m *categoryRepository) FindByID(ctx context.Context, id int) (*domain.Category, error) {
	m.s.touch()
	defer m.s.mu.Unlock()
	c, ok := m.s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *categoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	m.s.touch()
	defer m.s.mu.Unlock()
	for _, c := range m.s.categories {
		if c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	m.s.touch()
	defer m.s.mu.Unlock()
	out := []*domain.Category{}
	for _, c := range m.s.categories {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *categoryRepository) ListWithProducts(ctx context.Context) ([]*domain.CategoryWithProducts, error) {
	categories, _ := m.List(ctx)
	products, _ := (&productRepository{m.s}).List(ctx)
	out := []*domain.CategoryWithProducts{}
	for _, c := range categories {
		item := &domain.CategoryWithProducts{Category: *c, Products: []*domain.Product{}}
		for _, p := range products {
			if p.CategoryID == c.ID {
				item.Products = append(item.Products, p)
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *productRepository) Create(ctx context.Context, p *domain.Product) error {
	m.s.touch()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.products {
		if existing.Name == p.Name {
			return repository.ErrProductAlreadyExists
		}
	}
	if _, ok := m.s.categories[p.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	m.s.nextID++
	p.ID = m.s.nextID
	stored := *p
	m.s.products[p.ID] = &stored
	return nil
}

func (m *productRepository) Update(ctx context.Context, p *domain.Product) error {
	m.s.touch()
	defer m.s.mu.Unlock()
	if _, ok := m.s.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	if _, ok := m.s.categories[p.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	stored := *p
	m.s.products[p.ID] = &stored
	return nil
}

func (m *productRepository) Delete(ctx context.Context, id int) error {
	m.s.touch()
	defer m.s.mu.Unlock()
	if _, ok := m.s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.s.products, id)
	return nil
}

func (m *productRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	m.s.touch()
	defer m.s.mu.Unlock()
	p, ok := m.s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *productRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	m.s.touch()
	defer m.s.mu.Unlock()
	for _, p := range m.s.products {
		if p.Name == name {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	m.s.touch()
	defer m.s.mu.Unlock()
	out := []*domain.Product{}
	for _, p := range m.s.products {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *productRepository) ListPage(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	all, _ := m.List(ctx)
	if offset >= len(all) {
		return []*domain.Product{}, nil
	}
	end := len(all)
	if limit < end-offset {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (m *productRepository) SearchByName(ctx context.Context, filter string) ([]*domain.Product, error) {
	all, _ := m.List(ctx)
	out := []*domain.Product{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter)) {
			out = append(out, p)
		}
	}
	return out, nil
}

