package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rogerio-castellano/shop-inventory/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.Mutex
	products []models.Product
	nextID   int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

// GetAll retrieves all products ordered by name, ignoring case.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := make([]models.Product, len(r.products))
	copy(products, r.products)
	sort.SliceStable(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) GetByName(_ context.Context, name string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOfName(name); i >= 0 {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.create(product)
}

func (r *InMemoryProductRepository) create(product models.Product) (models.Product, error) {
	if r.indexOfName(product.Name) >= 0 {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, product)
	return product, nil
}

// Update replaces an existing product in the repository.
func (r *InMemoryProductRepository) Update(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.update(product)
}

func (r *InMemoryProductRepository) update(product models.Product) (models.Product, error) {
	i := r.indexOf(product.ID)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	if j := r.indexOfName(product.Name); j >= 0 && j != i {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	r.products[i] = product
	return product, nil
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

func (r *InMemoryProductRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.products), nil
}

func (r *InMemoryProductRepository) Sell(_ context.Context, name string, quantity int) (models.Product, error) {
	if quantity <= 0 {
		return models.Product{}, ErrInvalidQuantity
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfName(name)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	if r.products[i].Quantity < quantity {
		return r.products[i], ErrInsufficientStock
	}
	r.products[i].Quantity -= quantity
	return r.products[i], nil
}

func (r *InMemoryProductRepository) Import(_ context.Context, patches []ProductPatch) ([]error, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rowErrs := make([]error, len(patches))
	for n, patch := range patches {
		i := r.indexOfName(patch.Name)
		if i < 0 {
			_, rowErrs[n] = r.create(patch.NewProduct())
			continue
		}
		if !patch.Empty() {
			_, rowErrs[n] = r.update(patch.Apply(r.products[i]))
		}
	}
	return rowErrs, nil
}

func (r *InMemoryProductRepository) indexOf(id int) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *InMemoryProductRepository) indexOfName(name string) int {
	for i, p := range r.products {
		if p.Name == name {
			return i
		}
	}
	return -1
}
